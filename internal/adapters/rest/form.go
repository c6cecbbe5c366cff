package rest

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

var errNoIntervals = errors.New("at least one interval is required")

// parseFormIntervals reads bpm_i, duration_i and energy_i fields for
// i = 0, 1, ... and stops at the first index missing bpm or duration.
// Surrounding whitespace is ignored. An energy outside [0,1] is dropped
// rather than rejected.
func parseFormIntervals(form url.Values) ([]domain.Interval, error) {
	var intervals []domain.Interval
	for i := 0; ; i++ {
		bpmKey := fmt.Sprintf("bpm_%d", i)
		durationKey := fmt.Sprintf("duration_%d", i)
		if !form.Has(bpmKey) || !form.Has(durationKey) {
			break
		}

		bpm, err := strconv.Atoi(strings.TrimSpace(form.Get(bpmKey)))
		if err != nil || bpm <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", bpmKey)
		}
		duration, err := strconv.Atoi(strings.TrimSpace(form.Get(durationKey)))
		if err != nil || duration <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", durationKey)
		}

		iv := domain.NewInterval(bpm, duration)
		if raw := form.Get(fmt.Sprintf("energy_%d", i)); raw != "" {
			energy, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("energy_%d must be a number", i)
			}
			if energy >= 0 && energy <= 1 {
				iv = iv.WithEnergy(energy)
			}
		}
		intervals = append(intervals, iv)
	}

	if len(intervals) == 0 {
		return nil, errNoIntervals
	}
	return intervals, nil
}
