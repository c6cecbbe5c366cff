package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/pacer/internal/core/domain"
)

// parseIntervalSpec reads "bpm:duration" or "bpm:duration:energy".
func parseIntervalSpec(spec string) (domain.Interval, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.Interval{}, fmt.Errorf("interval %q: want bpm:duration[:energy]", spec)
	}

	bpm, err := strconv.Atoi(parts[0])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("interval %q: bpm: %w", spec, err)
	}
	duration, err := strconv.Atoi(parts[1])
	if err != nil {
		return domain.Interval{}, fmt.Errorf("interval %q: duration: %w", spec, err)
	}
	iv := domain.NewInterval(bpm, duration)

	if len(parts) == 3 && parts[2] != "" {
		energy, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return domain.Interval{}, fmt.Errorf("interval %q: energy: %w", spec, err)
		}
		iv = iv.WithEnergy(energy)
	}

	if err := iv.Validate(); err != nil {
		return domain.Interval{}, fmt.Errorf("interval %q: %w: %v", spec, domain.ErrInvalidInterval, err)
	}
	return iv, nil
}

func parseIntervalSpecs(specs []string) ([]domain.Interval, error) {
	out := make([]domain.Interval, 0, len(specs))
	for _, s := range specs {
		iv, err := parseIntervalSpec(s)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}
