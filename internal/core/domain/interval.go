package domain

import (
	"github.com/go-playground/validator/v10"
)

var intervalValidate = validator.New()

// Interval is one segment of a workout profile.
type Interval struct {
	BPMTarget       int      `json:"bpm" validate:"gt=0"`
	DurationMinutes int      `json:"duration" validate:"gt=0"`
	EnergyTarget    *float64 `json:"energy,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// NewInterval builds an interval without an energy target.
func NewInterval(bpm, durationMinutes int) Interval {
	return Interval{BPMTarget: bpm, DurationMinutes: durationMinutes}
}

// WithEnergy returns a copy of the interval targeting the given energy.
func (iv Interval) WithEnergy(energy float64) Interval {
	iv.EnergyTarget = &energy
	return iv
}

// Validate rejects non-positive tempo or duration and energy targets outside [0,1].
func (iv Interval) Validate() error {
	if err := intervalValidate.Struct(iv); err != nil {
		return err
	}
	return nil
}

// ValidateIntervals checks every interval and reports the first offending index.
func ValidateIntervals(intervals []Interval) error {
	for i, iv := range intervals {
		if err := iv.Validate(); err != nil {
			return &IntervalError{Index: i, Kind: ErrInvalidInterval, Cause: err}
		}
	}
	return nil
}
