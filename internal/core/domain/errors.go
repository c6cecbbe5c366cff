package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("domain: not found")

	// ErrEmptyCatalog is returned when selection runs against a catalog with no tracks.
	ErrEmptyCatalog = errors.New("domain: empty catalog")

	// ErrInvalidInterval marks an interval with a non-positive tempo or duration,
	// or an energy target outside [0,1].
	ErrInvalidInterval = errors.New("domain: invalid interval")

	// ErrExhausted marks a greedy interval left unfilled because every track was already used.
	ErrExhausted = errors.New("domain: catalog exhausted")

	// ErrUnbuildableGraph marks a candidate layer with no tracks.
	ErrUnbuildableGraph = errors.New("domain: unbuildable candidate graph")

	ErrInvalidTopN   = errors.New("domain: top_n must be positive")
	ErrInvalidMethod = errors.New("domain: unknown selection method")
)

// IntervalError ties a failure to the interval that caused it.
// Index is zero-based; messages report the 1-based interval number.
type IntervalError struct {
	Index int
	Kind  error
	Cause error
}

func (e *IntervalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: interval %d: %v", e.Kind, e.Index+1, e.Cause)
	}
	return fmt.Sprintf("%v: interval %d", e.Kind, e.Index+1)
}

func (e *IntervalError) Is(target error) bool {
	return target == e.Kind
}

func (e *IntervalError) Unwrap() error {
	return e.Cause
}
