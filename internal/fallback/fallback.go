// Package fallback evaluates ordered strategies until one yields acceptable
// data. It backs both the lines refresh with stale fallback and the stops
// endpoint probe.
package fallback

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoneAccepted is returned when every strategy failed or was rejected.
var ErrNoneAccepted = errors.New("fallback: no strategy produced acceptable data")

// ErrRejected marks an attempt whose result parsed but failed the acceptance predicate.
var ErrRejected = errors.New("fallback: result rejected")

// Strategy is one way of obtaining a value.
type Strategy[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
	// Local strategies do no I/O and still run once ctx is done, so a cache
	// read can rescue a call whose network attempt was cut short.
	Local bool
}

// Attempt records the outcome of one strategy.
type Attempt struct {
	Name string
	Err  error
}

// Outcome describes how FirstAccepted finished.
type Outcome struct {
	// Winner is the name of the accepted strategy, empty when none was.
	Winner   string
	Attempts []Attempt
}

// Tried returns the number of strategies that were run.
func (o Outcome) Tried() int {
	return len(o.Attempts)
}

// FirstAccepted runs strategies strictly in order and returns the first
// result for which accept returns true. Later strategies are never run.
// When nothing is accepted the error wraps ErrNoneAccepted and the last
// attempt's error. Once ctx is done only Local strategies are still run.
func FirstAccepted[T any](ctx context.Context, strategies []Strategy[T], accept func(T) bool) (T, Outcome, error) {
	var zero T
	var outcome Outcome
	var lastErr error

	for _, s := range strategies {
		if err := ctx.Err(); err != nil && !s.Local {
			if lastErr == nil {
				lastErr = err
			}
			continue
		}

		value, err := s.Run(ctx)
		if err == nil && !accept(value) {
			err = ErrRejected
		}
		outcome.Attempts = append(outcome.Attempts, Attempt{Name: s.Name, Err: err})

		if err == nil {
			outcome.Winner = s.Name
			return value, outcome, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		return zero, outcome, ErrNoneAccepted
	}
	return zero, outcome, fmt.Errorf("%w: %w", ErrNoneAccepted, lastErr)
}

// NonEmpty accepts slices with at least one element.
func NonEmpty[E any](s []E) bool {
	return len(s) > 0
}
