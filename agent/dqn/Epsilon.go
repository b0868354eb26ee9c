package dqn

import (
	"fmt"
	"math"
)

// EpsilonSchedule linearly decays epsilon from Max to Min over
// DecayPeriod environmental steps, once Delay steps have elapsed.
// Epsilon stays at Min thereafter.
type EpsilonSchedule struct {
	Max         float64
	Min         float64
	DecayPeriod int
	Delay       int
}

// Validate returns an error if the schedule is not well defined
func (e EpsilonSchedule) Validate() error {
	if e.Min < 0 || e.Max > 1 || e.Min > e.Max {
		return fmt.Errorf("validate: epsilon must satisfy 0 <= min (%v) "+
			"<= max (%v) <= 1", e.Min, e.Max)
	}
	if e.DecayPeriod < 1 {
		return fmt.Errorf("validate: epsilon decay period must be "+
			"positive, have %v", e.DecayPeriod)
	}
	if e.Delay < 0 {
		return fmt.Errorf("validate: epsilon delay must be non-negative, "+
			"have %v", e.Delay)
	}
	return nil
}

// At returns epsilon at the given environmental step
func (e EpsilonSchedule) At(step int) float64 {
	if step <= e.Delay {
		return e.Max
	} else if step-e.Delay >= e.DecayPeriod {
		return e.Min
	}
	decay := float64(step-e.Delay) * (e.Max - e.Min) / float64(e.DecayPeriod)
	return math.Max(e.Min, e.Max-decay)
}

// Exploring returns whether epsilon is still above its minimum at the
// given step. Once Exploring returns false, it never returns true for
// a later step.
func (e EpsilonSchedule) Exploring(step int) bool {
	return e.At(step) > e.Min
}
