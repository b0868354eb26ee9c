// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hivdqn/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes should end. If End returns true, then
// the argument TimeStep will have been modified to be the last step in
// the episode.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated environment with discrete actions.
// Actions are enumerated as 0, 1, ..., NumActions(ActionSpec())-1.
type Environment interface {
	// Reset resets between episodes and returns the first TimeStep of
	// the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes a single environmental step given some action
	Step(action int) (timestep.TimeStep, error)

	ObservationSpec() Spec
	ActionSpec() Spec
}
