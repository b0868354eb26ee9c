// Package wrappers implements wrappers around environments
package wrappers

import (
	"fmt"

	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/timestep"
)

// TimeLimit wraps an environment and ends episodes after a fixed number
// of steps. Episodes ended this way are marked as truncated. TimeLimit
// itself implements the environment.Environment interface.
type TimeLimit struct {
	environment.Environment
	ender environment.StepLimit
}

// NewTimeLimit returns a new TimeLimit which ends episodes of env after
// steps steps.
func NewTimeLimit(env environment.Environment, steps int) (*TimeLimit,
	error) {
	if steps < 1 {
		return nil, fmt.Errorf("newTimeLimit: step limit must be positive "+
			"\n\twant(>0)\n\thave(%v)", steps)
	}
	return &TimeLimit{
		Environment: env,
		ender:       environment.NewStepLimit(steps),
	}, nil
}

// Step takes a single environmental step and ends the episode if the
// step limit is reached.
func (t *TimeLimit) Step(action int) (timestep.TimeStep, error) {
	step, err := t.Environment.Step(action)
	if err != nil {
		return step, err
	}
	t.ender.End(&step)
	return step, nil
}

// MaxEpisodeSteps returns the step limit
func (t *TimeLimit) MaxEpisodeSteps() int {
	return t.ender.Steps()
}
