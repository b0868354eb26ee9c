package environment

import "github.com/samuelfneumann/hivdqn/timestep"

// StepLimit implements the Ender interface to end episodes at specific
// timestep limits
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode temrination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last. An episode which was already at its last
// step is left as is, otherwise it is marked as truncated.
func (s StepLimit) End(t *timestep.TimeStep) bool {
	if t.Last() {
		return true
	}
	if t.Number >= s.episodeSteps {
		t.StepType = timestep.Last
		t.Truncated = true
		return true
	}
	return false
}

// Steps returns the number of steps after which episodes are ended
func (s StepLimit) Steps() int {
	return s.episodeSteps
}
