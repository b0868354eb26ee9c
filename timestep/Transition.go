package timestep

import (
	"fmt"
)

// Transition packages together a single (s, a, r, s', done) tuple.
// Transitions are stored by value: State and NextState are copied
// whenever a Transition is constructed with NewTransition.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// NewTransition constructs a new Transition from the TimeStep step
// at which action was taken and the resulting TimeStep nextStep. The
// transition is Done only if nextStep is terminal. Truncated steps are
// not Done, since their next states can still be bootstrapped from.
func NewTransition(step TimeStep, action int, nextStep TimeStep) Transition {
	state := make([]float64, step.Observation.Len())
	copy(state, step.Observation.RawVector().Data)

	nextState := make([]float64, nextStep.Observation.Len())
	copy(nextState, nextStep.Observation.RawVector().Data)

	return Transition{
		State:     state,
		Action:    action,
		Reward:    nextStep.Reward,
		NextState: nextState,
		Done:      nextStep.Terminal(),
	}
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | Action: %v  |  Reward: %.2f  |  "+
		"Done: %v", t.Action, t.Reward, t.Done)
}
