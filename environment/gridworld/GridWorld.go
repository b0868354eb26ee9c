// Package gridworld implements 2D gridworld environments
package gridworld

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/timestep"
)

// Actions available in a GridWorld
const (
	Left = iota
	Right
	Up
	Down
)

// GridWorld represents a deterministic gridworld environment
//
// A gridworld is represented as a flattened matrix, but in this
// implementation only the matrix dimensions and current agent position
// are tracked. Observations are one-hot encodings of the agent's
// position.
type GridWorld struct {
	*Goal
	r, c        int
	start       int
	position    int // current position
	currentStep timestep.TimeStep
}

// New creates a new gridworld with starting position (x, y), r rows,
// c columns, and task t
func New(x, y, r, c int, t *Goal) (*GridWorld, error) {
	if r < 1 || c < 1 {
		return nil, fmt.Errorf("new: rows (%d) and columns (%d) must be "+
			"positive", r, c)
	}
	if x < 0 || x >= c || y < 0 || y >= r {
		return nil, fmt.Errorf("new: start (%d, %d) out of bounds (%d, %d)",
			x, y, c, r)
	}
	if t.r != r || t.c != c {
		return nil, fmt.Errorf("new: task is defined on a (%d, %d) grid, "+
			"have (%d, %d)", t.r, t.c, r, c)
	}

	return &GridWorld{
		Goal:  t,
		r:     r,
		c:     c,
		start: cToInd(x, y, c),
	}, nil
}

// Dims gets the rows and columns of the GridWorld
func (g *GridWorld) Dims() (r, c int) {
	return g.r, g.c
}

// Reset resets the agent to its starting position
func (g *GridWorld) Reset() (timestep.TimeStep, error) {
	g.position = g.start
	g.currentStep = timestep.New(timestep.First, 0, g.observation(), 0)
	return g.currentStep, nil
}

// Step moves the agent one cell in the direction given by action.
// Moves off the grid leave the agent in place.
func (g *GridWorld) Step(action int) (timestep.TimeStep, error) {
	if action < Left || action > Down {
		return timestep.TimeStep{}, fmt.Errorf("step: invalid action %d",
			action)
	}
	if g.currentStep.Last() {
		return timestep.TimeStep{}, fmt.Errorf("step: episode has ended, " +
			"call Reset")
	}

	x, y := g.Coordinates()
	switch action {
	case Left:
		if x > 0 {
			x--
		}
	case Right:
		if x < g.c-1 {
			x++
		}
	case Up:
		if y < g.r-1 {
			y++
		}
	case Down:
		if y > 0 {
			y--
		}
	}
	g.position = cToInd(x, y, g.c)

	stepType := timestep.Mid
	if g.AtGoal(x, y) {
		stepType = timestep.Last
	}

	number := g.currentStep.Number + 1
	g.currentStep = timestep.New(stepType, g.Reward(x, y), g.observation(),
		number)
	return g.currentStep, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GridWorld) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(g.r*g.c, nil)
	lowerBound := mat.NewVecDense(g.r*g.c, nil)
	upperBound := mat.NewVecDense(g.r*g.c, nil)
	for i := 0; i < g.r*g.c; i++ {
		upperBound.SetVec(i, 1.0)
	}

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// ActionSpec returns the action specification of the environment
func (g *GridWorld) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(4)
}

// Coordinates returns the (x, y) coordinates of the agent
func (g *GridWorld) Coordinates() (int, int) {
	y := g.position / g.c
	x := g.position - (y * g.c)
	return x, y
}

func (g *GridWorld) String() string {
	x, y := g.Coordinates()
	str := "GridWorld | At: (%d, %d)  |   Goal: %v  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, x, y, g.Goal, g.r, g.c)
}

func (g *GridWorld) observation() *mat.VecDense {
	position := mat.NewVecDense(g.r*g.c, nil)
	position.SetVec(g.position, 1.0)
	return position
}

func cToInd(x, y, c int) int {
	return y*c + x
}
