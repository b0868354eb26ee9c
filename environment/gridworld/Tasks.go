package gridworld

import (
	"fmt"
)

// Goal represents the task of reaching goal states in a GridWorld
type Goal struct {
	goals          map[int]bool // flattened goal positions
	r, c           int          // total rows and columns in environment
	timeStepReward float64
	goalReward     float64
}

// NewGoal creates and returns a new goal at positions (x[i], y[i]),
// given that the gridworld has r rows and c columns. Entering a goal
// position yields reward gr and ends the episode, every other step
// yields reward tr.
func NewGoal(x, y []int, r, c int, tr, gr float64) (*Goal, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("newGoal: x length (%d) != y length (%d)",
			len(x), len(y))
	}

	goals := make(map[int]bool, len(x))
	for i := range x {
		// Ensure that the goal is within the proper bounds
		if x[i] < 0 || x[i] >= c {
			return nil, fmt.Errorf("newGoal: x[%d] = %d out of bounds for "+
				"%d cols", i, x[i], c)
		} else if y[i] < 0 || y[i] >= r {
			return nil, fmt.Errorf("newGoal: y[%d] = %d out of bounds for "+
				"%d rows", i, y[i], r)
		}
		goals[cToInd(x[i], y[i], c)] = true
	}

	return &Goal{goals, r, c, tr, gr}, nil
}

// Reward returns the reward for entering position (x, y)
func (g *Goal) Reward(x, y int) float64 {
	if g.AtGoal(x, y) {
		return g.goalReward
	}
	return g.timeStepReward
}

// AtGoal returns whether position (x, y) is a goal position
func (g *Goal) AtGoal(x, y int) bool {
	return g.goals[cToInd(x, y, g.c)]
}

// String returns the Goal as a string
func (g *Goal) String() string {
	positions := make([]string, 0, len(g.goals))
	for i := 0; i < g.r*g.c; i++ {
		if g.goals[i] {
			positions = append(positions, fmt.Sprintf("(%d, %d)", i%g.c,
				i/g.c))
		}
	}
	return fmt.Sprint(positions)
}
