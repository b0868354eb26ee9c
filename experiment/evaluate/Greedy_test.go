package evaluate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/environment/gridworld"
	"github.com/samuelfneumann/hivdqn/environment/wrappers"
)

// constant always selects the same action
type constant int

func (c constant) Act(mat.Vector) int {
	return int(c)
}

func newEnv() (environment.Environment, error) {
	goal, err := gridworld.NewGoal([]int{3}, []int{0}, 1, 4, -1, 10)
	if err != nil {
		return nil, err
	}
	g, err := gridworld.New(0, 0, 1, 4, goal)
	if err != nil {
		return nil, err
	}
	return wrappers.NewTimeLimit(g, 5)
}

func TestGreedy(t *testing.T) {
	eval := Greedy{NewEnv: newEnv, Episodes: 3}

	// Reaches the goal in three steps
	score, err := eval.Evaluate(constant(gridworld.Right))
	require.NoError(t, err)
	require.Equal(t, 8.0, score)

	// Truncated after five steps
	score, err = eval.Evaluate(constant(gridworld.Left))
	require.NoError(t, err)
	require.Equal(t, -5.0, score)

	created := 0
	eval = Greedy{NewEnv: func() (environment.Environment, error) {
		created++
		return newEnv()
	}}
	_, err = eval.Evaluate(constant(gridworld.Right))
	require.NoError(t, err)
	require.Equal(t, 1, created)
}
