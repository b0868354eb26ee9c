package wrappers

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/hivdqn/environment/gridworld"
)

func newTestEnv(t *testing.T, limit int) *TimeLimit {
	t.Helper()
	goal, err := gridworld.NewGoal([]int{2}, []int{0}, 1, 3, -1, 10)
	require.NoError(t, err)
	g, err := gridworld.New(0, 0, 1, 3, goal)
	require.NoError(t, err)
	env, err := NewTimeLimit(g, limit)
	require.NoError(t, err)
	return env
}

func TestTimeLimit(t *testing.T) {
	env := newTestEnv(t, 2)
	require.Equal(t, 2, env.MaxEpisodeSteps())

	_, err := env.Reset()
	require.NoError(t, err)
	step, err := env.Step(gridworld.Left)
	require.NoError(t, err)
	require.True(t, step.Mid())

	step, err = env.Step(gridworld.Left)
	require.NoError(t, err)
	require.True(t, step.Last())
	require.True(t, step.Truncated)
	require.False(t, step.Terminal())

	// The limit applies again after a reset
	_, err = env.Reset()
	require.NoError(t, err)
	step, err = env.Step(gridworld.Right)
	require.NoError(t, err)
	require.True(t, step.Mid())
}

func TestTimeLimitTerminal(t *testing.T) {
	// Reaching the goal on the last allowed step is not a truncation
	env := newTestEnv(t, 2)
	_, err := env.Reset()
	require.NoError(t, err)
	_, err = env.Step(gridworld.Right)
	require.NoError(t, err)
	step, err := env.Step(gridworld.Right)
	require.NoError(t, err)
	require.True(t, step.Last())
	require.False(t, step.Truncated)
	require.True(t, step.Terminal())

	_, err = NewTimeLimit(env, 0)
	require.Error(t, err)
}
