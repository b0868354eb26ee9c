package dqn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hivdqn/environment/gridworld"
	"github.com/samuelfneumann/hivdqn/network"
	ts "github.com/samuelfneumann/hivdqn/timestep"
)

func newTestEnv(t testing.TB) *gridworld.GridWorld {
	t.Helper()
	goal, err := gridworld.NewGoal([]int{2}, []int{0}, 1, 3, -1, 10)
	require.NoError(t, err)
	env, err := gridworld.New(0, 0, 1, 3, goal)
	require.NoError(t, err)
	return env
}

func newTestConfig(seed uint64) Config {
	c := DefaultConfig()
	c.Hidden = []int{8}
	c.Activations = []*network.Activation{network.ReLU()}
	c.BufferSize = 100
	c.BatchSize = 4
	c.GradientSteps = 1
	c.UpdateTargetFreq = 5
	c.Seed = seed
	return c
}

func newTestDQN(t testing.TB, c Config) *DQN {
	t.Helper()
	agent, err := New(newTestEnv(t), c)
	require.NoError(t, err)
	t.Cleanup(func() { agent.Close() })
	return agent
}

// transition returns a transition between one-hot states of the 3-cell
// test gridworld
func transition(i int) ts.Transition {
	state := make([]float64, 3)
	state[i%3] = 1
	next := make([]float64, 3)
	next[(i+1)%3] = 1
	return ts.Transition{
		State:     state,
		Action:    i % 4,
		Reward:    float64(i%3) - 1,
		NextState: next,
		Done:      (i+1)%3 == 2,
	}
}

func paramsEqual(t *testing.T, want, have []network.Param) {
	t.Helper()
	require.Len(t, have, len(want))
	for i := range want {
		require.Equal(t, want[i].Name, have[i].Name)
		require.Equal(t, want[i].Data, have[i].Data)
	}
}

func TestEpsilonSchedule(t *testing.T) {
	e := DefaultConfig().Schedule()
	require.NoError(t, e.Validate())

	for step := 0; step <= e.Delay; step++ {
		require.Equal(t, e.Max, e.At(step))
		require.True(t, e.Exploring(step))
	}

	prev := e.At(e.Delay)
	for step := e.Delay + 1; step < e.Delay+2*e.DecayPeriod; step += 97 {
		eps := e.At(step)
		require.Less(t, eps, e.Max)
		require.LessOrEqual(t, eps, prev)
		require.GreaterOrEqual(t, eps, e.Min)
		prev = eps
	}

	require.InDelta(t, (e.Max+e.Min)/2, e.At(e.Delay+e.DecayPeriod/2), 1e-12)
	require.Equal(t, e.Min, e.At(e.Delay+e.DecayPeriod))
	require.Equal(t, e.Min, e.At(1<<40))
	require.False(t, e.Exploring(e.Delay+e.DecayPeriod))

	require.Error(t, EpsilonSchedule{Max: 0.1, Min: 0.5, DecayPeriod: 1}.
		Validate())
	require.Error(t, EpsilonSchedule{Max: 1, Min: 0, DecayPeriod: 0}.
		Validate())
}

func TestCheckpointRule(t *testing.T) {
	// Below the threshold, any population improvement is accepted
	rule := NewCheckpointRule(DefaultThreshold)
	require.True(t, rule.Accept(1e10, 5))
	require.True(t, rule.Accept(1.5e10, 1))
	pop, score := rule.Best()
	require.Equal(t, 1.5e10, pop)
	require.Equal(t, 1.0, score)
	require.False(t, rule.Accept(1.5e10, 100))
	require.False(t, rule.Accept(1e9, 100))

	// Above the threshold, the single score must improve as well
	rule = NewCheckpointRule(DefaultThreshold)
	require.True(t, rule.Accept(3e10, 10))
	require.False(t, rule.Accept(3.5e10, 5))
	pop, score = rule.Best()
	require.Equal(t, 3e10, pop)
	require.Equal(t, 10.0, score)
	require.True(t, rule.Accept(3.5e10, 11))

	// At exactly the threshold, nothing is accepted
	rule = NewCheckpointRule(DefaultThreshold)
	require.True(t, rule.Accept(2e10, 1))
	require.False(t, rule.Accept(2.5e10, 100))

	// The threshold is configurable
	rule = NewCheckpointRule(10)
	require.True(t, rule.Accept(20, 1))
	require.False(t, rule.Accept(30, 0))
}

func TestNewInvalid(t *testing.T) {
	c := newTestConfig(1)
	c.Hidden = []int{4, 4}
	c.Activations = []*network.Activation{network.ReLU()}
	_, err := New(newTestEnv(t), c)
	require.Error(t, err)

	c = newTestConfig(1)
	c.Gamma = 2
	_, err = New(newTestEnv(t), c)
	require.Error(t, err)

	c = newTestConfig(1)
	c.Loss = "L3"
	_, err = New(newTestEnv(t), c)
	require.Error(t, err)
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	require.Equal(t, 0.001, c.LearningRate)
	require.Equal(t, 0.95, c.Gamma)
	require.Equal(t, 100000, c.BufferSize)
	require.Equal(t, 200, c.BatchSize)
	require.Equal(t, 5, c.GradientSteps)
	require.Equal(t, 900, c.UpdateTargetFreq)
	require.Equal(t, []int{256, 256, 128, 256, 256}, c.Hidden)
	require.Equal(t, SmoothL1, c.Loss)
	require.Equal(t, 0.001, c.Solver.LearningRate)
}

func TestGradientStepUnderfilled(t *testing.T) {
	agent := newTestDQN(t, newTestConfig(1))
	before := agent.Params()

	for i := 0; i < agent.Config().BatchSize; i++ {
		require.NoError(t, agent.Observe(transition(i)))
	}
	stepped, err := agent.GradientStep()
	require.NoError(t, err)
	require.False(t, stepped)
	require.NoError(t, agent.Step())
	paramsEqual(t, before, agent.Params())
	require.Equal(t, 0, agent.GradientSteps())

	require.NoError(t, agent.Observe(transition(agent.Config().BatchSize)))
	stepped, err = agent.GradientStep()
	require.NoError(t, err)
	require.True(t, stepped)
	require.Equal(t, 1, agent.GradientSteps())
	require.Greater(t, agent.Loss(), 0.0)
	require.NotEqual(t, before[0].Data, agent.Params()[0].Data)

	require.Error(t, agent.Observe(ts.Transition{
		State:     []float64{1, 0, 0},
		Action:    4,
		NextState: []float64{0, 1, 0},
	}))
}

func TestSyncTarget(t *testing.T) {
	for _, loss := range []Loss{SmoothL1, MSE} {
		c := newTestConfig(2)
		c.Loss = loss
		agent := newTestDQN(t, c)
		paramsEqual(t, agent.Params(), agent.TargetParams())

		for i := 0; i < 20; i++ {
			require.NoError(t, agent.Observe(transition(i)))
			require.NoError(t, agent.Step())
		}
		require.NotEqual(t, agent.Params()[0].Data,
			agent.TargetParams()[0].Data)

		require.NoError(t, agent.SyncTarget())
		paramsEqual(t, agent.Params(), agent.TargetParams())

		// The target network keeps its weights through further learning
		synced := agent.TargetParams()
		require.NoError(t, agent.Step())
		paramsEqual(t, synced, agent.TargetParams())
	}
}

func TestSelectAction(t *testing.T) {
	agent := newTestDQN(t, newTestConfig(3))
	obs := mat.NewVecDense(3, []float64{0, 1, 0})

	greedy := agent.Act(obs)
	for i := 0; i < 10; i++ {
		require.Equal(t, greedy, agent.SelectAction(obs, 0))
	}

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		action := agent.SelectAction(obs, 1)
		require.GreaterOrEqual(t, action, 0)
		require.Less(t, action, agent.NumActions())
		seen[action] = true
	}
	require.Len(t, seen, agent.NumActions())

	require.Panics(t, func() { agent.Act(mat.NewVecDense(2, nil)) })
}

func TestActTracksLearning(t *testing.T) {
	agent := newTestDQN(t, newTestConfig(4))
	obs := mat.NewVecDense(3, []float64{1, 0, 0})
	before := agent.ActionValues(obs)

	for i := 0; i < 10; i++ {
		require.NoError(t, agent.Observe(transition(i)))
		require.NoError(t, agent.Step())
	}
	require.NotEqual(t, before, agent.ActionValues(obs))
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	c := newTestConfig(5)
	c.Root = dir
	agent := newTestDQN(t, c)

	for i := 0; i < 10; i++ {
		require.NoError(t, agent.Observe(transition(i)))
		require.NoError(t, agent.Step())
	}
	agent.SnapshotBest()
	best := agent.BestParams()

	// Further learning does not change the saved weights
	for i := 10; i < 20; i++ {
		require.NoError(t, agent.Observe(transition(i)))
		require.NoError(t, agent.Step())
	}
	require.NoError(t, agent.Save(DefaultCheckpointFile))
	_, err := os.Stat(filepath.Join(dir, DefaultCheckpointFile))
	require.NoError(t, err)

	c.Seed = 99
	loaded := newTestDQN(t, c)
	require.NoError(t, loaded.Load(""))
	paramsEqual(t, best, loaded.Params())
	paramsEqual(t, best, loaded.TargetParams())

	require.NoError(t, agent.Load(DefaultCheckpointFile))
	for i := 0; i < 3; i++ {
		obs := mat.NewVecDense(3, nil)
		obs.SetVec(i, 1)
		require.Equal(t, agent.ActionValues(obs), loaded.ActionValues(obs))
		require.Equal(t, agent.Act(obs), loaded.Act(obs))
	}

	require.Error(t, loaded.Load("missing.gob"))

	other := newTestConfig(5)
	other.Root = dir
	other.Hidden = []int{16}
	mismatched := newTestDQN(t, other)
	require.Error(t, mismatched.Load(DefaultCheckpointFile))
}

func TestResolve(t *testing.T) {
	require.Equal(t, "agent.gob", Resolve("", "agent.gob"))
	require.Equal(t, filepath.Join("root", "agent.gob"),
		Resolve("root", "agent.gob"))
	require.Equal(t, "/tmp/agent.gob", Resolve("root", "/tmp/agent.gob"))
}

func BenchmarkGradientStep(b *testing.B) {
	c := DefaultConfig()
	agent, err := New(newTestEnv(b), c)
	if err != nil {
		b.Fatal(err)
	}
	defer agent.Close()
	for i := 0; i <= c.BatchSize; i++ {
		if err := agent.Observe(transition(i)); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := agent.GradientStep(); err != nil {
			b.Fatal(err)
		}
	}
}
