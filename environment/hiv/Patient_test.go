package hiv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/hivdqn/environment"
)

func TestStepBeforeReset(t *testing.T) {
	p := New(Config{})
	_, err := p.Step(0)
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	p := New(Config{})
	step, err := p.Reset()
	require.NoError(t, err)
	require.True(t, step.First())
	require.Equal(t, UnhealthyState, step.Observation.RawVector().Data)
	require.Equal(t, DefaultParams(), p.Params())

	n, err := environment.NumActions(p.ActionSpec())
	require.NoError(t, err)
	require.Equal(t, NumActions, n)

	_, err = p.Step(NumActions)
	require.Error(t, err)
	_, err = p.Step(-1)
	require.Error(t, err)
}

func TestStepDeterministic(t *testing.T) {
	a, b := New(Config{Clip: true}), New(Config{Clip: true})
	_, err := a.Reset()
	require.NoError(t, err)
	_, err = b.Reset()
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		stepA, err := a.Step(i)
		require.NoError(t, err)
		stepB, err := b.Step(i)
		require.NoError(t, err)

		require.True(t, stepA.Mid())
		require.Equal(t, i+1, stepA.Number)
		require.Equal(t, stepA.Reward, stepB.Reward)
		require.Equal(t, stepA.Observation.RawVector().Data,
			stepB.Observation.RawVector().Data)
		require.Equal(t, reward(stepA.Observation, Treatments[i]),
			stepA.Reward)

		for j, bound := range UpperBounds {
			require.GreaterOrEqual(t, stepA.Observation.AtVec(j), 0.0)
			require.LessOrEqual(t, stepA.Observation.AtVec(j), bound)
		}
	}
}

func TestTreatment(t *testing.T) {
	untreated, treated := New(Config{}), New(Config{})
	_, err := untreated.Reset()
	require.NoError(t, err)
	_, err = treated.Reset()
	require.NoError(t, err)

	noDrugs, err := untreated.Step(0)
	require.NoError(t, err)
	drugs, err := treated.Step(3)
	require.NoError(t, err)

	require.Less(t, drugs.Observation.AtVec(V), noDrugs.Observation.AtVec(V))

	// The drug cost is charged in the reward
	cost := R1*0.7*0.7 + R2*0.3*0.3
	require.InDelta(t, reward(drugs.Observation, Drugs{})-cost,
		drugs.Reward, 1e-6)
}

func TestLogScale(t *testing.T) {
	linear, logScale := New(Config{}), New(Config{LogScale: true})
	_, err := linear.Reset()
	require.NoError(t, err)
	first, err := logScale.Reset()
	require.NoError(t, err)
	require.InDelta(t, math.Log10(UnhealthyState[V]),
		first.Observation.AtVec(V), 1e-12)

	stepLinear, err := linear.Step(1)
	require.NoError(t, err)
	stepLog, err := logScale.Step(1)
	require.NoError(t, err)

	require.Equal(t, stepLinear.Reward, stepLog.Reward)
	for i := 0; i < ObservationDims; i++ {
		require.InDelta(t, math.Log10(stepLinear.Observation.AtVec(i)),
			stepLog.Observation.AtVec(i), 1e-9)
	}
	require.InDelta(t, math.Log10(UpperBounds[T1]),
		logScale.ObservationSpec().UpperBound.AtVec(T1), 1e-12)
}

func TestDomainRandomization(t *testing.T) {
	p := New(Config{DomainRandomization: true, Seed: 3})
	nominal := DefaultParams()

	seen := make(map[float64]bool)
	for i := 0; i < 5; i++ {
		_, err := p.Reset()
		require.NoError(t, err)
		params := p.Params()

		require.GreaterOrEqual(t, params.K1, K1Bounds.Min)
		require.LessOrEqual(t, params.K1, K1Bounds.Max)
		require.GreaterOrEqual(t, params.K2, K2Bounds.Min)
		require.LessOrEqual(t, params.K2, K2Bounds.Max)
		require.GreaterOrEqual(t, params.F, FBounds.Min)
		require.LessOrEqual(t, params.F, FBounds.Max)

		// Only K1, K2, and F are randomized
		params.K1, params.K2, params.F = nominal.K1, nominal.K2, nominal.F
		require.Equal(t, nominal, params)

		seen[p.Params().K1] = true
	}
	require.Len(t, seen, 5)

	// Equal seeds give equal populations
	a := New(Config{DomainRandomization: true, Seed: 3})
	_, err := a.Reset()
	require.NoError(t, err)
	b := New(Config{DomainRandomization: true, Seed: 3})
	_, err = b.Reset()
	require.NoError(t, err)
	require.Equal(t, a.Params(), b.Params())
}

func BenchmarkStep(b *testing.B) {
	p := New(Config{Clip: true})
	if _, err := p.Reset(); err != nil {
		b.Fatal(err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := p.Step(i % NumActions); err != nil {
			b.Fatal(err)
		}
	}
}
