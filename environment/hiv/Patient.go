// Package hiv implements a simulated HIV patient under a structured
// treatment interruption regime.
//
// The patient state consists of six variables: healthy and infected
// type 1 cells (T1, T1*), healthy and infected type 2 cells (T2, T2*),
// free virus particles (V), and immune response effector cells (E).
// Every five days the controller chooses which of two drugs to
// prescribe, resulting in four discrete actions. The reward trades off
// viral load and drug cost against the immune response:
//
//		r = -(Q * V + R1 * ε1² + R2 * ε2² - S * E)
//
// where ε1 and ε2 are the efficacies of the prescribed drugs.
//
// Episodes never terminate on their own. The Patient should be wrapped
// in a wrappers.TimeLimit to end episodes.
package hiv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/hivdqn/environment"
	ts "github.com/samuelfneumann/hivdqn/timestep"
	"github.com/samuelfneumann/hivdqn/utils/floatutils"
)

// Config describes a configuration of a Patient
type Config struct {
	// DomainRandomization determines whether K1, K2, and F are
	// resampled on each Reset, so that each episode is run on a
	// different patient of the population.
	DomainRandomization bool

	// LogScale determines whether observations are returned as the
	// log10 of the patient state.
	LogScale bool

	// Clip determines whether state variables are clipped to
	// [0, UpperBounds] after every step.
	Clip bool

	Seed uint64
}

// Patient implements a simulated HIV patient environment
type Patient struct {
	environment.Starter
	config Config
	params Params

	// population samples K1, K2, and F for domain randomization
	population environment.Starter

	state    *mat.VecDense
	lastStep ts.TimeStep
}

// New returns a new Patient starting in the unhealthy steady state
func New(c Config) *Patient {
	var population environment.Starter
	if c.DomainRandomization {
		population = environment.NewUniformStarter(
			[]r1.Interval{K1Bounds, K2Bounds, FBounds},
			c.Seed,
		)
	}

	return &Patient{
		Starter:    environment.NewFixedStarter(UnhealthyState),
		config:     c,
		params:     DefaultParams(),
		population: population,
	}
}

// Params returns the physiological parameters of the current patient
func (p *Patient) Params() Params {
	return p.params
}

// Reset resets the environment, samples a new patient if using domain
// randomization, and returns the first timestep of the new episode
func (p *Patient) Reset() (ts.TimeStep, error) {
	if p.population != nil {
		sample := p.population.Start()
		p.params.K1 = sample.AtVec(0)
		p.params.K2 = sample.AtVec(1)
		p.params.F = sample.AtVec(2)
	}

	p.state = p.Start()
	p.lastStep = ts.New(ts.First, 0, p.observe(p.state), 0)

	return p.lastStep, nil
}

// Step takes a single environmental step, simulating the patient for
// Duration days under the treatment indexed by action
func (p *Patient) Step(action int) (ts.TimeStep, error) {
	if p.state == nil {
		return ts.TimeStep{}, fmt.Errorf("step: environment must be reset " +
			"before stepping")
	}
	if action < 0 || action >= NumActions {
		return ts.TimeStep{}, fmt.Errorf("step: illegal action %v "+
			"\n\twant(0 <= action < %v)", action, NumActions)
	}

	drugs := Treatments[action]
	next := integrate(p.state, p.params, drugs, Duration, Dt)

	if p.config.Clip {
		for i := 0; i < next.Len(); i++ {
			next.SetVec(i, floatutils.Clip(next.AtVec(i), 0, UpperBounds[i]))
		}
	}

	r := reward(next, drugs)
	p.state = next
	p.lastStep = ts.New(ts.Mid, r, p.observe(next), p.lastStep.Number+1)

	return p.lastStep, nil
}

// observe returns the observation of state
func (p *Patient) observe(state *mat.VecDense) *mat.VecDense {
	obs := mat.VecDenseCopyOf(state)
	if p.config.LogScale {
		for i := 0; i < obs.Len(); i++ {
			obs.SetVec(i, math.Log10(obs.AtVec(i)))
		}
	}
	return obs
}

// CurrentTimeStep returns the current timestep of the environment
func (p *Patient) CurrentTimeStep() ts.TimeStep {
	return p.lastStep
}

// ObservationSpec returns the observation specification of the
// environment
func (p *Patient) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)
	lowerBound := mat.NewVecDense(ObservationDims, nil)
	upperBound := mat.NewVecDense(ObservationDims, nil)
	for i, bound := range UpperBounds {
		if p.config.LogScale {
			lowerBound.SetVec(i, math.Inf(-1))
			upperBound.SetVec(i, math.Log10(bound))
		} else {
			upperBound.SetVec(i, bound)
		}
	}

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (p *Patient) ActionSpec() environment.Spec {
	return environment.NewDiscreteActionSpec(NumActions)
}

// String implements the fmt.Stringer interface
func (p *Patient) String() string {
	if p.state == nil {
		return "Patient  |  not reset"
	}
	s := p.state
	return fmt.Sprintf("Patient  |  T1: %.3e  |  T1*: %.3e  |  T2: %.3e  |  "+
		"T2*: %.3e  |  V: %.3e  |  E: %.3e", s.AtVec(T1), s.AtVec(T1Star),
		s.AtVec(T2), s.AtVec(T2Star), s.AtVec(V), s.AtVec(E))
}
