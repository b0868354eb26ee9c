package dqn

import (
	"fmt"
	"math"

	"github.com/samuelfneumann/hivdqn/initwfn"
	"github.com/samuelfneumann/hivdqn/network"
	"github.com/samuelfneumann/hivdqn/solver"
)

// Loss is a loss function applied to the TD error
type Loss string

const (
	// SmoothL1 is the Huber loss with a transition point of 1
	SmoothL1 Loss = "SmoothL1"

	// MSE is the mean squared error
	MSE Loss = "MSE"
)

// Config implements a configuration for a DQN agent
type Config struct {
	LearningRate float64
	Gamma        float64
	BufferSize   int

	// Epsilon schedule
	EpsilonMin         float64
	EpsilonMax         float64
	EpsilonDecayPeriod int // Steps taken to decay from max to min
	EpsilonDelay       int // Steps before decay begins

	BatchSize        int
	GradientSteps    int // Gradient steps per environmental step
	UpdateTargetFreq int // Environmental steps between target syncs

	Hidden      []int                 // Layer sizes in neural net
	Activations []*network.Activation // Activation of each layer
	Solver      *solver.Config        // Solver for learning weights
	InitWFn     *initwfn.InitWFn      // Initialization of weights
	Loss        Loss

	Seed uint64

	// Root is the directory that relative checkpoint paths are
	// resolved against. The current working directory is used if
	// empty.
	Root string
}

// DefaultConfig returns the default DQN configuration
func DefaultConfig() Config {
	return Config{
		LearningRate:       0.001,
		Gamma:              0.95,
		BufferSize:         100000,
		EpsilonMin:         0.01,
		EpsilonMax:         1.0,
		EpsilonDecayPeriod: 20000,
		EpsilonDelay:       100,
		BatchSize:          200,
		GradientSteps:      5,
		UpdateTargetFreq:   900,
		Loss:               SmoothL1,
	}.WithDefaults()
}

// WithDefaults returns a copy of c with default values filled in for
// each field whose zero value is never valid. Gamma, EpsilonMin,
// EpsilonMax, EpsilonDelay and Seed are used as given.
func (c Config) WithDefaults() Config {
	if c.LearningRate == 0 {
		c.LearningRate = 0.001
	}
	if c.BufferSize == 0 {
		c.BufferSize = 100000
	}
	if c.EpsilonDecayPeriod == 0 {
		c.EpsilonDecayPeriod = 20000
	}
	if c.BatchSize == 0 {
		c.BatchSize = 200
	}
	if c.GradientSteps == 0 {
		c.GradientSteps = 5
	}
	if c.UpdateTargetFreq == 0 {
		c.UpdateTargetFreq = 900
	}
	if c.Hidden == nil {
		c.Hidden = []int{256, 256, 128, 256, 256}
	}
	if c.Activations == nil {
		c.Activations = make([]*network.Activation, len(c.Hidden))
		for i := range c.Activations {
			c.Activations[i] = network.ReLU()
		}
	}
	if c.Solver == nil {
		adam := solver.NewDefaultAdam(c.LearningRate)
		c.Solver = &adam
	}
	if c.InitWFn == nil {
		// Uniform in ±1/sqrt(fanIn)
		init, err := initwfn.NewHeU(1 / math.Sqrt(6))
		if err != nil {
			panic(fmt.Sprintf("withDefaults: %v", err))
		}
		c.InitWFn = init
	}
	if c.Loss == "" {
		c.Loss = SmoothL1
	}
	return c
}

// Schedule returns the epsilon schedule described by the Config
func (c Config) Schedule() EpsilonSchedule {
	return EpsilonSchedule{
		Max:         c.EpsilonMax,
		Min:         c.EpsilonMin,
		DecayPeriod: c.EpsilonDecayPeriod,
		Delay:       c.EpsilonDelay,
	}
}

// Validate checks a Config to ensure it is a valid configuration of a
// DQN agent.
func (c Config) Validate() error {
	if c.BufferSize < 1 {
		return fmt.Errorf("validate: buffer size must be positive, have %v",
			c.BufferSize)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive, have %v",
			c.BatchSize)
	}
	if c.GradientSteps < 1 {
		return fmt.Errorf("validate: gradient steps must be positive, "+
			"have %v", c.GradientSteps)
	}
	if c.UpdateTargetFreq < 1 {
		return fmt.Errorf("validate: target networks must be updated at "+
			"positive timestep intervals \n\twant(>0) \n\thave(%v)",
			c.UpdateTargetFreq)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in [0, 1], have %v",
			c.Gamma)
	}
	if err := c.Schedule().Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}

	if len(c.Hidden) != len(c.Activations) {
		return fmt.Errorf("validate: invalid number of activations"+
			"\n\twant(%v)\n\thave(%v)", len(c.Hidden), len(c.Activations))
	}
	for i, size := range c.Hidden {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %v must have a "+
				"positive number of units, have %v", i, size)
		}
	}

	if c.Solver == nil || c.InitWFn == nil {
		return fmt.Errorf("validate: solver and weight initializer must " +
			"be set")
	}
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("validate: %v", err)
	}

	if c.Loss != SmoothL1 && c.Loss != MSE {
		return fmt.Errorf("validate: unknown loss %q", c.Loss)
	}
	return nil
}
