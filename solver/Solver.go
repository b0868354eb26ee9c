// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON serialized into configuration files.
package solver

import (
	"encoding/json"
	"fmt"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
)

// Config describes a Gorgonia Solver and can be used to create the
// Solver it describes. Fields unused by a solver Type are ignored.
type Config struct {
	Type         Type
	LearningRate float64

	// Adam only
	Beta1   float64
	Beta2   float64
	Epsilon float64 // Smoothing factor

	// Gradients are divided by Batch before each step. Losses that are
	// already averaged over the batch should use a Batch of 1.
	Batch int
	Clip  float64 // <= 0 if no clipping
}

// NewDefaultAdam returns a new Adam Config with default
// hyperparameters
func NewDefaultAdam(learningRate float64) Config {
	return Config{
		Type:         Adam,
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1e-8,
		Batch:        1,
	}
}

// NewVanilla returns a new Vanilla gradient descent Config
func NewVanilla(learningRate float64, clip float64) Config {
	return Config{
		Type:         Vanilla,
		LearningRate: learningRate,
		Batch:        1,
		Clip:         clip,
	}
}

// Validate returns an error if the Config cannot create a Solver
func (c Config) Validate() error {
	switch c.Type {
	case Adam:
		if c.Beta1 < 0 || c.Beta1 >= 1 || c.Beta2 < 0 || c.Beta2 >= 1 {
			return fmt.Errorf("validate: betas must be in [0, 1), have "+
				"(%v, %v)", c.Beta1, c.Beta2)
		}
		if c.Epsilon <= 0 {
			return fmt.Errorf("validate: epsilon must be positive")
		}
	case Vanilla:
	default:
		return fmt.Errorf("validate: unknown solver type %q", c.Type)
	}

	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive, have %v",
			c.LearningRate)
	}
	if c.Batch < 1 {
		return fmt.Errorf("validate: batch must be positive, have %v",
			c.Batch)
	}
	return nil
}

// Create returns a new Gorgonia Solver as described by the Config
func (c Config) Create() (G.Solver, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %v", err)
	}

	opts := []G.SolverOpt{
		G.WithLearnRate(c.LearningRate),
		G.WithBatchSize(float64(c.Batch)),
	}
	if c.Clip > 0 {
		opts = append(opts, G.WithClip(c.Clip))
	}

	switch c.Type {
	case Adam:
		opts = append(opts, G.WithEps(c.Epsilon), G.WithBeta1(c.Beta1),
			G.WithBeta2(c.Beta2))
		return G.NewAdamSolver(opts...), nil
	default:
		return G.NewVanillaSolver(opts...), nil
	}
}

// UnmarshalJSON implements the json.Unmarshaler interface. Missing
// fields take the default values of the solver type.
func (c *Config) UnmarshalJSON(data []byte) error {
	var header struct{ Type Type }
	if err := json.Unmarshal(data, &header); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}

	// Avoid recursing into this method
	type config Config
	var defaults config
	switch header.Type {
	case Adam:
		defaults = config(NewDefaultAdam(1e-3))
	case Vanilla:
		defaults = config(NewVanilla(1e-3, 0))
	default:
		return fmt.Errorf("unmarshalJSON: unknown solver type %q",
			header.Type)
	}

	if err := json.Unmarshal(data, &defaults); err != nil {
		return fmt.Errorf("unmarshalJSON: %v", err)
	}
	*c = Config(defaults)
	return nil
}
