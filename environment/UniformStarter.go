package environment

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// UniformStarter samples vectors uniformly from a hyperrectangle. Besides
// starting states, it is used to sample environment parameters for
// domain randomization.
type UniformStarter struct {
	features int
	seed     uint64
	rand     *distmv.Uniform
}

// NewUniformStarter returns a new UniformStarter that samples dimension
// i uniformly from bounds[i].
func NewUniformStarter(bounds []r1.Interval, seed uint64) UniformStarter {
	source := rand.NewSource(seed)
	rand := distmv.NewUniform(bounds, source)

	return UniformStarter{len(bounds), seed, rand}
}

// Start returns a newly sampled vector
func (u UniformStarter) Start() *mat.VecDense {
	return mat.NewVecDense(u.features, u.rand.Rand(nil))
}

// FixedStarter always starts from the same state
type FixedStarter struct {
	state []float64
}

// NewFixedStarter returns a new FixedStarter starting from state
func NewFixedStarter(state []float64) FixedStarter {
	s := make([]float64, len(state))
	copy(s, state)
	return FixedStarter{s}
}

// Start returns a copy of the fixed starting state
func (f FixedStarter) Start() *mat.VecDense {
	s := make([]float64, len(f.state))
	copy(s, f.state)
	return mat.NewVecDense(len(s), s)
}
