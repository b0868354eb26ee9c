package initwfn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// GlorotUConfig configures Glorot uniform initialization, which samples
// weights from [-l, l] with l = Gain * sqrt(6 / (fanIn + fanOut)).
type GlorotUConfig struct {
	Gain float64
}

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newGlorotU: gain must be positive "+
			"\n\twant(>0)\n\thave(%v)", gain)
	}
	return newInitWFn(GlorotUConfig{Gain: gain})
}

// Type returns GlorotU
func (g GlorotUConfig) Type() Type {
	return GlorotU
}

// Create returns the Glorot uniform Gorgonia InitWFn sampling from src
func (g GlorotUConfig) Create(src rand.Source) G.InitWFn {
	return uniform(src, func(fanIn, fanOut float64) float64 {
		return g.Gain * math.Sqrt(6.0/(fanIn+fanOut))
	})
}

// HeUConfig configures He uniform initialization, which samples weights
// from [-l, l] with l = Gain * sqrt(6 / fanIn). With a gain of
// 1/sqrt(6), weights are sampled from [-1/sqrt(fanIn), 1/sqrt(fanIn)].
type HeUConfig struct {
	Gain float64
}

// NewHeU returns a new He uniform weight initializer
func NewHeU(gain float64) (*InitWFn, error) {
	if gain <= 0 {
		return nil, fmt.Errorf("newHeU: gain must be positive "+
			"\n\twant(>0)\n\thave(%v)", gain)
	}
	return newInitWFn(HeUConfig{Gain: gain})
}

// Type returns HeU
func (h HeUConfig) Type() Type {
	return HeU
}

// Create returns the He uniform Gorgonia InitWFn sampling from src
func (h HeUConfig) Create(src rand.Source) G.InitWFn {
	return uniform(src, func(fanIn, _ float64) float64 {
		return h.Gain * math.Sqrt(6.0/fanIn)
	})
}

// fans returns the fan in and fan out of a weight tensor with shape s
func fans(s ...int) (float64, float64) {
	switch len(s) {
	case 0:
		return 1, 1
	case 1:
		return float64(s[0]), float64(s[0])
	default:
		receptive := 1
		for _, dim := range s[2:] {
			receptive *= dim
		}
		return float64(s[0] * receptive), float64(s[1] * receptive)
	}
}

// uniform returns an InitWFn which samples weights uniformly from
// [-limit(fanIn, fanOut), limit(fanIn, fanOut)]
func uniform(src rand.Source, limit func(fanIn,
	fanOut float64) float64) G.InitWFn {
	return func(dt tensor.Dtype, s ...int) interface{} {
		l := limit(fans(s...))
		dist := distuv.Uniform{Min: -l, Max: l, Src: src}
		size := tensor.Shape(s).TotalSize()

		switch dt {
		case tensor.Float64:
			weights := make([]float64, size)
			for i := range weights {
				weights[i] = dist.Rand()
			}
			return weights

		case tensor.Float32:
			weights := make([]float32, size)
			for i := range weights {
				weights[i] = float32(dist.Rand())
			}
			return weights

		default:
			panic(fmt.Sprintf("uniform: dtype %v not supported", dt))
		}
	}
}
