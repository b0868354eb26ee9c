package hiv

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Integration constants
	Duration float64 = 5.0  // Days simulated per environmental step
	Dt       float64 = 1e-3 // Days per Euler step

	// Reward weights
	Q  float64 = 0.1
	R1 float64 = 20000
	R2 float64 = 20000
	S  float64 = 1000

	ObservationDims int = 6
	NumActions      int = 4
)

// State variable indices
const (
	T1 int = iota // Healthy type 1 cells (CD4+ T-lymphocytes)
	T1Star        // Infected type 1 cells
	T2            // Healthy type 2 cells (macrophages)
	T2Star        // Infected type 2 cells
	V             // Free virus particles
	E             // HIV-specific cytotoxic cells (CD8 T-lymphocytes)
)

// Drugs denotes the efficacy of the two drugs in a treatment: a reverse
// transcriptase inhibitor (RTI) and a protease inhibitor (PI).
type Drugs struct {
	RTI float64
	PI  float64
}

// Treatments enumerates the discrete actions of the environment
var Treatments = [NumActions]Drugs{
	{RTI: 0.0, PI: 0.0},
	{RTI: 0.0, PI: 0.3},
	{RTI: 0.7, PI: 0.0},
	{RTI: 0.7, PI: 0.3},
}

var (
	// UnhealthyState is the steady state of an untreated infected patient
	UnhealthyState = []float64{163573, 11945, 5, 46, 63919, 24}

	// UpperBounds are the values that state variables are clipped to
	UpperBounds = []float64{1e6, 5e4, 3200, 80, 2.5e5, 353200}

	// Bounds for domain randomization of K1, K2, and F respectively
	K1Bounds = r1.Interval{Min: 5e-7, Max: 8e-7}
	K2Bounds = r1.Interval{Min: 0.1e-4, Max: 1.0e-4}
	FBounds  = r1.Interval{Min: 0.29, Max: 0.34}
)

// Params are the physiological parameters of a patient
type Params struct {
	K1 float64 // Infection rate of type 1 cells
	K2 float64 // Infection rate of type 2 cells
	F  float64 // Treatment efficacy reduction for type 2 cells

	Lambda1 float64
	D1      float64
	M1      float64
	Lambda2 float64
	D2      float64
	M2      float64
	Delta   float64
	NT      float64
	C       float64
	Rho1    float64
	Rho2    float64
	LambdaE float64
	BE      float64
	Kb      float64
	DE      float64
	Kd      float64
	DeltaE  float64
}

// DefaultParams returns the parameters of the nominal patient
func DefaultParams() Params {
	return Params{
		K1: 8e-7,
		K2: 1e-4,
		F:  0.34,

		Lambda1: 1e4,
		D1:      1e-2,
		M1:      1e-5,
		Lambda2: 31.98,
		D2:      1e-2,
		M2:      1e-5,
		Delta:   0.7,
		NT:      100,
		C:       13,
		Rho1:    1,
		Rho2:    1,
		LambdaE: 1,
		BE:      0.3,
		Kb:      100,
		DE:      0.25,
		Kd:      500,
		DeltaE:  0.1,
	}
}

// derivative returns ds/dt of state s given the patient parameters p
// and treatment d, storing the result in dst.
func derivative(dst, s []float64, p Params, d Drugs) {
	t1, t1s, t2, t2s, v, e := s[T1], s[T1Star], s[T2], s[T2Star], s[V],
		s[E]
	eps1, eps2 := d.RTI, d.PI

	infected := t1s + t2s
	inf1 := p.K1 * (1 - eps1) * v * t1
	inf2 := p.K2 * (1 - p.F*eps1) * v * t2

	dst[T1] = p.Lambda1 - p.D1*t1 - inf1
	dst[T1Star] = inf1 - p.Delta*t1s - p.M1*e*t1s
	dst[T2] = p.Lambda2 - p.D2*t2 - inf2
	dst[T2Star] = inf2 - p.Delta*t2s - p.M2*e*t2s
	dst[V] = p.NT*p.Delta*(1-eps2)*infected - p.C*v -
		(p.Rho1*inf1 + p.Rho2*inf2)
	dst[E] = p.LambdaE + p.BE*infected/(infected+p.Kb)*e -
		p.DE*infected/(infected+p.Kd)*e - p.DeltaE*e
}

// integrate simulates the patient for duration days using forward Euler
// integration with step size dt and returns the resulting state.
func integrate(state *mat.VecDense, p Params, d Drugs, duration,
	dt float64) *mat.VecDense {
	s := make([]float64, state.Len())
	copy(s, state.RawVector().Data)
	ds := make([]float64, len(s))

	steps := int(math.Round(duration / dt))
	for i := 0; i < steps; i++ {
		derivative(ds, s, p, d)
		for j := range s {
			s[j] += ds[j] * dt
		}
	}
	return mat.NewVecDense(len(s), s)
}

// reward returns the reward for a treatment d in state s
func reward(s *mat.VecDense, d Drugs) float64 {
	return -(Q*s.AtVec(V) + R1*d.RTI*d.RTI + R2*d.PI*d.PI - S*s.AtVec(E))
}
