// Package op provides extended Gorgonia graph operations.
package op

import (
	G "gorgonia.org/gorgonia"
)

// Clip clips the value of a node elementwise to [min, max]
func Clip(value *G.Node, min, max float64) (retVal *G.Node, err error) {
	lower := G.NewConstant(min)
	upper := G.NewConstant(max)

	retVal, err = Max(value, lower)
	if err != nil {
		return nil, err
	}
	return Min(retVal, upper)
}

// Min returns the elementwise min value between the nodes. Either
// node may be a scalar.
func Min(a *G.Node, b *G.Node) (retVal *G.Node, err error) {
	// min(a, b) = a - relu(a - b)
	diff, err := G.Sub(a, b)
	if err != nil {
		return nil, err
	}
	excess, err := G.Rectify(diff)
	if err != nil {
		return nil, err
	}
	return G.Sub(a, excess)
}

// Max returns the elementwise max value between the nodes. Either
// node may be a scalar.
func Max(a *G.Node, b *G.Node) (retVal *G.Node, err error) {
	// max(a, b) = b + relu(a - b)
	diff, err := G.Sub(a, b)
	if err != nil {
		return nil, err
	}
	excess, err := G.Rectify(diff)
	if err != nil {
		return nil, err
	}
	return G.Add(b, excess)
}

// SmoothL1 returns the elementwise Huber loss of the errors in delta
// with a threshold of 1:
//
//	0.5 * min(|δ|, 1)² + max(|δ| - 1, 0)
func SmoothL1(delta *G.Node) (retVal *G.Node, err error) {
	abs, err := G.Abs(delta)
	if err != nil {
		return nil, err
	}

	linear, err := Max(abs, G.NewConstant(1.0))
	if err != nil {
		return nil, err
	}
	linear, err = G.Sub(linear, G.NewConstant(1.0))
	if err != nil {
		return nil, err
	}

	quadratic, err := Min(abs, G.NewConstant(1.0))
	if err != nil {
		return nil, err
	}
	quadratic, err = G.Square(quadratic)
	if err != nil {
		return nil, err
	}
	quadratic, err = G.Mul(G.NewConstant(0.5), quadratic)
	if err != nil {
		return nil, err
	}

	return G.Add(quadratic, linear)
}

// SquaredError returns the elementwise squared error of the errors in
// delta
func SquaredError(delta *G.Node) (retVal *G.Node, err error) {
	return G.Square(delta)
}
