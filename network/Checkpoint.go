package network

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"

	G "gorgonia.org/gorgonia"
)

// CheckpointVersion is the version of the serialized Checkpoint format
const CheckpointVersion = 1

// Param is a named, shaped copy of the values of a learnable node
type Param struct {
	Name  string
	Shape []int
	Data  []float64
}

// Checkpoint stores everything needed to rebuild an MLP with identical
// predictions
type Checkpoint struct {
	Version     int
	Features    int
	Outputs     int
	Hidden      []int
	Activations []string
	Params      []Param
}

// Params returns a deep copy of the learnable parameters of e
func (e *MLP) Params() []Param {
	nodes := e.Learnables()
	params := make([]Param, len(nodes))
	for i, n := range nodes {
		params[i] = Param{
			Name:  n.Name(),
			Shape: append([]int{}, n.Shape()...),
			Data:  append([]float64{}, weights(n)...),
		}
	}
	return params
}

// SetParams copies params into the learnable nodes of e in place. Each
// param must match the name and shape of the node it is copied to.
func (e *MLP) SetParams(params []Param) error {
	nodes := e.Learnables()
	if len(params) != len(nodes) {
		return fmt.Errorf("setParams: invalid number of params\n\twant(%v)"+
			"\n\thave(%v)", len(nodes), len(params))
	}
	for i, n := range nodes {
		if params[i].Name != n.Name() {
			return fmt.Errorf("setParams: invalid param name\n\twant(%v)"+
				"\n\thave(%v)", n.Name(), params[i].Name)
		}
		if !n.Shape().Eq(params[i].Shape) {
			return fmt.Errorf("setParams: invalid shape for %v\n\twant(%v)"+
				"\n\thave(%v)", n.Name(), n.Shape(), params[i].Shape)
		}
		w := weights(n)
		if len(w) != len(params[i].Data) {
			return fmt.Errorf("setParams: invalid data length for %v",
				n.Name())
		}
		copy(w, params[i].Data)
	}
	return nil
}

// Checkpoint returns a Checkpoint of the current state of e
func (e *MLP) Checkpoint() Checkpoint {
	return e.checkpointWith(e.Params())
}

// CheckpointWith returns a Checkpoint of e's architecture holding the
// given params, which must have been taken from a network of the same
// architecture.
func (e *MLP) CheckpointWith(params []Param) Checkpoint {
	return e.checkpointWith(params)
}

func (e *MLP) checkpointWith(params []Param) Checkpoint {
	acts := make([]string, len(e.activations))
	for i := range e.activations {
		acts[i] = e.activations[i].String()
	}
	return Checkpoint{
		Version:     CheckpointVersion,
		Features:    e.numInputs,
		Outputs:     e.numOutputs,
		Hidden:      append([]int{}, e.hiddenSizes...),
		Activations: acts,
		Params:      params,
	}
}

// Compatible returns an error if c cannot be loaded into e
func (c Checkpoint) Compatible(e *MLP) error {
	if c.Version != CheckpointVersion {
		return fmt.Errorf("compatible: unsupported checkpoint version %v",
			c.Version)
	}
	if c.Features != e.numInputs || c.Outputs != e.numOutputs {
		return fmt.Errorf("compatible: checkpoint has %v features and %v "+
			"outputs, network has %v features and %v outputs", c.Features,
			c.Outputs, e.numInputs, e.numOutputs)
	}
	if len(c.Hidden) != len(e.hiddenSizes) {
		return fmt.Errorf("compatible: checkpoint has %v hidden layers, "+
			"network has %v", len(c.Hidden), len(e.hiddenSizes))
	}
	for i := range c.Hidden {
		if c.Hidden[i] != e.hiddenSizes[i] {
			return fmt.Errorf("compatible: hidden layer %v has %v units, "+
				"want %v", i, c.Hidden[i], e.hiddenSizes[i])
		}
	}
	for i := range c.Activations {
		if i >= len(e.activations) ||
			c.Activations[i] != e.activations[i].String() {
			return fmt.Errorf("compatible: activation mismatch at layer %v",
				i)
		}
	}
	return nil
}

// Build creates a new MLP in graph g with the architecture and weights
// stored in c
func (c Checkpoint) Build(g *G.ExprGraph, batch int) (*MLP, error) {
	acts := make([]*Activation, len(c.Activations))
	for i, name := range c.Activations {
		act, err := ActivationFromString(name)
		if err != nil {
			return nil, fmt.Errorf("build: %v", err)
		}
		acts[i] = act
	}

	net, err := NewMLP(c.Features, batch, c.Outputs, g, c.Hidden, acts,
		G.Zeroes())
	if err != nil {
		return nil, fmt.Errorf("build: %v", err)
	}
	if err := net.SetParams(c.Params); err != nil {
		return nil, fmt.Errorf("build: %v", err)
	}
	return net, nil
}

// WriteTo gob-encodes c to w
func (c Checkpoint) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c); err != nil {
		return 0, fmt.Errorf("writeTo: could not encode checkpoint: %v", err)
	}
	return buf.WriteTo(w)
}

// ReadCheckpoint decodes a gob-encoded Checkpoint from r
func ReadCheckpoint(r io.Reader) (Checkpoint, error) {
	var c Checkpoint
	if err := gob.NewDecoder(r).Decode(&c); err != nil {
		return Checkpoint{}, fmt.Errorf("readCheckpoint: could not decode "+
			"checkpoint: %v", err)
	}
	if c.Version != CheckpointVersion {
		return Checkpoint{}, fmt.Errorf("readCheckpoint: unsupported "+
			"checkpoint version %v", c.Version)
	}
	return c, nil
}

// GobEncode implements the gob.GobEncoder interface
func (e *MLP) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := e.Checkpoint().WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("gobEncode: %v", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface. The decoded MLP
// has a batch size of 1 in a new computational graph.
func (e *MLP) GobDecode(in []byte) error {
	c, err := ReadCheckpoint(bytes.NewReader(in))
	if err != nil {
		return fmt.Errorf("gobDecode: %v", err)
	}
	net, err := c.Build(G.NewGraph(), 1)
	if err != nil {
		return fmt.Errorf("gobDecode: %v", err)
	}
	*e = *net
	return nil
}
