// Package network implements neural network function approximators
// using Gorgonia.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements a multi-layered perceptron with multiple output nodes,
// one for each value that should be predicted. Given an environment
// with N actions, an MLP with N outputs predicts the value of each
// action.
//
// MLP simply populates a gorgonia.ExprGraph with the neural network
// function approximator. The struct does not have a VM of its own. An
// external VM should be used to run the computational graph of the
// network, after which the prediction can be read with Output():
//
//		Set up VM with network's graph:	vm = NewTapeMachine(net.Graph())
//		Set input to the network:		net.SetInput(obs)
//		Predict the values:				vm.RunAll()
//		Read the predictions:			net.Output()
type MLP struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	numOutputs int
	numInputs  int
	batchSize  int

	hiddenSizes []int
	activations []*Activation

	learnables G.Nodes

	prediction *G.Node
	predVal    *G.Value
}

// NewMLP creates and returns a new multi-layered perceptron with
// outputs output nodes. The graph parameter g is populated with the
// MLP, whose input is a matrix of batch rows of features features.
//
// The MLP has number of layers equal to len(hiddenSizes) + 1. A final
// linear layer is always added such that given any input, the output
// will be outputs. Every layer contains a bias unit. The parameter
// init determines the weight initialization scheme.
//
// The function works such that for index i, hiddenSizes[i] is the
// number of nodes in hidden layer i and activations[i] is the
// activation function for hidden layer i.
func NewMLP(features, batch, outputs int, g *G.ExprGraph,
	hiddenSizes []int, activations []*Activation,
	init G.InitWFn) (*MLP, error) {
	// Ensure we have one activation per layer
	if len(hiddenSizes) != len(activations) {
		msg := "newMLP: invalid number of activations" +
			"\n\twant(%d)\n\thave(%d)"
		return nil, fmt.Errorf(msg, len(hiddenSizes), len(activations))
	}
	if features < 1 || batch < 1 || outputs < 1 {
		return nil, fmt.Errorf("newMLP: features (%v), batch (%v), and "+
			"outputs (%v) must be positive", features, batch, outputs)
	}

	// Set up the input node
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Add a final linear layer with no activation to ensure the
	// output heads are predicted by the network
	sizes := append(append([]int{}, hiddenSizes...), outputs)
	acts := append(append([]*Activation{}, activations...), Identity())

	layers := make([]*fcLayer, len(sizes))
	in := features
	for i, out := range sizes {
		layers[i] = newfcLayer(g, in, out, acts[i], init, layerName(i))
		in = out
	}

	network := &MLP{
		g:           g,
		layers:      layers,
		input:       input,
		numOutputs:  outputs,
		numInputs:   features,
		batchSize:   batch,
		hiddenSizes: append([]int{}, hiddenSizes...),
		activations: append([]*Activation{}, activations...),
	}
	if _, err := network.fwd(input); err != nil {
		msg := "newMLP: could not compute forward pass: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return network, nil
}

// layerName returns the name of the i-th layer
func layerName(i int) string {
	return fmt.Sprintf("layer%d", i)
}

// Graph returns the computational graph of the MLP.
func (e *MLP) Graph() *G.ExprGraph {
	return e.g
}

// Clone clones an MLP
func (e *MLP) Clone() (*MLP, error) {
	return e.CloneWithBatch(e.batchSize)
}

// CloneWithBatch clones an MLP to a new computational graph with a new
// input batch size. The weights of the clone are a copy of the weights
// of e.
func (e *MLP) CloneWithBatch(batchSize int) (*MLP, error) {
	if batchSize < 1 {
		return nil, fmt.Errorf("cloneWithBatch: batch size must be positive")
	}
	graph := G.NewGraph()

	input := G.NewMatrix(
		graph,
		tensor.Float64,
		G.WithShape(batchSize, e.numInputs),
		G.WithName("input"),
		G.WithInit(G.Zeroes()),
	)

	// Copy fully connected layers
	l := make([]*fcLayer, len(e.layers))
	for i := range e.layers {
		l[i] = e.layers[i].cloneTo(graph)
	}

	network := &MLP{
		g:           graph,
		layers:      l,
		input:       input,
		numOutputs:  e.numOutputs,
		numInputs:   e.numInputs,
		batchSize:   batchSize,
		hiddenSizes: e.hiddenSizes,
		activations: e.activations,
	}
	if _, err := network.fwd(input); err != nil {
		msg := "cloneWithBatch: could not clone: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return network, nil
}

// BatchSize returns the batch size of inputs to the network
func (e *MLP) BatchSize() int {
	return e.batchSize
}

// Features returns the number of features in a single input vector
func (e *MLP) Features() int {
	return e.numInputs
}

// Outputs returns the number of outputs from the network
func (e *MLP) Outputs() int {
	return e.numOutputs
}

// HiddenSizes returns the sizes of the hidden layers
func (e *MLP) HiddenSizes() []int {
	return append([]int{}, e.hiddenSizes...)
}

// Activations returns the activations of the hidden layers
func (e *MLP) Activations() []*Activation {
	return append([]*Activation{}, e.activations...)
}

// SetInput sets the value of the input node before running the forward
// pass. The input should be a batch of row-major feature vectors.
func (e *MLP) SetInput(input []float64) error {
	if len(input) != e.numInputs*e.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", e.numInputs*e.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(e.input.Shape()...),
	)
	return G.Let(e.input, inputTensor)
}

// Set sets the weights of e to be equal to the weights of source. The
// weights are copied in place, so any VM running e's graph remains
// valid.
func (e *MLP) Set(source *MLP) error {
	sourceNodes := source.Learnables()
	nodes := e.Learnables()
	if len(sourceNodes) != len(nodes) {
		return fmt.Errorf("set: incompatible networks\n\twant(%v learnables)"+
			"\n\thave(%v learnables)", len(nodes), len(sourceNodes))
	}

	for i := range nodes {
		if !nodes[i].Shape().Eq(sourceNodes[i].Shape()) {
			return fmt.Errorf("set: incompatible shapes for %v\n\twant(%v)"+
				"\n\thave(%v)", nodes[i].Name(), nodes[i].Shape(),
				sourceNodes[i].Shape())
		}
		copy(weights(nodes[i]), weights(sourceNodes[i]))
	}
	return nil
}

// Learnables returns the learnable nodes in an MLP, ordered as the
// weights then the bias of each layer from input to output
func (e *MLP) Learnables() G.Nodes {
	// Lazy instantiation
	if e.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(e.layers))
		for i := range e.layers {
			learnables = append(learnables, e.layers[i].weights,
				e.layers[i].bias)
		}
		e.learnables = G.Nodes(learnables)
	}
	return e.learnables
}

// Model returns the learnables nodes with their gradients.
func (e *MLP) Model() []G.ValueGrad {
	return G.NodesToValueGrads(e.Learnables())
}

// fwd performs the forward pass of the MLP on the input node
func (e *MLP) fwd(input *G.Node) (*G.Node, error) {
	inputShape := input.Shape()[len(input.Shape())-1]
	if inputShape != e.numInputs {
		return nil, fmt.Errorf("fwd: invalid shape for input to neural net:"+
			" \n\twant(%v) \n\thave(%v)", e.numInputs, inputShape)
	}

	pred := input
	var err error
	for i, l := range e.layers {
		if pred, err = l.fwd(pred); err != nil {
			msg := "fwd: could not compute forward pass of layer %v: %v"
			return nil, fmt.Errorf(msg, i, err)
		}
	}

	e.prediction = pred
	e.predVal = new(G.Value)
	G.Read(e.prediction, e.predVal)

	return pred, nil
}

// Output returns the output of the MLP from the last run of its graph.
// The output has shape (BatchSize(), Outputs()).
func (e *MLP) Output() G.Value {
	return *e.predVal
}

// Prediction returns the node of the computational graph the stores
// the output of the MLP
func (e *MLP) Prediction() *G.Node {
	return e.prediction
}

// weights returns the backing data of a learnable node
func weights(n *G.Node) []float64 {
	return n.Value().Data().([]float64)
}
