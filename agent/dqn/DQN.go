// Package dqn implements the Deep Q-Network algorithm with a hard
// target network and an experience replay buffer.
package dqn

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/expreplay"
	"github.com/samuelfneumann/hivdqn/network"
	ts "github.com/samuelfneumann/hivdqn/timestep"
	"github.com/samuelfneumann/hivdqn/utils/floatutils"
	"github.com/samuelfneumann/hivdqn/utils/op"
)

// DQN implements the Deep Q-Network algorithm.
//
// Three networks share one architecture. The train network takes
// batches of states and has its weights adapted by the solver. The
// target network takes batches of next states and provides the update
// target. The policy network takes single states and selects actions;
// it is synced with the train network lazily, before the first action
// selection following a weight change. The best weights found so far
// are kept as a parameter snapshot, which is what Save persists.
type DQN struct {
	config     Config
	numActions int
	features   int
	rng        *rand.Rand

	// Greedy action selection
	policyNet   *network.MLP
	policyVM    G.VM
	policyStale bool

	// Network whose weights are learned
	trainNet   *network.MLP
	trainNetVM G.VM
	solver     G.Solver

	// Network providing the update target
	targetNet   *network.MLP
	targetNetVM G.VM

	best []network.Param

	// Input nodes in the graph of trainNet. For the update:
	//
	// Q(s, a) <- r + γ * (1 - done) * max[Q_target(s', a')]
	//
	// nextStateActionValues provides Q_target(s', a') for all a' in s'
	// and is computed by targetNet. Discounts are γ * (1 - done).
	nextStateActionValues *G.Node
	rewards               *G.Node
	discounts             *G.Node
	selectedActions       *G.Node // One-hot actions taken in each state
	lossVal               *G.Value

	replay        *expreplay.Buffer
	gradientSteps int
}

// New creates and returns a new DQN agent for the environment env
func New(env environment.Environment, c Config) (*DQN, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	// Ensure environment has discrete actions enumerated from 0
	numActions, err := environment.NumActions(env.ActionSpec())
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	features := env.ObservationSpec().Features()

	// Policy network for selecting actions, we only need to select a
	// single action at a time
	policyNet, err := network.NewMLP(features, 1, numActions, G.NewGraph(),
		c.Hidden, c.Activations, c.InitWFn.InitWFn(c.Seed))
	if err != nil {
		return nil, fmt.Errorf("new: could not create policy network: %v",
			err)
	}
	policyVM := G.NewTapeMachine(policyNet.Graph())

	// Create the target network which provides the update target
	targetNet, err := policyNet.CloneWithBatch(c.BatchSize)
	if err != nil {
		msg := "new: could not create target network: %v"
		return nil, fmt.Errorf(msg, err)
	}
	targetNetVM := G.NewTapeMachine(targetNet.Graph())

	// Create a training network which learns the weights
	trainNet, err := policyNet.CloneWithBatch(c.BatchSize)
	if err != nil {
		msg := "new: could not create learning network: %v"
		return nil, fmt.Errorf(msg, err)
	}
	gTrain := trainNet.Graph()

	// Create nodes to compute the update target
	nextStateActionValues := G.NewMatrix(gTrain, tensor.Float64,
		G.WithShape(c.BatchSize, numActions), G.WithName("targetActionVals"),
		G.WithInit(G.Zeroes()))
	rewards := G.NewVector(gTrain, tensor.Float64, G.WithShape(c.BatchSize),
		G.WithName("reward"), G.WithInit(G.Zeroes()))
	discounts := G.NewVector(gTrain, tensor.Float64,
		G.WithShape(c.BatchSize), G.WithName("discount"),
		G.WithInit(G.Zeroes()))

	updateTarget := G.Must(G.Max(nextStateActionValues, 1))
	updateTarget = G.Must(G.HadamardProd(updateTarget, discounts))
	updateTarget = G.Must(G.Add(updateTarget, rewards))

	// Action selected in the previous state. This is needed to compute
	// the loss using the correct action value since the network outputs N
	// action values, one for each environmental action
	selectedActions := G.NewMatrix(gTrain, tensor.Float64,
		G.WithName("actionSelected"), G.WithShape(c.BatchSize, numActions),
		G.WithInit(G.Zeroes()))
	selectedActionsValue := G.Must(G.HadamardProd(trainNet.Prediction(),
		selectedActions))
	selectedActionsValue = G.Must(G.Sum(selectedActionsValue, 1))

	tdError := G.Must(G.Sub(updateTarget, selectedActionsValue))
	cost, err := loss(c.Loss, tdError)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	lossVal := new(G.Value)
	G.Read(cost, lossVal)

	if _, err = G.Grad(cost, trainNet.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	// Compile the trainNet graph into a VM
	trainNetVM := G.NewTapeMachine(
		gTrain,
		G.BindDualValues(trainNet.Learnables()...),
	)
	solver, err := c.Solver.Create()
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	replay, err := expreplay.New(c.BufferSize, features, c.Seed)
	if err != nil {
		msg := "new: could not create experience replay buffer: %v"
		return nil, fmt.Errorf(msg, err)
	}

	return &DQN{
		config:                c,
		numActions:            numActions,
		features:              features,
		rng:                   rand.New(rand.NewSource(c.Seed)),
		policyNet:             policyNet,
		policyVM:              policyVM,
		trainNet:              trainNet,
		trainNetVM:            trainNetVM,
		solver:                solver,
		targetNet:             targetNet,
		targetNetVM:           targetNetVM,
		best:                  policyNet.Params(),
		nextStateActionValues: nextStateActionValues,
		rewards:               rewards,
		discounts:             discounts,
		selectedActions:       selectedActions,
		lossVal:               lossVal,
		replay:                replay,
	}, nil
}

// loss adds the mean loss of the TD errors to the graph
func loss(l Loss, tdError *G.Node) (*G.Node, error) {
	var losses *G.Node
	var err error
	switch l {
	case MSE:
		losses, err = op.SquaredError(tdError)

	case SmoothL1:
		losses, err = op.SmoothL1(tdError)

	default:
		return nil, fmt.Errorf("loss: unknown loss %q", l)
	}
	if err != nil {
		return nil, fmt.Errorf("loss: %v", err)
	}
	return G.Mean(losses)
}

// Config returns the configuration of the agent, with defaults filled
// in
func (d *DQN) Config() Config {
	return d.config
}

// NumActions returns the number of actions the agent chooses between
func (d *DQN) NumActions() int {
	return d.numActions
}

// ReplayLen returns the number of transitions in the replay buffer
func (d *DQN) ReplayLen() int {
	return d.replay.Len()
}

// GradientSteps returns the number of gradient steps taken so far
func (d *DQN) GradientSteps() int {
	return d.gradientSteps
}

// Loss returns the loss of the last gradient step
func (d *DQN) Loss() float64 {
	if *d.lossVal == nil || d.gradientSteps == 0 {
		return 0
	}
	return (*d.lossVal).Data().(float64)
}

// Observe adds a transition to the replay buffer
func (d *DQN) Observe(t ts.Transition) error {
	if t.Action < 0 || t.Action >= d.numActions {
		return fmt.Errorf("observe: action %v out of range [0, %v)", t.Action,
			d.numActions)
	}
	if err := d.replay.Append(t); err != nil {
		return fmt.Errorf("observe: %v", err)
	}
	return nil
}

// ActionValues returns the predicted value of each action in the state
// obs under the learned weights
func (d *DQN) ActionValues(obs mat.Vector) []float64 {
	if obs.Len() != d.features {
		panic(fmt.Sprintf("actionValues: invalid observation size"+
			"\n\twant(%v)\n\thave(%v)", d.features, obs.Len()))
	}

	if d.policyStale {
		if err := d.policyNet.Set(d.trainNet); err != nil {
			panic(fmt.Sprintf("actionValues: could not sync policy: %v", err))
		}
		d.policyStale = false
	}

	input := make([]float64, obs.Len())
	for i := range input {
		input[i] = obs.AtVec(i)
	}
	if err := d.policyNet.SetInput(input); err != nil {
		panic(fmt.Sprintf("actionValues: %v", err))
	}

	if err := d.policyVM.RunAll(); err != nil {
		panic(fmt.Sprintf("actionValues: could not run policy: %v", err))
	}
	values := append([]float64{}, d.policyNet.Output().Data().([]float64)...)
	d.policyVM.Reset()

	return values
}

// Act returns the greedy action in state obs. Ties are broken
// uniformly randomly.
func (d *DQN) Act(obs mat.Vector) int {
	return floatutils.Argmax(d.ActionValues(obs), d.rng)
}

// SelectAction returns a uniformly random action with probability
// epsilon and the greedy action otherwise
func (d *DQN) SelectAction(obs mat.Vector, epsilon float64) int {
	if d.rng.Float64() < epsilon {
		return d.rng.Intn(d.numActions)
	}
	return d.Act(obs)
}

// GradientStep performs a single gradient step on a batch sampled
// from the replay buffer. No step is taken, and false is returned,
// until the buffer holds more transitions than the batch size.
func (d *DQN) GradientStep() (bool, error) {
	if d.replay.Len() <= d.config.BatchSize {
		return false, nil
	}

	batch, err := d.replay.Sample(d.config.BatchSize)
	if expreplay.IsEmptyBuffer(err) || expreplay.IsInsufficientSamples(err) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("gradientStep: %v", err)
	}

	// Compute the next state-action values
	if err := d.targetNet.SetInput(batch.NextStates); err != nil {
		return false, fmt.Errorf("gradientStep: could not set target net "+
			"input: %v", err)
	}
	if err := d.targetNetVM.RunAll(); err != nil {
		return false, fmt.Errorf("gradientStep: could not run target "+
			"net: %v", err)
	}
	nextValues := d.targetNet.Output().(tensor.Tensor).Clone().(tensor.Tensor)
	d.targetNetVM.Reset()

	if err := G.Let(d.nextStateActionValues, nextValues); err != nil {
		return false, fmt.Errorf("gradientStep: could not set next "+
			"state-action values: %v", err)
	}

	discounts := make([]float64, batch.Len())
	actions := make([]float64, batch.Len()*d.numActions)
	for i := 0; i < batch.Len(); i++ {
		if !batch.Dones[i] {
			discounts[i] = d.config.Gamma
		}
		actions[i*d.numActions+batch.Actions[i]] = 1.0
	}

	err = G.Let(d.rewards, tensor.New(tensor.WithBacking(batch.Rewards),
		tensor.WithShape(batch.Len())))
	if err != nil {
		return false, fmt.Errorf("gradientStep: could not set reward: %v",
			err)
	}
	err = G.Let(d.discounts, tensor.New(tensor.WithBacking(discounts),
		tensor.WithShape(batch.Len())))
	if err != nil {
		return false, fmt.Errorf("gradientStep: could not set discount: %v",
			err)
	}
	err = G.Let(d.selectedActions, tensor.New(tensor.WithBacking(actions),
		tensor.WithShape(batch.Len(), d.numActions)))
	if err != nil {
		return false, fmt.Errorf("gradientStep: could not set actions: %v",
			err)
	}
	if err := d.trainNet.SetInput(batch.States); err != nil {
		return false, fmt.Errorf("gradientStep: could not set train net "+
			"input: %v", err)
	}

	// Run the learning step
	if err := d.trainNetVM.RunAll(); err != nil {
		return false, fmt.Errorf("gradientStep: could not run train "+
			"net: %v", err)
	}
	if err := d.solver.Step(d.trainNet.Model()); err != nil {
		return false, fmt.Errorf("gradientStep: could not step solver: %v",
			err)
	}
	d.trainNetVM.Reset()

	d.gradientSteps++
	d.policyStale = true
	return true, nil
}

// Step performs the configured number of gradient steps
func (d *DQN) Step() error {
	for i := 0; i < d.config.GradientSteps; i++ {
		if _, err := d.GradientStep(); err != nil {
			return fmt.Errorf("step: %v", err)
		}
	}
	return nil
}

// SyncTarget sets the weights of the target network to the weights of
// the train network
func (d *DQN) SyncTarget() error {
	if err := d.targetNet.Set(d.trainNet); err != nil {
		return fmt.Errorf("syncTarget: %v", err)
	}
	return nil
}

// SnapshotBest records the current weights of the train network as the
// best weights
func (d *DQN) SnapshotBest() {
	d.best = d.trainNet.Params()
}

// Params returns a copy of the learned weights
func (d *DQN) Params() []network.Param {
	return d.trainNet.Params()
}

// TargetParams returns a copy of the target network weights
func (d *DQN) TargetParams() []network.Param {
	return d.targetNet.Params()
}

// BestParams returns a copy of the best weights
func (d *DQN) BestParams() []network.Param {
	params := make([]network.Param, len(d.best))
	for i, p := range d.best {
		params[i] = network.Param{
			Name:  p.Name,
			Shape: append([]int{}, p.Shape...),
			Data:  append([]float64{}, p.Data...),
		}
	}
	return params
}

// Close closes the VMs of the agent
func (d *DQN) Close() error {
	for _, vm := range []G.VM{d.policyVM, d.trainNetVM, d.targetNetVM} {
		if err := vm.Close(); err != nil {
			return fmt.Errorf("close: %v", err)
		}
	}
	return nil
}
