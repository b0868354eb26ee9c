// Package expreplay implements an experience replay buffer
package expreplay

import (
	"fmt"

	"github.com/samuelfneumann/hivdqn/timestep"
)

// Batch is a batch of transitions sampled from a Buffer, reshaped into
// parallel arrays. States and NextStates are stored in row-major order,
// with one row of Features() values per transition.
type Batch struct {
	States     []float64
	Actions    []int
	Rewards    []float64
	NextStates []float64
	Dones      []bool
}

// Len returns the number of transitions in the batch
func (b Batch) Len() int {
	return len(b.Actions)
}

// Buffer implements an experience replay buffer where elements are
// removed in a FiFo manner, one element at a time. The buffer is a
// fixed-capacity ring: once full, each new transition overwrites the
// oldest one.
type Buffer struct {
	stateCache     []float64
	actionCache    []int
	rewardCache    []float64
	nextStateCache []float64
	doneCache      []bool

	// currentInUsePos is the index of the next slot to overwrite
	currentInUsePos int
	isFull          bool

	sampler *uniformSelector

	maxCapacity int
	featureSize int
}

// New returns a new Buffer which stores at most capacity transitions
// with state feature vectors of size featureSize. The seed parameter
// seeds the uniform sampling of transitions.
func New(capacity, featureSize int, seed uint64) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("new: capacity must be >= 1")
	}
	if featureSize < 1 {
		return nil, fmt.Errorf("new: feature size must be >= 1")
	}

	return &Buffer{
		stateCache:     make([]float64, capacity*featureSize),
		actionCache:    make([]int, capacity),
		rewardCache:    make([]float64, capacity),
		nextStateCache: make([]float64, capacity*featureSize),
		doneCache:      make([]bool, capacity),

		currentInUsePos: 0,
		isFull:          false,

		sampler: newUniformSelector(seed),

		maxCapacity: capacity,
		featureSize: featureSize,
	}, nil
}

// String returns the string representation of the Buffer
func (c *Buffer) String() string {
	return fmt.Sprintf("Buffer | Size: %v  |  Capacity: %v  |  Next: %v",
		c.Len(), c.Capacity(), c.currentInUsePos)
}

// Len returns the current number of transitions in the Buffer that are
// available for sampling
func (c *Buffer) Len() int {
	if c.isFull {
		return c.maxCapacity
	}
	return c.currentInUsePos
}

// Capacity returns the maximum number of transitions that are allowed
// in the Buffer
func (c *Buffer) Capacity() int {
	return c.maxCapacity
}

// Features returns the size of the state feature vectors stored
func (c *Buffer) Features() int {
	return c.featureSize
}

// Append adds a transition to the Buffer, overwriting the oldest
// transition if the Buffer is full
func (c *Buffer) Append(t timestep.Transition) error {
	if len(t.State) != c.featureSize || len(t.NextState) != c.featureSize {
		return fmt.Errorf("append: invalid feature size \n\twant(%v)"+
			"\n\thave(%v, %v)", c.featureSize, len(t.State),
			len(t.NextState))
	}

	index := c.currentInUsePos
	stateInd := index * c.featureSize
	copy(c.stateCache[stateInd:stateInd+c.featureSize], t.State)
	copy(c.nextStateCache[stateInd:stateInd+c.featureSize], t.NextState)

	c.actionCache[index] = t.Action
	c.rewardCache[index] = t.Reward
	c.doneCache[index] = t.Done

	if !c.isFull && index+1 == c.maxCapacity {
		c.isFull = true
	}
	c.currentInUsePos = (c.currentInUsePos + 1) % c.maxCapacity
	return nil
}

// At returns the transition stored at the i-th oldest slot of the
// Buffer, where i = 0 is the oldest transition still in the Buffer.
func (c *Buffer) At(i int) timestep.Transition {
	if i < 0 || i >= c.Len() {
		panic(fmt.Sprintf("at: index out of range [%v] with length %v", i,
			c.Len()))
	}

	index := i
	if c.isFull {
		index = (c.currentInUsePos + i) % c.maxCapacity
	}
	return c.transition(index)
}

// transition returns a copy of the transition stored at slot index
func (c *Buffer) transition(index int) timestep.Transition {
	start := index * c.featureSize
	state := make([]float64, c.featureSize)
	copy(state, c.stateCache[start:start+c.featureSize])
	nextState := make([]float64, c.featureSize)
	copy(nextState, c.nextStateCache[start:start+c.featureSize])

	return timestep.Transition{
		State:     state,
		Action:    c.actionCache[index],
		Reward:    c.rewardCache[index],
		NextState: nextState,
		Done:      c.doneCache[index],
	}
}

// Sample samples n distinct transitions uniformly randomly from the
// Buffer. The order of transitions in the returned Batch is arbitrary.
// An error is returned if n exceeds the number of transitions in the
// Buffer.
func (c *Buffer) Sample(n int) (Batch, error) {
	if c.Len() == 0 {
		return Batch{}, &ExpReplayError{Op: "sample", Err: ErrEmptyBuffer}
	}
	if n > c.Len() {
		return Batch{}, &ExpReplayError{
			Op:  "sample",
			Err: fmt.Errorf("%w: requested %v, have %v",
				ErrInsufficientSamples, n, c.Len()),
		}
	}
	if n < 0 {
		return Batch{}, fmt.Errorf("sample: cannot sample %v transitions", n)
	}

	indices := c.sampler.choose(n, c.Len())

	batch := Batch{
		States:     make([]float64, n*c.featureSize),
		Actions:    make([]int, n),
		Rewards:    make([]float64, n),
		NextStates: make([]float64, n*c.featureSize),
		Dones:      make([]bool, n),
	}
	for i, index := range indices {
		batchStartInd := i * c.featureSize
		expStartInd := index * c.featureSize

		copy(batch.States[batchStartInd:batchStartInd+c.featureSize],
			c.stateCache[expStartInd:expStartInd+c.featureSize])
		copy(batch.NextStates[batchStartInd:batchStartInd+c.featureSize],
			c.nextStateCache[expStartInd:expStartInd+c.featureSize])

		batch.Actions[i] = c.actionCache[index]
		batch.Rewards[i] = c.rewardCache[index]
		batch.Dones[i] = c.doneCache[index]
	}

	return batch, nil
}
