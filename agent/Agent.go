// Package agent defines an agent interface
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hivdqn/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy

	// SelectAction selects a uniformly random action with probability
	// epsilon, and otherwise selects the greedy action
	SelectAction(obs mat.Vector, epsilon float64) int
}

// A Closer is an agent that must be closed after it is done learning
type Closer interface {
	Agent
	Close() error
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Observe records a transition for later updates
	Observe(t timestep.Transition) error

	// Step performs the updates of a single environmental step
	Step() error

	// SyncTarget sets the target network weights to the learned weights
	SyncTarget() error

	// SnapshotBest records the current learned weights as the best
	// weights seen so far
	SnapshotBest()

	// Save persists the best weights to path
	Save(path string) error

	// ReplayLen returns the number of transitions available for updates
	ReplayLen() int
}

// Policy represents a greedy policy.
//
// For a given agent, the Policy and Learner should have pointers to the
// same weights so that any changes the learner makes to the weights are
// reflected in the actions the Policy chooses
type Policy interface {
	Act(obs mat.Vector) int
}
