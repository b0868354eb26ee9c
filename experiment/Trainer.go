// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"
	"log"
	"os"

	"github.com/samuelfneumann/hivdqn/agent"
	"github.com/samuelfneumann/hivdqn/agent/dqn"
	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/experiment/checkpointer"
	"github.com/samuelfneumann/hivdqn/experiment/tracker"
	ts "github.com/samuelfneumann/hivdqn/timestep"
)

// Evaluator scores the greedy policy of an agent
type Evaluator interface {
	Evaluate(p agent.Policy) (float64, error)
}

// Config describes the schedule of a Trainer
type Config struct {
	Epsilon          dqn.EpsilonSchedule
	UpdateTargetFreq int // Environmental steps between target syncs

	// Rule decides when the best checkpoint is replaced. If nil, a rule
	// with the default threshold is used.
	Rule *dqn.CheckpointRule
}

// NewConfig returns the Trainer Config matching the schedule of a DQN
// agent Config
func NewConfig(c dqn.Config) Config {
	return Config{
		Epsilon:          c.Schedule(),
		UpdateTargetFreq: c.UpdateTargetFreq,
		Rule:             dqn.NewCheckpointRule(dqn.DefaultThreshold),
	}
}

// Trainer trains an agent online on an environment. At the end of
// each episode, the greedy policy is evaluated on a population of
// patients and on a single patient. The two scores decide whether the
// agent's current weights become its best weights.
//
// Data generated during training is sent to Trackers, and the agent is
// checkpointed by Checkpointers, each of which can be registered with
// the Trainer through Register and AddCheckpointer.
type Trainer struct {
	env        environment.Environment
	agent      agent.Agent
	population Evaluator
	standard   Evaluator
	config     Config

	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer
	logger        *log.Logger

	currentSteps int
}

// NewTrainer creates and returns a new Trainer of agent a on
// environment env
func NewTrainer(env environment.Environment, a agent.Agent, population,
	standard Evaluator, c Config) (*Trainer, error) {
	if err := c.Epsilon.Validate(); err != nil {
		return nil, fmt.Errorf("newTrainer: %v", err)
	}
	if c.UpdateTargetFreq < 1 {
		return nil, fmt.Errorf("newTrainer: target networks must be "+
			"updated at positive timestep intervals \n\twant(>0) "+
			"\n\thave(%v)", c.UpdateTargetFreq)
	}
	if c.Rule == nil {
		c.Rule = dqn.NewCheckpointRule(dqn.DefaultThreshold)
	}

	return &Trainer{
		env:        env,
		agent:      a,
		population: population,
		standard:   standard,
		config:     c,
		logger:     log.New(os.Stderr, "", log.LstdFlags),
	}, nil
}

// SetLogger sets the logger used to report the end of each episode
func (t *Trainer) SetLogger(l *log.Logger) {
	t.logger = l
}

// Register registers a tracker.Tracker with the Trainer so that data
// generated during training can be tracked and saved
func (t *Trainer) Register(tr tracker.Tracker) {
	t.trackers = append(t.trackers, tr)
}

// AddCheckpointer adds a checkpointer.Checkpointer which is called at
// the end of each episode
func (t *Trainer) AddCheckpointer(c checkpointer.Checkpointer) {
	t.checkpointers = append(t.checkpointers, c)
}

// Steps returns the number of environmental steps taken so far
func (t *Trainer) Steps() int {
	return t.currentSteps
}

// Train trains the agent for the given number of episodes and returns
// the cumulative reward of each episode
func (t *Trainer) Train(episodes int) ([]float64, error) {
	returns := make([]float64, 0, episodes)

	step, err := t.env.Reset()
	if err != nil {
		return returns, fmt.Errorf("train: could not reset: %v", err)
	}

	var episodeReturn float64
	for len(returns) < episodes {
		epsilon := t.config.Epsilon.At(t.currentSteps)

		// Select action, step in environment
		action := t.agent.SelectAction(step.Observation, epsilon)
		next, err := t.env.Step(action)
		if err != nil {
			return returns, fmt.Errorf("train: could not step: %v", err)
		}
		episodeReturn += next.Reward

		// Observe the transition and step the agent
		if err := t.agent.Observe(ts.NewTransition(step, action,
			next)); err != nil {
			return returns, fmt.Errorf("train: %v", err)
		}
		if err := t.agent.Step(); err != nil {
			return returns, fmt.Errorf("train: %v", err)
		}

		t.currentSteps++
		if t.currentSteps%t.config.UpdateTargetFreq == 0 {
			if err := t.agent.SyncTarget(); err != nil {
				return returns, fmt.Errorf("train: %v", err)
			}
		}

		if !next.Last() {
			step = next
			continue
		}

		returns = append(returns, episodeReturn)
		record := tracker.EpisodeRecord{
			Episode:    len(returns),
			Steps:      next.Number,
			Return:     episodeReturn,
			Epsilon:    epsilon,
			BufferSize: t.agent.ReplayLen(),
		}
		if err := t.endEpisode(&record); err != nil {
			return returns, fmt.Errorf("train: %v", err)
		}

		if step, err = t.env.Reset(); err != nil {
			return returns, fmt.Errorf("train: could not reset: %v", err)
		}
		episodeReturn = 0
	}

	return returns, nil
}

// endEpisode evaluates the agent, updates its best weights, and
// tracks and checkpoints the episode
func (t *Trainer) endEpisode(record *tracker.EpisodeRecord) error {
	var err error
	if record.PopulationScore, err = t.population.Evaluate(t.agent); err != nil {
		return fmt.Errorf("endEpisode: population evaluation: %v", err)
	}
	if record.Score, err = t.standard.Evaluate(t.agent); err != nil {
		return fmt.Errorf("endEpisode: evaluation: %v", err)
	}

	record.Accepted = t.config.Rule.Accept(record.PopulationScore,
		record.Score)
	if record.Accepted {
		t.agent.SnapshotBest()
	}

	t.logger.Printf("Episode %3d, epsilon %6.2f, buffer size %6d, "+
		"ep return %.2e, score agent pop %.1e, score agent %.1e",
		record.Episode, record.Epsilon, record.BufferSize, record.Return,
		record.PopulationScore, record.Score)

	for _, tr := range t.trackers {
		if err := tr.Track(*record); err != nil {
			return fmt.Errorf("endEpisode: %v", err)
		}
	}
	for _, c := range t.checkpointers {
		if err := c.Checkpoint(record.Episode); err != nil {
			return fmt.Errorf("endEpisode: %v", err)
		}
	}
	return nil
}

// Save saves all the data cached by the Trackers to disk
func (t *Trainer) Save() error {
	for _, tr := range t.trackers {
		if err := tr.Save(); err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}
