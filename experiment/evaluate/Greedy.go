// Package evaluate implements offline evaluation of greedy policies
package evaluate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/samuelfneumann/hivdqn/agent"
	"github.com/samuelfneumann/hivdqn/environment"
)

// Greedy evaluates a policy by running greedy episodes, each on a
// freshly constructed environment, and averaging their returns.
type Greedy struct {
	// NewEnv constructs the environment of each evaluation episode.
	// Episodes must end, for example by wrapping the environment in a
	// wrappers.TimeLimit.
	NewEnv func() (environment.Environment, error)

	// Episodes is the number of evaluation episodes, 1 if not positive
	Episodes int
}

// Evaluate returns the mean return of the greedy policy p
func (g Greedy) Evaluate(p agent.Policy) (float64, error) {
	episodes := g.Episodes
	if episodes < 1 {
		episodes = 1
	}

	returns := make([]float64, episodes)
	for i := range returns {
		env, err := g.NewEnv()
		if err != nil {
			return 0, fmt.Errorf("evaluate: could not create "+
				"environment: %v", err)
		}

		if returns[i], err = Episode(env, p); err != nil {
			return 0, fmt.Errorf("evaluate: %v", err)
		}
	}
	return floats.Sum(returns) / float64(episodes), nil
}

// Episode runs a single episode of the greedy policy p on env and
// returns the cumulative reward
func Episode(env environment.Environment, p agent.Policy) (float64, error) {
	step, err := env.Reset()
	if err != nil {
		return 0, fmt.Errorf("episode: could not reset: %v", err)
	}

	var ret float64
	for !step.Last() {
		if step, err = env.Step(p.Act(step.Observation)); err != nil {
			return 0, fmt.Errorf("episode: could not step: %v", err)
		}
		ret += step.Reward
	}
	return ret, nil
}
