package main

import (
	"context"
	"log"

	"github.com/samuelfneumann/hivdqn/agent/dqn"
	"github.com/samuelfneumann/hivdqn/environment"
	"github.com/samuelfneumann/hivdqn/environment/hiv"
	"github.com/samuelfneumann/hivdqn/environment/wrappers"
	"github.com/samuelfneumann/hivdqn/experiment"
	"github.com/samuelfneumann/hivdqn/experiment/checkpointer"
	"github.com/samuelfneumann/hivdqn/experiment/evaluate"
	"github.com/samuelfneumann/hivdqn/experiment/tracker"
)

const (
	episodes        = 200
	maxEpisodeSteps = 200
	checkpointEvery = 20
	seed            = 192382
)

// newPatient returns a patient wrapped in the episode time limit
func newPatient(randomize bool, seed uint64) (environment.Environment,
	error) {
	patient := hiv.New(hiv.Config{
		DomainRandomization: randomize,
		Clip:                true,
		Seed:                seed,
	})
	return wrappers.NewTimeLimit(patient, maxEpisodeSteps)
}

func main() {
	env, err := newPatient(true, seed)
	if err != nil {
		log.Fatal(err)
	}

	config := dqn.DefaultConfig()
	config.Seed = seed
	agent, err := dqn.New(env, config)
	if err != nil {
		log.Fatal(err)
	}
	defer agent.Close()

	// Each population evaluation episode is run on a freshly sampled
	// patient
	populationSeed := uint64(seed)
	population := evaluate.Greedy{
		NewEnv: func() (environment.Environment, error) {
			populationSeed++
			return newPatient(true, populationSeed)
		},
		Episodes: 1,
	}
	standard := evaluate.Greedy{
		NewEnv: func() (environment.Environment, error) {
			return newPatient(false, 0)
		},
		Episodes: 1,
	}

	trainer, err := experiment.NewTrainer(env, agent, population, standard,
		experiment.NewConfig(config))
	if err != nil {
		log.Fatal(err)
	}

	trainer.Register(tracker.NewReturn("returns.bin"))
	history, err := tracker.NewSQLite(context.Background(), "runs.db",
		"dqn on the domain-randomised hiv patient")
	if err != nil {
		log.Fatal(err)
	}
	defer history.Close()
	trainer.Register(history)

	check, err := checkpointer.NewNEpisode(checkpointEvery, agent,
		checkpointer.Filename(dqn.DefaultCheckpointFile))
	if err != nil {
		log.Fatal(err)
	}
	trainer.AddCheckpointer(check)

	if _, err := trainer.Train(episodes); err != nil {
		log.Fatal(err)
	}
	if err := agent.Save(dqn.DefaultCheckpointFile); err != nil {
		log.Fatal(err)
	}
	if err := trainer.Save(); err != nil {
		log.Fatal(err)
	}
	log.Printf("run %v saved to runs.db", history.RunID())
}
