// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"
)

// EpisodeRecord summarizes a single finished training episode
type EpisodeRecord struct {
	Episode    int     // One-indexed episode number
	Steps      int     // Environmental steps taken in the episode
	Return     float64 // Cumulative reward of the episode
	Epsilon    float64 // Exploration rate at the end of the episode
	BufferSize int     // Transitions in the replay buffer

	// Evaluation scores of the greedy policy at the end of the episode
	PopulationScore float64
	Score           float64

	// Accepted records whether the best checkpoint was replaced
	Accepted bool
}

// Interface Tracker keeps track of experiment data and saves the data
// after the experiment has finished
type Tracker interface {
	Track(r EpisodeRecord) error
	Save() error
}

// save gob-encodes data into filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not open save file: %v", err)
	}

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		file.Close()
		return fmt.Errorf("could not encode data: %v", err)
	}
	return file.Close()
}

// LoadData loads and returns the data saved by a Return Tracker
func LoadData(filename string) ([]float64, error) {
	// Open file
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loadData: could not open data file: %v", err)
	}
	defer file.Close()

	// Decode the data
	var data []float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("loadData: could not decode data: %v", err)
	}

	return data, nil
}
