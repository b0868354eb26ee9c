package tracker

import (
	"fmt"
)

// Return tracks and saves the episodic return in an experiment. The
// returns are saved as a gob-encoded []float64, which can be read back
// with LoadData.
type Return struct {
	lastEpisode    int
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{filename: filename}
}

// Track tracks the return of an episode.
//
// Track returns an error if it is called for non-sequential episodes
func (r *Return) Track(record EpisodeRecord) error {
	if r.lastEpisode+1 != record.Episode {
		return fmt.Errorf("track: last two episodes tracked are not "+
			"sequential: episode %v --> episode %v were tracked",
			r.lastEpisode, record.Episode)
	}
	r.episodeReturns = append(r.episodeReturns, record.Return)
	r.lastEpisode = record.Episode
	return nil
}

// Data returns the returns tracked so far
func (r *Return) Data() []float64 {
	return append([]float64{}, r.episodeReturns...)
}

// Save saves the data tracked by the Return Tracker to disk.
func (r *Return) Save() error {
	if err := save(r.filename, r.episodeReturns); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
