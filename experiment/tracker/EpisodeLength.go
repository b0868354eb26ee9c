package tracker

import "fmt"

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment as a gob-encoded []int.
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the length of an episode
func (e *EpisodeLength) Track(record EpisodeRecord) error {
	e.episodeLengths = append(e.episodeLengths, record.Steps)
	return nil
}

// Save saves the data tracked by the EpisodeLength Tracker to disk.
func (e *EpisodeLength) Save() error {
	if err := save(e.filename, e.episodeLengths); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
