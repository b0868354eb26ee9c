// Package checkpointer implements periodic saving of agents during an
// experiment
package checkpointer

// Saver is an object that can be saved to a file
type Saver interface {
	Save(path string) error
}

// Checkpointer checkpoints/saves objects at the end of episodes
type Checkpointer interface {
	// Checkpoint is called after the one-indexed episode ends
	Checkpoint(episode int) error
}
