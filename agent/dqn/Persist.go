package dqn

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/samuelfneumann/hivdqn/network"
)

// DefaultCheckpointFile is the file loaded by Load when no path is
// given
const DefaultCheckpointFile = "agent.gob"

// Resolve returns the path that a checkpoint path refers to. Absolute
// paths are returned unchanged; relative paths are taken relative to
// root, or to the current working directory if root is empty.
func Resolve(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

// Save writes the best weights to path, resolved against the Root of
// the agent's Config
func (d *DQN) Save(path string) error {
	path = Resolve(d.config.Root, path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("save: could not create directory: %v", err)
	}

	// Existing checkpoints are only replaced once fully written
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("save: could not create checkpoint file: %v", err)
	}

	checkpoint := d.trainNet.CheckpointWith(d.BestParams())
	if _, err := checkpoint.WriteTo(file); err != nil {
		file.Close()
		os.Remove(tmp)
		return fmt.Errorf("save: %v", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save: could not close checkpoint file: %v", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save: could not move checkpoint file: %v", err)
	}
	return nil
}

// Load reads the weights at path, resolved against the Root of the
// agent's Config, into the train, target, and policy networks. If path
// is empty, DefaultCheckpointFile is loaded.
func (d *DQN) Load(path string) error {
	if path == "" {
		path = DefaultCheckpointFile
	}
	path = Resolve(d.config.Root, path)

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("load: could not open checkpoint file: %v", err)
	}
	defer file.Close()

	checkpoint, err := network.ReadCheckpoint(file)
	if err != nil {
		return fmt.Errorf("load: %v", err)
	}
	if err := checkpoint.Compatible(d.trainNet); err != nil {
		return fmt.Errorf("load: %v", err)
	}

	if err := d.trainNet.SetParams(checkpoint.Params); err != nil {
		return fmt.Errorf("load: %v", err)
	}
	if err := d.targetNet.SetParams(checkpoint.Params); err != nil {
		return fmt.Errorf("load: %v", err)
	}
	d.policyStale = true

	return nil
}
