package checkpointer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type recorder struct {
	paths []string
	err   error
}

func (r *recorder) Save(path string) error {
	r.paths = append(r.paths, path)
	return r.err
}

func TestNEpisode(t *testing.T) {
	r := &recorder{}
	c, err := NewNEpisode(20, r, Filename("agent.gob"))
	require.NoError(t, err)

	for episode := 1; episode <= 60; episode++ {
		require.NoError(t, c.Checkpoint(episode))
	}
	require.Equal(t, []string{"agent.gob", "agent.gob", "agent.gob"}, r.paths)

	r.err = errors.New("disk full")
	require.Error(t, c.Checkpoint(80))

	_, err = NewNEpisode(0, r, Filename("agent.gob"))
	require.Error(t, err)
}

func TestFilenames(t *testing.T) {
	enum := FilenameEnumerator(0, "agent", ".gob")
	require.Equal(t, "agent1.gob", enum())
	require.Equal(t, "agent2.gob", enum())

	timed := FileTimer("agent", ".gob")()
	require.True(t, strings.HasPrefix(timed, "agent-"))
	require.True(t, strings.HasSuffix(timed, ".gob"))
}
