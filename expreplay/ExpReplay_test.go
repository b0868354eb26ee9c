package expreplay

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/hivdqn/timestep"
)

// transition returns a transition uniquely identified by i
func transition(i int) timestep.Transition {
	f := float64(i)
	return timestep.Transition{
		State:     []float64{f, f + 0.5},
		Action:    i % 4,
		Reward:    f * 10,
		NextState: []float64{f + 1, f + 1.5},
		Done:      i%3 == 0,
	}
}

func TestAppendBelowCapacity(t *testing.T) {
	buffer, err := New(10, 2, 1)
	require.NoError(t, err)

	for i := 0; i < 7; i++ {
		require.NoError(t, buffer.Append(transition(i)))
		require.Equal(t, i+1, buffer.Len())
	}
	require.Equal(t, 10, buffer.Capacity())

	for i := 0; i < 7; i++ {
		require.Equal(t, transition(i), buffer.At(i))
	}
}

func TestAppendOverwritesOldest(t *testing.T) {
	capacity, extra := 5, 3
	buffer, err := New(capacity, 2, 1)
	require.NoError(t, err)

	for i := 0; i < capacity+extra; i++ {
		require.NoError(t, buffer.Append(transition(i)))
	}
	require.Equal(t, capacity, buffer.Len())

	// The oldest transitions are gone, the rest remain in insertion order
	for i := 0; i < capacity; i++ {
		require.Equal(t, transition(i+extra), buffer.At(i))
	}

	batch, err := buffer.Sample(capacity)
	require.NoError(t, err)
	for _, r := range batch.Rewards {
		require.GreaterOrEqual(t, r, float64(extra*10))
	}
}

func TestAppendInvalidFeatures(t *testing.T) {
	buffer, err := New(5, 3, 1)
	require.NoError(t, err)

	require.Error(t, buffer.Append(transition(0)))
	require.Equal(t, 0, buffer.Len())
}

func TestNewInvalid(t *testing.T) {
	_, err := New(0, 2, 1)
	require.Error(t, err)

	_, err = New(2, 0, 1)
	require.Error(t, err)
}

func TestSampleInsufficient(t *testing.T) {
	buffer, err := New(10, 2, 1)
	require.NoError(t, err)

	_, err = buffer.Sample(1)
	require.True(t, IsEmptyBuffer(err))

	for i := 0; i < 4; i++ {
		require.NoError(t, buffer.Append(transition(i)))
	}

	_, err = buffer.Sample(5)
	require.Error(t, err)
	require.True(t, IsInsufficientSamples(err))
	require.False(t, IsEmptyBuffer(err))

	var replayErr *ExpReplayError
	require.ErrorAs(t, err, &replayErr)
	require.Equal(t, "sample", replayErr.Op)
}

func TestSampleWithoutReplacement(t *testing.T) {
	buffer, err := New(50, 2, 7)
	require.NoError(t, err)

	for i := 0; i < 30; i++ {
		require.NoError(t, buffer.Append(transition(i)))
	}

	for trial := 0; trial < 20; trial++ {
		n := 1 + trial
		batch, err := buffer.Sample(n)
		require.NoError(t, err)
		require.Equal(t, n, batch.Len())
		require.Len(t, batch.States, n*2)
		require.Len(t, batch.NextStates, n*2)
		require.Len(t, batch.Rewards, n)
		require.Len(t, batch.Dones, n)

		seen := make(map[int]bool)
		for j := 0; j < n; j++ {
			id := int(batch.States[j*2])
			require.False(t, seen[id], "transition %v sampled twice", id)
			seen[id] = true

			// Each sampled row must be a previously appended transition
			want := transition(id)
			got := timestep.Transition{
				State:     batch.States[j*2 : j*2+2],
				Action:    batch.Actions[j],
				Reward:    batch.Rewards[j],
				NextState: batch.NextStates[j*2 : j*2+2],
				Done:      batch.Dones[j],
			}
			require.Equal(t, want, got)
		}
	}
}

func TestSampleAll(t *testing.T) {
	buffer, err := New(8, 2, 3)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		require.NoError(t, buffer.Append(transition(i)))
	}

	batch, err := buffer.Sample(8)
	require.NoError(t, err)

	ids := make([]int, 0, 8)
	for j := 0; j < 8; j++ {
		ids = append(ids, int(batch.States[j*2]))
	}
	require.ElementsMatch(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, ids)
}

func BenchmarkSample(b *testing.B) {
	buffer, err := New(100_000, 6, 1)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < buffer.Capacity(); i++ {
		t := timestep.Transition{
			State:     make([]float64, 6),
			NextState: make([]float64, 6),
		}
		if err := buffer.Append(t); err != nil {
			b.Fatal(err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := buffer.Sample(200); err != nil {
			b.Fatal(err)
		}
	}
}
