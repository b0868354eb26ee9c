package floatutils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestClip(t *testing.T) {
	require.Equal(t, 1.0, Clip(3, -1, 1))
	require.Equal(t, -1.0, Clip(-3, -1, 1))
	require.Equal(t, 0.5, Clip(0.5, -1, 1))
}

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, -2, 3})
	require.Equal(t, 3.0, max)
	require.Equal(t, []int{1, 3}, indices)

	require.Panics(t, func() { MaxSlice(nil) })
}

func TestArgmax(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	require.Equal(t, 2, Argmax([]float64{0, 1, 5, 2}, rng))

	seen := make(map[int]bool)
	for i := 0; i < 100; i++ {
		seen[Argmax([]float64{4, 1, 4, 4}, rng)] = true
	}
	require.Equal(t, map[int]bool{0: true, 2: true, 3: true}, seen)
}
