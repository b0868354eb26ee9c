package expreplay

import (
	"golang.org/x/exp/rand"
)

// uniformSelector selects distinct indices of an experience replay
// buffer uniformly randomly, that is, without replacement.
type uniformSelector struct {
	rng *rand.Rand

	// scratch holds a permutation of buffer indices which is partially
	// shuffled on each call to choose
	scratch []int
}

// newUniformSelector returns a new uniformSelector
func newUniformSelector(seed uint64) *uniformSelector {
	source := rand.NewSource(seed)
	return &uniformSelector{rng: rand.New(source)}
}

// choose selects n distinct indices in [0, size) using a partial
// Fisher-Yates shuffle. The caller must ensure n <= size.
func (u *uniformSelector) choose(n, size int) []int {
	// Buffers only grow, so scratch stays a permutation of [0, size)
	// by appending the newly available indices
	for i := len(u.scratch); i < size; i++ {
		u.scratch = append(u.scratch, i)
	}

	for i := 0; i < n; i++ {
		j := i + u.rng.Intn(size-i)
		u.scratch[i], u.scratch[j] = u.scratch[j], u.scratch[i]
	}

	selected := make([]int, n)
	copy(selected, u.scratch[:n])
	return selected
}
