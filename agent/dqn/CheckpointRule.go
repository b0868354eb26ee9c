package dqn

// DefaultThreshold is the population score above which the best
// checkpoint is only replaced if the single-patient score also improves
const DefaultThreshold = 2e10

// CheckpointRule decides whether the current weights should replace
// the best checkpoint, given the scores of a population evaluation and
// a single-patient evaluation.
//
// A new checkpoint is accepted only if its population score exceeds the
// best population score. While the best population score is below
// Threshold, this is sufficient. Once it is above Threshold, the
// single-patient score must improve as well. A best population score
// exactly equal to Threshold accepts nothing.
type CheckpointRule struct {
	Threshold float64

	bestPopulation float64
	bestScore      float64
}

// NewCheckpointRule returns a new CheckpointRule whose best scores
// start at zero
func NewCheckpointRule(threshold float64) *CheckpointRule {
	return &CheckpointRule{Threshold: threshold}
}

// Accept returns whether a checkpoint with the given scores should
// replace the best checkpoint. If so, the best scores are updated.
func (c *CheckpointRule) Accept(population, score float64) bool {
	if population <= c.bestPopulation {
		return false
	}

	accept := c.bestPopulation < c.Threshold ||
		(c.bestPopulation > c.Threshold && score > c.bestScore)
	if accept {
		c.bestPopulation = population
		c.bestScore = score
	}
	return accept
}

// Best returns the population and single-patient scores of the best
// checkpoint
func (c *CheckpointRule) Best() (population, score float64) {
	return c.bestPopulation, c.bestScore
}
