package ports

import (
	"math/rand"

	"normsim/domain/experiment"
)

// Sampler draws i.i.d. samples from a distribution spec. Implementations must
// produce exactly n values and be fully determined by the supplied stream.
type Sampler interface {
	Generate(spec experiment.DistributionSpec, n int, rng *rand.Rand) ([]float64, error)
}
