package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic simulation.
// Every generator and bootstrap call receives an explicit stream; there is no
// hidden global random state anywhere in the engine.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(name string, seed int64) *rand.Rand

	// TrialStream derives an independent deterministic stream for one trial of
	// one experiment cell. Identical (cellKey, trial, baseSeed) triples always
	// yield identical streams, so trials can run in any order or in parallel
	// without changing results.
	TrialStream(cellKey string, trial int, baseSeed int64) *rand.Rand
}
