package rng

import (
	"fmt"
	"math/rand"

	"normsim/ports"
)

// Adapter implements ports.RNGPort with deterministic stream derivation
type Adapter struct{}

// New creates a deterministic RNG adapter
func New() *Adapter {
	return &Adapter{}
}

var _ ports.RNGPort = (*Adapter)(nil)

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(name string, seed int64) *rand.Rand {
	derived := seed
	if name != "" {
		derived += int64(hashString(name))
	}
	return rand.New(rand.NewSource(derived))
}

// TrialStream derives an independent deterministic stream for one trial of a cell.
// The seed is derived by hashing cellKey + trial index onto the base seed, so
// identical inputs always reproduce the same stream regardless of execution order.
func (a *Adapter) TrialStream(cellKey string, trial int, baseSeed int64) *rand.Rand {
	seed := baseSeed
	if cellKey != "" {
		seed += int64(hashString(cellKey))
	}
	seed += int64(hashString(fmt.Sprintf("trial:%d", trial)))
	return rand.New(rand.NewSource(seed))
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
