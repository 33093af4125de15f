package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ComputeCellFingerprint generates a deterministic hash from everything that
// determines a cell's output. Two runs with equal fingerprints must produce
// bit-identical results.
func ComputeCellFingerprint(cellKey string, trials int, confidence float64, seed int64) Hash {
	data := fmt.Sprintf("cell:%s|trials:%d|confidence:%.6f|seed:%d", cellKey, trials, confidence, seed)
	return NewHash([]byte(data))
}
