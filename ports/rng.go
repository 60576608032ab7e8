package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic operations
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a named operation
	SeededStream(name string, seed int64) *rand.Rand

	// TrialStream creates a deterministic RNG stream for one trial of a named
	// operation. Streams for distinct trial indices are independent, and the
	// same (name, seed, trial) always yields the same sequence so concurrent
	// trials stay reproducible.
	TrialStream(name string, seed int64, trial int) *rand.Rand
}
