package rng

import (
	"hash/fnv"
	"math/rand"
	"strconv"
)

// Seeded provides deterministic named random streams. The same
// (name, seed, trial) always yields the same sequence, so concurrent
// consumers stay reproducible without sharing generator state.
type Seeded struct{}

// NewSeeded creates a deterministic stream factory
func NewSeeded() *Seeded {
	return &Seeded{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (s *Seeded) SeededStream(name string, seed int64) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(name, seed, -1)))
}

// TrialStream creates an independent deterministic stream for one trial of
// a named operation.
func (s *Seeded) TrialStream(name string, seed int64, trial int) *rand.Rand {
	return rand.New(rand.NewSource(deriveSeed(name, seed, trial)))
}

// deriveSeed mixes the operation name, base seed and trial index through
// FNV-1a so adjacent seeds do not produce correlated streams.
func deriveSeed(name string, seed int64, trial int) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(seed, 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(trial)))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}
