// Package randx provides the single random source threaded through a prep run.
//
// Reproducing a run needs the same seed AND the same call order: the mangle
// coin flips, the per-character draws and the fold draws all consume the same
// stream.
package randx

import (
	"fmt"
	"math/rand/v2"
)

// Source is the random stream consumed by the noise and fold stages.
type Source interface {
	// Bool returns a fair coin flip.
	Bool() bool
	// Float64 returns a uniform value in [0,1).
	Float64() float64
	// IntN returns a uniform value in [0,n). It panics if n <= 0.
	IntN(n int) int
}

// pcgStream is the second PCG word; the seed supplies the first.
const pcgStream = 0x9e3779b97f4a7c15

// Rand is a seeded Source backed by a PCG generator.
type Rand struct {
	seed int64
	r    *rand.Rand
}

// New returns a Source whose stream is fully determined by seed.
func New(seed int64) *Rand {
	return &Rand{
		seed: seed,
		r:    rand.New(rand.NewPCG(uint64(seed), pcgStream)),
	}
}

// Seed returns the seed the stream was created with.
func (r *Rand) Seed() int64 { return r.seed }

func (r *Rand) Bool() bool { return r.r.Uint64()&1 == 1 }

func (r *Rand) Float64() float64 { return r.r.Float64() }

func (r *Rand) IntN(n int) int { return r.r.IntN(n) }

// Scripted replays fixed values, for tests that need to steer every draw.
// Each method consumes its own queue and panics when the queue runs dry, so a
// test fails loudly if a stage draws more often than expected.
type Scripted struct {
	Bools  []bool
	Floats []float64
	Ints   []int
}

func (s *Scripted) Bool() bool {
	if len(s.Bools) == 0 {
		panic("randx: scripted Bool exhausted")
	}
	v := s.Bools[0]
	s.Bools = s.Bools[1:]
	return v
}

func (s *Scripted) Float64() float64 {
	if len(s.Floats) == 0 {
		panic("randx: scripted Float64 exhausted")
	}
	v := s.Floats[0]
	s.Floats = s.Floats[1:]
	return v
}

func (s *Scripted) IntN(n int) int {
	if len(s.Ints) == 0 {
		panic("randx: scripted IntN exhausted")
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("randx: scripted IntN value %d outside [0,%d)", v, n))
	}
	return v
}

// Remaining reports how many scripted values have not been consumed.
func (s *Scripted) Remaining() int {
	return len(s.Bools) + len(s.Floats) + len(s.Ints)
}
