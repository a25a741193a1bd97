package domain

import "math/rand/v2"

// seededRNG is a reproducible RNG for tests and replayable sessions.
type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns an RNG whose sequence is fixed by seed.
func NewSeededRNG(seed uint64) RNG {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) Intn(n int) int   { return s.r.IntN(n) }
func (s *seededRNG) Float64() float64 { return s.r.Float64() }
