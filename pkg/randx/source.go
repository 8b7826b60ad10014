// Package randx is the single randomness abstraction used by the game core.
package randx

import (
	"math/rand/v2"
	"sync"
)

// Source draws uniform random numbers.
type Source interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntRange returns a value in [lo, hi], both inclusive.
	IntRange(lo, hi int) int
}

// Rand is a seeded PCG source. Safe for concurrent use.
type Rand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func New(seed uint64) *Rand {
	return &Rand{
		rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // game randomness
	}
}

func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.rnd.Float64()
}

func (r *Rand) IntRange(lo, hi int) int {
	return IntRange(r, lo, hi)
}

// IntRange maps one Float64 draw of src onto [lo, hi]. Every Source derives its
// integer draws this way so a scripted float sequence fully determines a game.
// The draw is consumed even for a single-value range.
func IntRange(src interface{ Float64() float64 }, lo, hi int) int {
	f := src.Float64()
	if hi <= lo {
		return lo
	}

	n := lo + int(f*float64(hi-lo+1))
	if n > hi {
		n = hi
	}

	return n
}

// Uniform returns a value in [lo, hi).
func Uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}
