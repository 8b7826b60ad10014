package tests

import (
	"math/rand"
	"sync"
	"time"

	"bazaar/pkg/randx"
)

type Randomizer struct {
	Float64 func() float64
	Bool    func() bool
}

func NewRandomizer() Randomizer {
	random := rand.New(rand.NewSource(time.Now().Unix())) //nolint:gosec // for tests

	return Randomizer{
		Float64: random.Float64,
		Bool:    func() bool { return random.Intn(2) == 0 }, //nolint:mnd // skip
	}
}

// ScriptedRandomizer replays a fixed float sequence and implements randx.Source.
// Once the script is exhausted it keeps returning Fallback.
type ScriptedRandomizer struct {
	mu       sync.Mutex
	draws    []float64
	used     int
	Fallback float64
}

func NewScriptedRandomizer(draws ...float64) *ScriptedRandomizer {
	return &ScriptedRandomizer{
		draws:    draws,
		Fallback: 0.5, //nolint:mnd // skip
	}
}

// Push appends draws to the script.
func (s *ScriptedRandomizer) Push(draws ...float64) *ScriptedRandomizer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.draws = append(s.draws, draws...)

	return s
}

func (s *ScriptedRandomizer) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.used >= len(s.draws) {
		return s.Fallback
	}

	v := s.draws[s.used]
	s.used++

	return v
}

func (s *ScriptedRandomizer) IntRange(lo, hi int) int {
	return randx.IntRange(s, lo, hi)
}

// Remaining reports how many scripted draws have not been consumed.
func (s *ScriptedRandomizer) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.draws) - s.used
}
