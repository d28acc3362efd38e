package game

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RandomSource draws the gap position of every new pipe.
type RandomSource interface {
	// IntRange returns a uniformly distributed integer in [min, max].
	IntRange(min, max int) int
}

// RandSource is a RandomSource backed by a seeded PCG generator.
type RandSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandSource returns a RandSource seeded with seed. A zero seed picks
// one from the wall clock.
func NewRandSource(seed uint64) *RandSource {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &RandSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntRange implements RandomSource.
func (r *RandSource) IntRange(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.IntN(max-min+1)
}

// SequenceSource replays a fixed list of values, cycling when exhausted.
// Values are clamped into the requested range.
type SequenceSource struct {
	values []int
	next   int
}

// NewSequenceSource returns a SequenceSource over values.
func NewSequenceSource(values ...int) *SequenceSource {
	return &SequenceSource{values: values}
}

// IntRange implements RandomSource.
func (s *SequenceSource) IntRange(min, max int) int {
	if len(s.values) == 0 {
		return min
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Draws returns how many values have been handed out.
func (s *SequenceSource) Draws() int {
	return s.next
}
