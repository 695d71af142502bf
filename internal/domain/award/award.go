// Package award defines the contract for drawing claim point amounts.
package award

import (
	"math/rand"
	"sync"
	"time"
)

// Default award bounds, inclusive.
const (
	defaultMinPoints = 1
	defaultMaxPoints = 100
)

// Source draws point amounts for claims. Implementations must be safe for
// concurrent use; tests substitute a deterministic source.
type Source interface {
	// Draw returns a point amount within the source's configured bounds.
	Draw() int
}

// RandomSource implements Source with a uniform integer distribution.
type RandomSource struct {
	mu  sync.Mutex
	rng *rand.Rand
	min int
	max int
}

// Option applies a configuration option to the RandomSource.
type Option func(*RandomSource)

// WithBounds sets the inclusive draw bounds.
func WithBounds(minPoints, maxPoints int) Option {
	return func(s *RandomSource) {
		if minPoints >= 1 && maxPoints >= minPoints {
			s.min = minPoints
			s.max = maxPoints
		}
	}
}

// WithSeed seeds the underlying generator for reproducible draws.
func WithSeed(seed int64) Option {
	return func(s *RandomSource) {
		s.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // award draws need no crypto randomness
	}
}

// NewRandomSource creates a Source drawing uniformly from [min,max].
func NewRandomSource(opts ...Option) *RandomSource {
	s := &RandomSource{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // award draws need no crypto randomness
		min: defaultMinPoints,
		max: defaultMaxPoints,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Draw returns a uniform integer in [min,max] inclusive.
func (s *RandomSource) Draw() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.min + s.rng.Intn(s.max-s.min+1)
}

// Fixed is a deterministic Source cycling through a preset sequence.
// Intended for tests that assert exact claim outcomes.
type Fixed struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewFixed creates a Fixed source. It panics on an empty sequence.
func NewFixed(values ...int) *Fixed {
	if len(values) == 0 {
		panic("award: fixed source needs at least one value")
	}
	return &Fixed{values: values}
}

// Draw returns the next value in the sequence, wrapping around.
func (f *Fixed) Draw() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}
