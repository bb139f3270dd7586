package game

import (
	"math/rand"
	"sync"
	"time"
)

const codeChars = "abcdefghijklmnopqrstuvwxyz0123456789"

// Roller wraps a seeded random source behind a mutex so concurrent game
// operations can share one generator. Tests construct it with a fixed
// seed for reproducible event draws and market drift.
type Roller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a roller seeded from the wall clock.
func NewRoller() *Roller {
	return NewSeededRoller(time.Now().UnixNano())
}

// NewSeededRoller creates a roller with a fixed seed.
func NewSeededRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (r *Roller) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// Uniform returns a uniform float in [lo, hi).
func (r *Roller) Uniform(lo, hi float64) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo + r.rng.Float64()*(hi-lo)
}

// Code generates a lowercase alphanumeric access code.
func (r *Roller) Code(length int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = codeChars[r.rng.Intn(len(codeChars))]
	}
	return string(buf)
}
