// Package signal produces the pseudo-random complex input sequences that every
// benchmarked implementation consumes.
package signal

import (
	"math/rand/v2"
	"sync"
)

// pcgStream is the fixed second word of every PCG state built from a user
// seed, so that a single integer fully determines the sequence.
const pcgStream = 0x9e3779b97f4a7c15

// Generator produces complex sequences whose real and imaginary parts are
// drawn uniformly from [0, 1). It is safe for concurrent use; callers that
// need reproducible output should own their Generator rather than share one.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a deterministic Generator. Two generators built from
// the same seed produce identical sequences.
//
// Parameters:
//   - seed: The seed of the underlying PCG source.
//
// Returns:
//   - *Generator: A new generator.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, pcgStream))}
}

// NewEntropyGenerator creates a Generator seeded from the runtime's entropy
// source. Its output is not reproducible.
func NewEntropyGenerator() *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// Generate returns exactly size complex values. The real parts of the whole
// sequence are drawn first, then the imaginary parts.
//
// Parameters:
//   - size: The number of elements. Zero or negative yields an empty slice.
//
// Returns:
//   - []complex128: A freshly allocated sequence owned by the caller.
func (g *Generator) Generate(size int) []complex128 {
	if size <= 0 {
		return []complex128{}
	}
	re := make([]float64, size)
	out := make([]complex128, size)

	g.mu.Lock()
	for i := range re {
		re[i] = g.rng.Float64()
	}
	for i := range out {
		out[i] = complex(re[i], g.rng.Float64())
	}
	g.mu.Unlock()
	return out
}

var (
	defaultMu  sync.RWMutex
	defaultGen *Generator
)

// InitDefault installs the process-wide generator used by Generate when no
// seed is supplied. It is meant to be called once at process start.
func InitDefault(g *Generator) {
	defaultMu.Lock()
	defaultGen = g
	defaultMu.Unlock()
}

// Default returns the process-wide generator, creating an entropy-seeded one
// if InitDefault was never called.
func Default() *Generator {
	defaultMu.RLock()
	g := defaultGen
	defaultMu.RUnlock()
	if g != nil {
		return g
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultGen == nil {
		defaultGen = NewEntropyGenerator()
	}
	return defaultGen
}

// Generate returns a sequence of size elements. When seed is non-nil a fresh
// generator seeded with *seed is used, so identical (size, seed) pairs always
// produce identical sequences. Otherwise the process-wide default is used.
//
// Parameters:
//   - size: The number of elements.
//   - seed: Optional seed; nil selects the default generator.
//
// Returns:
//   - []complex128: The generated sequence.
func Generate(size int, seed *int64) []complex128 {
	if seed != nil {
		return NewGenerator(uint64(*seed)).Generate(size)
	}
	return Default().Generate(size)
}
