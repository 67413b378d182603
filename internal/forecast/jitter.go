package forecast

import (
	"math/rand/v2"
	"sync"

	"github.com/iwvelando/ai-business-solutions/pkg/constants"
)

// JitterSource supplies the per-period random factor.
type JitterSource interface {
	Next() float64
}

// RandomJitter draws factors uniformly from [JitterMin, JitterMax). It is safe
// for concurrent use.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter returns a jitter source seeded with seed. A zero seed picks
// a random seed, so results are not reproducible.
func NewRandomJitter(seed uint64) *RandomJitter {
	hi, lo := seed, seed^0x9e3779b97f4a7c15
	if seed == 0 {
		hi, lo = rand.Uint64(), rand.Uint64()
	}
	return &RandomJitter{rng: rand.New(rand.NewPCG(hi, lo))}
}

// Next returns the next factor.
func (j *RandomJitter) Next() float64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return constants.JitterMin + j.rng.Float64()*(constants.JitterMax-constants.JitterMin)
}

// FixedJitter always returns the same factor. FixedJitter(1) neutralizes
// jitter entirely.
type FixedJitter float64

// Next returns the fixed factor.
func (f FixedJitter) Next() float64 {
	return float64(f)
}
