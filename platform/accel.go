package platform

import (
	"math/rand"
	"sync"
)

// NoiseAccelerometer simulates a worn sensor at rest: 1g on the z
// axis with a little jitter. Spike queues scripted readings, which
// the simulator uses to stage falls.
type NoiseAccelerometer struct {
	mu      sync.Mutex
	rng     *rand.Rand
	pending []int32
}

func NewNoiseAccelerometer(seed int64) *NoiseAccelerometer {
	return &NoiseAccelerometer{rng: rand.New(rand.NewSource(seed))}
}

func (a *NoiseAccelerometer) Sample() (x, y, z int32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) > 0 {
		z = a.pending[0]
		a.pending = a.pending[1:]
		return 0, 0, z
	}
	jitter := func() int32 { return int32(a.rng.Intn(41)) - 20 }
	return jitter(), jitter(), 1000 + jitter()
}

// Spike queues scripted z-axis readings, returned one per sample
// before the noise resumes.
func (a *NoiseAccelerometer) Spike(readings ...int32) {
	a.mu.Lock()
	a.pending = append(a.pending, readings...)
	a.mu.Unlock()
}
