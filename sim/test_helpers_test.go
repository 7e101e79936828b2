package sim

import "math/rand"

// syntheticTrace returns n events with I/O times between 50µs and 250µs
// and occasional slow completions, shuffled timestamps included.
func syntheticTrace(n int, seed int64) Trace {
	rng := rand.New(rand.NewSource(seed))
	events := make([]IOEvent, n)
	for i := range events {
		io := int64(50_000 + rng.Intn(200_000))
		if rng.Intn(50) == 0 {
			io *= 10
		}
		events[i] = IOEvent{IOTime: io, Timestamp: int64(i) + int64(rng.Intn(3))}
	}
	return NewTrace(events...)
}
