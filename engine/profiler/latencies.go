package profiler

import "sync"

// Latencies is an append-only sequence of GPU pass latencies in milliseconds.
// The frame loop appends; the collector goroutine reads snapshots.
type Latencies struct {
	mu      sync.Mutex
	samples []float32
}

// NewLatencies creates an empty latency sequence.
func NewLatencies() *Latencies {
	return &Latencies{}
}

// Append records one latency sample.
//
// Parameters:
//   - ms: pass latency in milliseconds
func (l *Latencies) Append(ms float32) {
	l.mu.Lock()
	l.samples = append(l.samples, ms)
	l.mu.Unlock()
}

// Snapshot copies the samples recorded so far.
//
// Returns:
//   - []float32: a copy safe to read without holding the lock
func (l *Latencies) Snapshot() []float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]float32, len(l.samples))
	copy(out, l.samples)
	return out
}

// Len returns the number of samples recorded so far.
func (l *Latencies) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.samples)
}
