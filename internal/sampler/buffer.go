package sampler

import (
	"sync"

	"cryptoboard/internal/models"
)

// Buffer holds the most recent samples, oldest first, up to a fixed size.
// One goroutine records; any number may read snapshots.
type Buffer struct {
	mu      sync.RWMutex
	size    int
	samples []models.Sample
}

// NewBuffer returns an empty Buffer bounded to size samples.
func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{
		size:    size,
		samples: make([]models.Sample, 0, size),
	}
}

// Record appends s, first evicting the oldest sample if the buffer is full.
// It returns the evicted sample, if any.
func (b *Buffer) Record(s models.Sample) (evicted models.Sample, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.samples) >= b.size {
		evicted, ok = b.samples[0], true
		copy(b.samples, b.samples[1:])
		b.samples = b.samples[:len(b.samples)-1]
	}
	b.samples = append(b.samples, s)
	return evicted, ok
}

// Samples returns a copy of the buffer in insertion order.
func (b *Buffer) Samples() []models.Sample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.Sample, len(b.samples))
	copy(out, b.samples)
	return out
}

func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

func (b *Buffer) Cap() int {
	return b.size
}
