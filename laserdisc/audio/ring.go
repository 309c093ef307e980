package audio

import (
	"log/slog"
	"math"
	"sync"
)

// Ring is the circular buffer between the player, which pushes one
// field of audio per vsync, and the sound stream, which pulls samples at
// its own pace. Samples are interleaved left/right pairs.
type Ring struct {
	mu         sync.Mutex
	samples    []int16
	head       int // next pair to read
	count      int // pairs available
	sampleRate int

	overruns uint64
}

// PairsPerField returns the number of sample pairs in one video field,
// rounded up.
func PairsPerField(sampleRate int, fieldRate float64) int {
	return int(math.Ceil(float64(sampleRate) / fieldRate))
}

// NewRing creates a ring holding slightly more than one field of audio.
func NewRing(sampleRate int, fieldRate float64) *Ring {
	pairs := PairsPerField(sampleRate, fieldRate)
	pairs += pairs / 4
	return &Ring{
		samples:    make([]int16, pairs*Channels),
		sampleRate: sampleRate,
	}
}

func (r *Ring) SampleRate() int {
	return r.sampleRate
}

// Capacity is the ring size in sample pairs.
func (r *Ring) Capacity() int {
	return len(r.samples) / Channels
}

// Len is the number of sample pairs waiting to be read.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Write appends interleaved pairs from src. Channels whose bit is clear
// in enabled are written as silence. When the ring is full the oldest
// pairs are dropped.
func (r *Ring) Write(src []int16, enabled [Channels]bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := r.Capacity()
	pairs := len(src) / Channels
	dropped := 0
	for i := 0; i < pairs; i++ {
		if r.count == capacity {
			r.head = (r.head + 1) % capacity
			r.count--
			dropped++
		}
		tail := (r.head + r.count) % capacity
		for ch := 0; ch < Channels; ch++ {
			var s int16
			if enabled[ch] {
				s = src[i*Channels+ch]
			}
			r.samples[tail*Channels+ch] = s
		}
		r.count++
	}

	if dropped > 0 {
		r.overruns++
		slog.Debug("audio ring overrun", "dropped_pairs", dropped, "overruns", r.overruns)
	}
}

// Read fills dst with interleaved pairs, zero-filling whatever the ring
// cannot supply, and returns the number of pairs actually read.
func (r *Ring) Read(dst []int16) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := r.Capacity()
	pairs := len(dst) / Channels
	n := pairs
	if n > r.count {
		n = r.count
	}
	for i := 0; i < n; i++ {
		copy(dst[i*Channels:(i+1)*Channels], r.samples[r.head*Channels:(r.head+1)*Channels])
		r.head = (r.head + 1) % capacity
	}
	r.count -= n

	for i := n * Channels; i < len(dst); i++ {
		dst[i] = 0
	}
	return n
}

// Reset discards any buffered audio.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.count = 0
}
