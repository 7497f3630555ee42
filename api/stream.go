package vmcore

import "sync"

// StreamData produces interleaved float32 samples for one audio stream.
// Next must fill all of out, writing silence when it has nothing to play.
type StreamData interface {
	Next(out []float32)
}

// Stream guards a StreamData shared between the machine, which
// reconfigures it on the tick thread, and the audio callback, which only
// consumes. The lock is held for one Next or one Update at a time.
type Stream struct {
	mu   sync.Mutex
	data StreamData
}

// NewStream wraps data for sharing with the audio callback.
func NewStream(data StreamData) *Stream {
	return &Stream{data: data}
}

// Fill is the audio callback's entry point: lock, produce, unlock.
// A nil producer yields silence.
func (s *Stream) Fill(out []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		clear(out)
		return
	}
	s.data.Next(out)
}

// Update runs fn with exclusive access to the producer. fn must only hand
// off new data; it must not call back into the machine.
func (s *Stream) Update(fn func(StreamData)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Replace swaps the producer.
func (s *Stream) Replace(data StreamData) {
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
}

// SampleRing is a fixed-capacity sample queue. Push drops the oldest
// samples when full; Next never blocks and pads with silence.
type SampleRing struct {
	mu       sync.Mutex
	buf      []float32
	readPos  int
	writePos int
	count    int
}

// NewSampleRing creates a ring holding up to capacity samples.
func NewSampleRing(capacity int) *SampleRing {
	if capacity < 1 {
		capacity = 1
	}
	return &SampleRing{buf: make([]float32, capacity)}
}

// Push appends samples, overwriting the oldest ones on overflow.
func (r *SampleRing) Push(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.buf)
	if len(samples) >= capacity {
		// Only the newest capacity samples survive.
		copy(r.buf, samples[len(samples)-capacity:])
		r.readPos = 0
		r.writePos = 0
		r.count = capacity
		return
	}

	if overflow := r.count + len(samples) - capacity; overflow > 0 {
		r.readPos = (r.readPos + overflow) % capacity
		r.count -= overflow
	}

	n := copy(r.buf[r.writePos:], samples)
	if n < len(samples) {
		copy(r.buf, samples[n:])
	}
	r.writePos = (r.writePos + len(samples)) % capacity
	r.count += len(samples)
}

// Next implements StreamData.
func (r *SampleRing) Next(out []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.buf)
	n := min(len(out), r.count)
	first := min(n, capacity-r.readPos)
	copy(out, r.buf[r.readPos:r.readPos+first])
	copy(out[first:n], r.buf[:n-first])
	r.readPos = (r.readPos + n) % capacity
	r.count -= n

	clear(out[n:])
}

// Buffered returns the number of queued samples.
func (r *SampleRing) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Clear drops all queued samples.
func (r *SampleRing) Clear() {
	r.mu.Lock()
	r.readPos = 0
	r.writePos = 0
	r.count = 0
	r.mu.Unlock()
}
