package standalone

import "time"

// RedrawQuantum is the minimum spacing between screen redraws. It sits
// just under a 60 Hz frame so a redraw is early rather than missed.
const RedrawQuantum = 15 * time.Millisecond

// FramePacer gates redraws on a deadline that advances by exactly one
// quantum per redraw. After a stall it catches up one redraw per tick
// instead of skipping ahead.
type FramePacer struct {
	deadline time.Duration
	quantum  time.Duration
}

// NewFramePacer creates a pacer whose first redraw is due at time zero.
func NewFramePacer(quantum time.Duration) *FramePacer {
	return &FramePacer{quantum: quantum}
}

// Due reports whether a redraw should run at host time now, advancing
// the deadline when it does.
func (p *FramePacer) Due(now time.Duration) bool {
	if now < p.deadline {
		return false
	}
	p.deadline += p.quantum
	return true
}

// Deadline returns the time of the next scheduled redraw.
func (p *FramePacer) Deadline() time.Duration {
	return p.deadline
}
