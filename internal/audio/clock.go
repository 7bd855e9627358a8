// Package audio provides the virtual audio timeline, the shared transmit
// lock, and the tone mixer that renders scheduled events to PCM.
package audio

import "sync"

// Clock is the audio subsystem's own monotonic time in seconds. It advances
// only as audio is rendered (or, in tests, explicitly).
type Clock interface {
	Now() float64
}

// Sink accepts discrete tone events on the shared timeline.
type Sink interface {
	// ScheduleTone schedules a sine tone of the given duration, frequency
	// and amplitude, starting no earlier than start.
	ScheduleTone(start, duration, freq, amp float64)
}

// Lock is the busy-until watermark shared by every sound source. It models
// "the channel is occupied" without blocking: callers check Busy before
// scheduling user-initiated audio and silently decline while it holds.
type Lock struct {
	mu    sync.Mutex
	until float64
}

// Extend raises the watermark to t if t is later. The watermark never moves
// backward except through Release.
func (l *Lock) Extend(t float64) {
	l.mu.Lock()
	if t > l.until {
		l.until = t
	}
	l.mu.Unlock()
}

// Release frees the channel immediately.
func (l *Lock) Release() {
	l.mu.Lock()
	l.until = 0
	l.mu.Unlock()
}

// Busy reports whether the channel is still occupied at the clock's current
// time.
func (l *Lock) Busy(c Clock) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return c.Now() < l.until
}

// Until returns the current watermark.
func (l *Lock) Until() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.until
}
