package audio

import (
	"math"
	"sync"
)

// NoiseWarmup is the fixed delay between starting the noise bed and the
// earliest usable tone start, so the band does not open in dead silence.
const NoiseWarmup = 0.35

// edgeTime shapes tone attack and release with a raised-cosine ramp to avoid
// key clicks.
const edgeTime = 0.005

type toneVoice struct {
	start    float64
	duration float64
	freq     float64
	amp      float64
	phase    float64
}

// Mixer is the shared virtual timeline: tones are scheduled against it and
// rendered sample-accurately into float32 stereo buffers. Time advances as
// frames are rendered, which makes the clock monotonic and not rewindable.
//
// All methods are safe for concurrent use; the render callback runs on the
// audio thread while scheduling happens on the event thread.
type Mixer struct {
	mu     sync.Mutex
	rate   int
	frames int64
	tones  []toneVoice

	noiseOn    bool
	noiseLevel float64
	noiseState uint64
	noisePrev  float64
}

// NewMixer returns a mixer rendering at the given sample rate.
func NewMixer(sampleRate int) *Mixer {
	return &Mixer{rate: sampleRate, noiseState: 0x9E3779B97F4A7C15}
}

// Now returns the current timeline position in seconds.
func (m *Mixer) Now() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.frames) / float64(m.rate)
}

// ScheduleTone implements Sink. Tones scheduled in the past are clamped to
// the current timeline position.
func (m *Mixer) ScheduleTone(start, duration, freq, amp float64) {
	if duration <= 0 || amp <= 0 {
		return
	}
	m.mu.Lock()
	now := float64(m.frames) / float64(m.rate)
	if start < now {
		start = now
	}
	m.tones = append(m.tones, toneVoice{start: start, duration: duration, freq: freq, amp: amp})
	m.mu.Unlock()
}

// Silence drops every scheduled and in-flight tone. The timeline keeps
// advancing; only the events are discarded.
func (m *Mixer) Silence() {
	m.mu.Lock()
	m.tones = nil
	m.mu.Unlock()
}

// StartNoise starts the background noise bed if it is not already running.
// It reports whether the bed was newly started, in which case the caller
// must offset its first tone sequence by NoiseWarmup.
func (m *Mixer) StartNoise() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.noiseOn {
		return false
	}
	m.noiseOn = true
	return true
}

// NoiseOn reports whether the noise bed is running.
func (m *Mixer) NoiseOn() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.noiseOn
}

// SetNoiseLevel adjusts noise intensity, 0..1.
func (m *Mixer) SetNoiseLevel(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	m.mu.Lock()
	m.noiseLevel = level
	m.mu.Unlock()
}

// StopNoise stops the noise bed and silences all in-flight tones.
func (m *Mixer) StopNoise() {
	m.mu.Lock()
	m.noiseOn = false
	m.tones = nil
	m.mu.Unlock()
}

// Advance moves the timeline forward without rendering. Tests use this in
// place of a running audio device.
func (m *Mixer) Advance(seconds float64) {
	if seconds <= 0 {
		return
	}
	m.mu.Lock()
	m.frames += int64(seconds * float64(m.rate))
	m.expireLocked()
	m.mu.Unlock()
}

// Pending returns the number of scheduled tones that have not finished.
func (m *Mixer) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tones)
}

// Process renders interleaved stereo float32 frames and advances the
// timeline by len(dst)/2 frames.
func (m *Mixer) Process(dst []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(dst) / 2
	dt := 1.0 / float64(m.rate)
	now := float64(m.frames) / float64(m.rate)
	for f := 0; f < frames; f++ {
		t := now + float64(f)*dt
		var sample float64
		for i := range m.tones {
			v := &m.tones[i]
			if t < v.start || t >= v.start+v.duration {
				continue
			}
			v.phase += 2 * math.Pi * v.freq * dt
			if v.phase > 2*math.Pi {
				v.phase -= 2 * math.Pi
			}
			sample += math.Sin(v.phase) * v.amp * envelope(t-v.start, v.duration)
		}
		if m.noiseOn && m.noiseLevel > 0 {
			sample += m.nextNoise() * m.noiseLevel * 0.25
		}
		if sample > 1 {
			sample = 1
		}
		if sample < -1 {
			sample = -1
		}
		dst[2*f] = float32(sample)
		dst[2*f+1] = float32(sample)
	}
	m.frames += int64(frames)
	m.expireLocked()
}

func (m *Mixer) expireLocked() {
	now := float64(m.frames) / float64(m.rate)
	kept := m.tones[:0]
	for _, v := range m.tones {
		if v.start+v.duration > now {
			kept = append(kept, v)
		}
	}
	m.tones = kept
}

// envelope applies raised-cosine edges inside the tone duration.
func envelope(elapsed, duration float64) float64 {
	edge := edgeTime
	if duration < 2*edge {
		edge = duration / 2
	}
	switch {
	case elapsed < edge:
		return 0.5 - 0.5*math.Cos(math.Pi*elapsed/edge)
	case elapsed > duration-edge:
		return 0.5 - 0.5*math.Cos(math.Pi*(duration-elapsed)/edge)
	default:
		return 1
	}
}

// nextNoise produces band-limited noise: a xorshift generator through a
// one-pole lowpass so it sounds like receiver hiss rather than harsh static.
func (m *Mixer) nextNoise() float64 {
	x := m.noiseState
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	m.noiseState = x
	white := float64(int64(x)) / float64(math.MaxInt64) * 0.5
	m.noisePrev += 0.15 * (white - m.noisePrev)
	return m.noisePrev * 4
}
