package audio

import (
	"math"
	"testing"
)

func TestMixerClockAdvances(t *testing.T) {
	m := NewMixer(8000)
	if m.Now() != 0 {
		t.Fatalf("fresh mixer clock = %v, want 0", m.Now())
	}
	buf := make([]float32, 1600) // 800 frames = 0.1 s
	m.Process(buf)
	if got := m.Now(); math.Abs(got-0.1) > 1e-9 {
		t.Fatalf("clock after render = %v, want 0.1", got)
	}
	m.Advance(0.4)
	if got := m.Now(); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("clock after advance = %v, want 0.5", got)
	}
}

func TestScheduleTonePastClampedToNow(t *testing.T) {
	m := NewMixer(8000)
	m.Advance(1.0)
	m.ScheduleTone(0.2, 0.1, 600, 0.5)
	// The tone must still be pending, shifted to start at the current time.
	if m.Pending() != 1 {
		t.Fatalf("expected clamped tone to remain pending")
	}
	m.Advance(0.05)
	if m.Pending() != 1 {
		t.Fatalf("clamped tone expired too early")
	}
	m.Advance(0.1)
	if m.Pending() != 0 {
		t.Fatalf("clamped tone should have expired")
	}
}

func TestProcessRendersTone(t *testing.T) {
	m := NewMixer(8000)
	m.ScheduleTone(0, 0.1, 600, 0.8)
	buf := make([]float32, 1600)
	m.Process(buf)
	var peak float64
	for _, s := range buf {
		if v := math.Abs(float64(s)); v > peak {
			peak = v
		}
	}
	if peak < 0.3 {
		t.Fatalf("expected audible tone, peak = %v", peak)
	}
}

func TestSilenceDropsTones(t *testing.T) {
	m := NewMixer(8000)
	m.ScheduleTone(0, 1, 600, 0.5)
	m.ScheduleTone(2, 1, 600, 0.5)
	m.Silence()
	if m.Pending() != 0 {
		t.Fatalf("Silence left %d tones pending", m.Pending())
	}
	buf := make([]float32, 256)
	m.Process(buf)
	for _, s := range buf {
		if s != 0 {
			t.Fatalf("expected silent output after Silence")
		}
	}
}

func TestNoiseLifecycle(t *testing.T) {
	m := NewMixer(8000)
	if !m.StartNoise() {
		t.Fatalf("first StartNoise should report newly started")
	}
	if m.StartNoise() {
		t.Fatalf("second StartNoise should be a no-op")
	}
	if !m.NoiseOn() {
		t.Fatalf("noise should be on")
	}
	m.SetNoiseLevel(0.5)
	buf := make([]float32, 512)
	m.Process(buf)
	var any bool
	for _, s := range buf {
		if s != 0 {
			any = true
			break
		}
	}
	if !any {
		t.Fatalf("expected noise output")
	}
	m.ScheduleTone(m.Now(), 1, 600, 0.5)
	m.StopNoise()
	if m.NoiseOn() {
		t.Fatalf("noise should be off after StopNoise")
	}
	if m.Pending() != 0 {
		t.Fatalf("StopNoise must also silence in-flight tones")
	}
}

func TestLockMonotonicity(t *testing.T) {
	m := NewMixer(8000)
	var l Lock
	l.Extend(1.5)
	l.Extend(0.7)
	if got := l.Until(); got != 1.5 {
		t.Fatalf("lock moved backward: %v", got)
	}
	l.Extend(2.0)
	if got := l.Until(); got != 2.0 {
		t.Fatalf("lock = %v, want 2.0", got)
	}
	if !l.Busy(m) {
		t.Fatalf("lock should be busy while now < until")
	}
	m.Advance(2.5)
	if l.Busy(m) {
		t.Fatalf("lock should be free after the watermark passes")
	}
	l.Extend(5)
	l.Release()
	if l.Until() != 0 {
		t.Fatalf("Release must free the channel")
	}
}

func TestEnvelopeEdges(t *testing.T) {
	if e := envelope(0, 0.1); e != 0 {
		t.Fatalf("envelope at onset = %v, want 0", e)
	}
	if e := envelope(0.05, 0.1); math.Abs(e-1) > 1e-9 {
		t.Fatalf("envelope mid-tone = %v, want 1", e)
	}
	if e := envelope(0.1, 0.1); math.Abs(e) > 1e-9 {
		t.Fatalf("envelope at end = %v, want 0", e)
	}
}
