package cw

import (
	"math"
	"testing"

	"github.com/Phoenix-64/morsewalker/internal/audio"
	"github.com/Phoenix-64/morsewalker/internal/morse"
)

type fakeSink struct {
	events []scheduledTone
}

type scheduledTone struct {
	start, duration, freq, amp float64
}

func (s *fakeSink) ScheduleTone(start, duration, freq, amp float64) {
	s.events = append(s.events, scheduledTone{start, duration, freq, amp})
}

type fakeClock struct{ now float64 }

func (c *fakeClock) Now() float64 { return c.now }

func newTestPlayer(p Params) (*Player, *fakeSink, *fakeClock) {
	sink := &fakeSink{}
	clock := &fakeClock{}
	return New(sink, clock, nil, p), sink, clock
}

func TestSendReturnsStartPlusDuration(t *testing.T) {
	p, sink, _ := newTestPlayer(Params{WPM: 25, Pitch: 600, Volume: 0.8})
	text := "CQ TEST K1ABC"
	start := 2.0
	end := p.Send(text, start)
	want := start + morse.NewTiming(25, 0).Duration(text)
	if math.Abs(end-want) > 1e-9 {
		t.Fatalf("Send end = %v, want %v", end, want)
	}
	if len(sink.events) == 0 {
		t.Fatalf("expected scheduled tones")
	}
	for _, ev := range sink.events {
		if ev.start < start {
			t.Fatalf("tone scheduled before requested start: %v < %v", ev.start, start)
		}
		if ev.freq != 600 {
			t.Fatalf("tone pitch = %v, want 600", ev.freq)
		}
	}
}

func TestSendEmptyStringIsNoOp(t *testing.T) {
	p, sink, _ := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1})
	if end := p.Send("", 3.5); end != 3.5 {
		t.Fatalf("empty Send end = %v, want 3.5", end)
	}
	if end := p.Send("   ", 3.5); end != 3.5 {
		t.Fatalf("blank Send end = %v, want 3.5", end)
	}
	if len(sink.events) != 0 {
		t.Fatalf("no tones should be scheduled")
	}
}

func TestSendSkipsUnknownCharacters(t *testing.T) {
	p, sink, _ := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1})
	endWeird := p.Send("E%E", 0)
	events := len(sink.events)
	sink.events = nil
	endPlain := p.Send("EE", 0)
	if math.Abs(endWeird-endPlain) > 1e-9 {
		t.Fatalf("unknown char changed timing: %v vs %v", endWeird, endPlain)
	}
	if events != len(sink.events) {
		t.Fatalf("unknown char changed event count: %d vs %d", events, len(sink.events))
	}
}

func TestSendStartClampedToClock(t *testing.T) {
	p, sink, clock := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1})
	clock.now = 10.0
	end := p.Send("E", 1.0)
	if sink.events[0].start < 10.0 {
		t.Fatalf("tone scheduled in the past: %v", sink.events[0].start)
	}
	if end < 10.0 {
		t.Fatalf("end before clock: %v", end)
	}
}

func TestSendStartClampedToLock(t *testing.T) {
	sink := &fakeSink{}
	clock := &fakeClock{}
	var lock audio.Lock
	lock.Extend(4.0)
	p := New(sink, clock, &lock, Params{WPM: 20, Pitch: 600, Volume: 1})
	p.Send("E", 1.0)
	if sink.events[0].start < 4.0 {
		t.Fatalf("tone scheduled before lock watermark: %v", sink.events[0].start)
	}
}

func TestChainedSendsDoNotOverlap(t *testing.T) {
	p, sink, _ := newTestPlayer(Params{WPM: 30, Pitch: 600, Volume: 1})
	end1 := p.Send("K1ABC", 0)
	split := len(sink.events)
	end2 := p.Send("W2XYZ", end1)
	if end2 <= end1 {
		t.Fatalf("chained end must advance: %v <= %v", end2, end1)
	}
	for _, ev := range sink.events[split:] {
		if ev.start < end1 {
			t.Fatalf("chained tone starts before previous end: %v < %v", ev.start, end1)
		}
	}
}

func TestFarnsworthStretchesGapsOnly(t *testing.T) {
	plain, _, _ := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1})
	farns, _, _ := newTestPlayer(Params{WPM: 20, FarnsworthWPM: 10, Pitch: 600, Volume: 1})
	// A single character has no inter-character gaps, so timing matches.
	if a, b := plain.Send("K", 0), farns.Send("K", 0); math.Abs(a-b) > 1e-9 {
		t.Fatalf("single char timing should not change: %v vs %v", a, b)
	}
	// Two characters include a character gap, which stretches.
	if a, b := plain.Send("KK", 0), farns.Send("KK", 0); b <= a {
		t.Fatalf("Farnsworth should lengthen multi-char text: %v vs %v", a, b)
	}
}

func TestQSBVariesAmplitudeNotTiming(t *testing.T) {
	steady, steadySink, _ := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1})
	fading, fadingSink, _ := newTestPlayer(Params{WPM: 20, Pitch: 600, Volume: 1, QSBDepth: 0.8, QSBRate: 0.5})
	text := "CQ CQ CQ DE K1ABC K1ABC"
	endSteady := steady.Send(text, 0)
	endFading := fading.Send(text, 0)
	if math.Abs(endSteady-endFading) > 1e-9 {
		t.Fatalf("QSB must not alter timing: %v vs %v", endSteady, endFading)
	}
	if len(steadySink.events) != len(fadingSink.events) {
		t.Fatalf("QSB must not alter event count")
	}
	varied := false
	first := fadingSink.events[0].amp
	for _, ev := range fadingSink.events {
		if math.Abs(ev.amp-first) > 1e-3 {
			varied = true
		}
		if ev.amp > 1 || ev.amp < 0 {
			t.Fatalf("amplitude out of range: %v", ev.amp)
		}
	}
	if !varied {
		t.Fatalf("expected amplitude variation with QSB enabled")
	}
}
