// Package cw renders text as timed Morse tone events on the shared audio
// timeline.
package cw

import (
	"math"
	"strings"

	"github.com/Phoenix-64/morsewalker/internal/audio"
	"github.com/Phoenix-64/morsewalker/internal/morse"
)

// Params holds the timing and voice parameters for one player.
type Params struct {
	WPM           int
	FarnsworthWPM int     // 0 disables Farnsworth spacing
	Pitch         float64 // Hz
	Volume        float64 // 0..1
	QSBDepth      float64 // 0 disables fading
	QSBRate       float64 // fade cycles per second; 0 picks a slow default
	QSBPhase      float64 // radians, lets stations fade out of step
}

// Player schedules one station's transmissions. Each Send chains off the
// previous one through its returned end timestamp; the player itself keeps
// no queue.
type Player struct {
	sink   audio.Sink
	clock  audio.Clock
	lock   *audio.Lock
	params Params
}

// New binds a player to the shared sink, clock and lock. The lock may be nil
// for callers that manage channel occupancy themselves.
func New(sink audio.Sink, clock audio.Clock, lock *audio.Lock, params Params) *Player {
	if params.QSBDepth > 0 && params.QSBRate == 0 {
		params.QSBRate = 0.1
	}
	return &Player{sink: sink, clock: clock, lock: lock, params: params}
}

// Params returns the player's current parameters.
func (p *Player) Params() Params {
	return p.params
}

// Send schedules text starting no earlier than the later of start, the
// current clock time, and the lock watermark, and returns the timestamp at
// which playback completes. That timestamp is the only channel through which
// callers learn when the next sound may follow.
//
// Unknown characters are skipped. An empty string returns start unchanged.
func (p *Player) Send(text string, start float64) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return start
	}

	at := start
	if now := p.clock.Now(); at < now {
		at = now
	}
	if p.lock != nil {
		if until := p.lock.Until(); at < until {
			at = until
		}
	}

	timing := morse.NewTiming(p.params.WPM, p.params.FarnsworthWPM)
	scheduled := false
	firstWord := true
	for _, word := range words {
		wordStart := at
		if !firstWord {
			wordStart += timing.WordGap
		}
		wordEnd, any := p.sendWord(word, wordStart, timing)
		if !any {
			continue
		}
		firstWord = false
		at = wordEnd
		scheduled = true
	}
	if !scheduled {
		return start
	}
	return at
}

func (p *Player) sendWord(word string, at float64, timing morse.Timing) (float64, bool) {
	any := false
	for _, ch := range word {
		seq, ok := morse.Encode(ch)
		if !ok {
			continue
		}
		if any {
			at += timing.CharGap
		}
		amp := p.params.Volume * p.fade(at)
		for i, el := range seq {
			if i > 0 {
				at += timing.ElementGap
			}
			d := timing.Dit
			if el == '-' {
				d = timing.Dah
			}
			p.sink.ScheduleTone(at, d, p.params.Pitch, amp)
			at += d
		}
		any = true
	}
	return at, any
}

// fade returns the slow QSB amplitude factor at time t. Amplitude is held
// constant within a character; only timing-neutral level changes between
// characters model the fading.
func (p *Player) fade(t float64) float64 {
	depth := p.params.QSBDepth
	if depth <= 0 {
		return 1
	}
	if depth > 1 {
		depth = 1
	}
	swing := 0.5 + 0.5*math.Sin(2*math.Pi*p.params.QSBRate*t+p.params.QSBPhase)
	return 1 - depth*swing
}
