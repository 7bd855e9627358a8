// Package engine drives the contact state machine over the shared audio
// timeline.
package engine

import (
	"github.com/Phoenix-64/morsewalker/internal/cw"
	"github.com/Phoenix-64/morsewalker/internal/model"
)

// State enumerates where the contact sequence currently stands. Actions that
// are invalid for the current state are rejected, never queued.
type State int

const (
	// StateIdle means no CQ is outstanding.
	StateIdle State = iota
	// StateAwaiting means a CQ has been sent and stations have answered;
	// the machine is waiting for the trainee's copy.
	StateAwaiting
	// StateExchanging means the callsign was copied exactly and the
	// exchange has played; the contact is pending TU confirmation.
	StateExchanging
)

func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateExchanging:
		return "exchanging"
	default:
		return "idle"
	}
}

// liveStation pairs a generated station with the player voicing it. The
// player is replaced whenever the station's timing parameters change.
type liveStation struct {
	model.Station
	player *cw.Player
}

// session is the single mutable aggregate behind the state machine. All
// mutation happens through engine transitions.
type session struct {
	state          State
	stations       []*liveStation
	activeIndex    int
	attempts       int
	contactCount   int
	contactStart   float64
	lastResponders []*liveStation
	records        []model.ContactRecord
}

func newSession() session {
	return session{state: StateIdle, activeIndex: -1}
}

func (s *session) active() *liveStation {
	if s.activeIndex < 0 || s.activeIndex >= len(s.stations) {
		return nil
	}
	return s.stations[s.activeIndex]
}

func (s *session) remove(st *liveStation) {
	kept := s.stations[:0]
	for _, cur := range s.stations {
		if cur != st {
			kept = append(kept, cur)
		}
	}
	s.stations = kept
	s.activeIndex = -1
}

// targets returns the stations a repeat request addresses: the narrowed set
// from the last partial copy when there is one, otherwise every active
// station.
func (s *session) targets() []*liveStation {
	if len(s.lastResponders) > 0 {
		live := make([]*liveStation, 0, len(s.lastResponders))
		for _, cand := range s.lastResponders {
			for _, cur := range s.stations {
				if cur == cand {
					live = append(live, cur)
					break
				}
			}
		}
		if len(live) > 0 {
			return live
		}
	}
	return s.stations
}
