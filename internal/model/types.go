// Package model defines shared data structures.
package model

import "strconv"

// Mode selects the active contact protocol.
type Mode string

const (
	ModeSingle  Mode = "single"
	ModeContest Mode = "contest"
	ModeSST     Mode = "sst"
	ModePOTA    Mode = "pota"
)

// Modes lists every supported mode in display order.
func Modes() []Mode {
	return []Mode{ModeSingle, ModeContest, ModeSST, ModePOTA}
}

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	for _, known := range Modes() {
		if m == known {
			return true
		}
	}
	return false
}

// Station is one synthetic on-air party. Identity and exchange attributes are
// fixed once generated; FarnsworthWPM may be lowered in response to QRS.
type Station struct {
	Callsign string
	WPM      int
	// FarnsworthWPM is the inter-character/word spacing speed.
	// Zero means Farnsworth spacing is disabled.
	FarnsworthWPM int
	Pitch         float64 // tone pitch in Hz

	// Exchange attributes; which ones are meaningful depends on the mode.
	Name   string
	State  string
	Serial int
	Club   int
	Park   string
}

// SpeedLabel renders the station speed, e.g. "25" or "25/18" with Farnsworth.
func (s Station) SpeedLabel() string {
	if s.FarnsworthWPM > 0 && s.FarnsworthWPM < s.WPM {
		return strconv.Itoa(s.WPM) + "/" + strconv.Itoa(s.FarnsworthWPM)
	}
	return strconv.Itoa(s.WPM)
}

// YourStation is the trainee's transmitting identity, rebuilt from validated
// settings on every call cycle.
type YourStation struct {
	Callsign string
	WPM      int
	Pitch    float64 // sidetone pitch in Hz
	Volume   float64 // 0..1

	// Name and State feed modes whose exchange includes them.
	Name  string
	State string
}

// ContactRecord is an immutable log entry for one completed contact.
type ContactRecord struct {
	Seq        int
	Callsign   string
	Speed      string
	Attempts   int
	ElapsedSec float64
	// Annotation describes exchange correctness, e.g. "perfect" or
	// "NR wrong (42 sent)".
	Annotation string
}

// Settings holds the validated trainee configuration consumed by the engine.
type Settings struct {
	Callsign string
	Name     string
	State    string
	WPM      int
	Pitch    float64
	Volume   float64

	Mode       Mode
	Activity   int     // max stations answering a CQ in multi-station modes (1..5)
	NoiseLevel int     // background noise intensity 0..5
	QSBDepth   float64 // fading depth 0..1 applied to generated stations
	CutNumbers bool    // transliterate digits in station exchanges
	Continuous bool    // always admit a new station after each logged contact

	MinWPM int // generated station speed range
	MaxWPM int
	USOnly bool
}

// Validate reports whether the settings are complete enough to transmit.
func (s Settings) Validate() bool {
	if s.Callsign == "" {
		return false
	}
	if s.WPM < 5 || s.WPM > 60 {
		return false
	}
	if s.Pitch < 200 || s.Pitch > 1500 {
		return false
	}
	if s.Volume < 0 || s.Volume > 1 {
		return false
	}
	if !s.Mode.Valid() {
		return false
	}
	if s.MinWPM <= 0 || s.MaxWPM < s.MinWPM {
		return false
	}
	return true
}
