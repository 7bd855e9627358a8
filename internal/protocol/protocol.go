// Package protocol defines the per-mode exchange scripts and flags.
package protocol

import (
	"fmt"

	"github.com/Phoenix-64/morsewalker/internal/model"
)

// FieldKind distinguishes how an extra exchange field is compared: numeric
// fields as parsed integers, text fields upper-cased and trimmed.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldNumber
)

// Field describes one extra exchange field the trainee must copy.
type Field struct {
	Key   string
	Label string
	Kind  FieldKind
}

// Strategy supplies the message construction and protocol flags for a mode.
// The extra argument to the message builders carries mode-specific state the
// session owns, such as the trainee's outgoing serial number.
type Strategy interface {
	Mode() model.Mode
	DisplayName() string

	CQ(you model.YourStation) string
	YourExchange(you model.YourStation, st model.Station, extra string) string
	TheirExchange(you model.YourStation, st model.Station, extra string) string
	YourSignoff(you model.YourStation, st model.Station) string

	// TUStep reports whether the contact requires an explicit confirmation
	// action before it is logged.
	TUStep() bool
	// Fields lists the extra exchange fields beyond the callsign.
	Fields() []Field
	// Expected returns the station's true value for a field.
	Expected(st model.Station, f Field) string
}

// TheirSignoffer is the optional capability for modes where the station
// acknowledges the sign-off. Modes where the contact ends unilaterally do
// not implement it.
type TheirSignoffer interface {
	TheirSignoff(you model.YourStation, st model.Station) string
}

// ForMode returns the strategy implementing the given mode.
func ForMode(m model.Mode) (Strategy, error) {
	switch m {
	case model.ModeSingle:
		return singleStrategy{}, nil
	case model.ModeContest:
		return contestStrategy{}, nil
	case model.ModeSST:
		return sstStrategy{}, nil
	case model.ModePOTA:
		return potaStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown mode %q", m)
	}
}
