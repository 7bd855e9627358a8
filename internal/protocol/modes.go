package protocol

import (
	"strconv"

	"github.com/Phoenix-64/morsewalker/internal/model"
)

// singleStrategy is a relaxed one-at-a-time ragchew opener: RST exchange,
// no confirmation step, the whole contact plays through in one sequence.
type singleStrategy struct{}

func (singleStrategy) Mode() model.Mode    { return model.ModeSingle }
func (singleStrategy) DisplayName() string { return "Single Call" }

func (singleStrategy) CQ(you model.YourStation) string {
	return "CQ CQ DE " + you.Callsign + " " + you.Callsign + " K"
}

func (singleStrategy) YourExchange(you model.YourStation, st model.Station, _ string) string {
	return st.Callsign + " UR 5NN 5NN BK"
}

func (singleStrategy) TheirExchange(you model.YourStation, st model.Station, _ string) string {
	return "R R UR 5NN 5NN BK"
}

func (singleStrategy) YourSignoff(you model.YourStation, st model.Station) string {
	return "TU 73 EE"
}

func (singleStrategy) TheirSignoff(you model.YourStation, st model.Station) string {
	return "EE"
}

func (singleStrategy) TUStep() bool    { return false }
func (singleStrategy) Fields() []Field { return nil }

func (singleStrategy) Expected(model.Station, Field) string { return "" }

// contestStrategy is a serial-number contest pileup. The extra argument to
// YourExchange is the trainee's outgoing serial.
type contestStrategy struct{}

func (contestStrategy) Mode() model.Mode    { return model.ModeContest }
func (contestStrategy) DisplayName() string { return "Contest" }

func (contestStrategy) CQ(you model.YourStation) string {
	return "CQ TEST " + you.Callsign + " " + you.Callsign
}

func (contestStrategy) YourExchange(you model.YourStation, st model.Station, extra string) string {
	return st.Callsign + " 5NN " + extra
}

func (contestStrategy) TheirExchange(you model.YourStation, st model.Station, _ string) string {
	return "5NN " + serialText(st.Serial)
}

func (contestStrategy) YourSignoff(you model.YourStation, st model.Station) string {
	return "TU " + you.Callsign
}

func (contestStrategy) TUStep() bool { return true }

func (contestStrategy) Fields() []Field {
	return []Field{{Key: "serial", Label: "NR", Kind: FieldNumber}}
}

func (contestStrategy) Expected(st model.Station, f Field) string {
	return strconv.Itoa(st.Serial)
}

// sstStrategy is a slow-speed test: name and state exchange with a
// confirmation step and a friendly sign-off from both sides.
type sstStrategy struct{}

func (sstStrategy) Mode() model.Mode    { return model.ModeSST }
func (sstStrategy) DisplayName() string { return "SST" }

func (sstStrategy) CQ(you model.YourStation) string {
	return "CQ SST " + you.Callsign + " " + you.Callsign
}

func (sstStrategy) YourExchange(you model.YourStation, st model.Station, _ string) string {
	return st.Callsign + " GM " + you.Name + " " + you.State
}

func (sstStrategy) TheirExchange(you model.YourStation, st model.Station, _ string) string {
	return "TU " + st.Name + " " + st.State
}

func (sstStrategy) YourSignoff(you model.YourStation, st model.Station) string {
	return "TU " + st.Name + " 73"
}

func (sstStrategy) TheirSignoff(you model.YourStation, st model.Station) string {
	return "73 GL EE"
}

func (sstStrategy) TUStep() bool { return true }

func (sstStrategy) Fields() []Field {
	return []Field{
		{Key: "name", Label: "Name", Kind: FieldText},
		{Key: "state", Label: "State", Kind: FieldText},
	}
}

func (sstStrategy) Expected(st model.Station, f Field) string {
	switch f.Key {
	case "name":
		return st.Name
	case "state":
		return st.State
	default:
		return ""
	}
}

// potaStrategy is a park activation hunt: RST and state, the hunter signs
// off unilaterally so there is no their-signoff capability.
type potaStrategy struct{}

func (potaStrategy) Mode() model.Mode    { return model.ModePOTA }
func (potaStrategy) DisplayName() string { return "POTA" }

func (potaStrategy) CQ(you model.YourStation) string {
	return "CQ POTA " + you.Callsign + " " + you.Callsign + " K"
}

func (potaStrategy) YourExchange(you model.YourStation, st model.Station, _ string) string {
	return st.Callsign + " UR 5NN 5NN BK"
}

func (potaStrategy) TheirExchange(you model.YourStation, st model.Station, _ string) string {
	return "R 5NN " + st.State + " " + st.State + " BK"
}

func (potaStrategy) YourSignoff(you model.YourStation, st model.Station) string {
	return "TU 73 " + you.Callsign + " QRZ"
}

func (potaStrategy) TUStep() bool { return true }

func (potaStrategy) Fields() []Field {
	return []Field{{Key: "state", Label: "State", Kind: FieldText}}
}

func (potaStrategy) Expected(st model.Station, f Field) string {
	if f.Key == "state" {
		return st.State
	}
	return ""
}

// serialText zero-pads contest serials below 100, matching on-air practice.
func serialText(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
