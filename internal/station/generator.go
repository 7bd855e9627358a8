// Package station generates the synthetic calling stations.
package station

import (
	"math/rand"
	"time"

	"github.com/Phoenix-64/morsewalker/internal/model"
)

var usPrefixes = []string{
	"K", "W", "N", "AA", "AB", "AC", "AD", "AE", "AF", "AG",
	"KA", "KB", "KC", "KD", "KE", "KF", "KG", "KI", "KJ", "KM",
	"WA", "WB", "WD", "NA", "NC", "ND", "NE", "NF", "NJ", "NN",
}

var dxPrefixes = []string{
	"DL", "DJ", "G", "M", "F", "I", "EA", "CT", "ON", "PA",
	"OZ", "SM", "OH", "LA", "SP", "OK", "OM", "HA", "YO", "LZ",
	"9A", "S5", "HB9", "OE", "EI", "JA", "JE", "JH", "VK", "ZL",
	"VE", "VA", "XE", "PY", "LU", "CE", "ZS", "UA", "UR", "EW",
}

var names = []string{
	"JOHN", "MIKE", "DAVE", "BOB", "JIM", "TOM", "BILL", "STEVE", "RICK", "DAN",
	"PAUL", "MARK", "GARY", "CARL", "FRED", "JOE", "KEN", "RON", "AL", "ED",
	"ANN", "SUE", "KAREN", "LINDA", "MARY", "KATE", "JAN", "BETH", "RUTH", "LIZ",
	"HANS", "JUAN", "PETE", "IVAN", "ERIK", "LUIS", "MARIO", "ANDY", "ROY", "WALT",
}

var states = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
}

const suffixLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Config bounds the attributes of generated stations.
type Config struct {
	MinWPM int
	MaxWPM int
	USOnly bool
	// QSBDepth is carried onto every station so its player fades.
	QSBDepth float64
	// PitchSpread is the maximum deviation in Hz from the trainee's
	// sidetone, so stations sound slightly off-frequency.
	PitchSpread float64
	// BasePitch is the center frequency for station tones.
	BasePitch float64
}

// Generator produces randomized stations.
type Generator struct {
	rnd *rand.Rand
	cfg Config
}

// New returns a Generator seeded with the current time.
func New(cfg Config) *Generator {
	return NewWithRand(cfg, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand returns a Generator using the provided source; tests pass a
// fixed seed.
func NewWithRand(cfg Config, rnd *rand.Rand) *Generator {
	if cfg.MinWPM <= 0 {
		cfg.MinWPM = 15
	}
	if cfg.MaxWPM < cfg.MinWPM {
		cfg.MaxWPM = cfg.MinWPM
	}
	if cfg.BasePitch == 0 {
		cfg.BasePitch = 600
	}
	return &Generator{rnd: rnd, cfg: cfg}
}

// Station generates one calling station with attributes for the given mode.
func (g *Generator) Station(mode model.Mode) model.Station {
	wpm := g.cfg.MinWPM + g.rnd.Intn(g.cfg.MaxWPM-g.cfg.MinWPM+1)
	st := model.Station{
		Callsign: g.callsign(mode),
		WPM:      wpm,
		Pitch:    g.pitch(),
		Name:     names[g.rnd.Intn(len(names))],
		State:    states[g.rnd.Intn(len(states))],
		Serial:   1 + g.rnd.Intn(600),
		Club:     100 + g.rnd.Intn(26000),
		Park:     g.park(),
	}
	// Slow-speed operators often use Farnsworth spacing already.
	if mode == model.ModeSST && wpm <= 16 && g.rnd.Float64() < 0.5 {
		st.FarnsworthWPM = wpm - 2 - g.rnd.Intn(4)
		if st.FarnsworthWPM < 5 {
			st.FarnsworthWPM = 5
		}
		if st.FarnsworthWPM >= wpm {
			st.FarnsworthWPM = 0
		}
	}
	return st
}

func (g *Generator) callsign(mode model.Mode) string {
	pool := usPrefixes
	// SST and POTA skew domestic; the others mix in DX unless restricted.
	if !g.cfg.USOnly && mode != model.ModeSST && mode != model.ModePOTA {
		if g.rnd.Float64() < 0.4 {
			pool = dxPrefixes
		}
	}
	prefix := pool[g.rnd.Intn(len(pool))]
	digit := byte('0' + g.rnd.Intn(10))
	suffixLen := 1 + g.rnd.Intn(3)
	suffix := make([]byte, suffixLen)
	for i := range suffix {
		suffix[i] = suffixLetters[g.rnd.Intn(len(suffixLetters))]
	}
	return prefix + string(digit) + string(suffix)
}

func (g *Generator) pitch() float64 {
	if g.cfg.PitchSpread <= 0 {
		return g.cfg.BasePitch
	}
	return g.cfg.BasePitch + (g.rnd.Float64()*2-1)*g.cfg.PitchSpread
}

func (g *Generator) park() string {
	n := 1 + g.rnd.Intn(9999)
	digits := []byte{'0', '0', '0', '0'}
	for i := 3; i >= 0 && n > 0; i-- {
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return "K-" + string(digits)
}

// QSBDepth exposes the configured fading depth for station players.
func (g *Generator) QSBDepth() float64 {
	return g.cfg.QSBDepth
}

// QSBPhase returns a random fading phase so stations fade out of step.
func (g *Generator) QSBPhase() float64 {
	return g.rnd.Float64() * 6.28318530717958647692
}
