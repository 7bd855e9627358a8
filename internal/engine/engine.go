package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/Phoenix-64/morsewalker/internal/audio"
	"github.com/Phoenix-64/morsewalker/internal/cw"
	"github.com/Phoenix-64/morsewalker/internal/match"
	"github.com/Phoenix-64/morsewalker/internal/model"
	"github.com/Phoenix-64/morsewalker/internal/morse"
	"github.com/Phoenix-64/morsewalker/internal/protocol"
)

// Rejection sentinels. None of these is fatal: the action is declined, the
// session is left unchanged, and the trainee may try again.
var (
	ErrInvalidConfig  = errors.New("invalid trainee configuration")
	ErrChannelBusy    = errors.New("channel busy")
	ErrNoActiveTarget = errors.New("no active station")
)

// QRS lowers Farnsworth spacing by this step, never below the floor.
const (
	qrsStep  = 6
	qrsFloor = 5
)

// newStationChance is the admission probability for a fresh station after a
// logged contact when continuous operation is off.
const newStationChance = 0.5

// Output is the audio surface the engine drives: the shared clock, the tone
// sink, and the background noise bed.
type Output interface {
	audio.Clock
	audio.Sink
	StartNoise() bool
	NoiseOn() bool
	SetNoiseLevel(level float64)
	StopNoise()
	Silence()
}

// StationSource supplies freshly generated calling stations.
type StationSource interface {
	Station(mode model.Mode) model.Station
	QSBDepth() float64
	QSBPhase() float64
}

// Options wires the engine's collaborators.
type Options struct {
	Output   Output
	Lock     *audio.Lock
	Inputs   func() (model.Settings, bool)
	Stations StationSource
	// OnRecord, when set, receives each completed contact.
	OnRecord func(model.ContactRecord)
	// Rand drives station admission; nil seeds from the current time.
	Rand *rand.Rand
}

// Engine is the contact state machine. It must be driven from a single
// goroutine; only the audio output it schedules against is concurrent.
type Engine struct {
	out      Output
	lock     *audio.Lock
	inputs   func() (model.Settings, bool)
	source   StationSource
	strat    protocol.Strategy
	onRecord func(model.ContactRecord)
	rnd      *rand.Rand

	cfg        model.Settings
	you        model.YourStation
	yourPlayer *cw.Player
	sess       session
}

// New builds an engine for the given mode.
func New(mode model.Mode, opts Options) (*Engine, error) {
	strat, err := protocol.ForMode(mode)
	if err != nil {
		return nil, err
	}
	if opts.Output == nil || opts.Lock == nil || opts.Inputs == nil || opts.Stations == nil {
		return nil, fmt.Errorf("engine requires output, lock, inputs and stations")
	}
	rnd := opts.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		out:      opts.Output,
		lock:     opts.Lock,
		inputs:   opts.Inputs,
		source:   opts.Stations,
		strat:    strat,
		onRecord: opts.OnRecord,
		rnd:      rnd,
		sess:     newSession(),
	}, nil
}

// SetMode switches protocol and resets the session atomically.
func (e *Engine) SetMode(mode model.Mode) error {
	strat, err := protocol.ForMode(mode)
	if err != nil {
		return err
	}
	e.strat = strat
	e.Reset()
	return nil
}

// Strategy returns the active protocol strategy.
func (e *Engine) Strategy() protocol.Strategy { return e.strat }

// Call sends CQ and schedules the answering stations.
func (e *Engine) Call() error {
	cfg, ok := e.inputs()
	if !ok || !cfg.Validate() {
		return ErrInvalidConfig
	}
	if e.lock.Busy(e.out) {
		return ErrChannelBusy
	}
	e.configure(cfg)

	start := e.out.Now()
	if e.out.StartNoise() {
		start += audio.NoiseWarmup
	}

	end := e.yourPlayer.Send(e.strat.CQ(e.you), start)
	e.lock.Extend(end)

	if e.strat.Mode() == model.ModeSingle {
		e.sess.stations = nil
		e.admitStation()
	} else {
		joining := 1 + e.rnd.Intn(e.cfg.Activity)
		for i := 0; i < joining; i++ {
			e.admitStation()
		}
	}
	e.respondAll(e.sess.stations, end)

	e.sess.state = StateAwaiting
	e.sess.activeIndex = -1
	e.sess.attempts = 0
	e.sess.lastResponders = nil
	e.sess.contactStart = e.out.Now()
	return nil
}

// Send evaluates the trainee's copy of the calling station(s).
func (e *Engine) Send(input string) error {
	cfg, ok := e.inputs()
	if !ok || !cfg.Validate() {
		return ErrInvalidConfig
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" && len(e.sess.stations) == 0 {
		return e.Call()
	}
	if len(e.sess.stations) == 0 {
		return ErrNoActiveTarget
	}
	if e.lock.Busy(e.out) {
		return ErrChannelBusy
	}
	e.configure(cfg)
	e.sess.attempts++

	token := strings.ToUpper(trimmed)
	switch token {
	case "?", "AGN", "AGN?":
		e.replayTargets(e.sess.targets())
		return nil
	case "QRS":
		targets := e.sess.targets()
		for _, st := range targets {
			e.slowDown(st)
		}
		e.replayTargets(targets)
		return nil
	}

	wantsConfirm := strings.HasSuffix(token, "?")
	var perfect *liveStation
	perfectIdx := -1
	var partials []*liveStation
	for i, st := range e.sess.stations {
		switch match.Compare(st.Callsign, token) {
		case match.Perfect:
			if perfect == nil {
				perfect = st
				perfectIdx = i
			}
		case match.Partial:
			partials = append(partials, st)
		}
	}

	switch {
	case perfect != nil && wantsConfirm:
		// Short acknowledgment, then another send is expected.
		perfect.player.Send("R R", e.out.Now())
	case perfect != nil:
		e.beginExchange(perfect, perfectIdx)
	case len(partials) > 0:
		e.replayTargets(partials)
		e.sess.lastResponders = partials
	default:
		// Complete miss: no audio, unlimited retries.
	}
	return nil
}

// ConfirmTU closes out the matched contact in modes with a TU step. values
// maps extra-field keys (see protocol.Field.Key) to the trainee's copy.
func (e *Engine) ConfirmTU(values map[string]string) error {
	cfg, ok := e.inputs()
	if !ok || !cfg.Validate() {
		return ErrInvalidConfig
	}
	if !e.strat.TUStep() {
		return ErrNoActiveTarget
	}
	st := e.sess.active()
	if e.sess.state != StateExchanging || st == nil {
		return ErrNoActiveTarget
	}
	if e.lock.Busy(e.out) {
		return ErrChannelBusy
	}
	e.configure(cfg)

	annotation := e.gradeFields(st, values)

	end := e.yourPlayer.Send(e.strat.YourSignoff(e.you, st.Station), e.out.Now())
	e.lock.Extend(end)
	t := end
	if so, ok := e.strat.(protocol.TheirSignoffer); ok {
		t = st.player.Send(so.TheirSignoff(e.you, st.Station), t)
	}

	e.logContact(st, annotation)
	e.sess.remove(st)
	e.sess.state = StateAwaiting
	e.sess.attempts = 0
	e.sess.lastResponders = nil
	e.sess.contactStart = e.out.Now()

	if e.cfg.Continuous || e.rnd.Float64() < newStationChance {
		e.admitStation()
	}
	e.respondAll(e.sess.stations, t)
	return nil
}

// Stop silences all audio and frees the channel. In single mode the active
// station is cleared; a multi-station round stays on the air.
func (e *Engine) Stop() {
	e.out.StopNoise()
	e.out.Silence()
	e.lock.Release()
	if e.strat.Mode() == model.ModeSingle {
		e.sess.stations = nil
		e.sess.activeIndex = -1
		e.sess.lastResponders = nil
		e.sess.state = StateIdle
	}
}

// Reset returns the session to idle: registry, counters, log and lock are
// all cleared. The selected mode is kept.
func (e *Engine) Reset() {
	e.out.StopNoise()
	e.out.Silence()
	e.lock.Release()
	e.sess = newSession()
}

// Busy reports whether the channel is occupied by the trainee's own audio.
func (e *Engine) Busy() bool { return e.lock.Busy(e.out) }

// State reports the current machine state.
func (e *Engine) State() State { return e.sess.state }

// StationsOnAir returns the registry size.
func (e *Engine) StationsOnAir() int { return len(e.sess.stations) }

// Attempts returns the per-contact attempt counter.
func (e *Engine) Attempts() int { return e.sess.attempts }

// ContactCount returns the number of contacts logged this session.
func (e *Engine) ContactCount() int { return e.sess.contactCount }

// Records returns the session's contact log.
func (e *Engine) Records() []model.ContactRecord { return e.sess.records }

// ReadyForTU reports whether a confirmation is pending.
func (e *Engine) ReadyForTU() bool {
	return e.sess.state == StateExchanging && e.sess.active() != nil
}

// ActiveCallsign returns the callsign mid-exchange, if any.
func (e *Engine) ActiveCallsign() string {
	if st := e.sess.active(); st != nil {
		return st.Callsign
	}
	return ""
}

func (e *Engine) configure(cfg model.Settings) {
	e.cfg = cfg
	if e.cfg.Activity < 1 {
		e.cfg.Activity = 1
	}
	e.you = model.YourStation{
		Callsign: strings.ToUpper(strings.TrimSpace(cfg.Callsign)),
		WPM:      cfg.WPM,
		Pitch:    cfg.Pitch,
		Volume:   cfg.Volume,
		Name:     strings.ToUpper(strings.TrimSpace(cfg.Name)),
		State:    strings.ToUpper(strings.TrimSpace(cfg.State)),
	}
	e.yourPlayer = cw.New(e.out, e.out, e.lock, cw.Params{
		WPM:    e.you.WPM,
		Pitch:  e.you.Pitch,
		Volume: e.you.Volume,
	})
	e.out.SetNoiseLevel(float64(cfg.NoiseLevel) / 5)
}

func (e *Engine) admitStation() {
	st := e.source.Station(e.strat.Mode())
	e.sess.stations = append(e.sess.stations, &liveStation{
		Station: st,
		player:  e.newStationPlayer(st),
	})
}

func (e *Engine) newStationPlayer(st model.Station) *cw.Player {
	return cw.New(e.out, e.out, nil, cw.Params{
		WPM:           st.WPM,
		FarnsworthWPM: st.FarnsworthWPM,
		Pitch:         st.Pitch,
		Volume:        e.cfg.Volume,
		QSBDepth:      e.source.QSBDepth(),
		QSBPhase:      e.source.QSBPhase(),
	})
}

// respondAll chains every station's callsign sequentially after start so the
// replies never overlap.
func (e *Engine) respondAll(stations []*liveStation, start float64) {
	t := start
	for _, st := range stations {
		t = st.player.Send(st.Callsign, t)
	}
}

func (e *Engine) replayTargets(targets []*liveStation) {
	e.respondAll(targets, e.out.Now())
}

// slowDown lowers the station's Farnsworth spacing by one step, enabling it
// below character speed when it was off, and rebuilds the player.
func (e *Engine) slowDown(st *liveStation) {
	if st.FarnsworthWPM == 0 {
		st.FarnsworthWPM = st.WPM - qrsStep
	} else {
		st.FarnsworthWPM -= qrsStep
	}
	if st.FarnsworthWPM < qrsFloor {
		st.FarnsworthWPM = qrsFloor
	}
	st.player = e.newStationPlayer(st.Station)
}

// beginExchange runs the exchange for an exactly copied callsign: the
// trainee's exchange, then the station's, chained off the returned end
// timestamps. In modes without a TU step the sign-offs follow in the same
// sequence and the contact is logged immediately.
func (e *Engine) beginExchange(st *liveStation, idx int) {
	serial := fmt.Sprintf("%03d", e.sess.contactCount+1)
	end := e.yourPlayer.Send(e.strat.YourExchange(e.you, st.Station, serial), e.out.Now())
	e.lock.Extend(end)

	theirs := e.strat.TheirExchange(e.you, st.Station, "")
	if e.cfg.CutNumbers {
		theirs = morse.CutNumbers(theirs, nil)
	}
	t := st.player.Send(theirs, end)

	if e.strat.TUStep() {
		e.sess.state = StateExchanging
		e.sess.activeIndex = idx
		e.sess.lastResponders = nil
		return
	}

	// Single-flow contact: both sign-offs chain on and the log entry is
	// written without a confirmation step.
	yEnd := e.yourPlayer.Send(e.strat.YourSignoff(e.you, st.Station), t)
	e.lock.Extend(yEnd)
	t = yEnd
	if so, ok := e.strat.(protocol.TheirSignoffer); ok {
		t = st.player.Send(so.TheirSignoff(e.you, st.Station), t)
	}

	e.logContact(st, "perfect")
	e.sess.remove(st)
	e.sess.state = StateAwaiting
	e.sess.attempts = 0
	e.sess.lastResponders = nil
	e.sess.contactStart = e.out.Now()

	e.admitStation()
	e.respondAll(e.sess.stations, t)
}

func (e *Engine) logContact(st *liveStation, annotation string) {
	e.sess.contactCount++
	rec := model.ContactRecord{
		Seq:        e.sess.contactCount,
		Callsign:   st.Callsign,
		Speed:      st.SpeedLabel(),
		Attempts:   e.sess.attempts,
		ElapsedSec: e.out.Now() - e.sess.contactStart,
		Annotation: annotation,
	}
	e.sess.records = append(e.sess.records, rec)
	if e.onRecord != nil {
		e.onRecord(rec)
	}
}

// gradeFields compares the trainee's copied extra fields against the
// station. Numeric fields compare as integers and a non-numeric entry is
// flagged incomplete rather than wrong; text fields compare upper-cased and
// trimmed, and an empty expected value means the field does not apply.
func (e *Engine) gradeFields(st *liveStation, values map[string]string) string {
	var issues []string
	for _, f := range e.strat.Fields() {
		expected := e.strat.Expected(st.Station, f)
		got := strings.ToUpper(strings.TrimSpace(values[f.Key]))
		switch f.Kind {
		case protocol.FieldNumber:
			expInt, _ := strconv.Atoi(expected)
			gotInt, err := strconv.Atoi(got)
			if err != nil {
				issues = append(issues, f.Label+" missing")
				continue
			}
			if gotInt != expInt {
				issues = append(issues, fmt.Sprintf("%s wrong (%s sent)", f.Label, expected))
			}
		default:
			if expected == "" {
				continue
			}
			if got == "" {
				issues = append(issues, f.Label+" missing")
				continue
			}
			if got != strings.ToUpper(strings.TrimSpace(expected)) {
				issues = append(issues, fmt.Sprintf("%s wrong (%s sent)", f.Label, expected))
			}
		}
	}
	if len(issues) == 0 {
		return "perfect"
	}
	return strings.Join(issues, ", ")
}
