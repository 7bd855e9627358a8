// Package tui provides the Bubble Tea operating interface.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Phoenix-64/morsewalker/internal/engine"
	"github.com/Phoenix-64/morsewalker/internal/model"
	"github.com/Phoenix-64/morsewalker/internal/protocol"
)

const tickInterval = 250 * time.Millisecond

type tickMsg time.Time

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	busyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	clearStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea operating UI around the contact engine.
type Model struct {
	eng *engine.Engine
	cfg *model.Settings

	response  textinput.Model
	fields    []textinput.Model
	fieldDefs []protocol.Field
	log       table.Model

	focus  int
	status string
	width  int
	height int
}

// NewModel constructs the operating TUI. cfg is shared with the engine's
// input source and mutated in place by UI adjustments.
func NewModel(eng *engine.Engine, cfg *model.Settings) *Model {
	response := textinput.New()
	response.Placeholder = "copy the callsign"
	response.CharLimit = 24
	response.Focus()

	m := &Model{
		eng:      eng,
		cfg:      cfg,
		response: response,
	}
	m.buildFields()
	m.buildLog()
	return m
}

func (m *Model) buildFields() {
	m.fieldDefs = m.eng.Strategy().Fields()
	m.fields = make([]textinput.Model, len(m.fieldDefs))
	for i, f := range m.fieldDefs {
		in := textinput.New()
		in.Placeholder = f.Label
		in.CharLimit = 16
		m.fields[i] = in
	}
}

func (m *Model) buildLog() {
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Call", Width: 10},
		{Title: "Speed", Width: 6},
		{Title: "Tries", Width: 5},
		{Title: "Time", Width: 6},
		{Title: "Result", Width: 28},
	}
	m.log = table.New(
		table.WithColumns(cols),
		table.WithHeight(8),
	)
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.refreshLog()
		return m, tick()
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.eng.Stop()
			return m, tea.Quit
		case tea.KeyTab:
			m.cycleFocus(1)
			return m, nil
		case tea.KeyShiftTab:
			m.cycleFocus(-1)
			return m, nil
		case tea.KeyEnter:
			m.handleEnter()
			return m, nil
		case tea.KeyCtrlL:
			m.setStatus(m.eng.Call())
			return m, nil
		case tea.KeyCtrlT:
			m.confirm()
			return m, nil
		case tea.KeyCtrlS:
			m.eng.Stop()
			m.status = "stopped"
			return m, nil
		case tea.KeyCtrlR:
			m.eng.Reset()
			m.response.SetValue("")
			m.clearFields()
			m.refreshLog()
			m.status = "session reset"
			return m, nil
		}
		switch msg.String() {
		case "ctrl+up":
			m.adjustNoise(1)
			return m, nil
		case "ctrl+down":
			m.adjustNoise(-1)
			return m, nil
		}
	}
	return m, m.updateInputs(msg)
}

func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == 0 {
		m.response, cmd = m.response.Update(msg)
		return cmd
	}
	idx := m.focus - 1
	if idx >= 0 && idx < len(m.fields) {
		m.fields[idx], cmd = m.fields[idx].Update(msg)
	}
	return cmd
}

func (m *Model) cycleFocus(dir int) {
	total := 1 + len(m.fields)
	m.focus = (m.focus + dir + total) % total
	m.response.Blur()
	for i := range m.fields {
		m.fields[i].Blur()
	}
	if m.focus == 0 {
		m.response.Focus()
	} else {
		m.fields[m.focus-1].Focus()
	}
}

func (m *Model) handleEnter() {
	if m.focus != 0 && m.eng.ReadyForTU() {
		m.confirm()
		return
	}
	err := m.eng.Send(m.response.Value())
	m.setStatus(err)
	if err == nil {
		m.response.SetValue("")
	}
}

func (m *Model) confirm() {
	values := make(map[string]string, len(m.fieldDefs))
	for i, f := range m.fieldDefs {
		values[f.Key] = m.fields[i].Value()
	}
	err := m.eng.ConfirmTU(values)
	m.setStatus(err)
	if err == nil {
		m.response.SetValue("")
		m.clearFields()
	}
}

func (m *Model) clearFields() {
	for i := range m.fields {
		m.fields[i].SetValue("")
	}
	if m.focus != 0 {
		m.cycleFocus(-m.focus)
	}
}

func (m *Model) setStatus(err error) {
	switch {
	case err == nil:
		m.status = ""
	case errors.Is(err, engine.ErrChannelBusy):
		m.status = "channel busy, wait for the transmission to finish"
	case errors.Is(err, engine.ErrInvalidConfig):
		m.status = "check your station settings"
	case errors.Is(err, engine.ErrNoActiveTarget):
		m.status = "nobody is calling, ctrl+l to call CQ"
	default:
		m.status = err.Error()
	}
}

func (m *Model) adjustNoise(delta int) {
	lvl := m.cfg.NoiseLevel + delta
	if lvl < 0 {
		lvl = 0
	}
	if lvl > 5 {
		lvl = 5
	}
	m.cfg.NoiseLevel = lvl
	m.status = fmt.Sprintf("noise level %d", lvl)
}

func (m *Model) refreshLog() {
	recs := m.eng.Records()
	rows := make([]table.Row, len(recs))
	for i, rec := range recs {
		rows[i] = table.Row{
			strconv.Itoa(rec.Seq),
			rec.Callsign,
			rec.Speed,
			strconv.Itoa(rec.Attempts),
			fmt.Sprintf("%.0fs", rec.ElapsedSec),
			rec.Annotation,
		}
	}
	m.log.SetRows(rows)
}

// View implements tea.Model.
func (m *Model) View() string {
	header := headerStyle.Render("Morse Walker") + "  " +
		labelStyle.Render(m.eng.Strategy().DisplayName()) + "  " +
		labelStyle.Render(m.cfg.Callsign) + "  " +
		m.channelIndicator()

	lines := []string{header, ""}
	lines = append(lines, labelStyle.Render("Response")+" "+m.response.View())
	for i, f := range m.fieldDefs {
		lines = append(lines, labelStyle.Render(f.Label)+" "+m.fields[i].View())
	}
	if m.eng.ReadyForTU() {
		lines = append(lines, clearStyle.Render("copy the exchange, ctrl+t to confirm"))
	}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	lines = append(lines, "", m.log.View(), "")
	lines = append(lines, footerStyle.Render(
		"enter send · ctrl+l CQ · ctrl+t TU · ctrl+s stop · ctrl+r reset · ctrl+↑/↓ noise · ctrl+c quit"))

	out := lipgloss.JoinVertical(lipgloss.Left, lines...)
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

func (m *Model) channelIndicator() string {
	if m.eng.Busy() {
		return busyStyle.Render("TX")
	}
	if m.eng.StationsOnAir() > 0 {
		return clearStyle.Render(fmt.Sprintf("RX %d", m.eng.StationsOnAir()))
	}
	return labelStyle.Render("idle")
}
