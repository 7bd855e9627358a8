// Package summary renders end-of-session contact reports.
package summary

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/Phoenix-64/morsewalker/internal/model"
)

// Metrics aggregates a session's contact log.
type Metrics struct {
	Contacts     int
	Perfect      int
	TotalTries   int
	AvgTries     float64
	AvgElapsedS  float64
	ContactsPerH float64
}

// SessionMetrics computes aggregate metrics over the contact log.
func SessionMetrics(records []model.ContactRecord) Metrics {
	m := Metrics{Contacts: len(records)}
	if len(records) == 0 {
		return m
	}
	var elapsed float64
	for _, rec := range records {
		m.TotalTries += rec.Attempts
		elapsed += rec.ElapsedSec
		if rec.Annotation == "perfect" {
			m.Perfect++
		}
	}
	count := float64(len(records))
	m.AvgTries = float64(m.TotalTries) / count
	m.AvgElapsedS = elapsed / count
	if elapsed > 0 {
		m.ContactsPerH = count / (elapsed / 3600)
	}
	return m
}

// Render prints the session summary and the contact table.
func Render(w io.Writer, records []model.ContactRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No contacts logged.")
		return err
	}
	m := SessionMetrics(records)
	if _, err := fmt.Fprintln(w, "Session Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Contacts: %d\n", m.Contacts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Perfect copies: %d\n", m.Perfect); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg tries: %.1f\n", m.AvgTries); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg contact time: %.1fs\n", m.AvgElapsedS); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rate: %.1f/h\n", m.ContactsPerH); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}

	headers := []string{"#", "Call", "Speed", "Tries", "Time", "Result"}
	rows := make([][]string, 0, len(records))
	limit := annotationLimit(headers)
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Seq),
			rec.Callsign,
			rec.Speed,
			strconv.Itoa(rec.Attempts),
			fmt.Sprintf("%.1fs", rec.ElapsedSec),
			truncate(rec.Annotation, limit),
		})
	}
	rightAlign := map[int]bool{0: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// annotationLimit budgets the free-text column so the table fits the
// terminal. Non-terminal output gets a fixed generous limit.
func annotationLimit(headers []string) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 60
	}
	fixed := 0
	for _, h := range headers[:len(headers)-1] {
		fixed += displayWidth(h) + 1
	}
	// Leave room for the widest fixed columns in practice.
	limit := width - fixed - 16
	if limit < 12 {
		limit = 12
	}
	return limit
}

func truncate(s string, limit int) string {
	if displayWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && displayWidth(string(runes)) > limit-1 {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	for i, header := range headers {
		widths[i] = displayWidth(header)
	}
	for _, row := range rows {
		for i := 0; i < colCount; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	var b strings.Builder
	for i := 0; i < len(widths); i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], rightAlignCols[i]))
	}
	return b.String()
}

func padCell(value string, width int, rightAlign bool) string {
	valueWidth := displayWidth(value)
	if valueWidth >= width {
		return value
	}
	padding := width - valueWidth
	if rightAlign {
		return strings.Repeat(" ", padding) + value
	}
	return value + strings.Repeat(" ", padding)
}
