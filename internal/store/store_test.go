package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Phoenix-64/morsewalker/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, ok, err := s.LoadSettings(ctx); err != nil || ok {
		t.Fatalf("LoadSettings on empty store = ok=%v err=%v", ok, err)
	}

	cfg := model.Settings{
		Callsign:   "W1AW",
		Name:       "SAM",
		State:      "CT",
		WPM:        25,
		Pitch:      600,
		Volume:     0.8,
		Mode:       model.ModeContest,
		Activity:   3,
		NoiseLevel: 2,
		QSBDepth:   0.4,
		CutNumbers: true,
		MinWPM:     15,
		MaxWPM:     28,
	}
	if err := s.SaveSettings(ctx, cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, ok, err := s.LoadSettings(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadSettings = ok=%v err=%v", ok, err)
	}
	if got != cfg {
		t.Fatalf("LoadSettings = %+v, want %+v", got, cfg)
	}

	// Saving again overwrites rather than duplicating.
	cfg.WPM = 30
	if err := s.SaveSettings(ctx, cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got, _, err = s.LoadSettings(ctx)
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if got.WPM != 30 {
		t.Fatalf("WPM after overwrite = %d, want 30", got.WPM)
	}
}

func TestSettingsPersistAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	cfg := model.Settings{Callsign: "W1AW", WPM: 22, Pitch: 650, Volume: 0.5, Mode: model.ModeSST, MinWPM: 10, MaxWPM: 16}
	if err := s.SaveSettings(ctx, cfg); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	}()
	got, ok, err := s.LoadSettings(ctx)
	if err != nil || !ok {
		t.Fatalf("LoadSettings after reopen = ok=%v err=%v", ok, err)
	}
	if got != cfg {
		t.Fatalf("LoadSettings = %+v, want %+v", got, cfg)
	}
}
