// Package main provides the CLI entrypoint for morsewalker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Phoenix-64/morsewalker/internal/audio"
	"github.com/Phoenix-64/morsewalker/internal/beacon"
	"github.com/Phoenix-64/morsewalker/internal/config"
	"github.com/Phoenix-64/morsewalker/internal/engine"
	"github.com/Phoenix-64/morsewalker/internal/model"
	"github.com/Phoenix-64/morsewalker/internal/station"
	"github.com/Phoenix-64/morsewalker/internal/store"
	"github.com/Phoenix-64/morsewalker/internal/summary"
	"github.com/Phoenix-64/morsewalker/internal/tui"
)

const (
	defaultWPM        = 25
	defaultPitch      = 600.0
	defaultVolume     = 0.8
	defaultMode       = "single"
	defaultActivity   = 3
	defaultNoise      = 0
	defaultQSB        = 0.0
	defaultMinWPM     = 15
	defaultMaxWPM     = 30
	defaultSampleRate = 48000
	pitchSpread       = 120.0
)

var (
	stationCallsign string
	stationName     string
	stationState    string
	stationWPM      int
	stationPitch    float64
	stationVolume   float64

	bandActivity int
	bandNoise    int
	bandQSB      float64
	bandMinWPM   int
	bandMaxWPM   int
	bandUSOnly   bool

	trainerMode     string
	trainerCut      bool
	trainerContin   bool
	trainerSilent   bool
	trainerNoSave   bool
	trainerBeaconTo string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "morsewalker",
		Short:         "CW contact trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTrainerCmd,
	}

	rootCmd.Flags().StringVar(&stationCallsign, "callsign", "", "your callsign")
	rootCmd.Flags().StringVar(&stationName, "name", "", "your name, sent in name exchanges")
	rootCmd.Flags().StringVar(&stationState, "state", "", "your state, sent in state exchanges")
	rootCmd.Flags().IntVar(&stationWPM, "wpm", defaultWPM, "your sending speed (5-60)")
	rootCmd.Flags().Float64Var(&stationPitch, "pitch", defaultPitch, "sidetone pitch in Hz (200-1500)")
	rootCmd.Flags().Float64Var(&stationVolume, "volume", defaultVolume, "volume (0-1)")
	rootCmd.Flags().StringVar(&trainerMode, "mode", defaultMode, "contact mode: single, contest, sst, pota")
	rootCmd.Flags().IntVar(&bandActivity, "activity", defaultActivity, "max stations answering a CQ (1-5)")
	rootCmd.Flags().IntVar(&bandNoise, "noise", defaultNoise, "background noise level (0-5)")
	rootCmd.Flags().Float64Var(&bandQSB, "qsb", defaultQSB, "signal fading depth (0-1)")
	rootCmd.Flags().IntVar(&bandMinWPM, "min-wpm", defaultMinWPM, "slowest generated station")
	rootCmd.Flags().IntVar(&bandMaxWPM, "max-wpm", defaultMaxWPM, "fastest generated station")
	rootCmd.Flags().BoolVar(&bandUSOnly, "us-only", false, "generate only US callsigns")
	rootCmd.Flags().BoolVar(&trainerCut, "cut-numbers", false, "stations send cut numbers in exchanges")
	rootCmd.Flags().BoolVar(&trainerContin, "continuous", false, "a new station always calls after each contact")
	rootCmd.Flags().BoolVar(&trainerSilent, "silent", false, "run without an audio device")
	rootCmd.Flags().BoolVar(&trainerNoSave, "no-save", false, "do not persist settings or contacts")
	rootCmd.Flags().StringVar(&trainerBeaconTo, "beacon-url", "", "post anonymous session summaries to this URL")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newModesCmd())

	return rootCmd
}

func runTrainerCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "callsign", &stationCallsign, fileCfg.Station.Callsign)
	applyStringConfig(cmd, "name", &stationName, fileCfg.Station.Name)
	applyStringConfig(cmd, "state", &stationState, fileCfg.Station.State)
	applyIntConfig(cmd, "wpm", &stationWPM, fileCfg.Station.WPM)
	applyFloatConfig(cmd, "pitch", &stationPitch, fileCfg.Station.Pitch)
	applyFloatConfig(cmd, "volume", &stationVolume, fileCfg.Station.Volume)
	applyStringConfig(cmd, "mode", &trainerMode, fileCfg.Trainer.Mode)
	applyIntConfig(cmd, "activity", &bandActivity, fileCfg.Band.Activity)
	applyIntConfig(cmd, "noise", &bandNoise, fileCfg.Band.NoiseLevel)
	applyFloatConfig(cmd, "qsb", &bandQSB, fileCfg.Band.QSBDepth)
	applyIntConfig(cmd, "min-wpm", &bandMinWPM, fileCfg.Band.MinWPM)
	applyIntConfig(cmd, "max-wpm", &bandMaxWPM, fileCfg.Band.MaxWPM)
	applyBoolConfig(cmd, "us-only", &bandUSOnly, fileCfg.Band.USOnly)
	applyBoolConfig(cmd, "cut-numbers", &trainerCut, fileCfg.Trainer.CutNumbers)
	applyBoolConfig(cmd, "continuous", &trainerContin, fileCfg.Trainer.Continuous)

	var st *store.Store
	if !trainerNoSave {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			logErrf("failed to open db, continuing without persistence: %v\n", err)
			st = nil
		} else {
			defer func() {
				if cerr := st.Close(); cerr != nil {
					logErrf("failed to close db: %v\n", cerr)
				}
			}()
			applyStoredSettings(cmd, st)
		}
	}

	cfg := model.Settings{
		Callsign:   strings.ToUpper(strings.TrimSpace(stationCallsign)),
		Name:       stationName,
		State:      stationState,
		WPM:        stationWPM,
		Pitch:      stationPitch,
		Volume:     stationVolume,
		Mode:       model.Mode(trainerMode),
		Activity:   bandActivity,
		NoiseLevel: bandNoise,
		QSBDepth:   bandQSB,
		CutNumbers: trainerCut,
		Continuous: trainerContin,
		MinWPM:     bandMinWPM,
		MaxWPM:     bandMaxWPM,
		USOnly:     bandUSOnly,
	}
	if err := validateSettings(cfg); err != nil {
		return err
	}

	mixer := audio.NewMixer(defaultSampleRate)
	if !trainerSilent {
		dev, err := audio.OpenDevice(mixer)
		if err != nil {
			logErrf("no audio device, running silent: %v\n", err)
		} else {
			defer func() {
				if cerr := dev.Close(); cerr != nil {
					logErrf("failed to close audio device: %v\n", cerr)
				}
			}()
		}
	}

	src := station.New(station.Config{
		MinWPM:      cfg.MinWPM,
		MaxWPM:      cfg.MaxWPM,
		USOnly:      cfg.USOnly,
		QSBDepth:    cfg.QSBDepth,
		PitchSpread: pitchSpread,
		BasePitch:   cfg.Pitch,
	})

	eng, err := engine.New(cfg.Mode, engine.Options{
		Output:   mixer,
		Lock:     &audio.Lock{},
		Inputs:   func() (model.Settings, bool) { return cfg, true },
		Stations: src,
	})
	if err != nil {
		return err
	}

	startedAt := time.Now()
	uiModel := tui.NewModel(eng, &cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if err := summary.Render(os.Stdout, eng.Records()); err != nil {
		logErrf("failed to render summary: %v\n", err)
	}
	if st != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := st.SaveSettings(ctx, cfg); err != nil {
			logErrf("failed to save settings: %v\n", err)
		}
		cancel()
	}
	sendBeacon(eng, cfg, time.Since(startedAt))
	return nil
}

// applyStoredSettings overlays persisted settings under both flags and the
// config file: a stored value applies only when the flag was not given.
func applyStoredSettings(cmd *cobra.Command, st *store.Store) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	saved, ok, err := st.LoadSettings(ctx)
	if err != nil {
		logErrf("failed to load saved settings: %v\n", err)
		return
	}
	if !ok {
		return
	}
	mode := string(saved.Mode)
	applyStringConfig(cmd, "callsign", &stationCallsign, &saved.Callsign)
	applyStringConfig(cmd, "name", &stationName, &saved.Name)
	applyStringConfig(cmd, "state", &stationState, &saved.State)
	applyIntConfig(cmd, "wpm", &stationWPM, &saved.WPM)
	applyFloatConfig(cmd, "pitch", &stationPitch, &saved.Pitch)
	applyFloatConfig(cmd, "volume", &stationVolume, &saved.Volume)
	applyStringConfig(cmd, "mode", &trainerMode, &mode)
	applyIntConfig(cmd, "activity", &bandActivity, &saved.Activity)
	applyIntConfig(cmd, "noise", &bandNoise, &saved.NoiseLevel)
	applyFloatConfig(cmd, "qsb", &bandQSB, &saved.QSBDepth)
	applyIntConfig(cmd, "min-wpm", &bandMinWPM, &saved.MinWPM)
	applyIntConfig(cmd, "max-wpm", &bandMaxWPM, &saved.MaxWPM)
	applyBoolConfig(cmd, "us-only", &bandUSOnly, &saved.USOnly)
	applyBoolConfig(cmd, "cut-numbers", &trainerCut, &saved.CutNumbers)
	applyBoolConfig(cmd, "continuous", &trainerContin, &saved.Continuous)
}

func sendBeacon(eng *engine.Engine, cfg model.Settings, elapsed time.Duration) {
	b := beacon.New(trainerBeaconTo)
	if !b.Enabled() {
		return
	}
	m := summary.SessionMetrics(eng.Records())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := b.Send(ctx, beacon.Report{
		Mode:     string(cfg.Mode),
		Contacts: m.Contacts,
		Attempts: m.TotalTries,
		ElapsedS: elapsed.Seconds(),
		AvgWPM:   cfg.WPM,
		Version:  version,
	})
	if err != nil {
		logErrf("failed to post session beacon: %v\n", err)
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newModesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List contact modes",
		Args:  cobra.NoArgs,
		RunE:  runModesCmd,
	}
}

func runModesCmd(cmd *cobra.Command, _ []string) error {
	for _, m := range model.Modes() {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(m)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# morsewalker configuration
# Uncomment a value to enable it. CLI flags override config values.

[station]
# callsign = "W1AW"      # Your callsign
# name = "SAM"           # Your name, sent in name exchanges
# state = "CT"           # Your state, sent in state exchanges
# wpm = %d               # Sending speed (5-60)
# pitch = %.0f            # Sidetone pitch in Hz (200-1500)
# volume = %.1f           # Volume (0-1)

[band]
# activity = %d           # Max stations answering a CQ (1-5)
# noise = %d              # Background noise level (0-5)
# qsb = %.1f              # Signal fading depth (0-1)
# min-wpm = %d           # Slowest generated station
# max-wpm = %d           # Fastest generated station
# us-only = false        # Generate only US callsigns

[trainer]
# mode = %q         # Contact mode: single, contest, sst, pota
# cut-numbers = false    # Stations send cut numbers in exchanges
# continuous = false     # A new station always calls after each contact
`,
		defaultWPM,
		defaultPitch,
		defaultVolume,
		defaultActivity,
		defaultNoise,
		defaultQSB,
		defaultMinWPM,
		defaultMaxWPM,
		defaultMode,
	)
}

func validateSettings(cfg model.Settings) error {
	if cfg.Callsign == "" {
		return fmt.Errorf("--callsign is required (or set it in the config file)")
	}
	if cfg.WPM < 5 || cfg.WPM > 60 {
		return fmt.Errorf("--wpm must be between 5 and 60")
	}
	if cfg.Pitch < 200 || cfg.Pitch > 1500 {
		return fmt.Errorf("--pitch must be between 200 and 1500")
	}
	if cfg.Volume < 0 || cfg.Volume > 1 {
		return fmt.Errorf("--volume must be between 0 and 1")
	}
	if !cfg.Mode.Valid() {
		return fmt.Errorf("--mode must be one of: single, contest, sst, pota")
	}
	if cfg.Activity < 1 || cfg.Activity > 5 {
		return fmt.Errorf("--activity must be between 1 and 5")
	}
	if cfg.NoiseLevel < 0 || cfg.NoiseLevel > 5 {
		return fmt.Errorf("--noise must be between 0 and 5")
	}
	if cfg.QSBDepth < 0 || cfg.QSBDepth > 1 {
		return fmt.Errorf("--qsb must be between 0 and 1")
	}
	if cfg.MinWPM <= 0 || cfg.MaxWPM < cfg.MinWPM {
		return fmt.Errorf("--min-wpm must be > 0 and --max-wpm >= --min-wpm")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
