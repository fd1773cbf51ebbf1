package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stillpoint/breathbox/internal/cue"
	"github.com/stillpoint/breathbox/internal/keyring"
	"github.com/stillpoint/breathbox/internal/prefs"
	"github.com/stillpoint/breathbox/internal/stats"
	"github.com/stillpoint/breathbox/internal/store"
	"github.com/stillpoint/breathbox/internal/tui"
	"github.com/stillpoint/breathbox/internal/workdir"
)

// CLI defines the breathe command structure.
type CLI struct {
	// Default session command (runs when no subcommand given)
	Session SessionCmd `cmd:"" default:"withargs" help:"Run a guided breathing session"`

	// Subcommands
	Devices DevicesCmd `cmd:"" help:"List available audio playback devices"`
	Stats   StatsCmd   `cmd:"" help:"Show lifetime session statistics"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// SessionCmd is the default command that runs a breathing session in the
// terminal.
type SessionCmd struct {
	Minutes      int    `flag:"" default:"5" help:"Session length in minutes (5, 10, or 15)"`
	DB           string `flag:"" optional:"" help:"Database path (default: ~/.breathbox/breathbox.db)"`
	OpenAIAPIKey string `flag:"" env:"OPENAI_API_KEY" help:"OpenAI API key for guided voice cues"`
}

// Run executes the session command.
func (c *SessionCmd) Run() error {
	if c.Minutes != 5 && c.Minutes != 10 && c.Minutes != 15 {
		return fmt.Errorf("invalid session length %d: must be 5, 10, or 15 minutes", c.Minutes)
	}

	// Resolve API key: environment variable takes priority, fallback to keychain
	if c.OpenAIAPIKey == "" {
		if secret, err := keyring.Get(keyring.OpenAI); err == nil {
			c.OpenAIAPIKey = secret
		} else {
			slog.Debug("keychain lookup failed", "key", "openai", "error", err)
		}
	}

	kv, err := openStore(c.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	statsStore := stats.NewStore(kv)
	prefsStore := prefs.NewStore(kv)

	engine := breath.NewEngine(breath.Options{}, slog.Default())

	// Guided cues need the synthesizer; without a key the player falls back
	// to the plain tone.
	var speech cue.Synthesizer
	if c.OpenAIAPIKey != "" {
		speech = cue.NewSpeechSynthesizer(c.OpenAIAPIKey)
	}

	player := cue.NewPlayer(prefsStore, speech, cue.NewSpeaker(cue.DefaultSampleRate), slog.Default())
	engine.OnPhaseChange(player.PhaseChanged)
	engine.OnSessionEnd(func(cycles int) {
		if _, err := statsStore.Commit(1, cycles); err != nil {
			slog.Error("Failed to commit session stats", "error", err)
		}
	})

	events, unsubscribe := engine.Subscribe(16)
	defer unsubscribe()

	controls := tui.Controls{
		Mute:             prefs.MutedKnob(prefsStore),
		Guided:           prefs.GuidedKnob(prefsStore),
		LifetimeSessions: stats.SessionsDial(statsStore),
	}
	model := tui.New(engine, events, controls, prefsStore.Language(), engine.PhaseSeconds())

	if err := engine.Start(c.Minutes); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		engine.Stop()
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	// Quitting the TUI already stops the engine; Stop is idempotent.
	engine.Stop()

	lifetime := statsStore.Load()
	fmt.Printf("\n%d sessions and %d cycles all time. bye!\n", lifetime.Sessions, lifetime.TotalCycles)

	return nil
}

// DevicesCmd lists available audio playback devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (d *DevicesCmd) Run() error {
	slog.Info("Enumerating playback devices...")

	devices, err := cue.ListPlaybackDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate playback devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Playback Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
		)
	}

	return nil
}

// StatsCmd shows lifetime session statistics.
type StatsCmd struct {
	DB string `flag:"" optional:"" help:"Database path (default: ~/.breathbox/breathbox.db)"`
}

// Run executes the stats command.
func (c *StatsCmd) Run() error {
	kv, err := openStore(c.DB)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			slog.Error("Failed to close database", "error", err)
		}
	}()

	lifetime := stats.NewStore(kv).Load()
	fmt.Printf("sessions: %d\n", lifetime.Sessions)
	fmt.Printf("cycles:   %d\n", lifetime.TotalCycles)

	return nil
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store the OpenAI API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores the OpenAI API key in the system keychain.
type SetKeyCmd struct {
	Secret string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	if err := keyring.Set(keyring.OpenAI, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Println("openai API key stored in keychain")

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'breathe config set-key <key>' to configure.")
	}

	return nil
}

// openStore opens the key-value database, defaulting to the per-user data
// directory when no explicit path is given.
func openStore(path string) (*store.KV, error) {
	if path == "" {
		if err := workdir.Prep(); err != nil {
			return nil, fmt.Errorf("failed to prepare data directory: %w", err)
		}

		defaultPath, err := workdir.DBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to determine database path: %w", err)
		}
		path = defaultPath
	}

	kv, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return kv, nil
}

func main() {
	// Set up text-based logger for CLI output
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
