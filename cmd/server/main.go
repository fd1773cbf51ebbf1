package main

import (
	"log"
	"log/slog"

	"github.com/stillpoint/breathbox/internal/breath"
	"github.com/stillpoint/breathbox/internal/config"
	"github.com/stillpoint/breathbox/internal/cue"
	"github.com/stillpoint/breathbox/internal/keyring"
	"github.com/stillpoint/breathbox/internal/logger"
	"github.com/stillpoint/breathbox/internal/prefs"
	"github.com/stillpoint/breathbox/internal/server"
	"github.com/stillpoint/breathbox/internal/stats"
	"github.com/stillpoint/breathbox/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	appLogger := logger.SetupLogger(cfg)

	// Log startup information
	appLogger.Info("Starting breathbox server",
		"env", cfg.Env,
		"port", cfg.Port,
		"db", cfg.DBPath,
	)

	// Open persistence layer
	kv, err := store.Open(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to open database", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
	defer func() {
		if err := kv.Close(); err != nil {
			appLogger.Error("Failed to close database", "error", err)
		}
	}()

	statsStore := stats.NewStore(kv)
	prefsStore := prefs.NewStore(kv)

	// Session engine, committing stats when a session ends
	engine := breath.NewEngine(breath.Options{}, appLogger)
	engine.OnSessionEnd(func(cycles int) {
		if _, err := statsStore.Commit(1, cycles); err != nil {
			appLogger.Error("Failed to commit session stats", "error", err)
		}
	})

	// Guided cues need an OpenAI key; without one the cue endpoint serves
	// the plain tone. Environment takes priority, keychain is the fallback.
	apiKey := cfg.OpenAIAPIKey
	if apiKey == "" {
		if secret, err := keyring.Get(keyring.OpenAI); err == nil {
			apiKey = secret
		} else {
			slog.Debug("keychain lookup failed", "key", "openai", "error", err)
		}
	}

	var speech cue.Synthesizer
	if apiKey != "" {
		speech = cue.NewSpeechSynthesizer(apiKey)
	} else {
		appLogger.Info("No OpenAI API key configured, guided cues fall back to tone")
	}

	srv := server.New(cfg, appLogger, engine, statsStore, prefsStore, cue.NewSource(speech, appLogger))

	if err := srv.Run(); err != nil {
		appLogger.Error("Failed to start server", "error", err)
		log.Fatalf("Fatal: %v", err)
	}
}
