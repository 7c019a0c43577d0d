package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/minhvu/taleforge/internal/config"
	"github.com/minhvu/taleforge/internal/engine"
	"github.com/minhvu/taleforge/internal/session"
	"github.com/minhvu/taleforge/internal/store"
	"github.com/minhvu/taleforge/internal/tui"
)

func main() {
	ctx := context.Background()

	// Optional .env for local runs; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		fmt.Printf("Error creating data dir: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.ImportPath(), 0o755); err != nil {
		fmt.Printf("Error creating import dir: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		fmt.Printf("Error opening save database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	// One-time import of the pre-database flat save list. A failure here
	// is reported and retried next launch, never fatal.
	if _, err := store.MigrateLegacy(ctx, st, cfg.LegacyPath()); err != nil {
		log.Error().Err(err).Msg("Legacy save migration failed")
		fmt.Printf("Warning: migrating old saves failed: %v\n", err)
	}

	pool := engine.NewKeyPool(cfg.GeminiAPIKey, cfg.UserAPIKeys)
	eng, err := engine.NewEngine(ctx, pool)
	if err != nil {
		fmt.Printf("Error creating engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	sess := session.New(st)

	if err := tui.Run(sess, eng, pool, st, cfg.ImportPath()); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
