// Command parley is a terminal chat client for Gemini with persistent
// conversation threads.
//
// Usage:
//
//	GEMINI_API_KEY=... parley [flags]
//
// Flags:
//
//	-config string     Path to TOML config file (default: ~/.parley/config.toml)
//	-api-key string    Gemini API key (overrides GEMINI_API_KEY)
//	-model string      Model ID (default: gemini-2.0-flash)
//	-store string      Session store: file, sqlite (default: file)
//	-data-dir string   Directory for session data (default: ~/.parley)
//	-log-file string   Log file (default: <data-dir>/parley.log)
//	-log-level string  Log level (default: info)
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/fwojciec/parley"
	bt "github.com/fwojciec/parley/bubbletea"
	"github.com/fwojciec/parley/chat"
	"github.com/fwojciec/parley/config"
	"github.com/fwojciec/parley/gemini"
	parleyjson "github.com/fwojciec/parley/json"
	"github.com/fwojciec/parley/session"
	"github.com/fwojciec/parley/sqlite"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	getenv, err := config.Env(".env")
	if err != nil {
		return err
	}
	cfg, err := config.Load(args, getenv)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// The TUI owns the terminal, so logs go to a file.
	logFile, err := openLog(cfg.LogPath())
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := newLogger(logFile, cfg.Level())

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	store := session.Open(kv, session.WithLogger(log.With().Str("component", "session").Logger()))

	opts := []gemini.Option{gemini.WithModel(cfg.Model), gemini.WithTimeout(cfg.Timeout)}
	if cfg.BaseURL != "" {
		opts = append(opts, gemini.WithBaseURL(cfg.BaseURL))
	}
	client, err := gemini.New(ctx, cfg.APIKey, opts...)
	if err != nil {
		return err
	}

	engine := chat.New(store, client, chat.WithLogger(log.With().Str("component", "chat").Logger()))
	log.Info().Str("model", cfg.Model).Str("store", cfg.Store).Msg("starting")

	if err := bt.Run(ctx, bt.New(engine, parley.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

func openLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// openStore opens the configured persistent store. The returned func
// releases it.
func openStore(cfg config.Config) (parley.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.SQLitePath())
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.StoreFile:
		return parleyjson.NewFileStore(cfg.DataDir), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
