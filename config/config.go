// Package config resolves client settings from defaults, an optional TOML
// file, the environment, and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Environment variables read by [Load].
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvModel  = "PARLEY_MODEL"
)

const (
	defaultModel = "gemini-2.0-flash"
	dirName      = ".parley"
	fileName     = "config.toml"
)

// Config holds the resolved settings.
type Config struct {
	APIKey   string        `toml:"api_key"`
	Model    string        `toml:"model"`
	BaseURL  string        `toml:"base_url"`
	Timeout  time.Duration `toml:"timeout"`
	Store    string        `toml:"store"`
	DataDir  string        `toml:"data_dir"`
	LogFile  string        `toml:"log_file"`
	LogLevel string        `toml:"log_level"`
}

// Default returns the settings used when nothing overrides them.
func Default() Config {
	return Config{
		Model:    defaultModel,
		Store:    StoreFile,
		DataDir:  defaultDataDir(),
		LogLevel: zerolog.InfoLevel.String(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return dirName
	}
	return filepath.Join(home, dirName)
}

// Load resolves settings from args (without the program name) and getenv.
// The config file is -config when given, else config.toml under the data
// directory; a missing default file is not an error.
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("parley", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		path     = fs.String("config", "", "path to the TOML config file")
		apiKey   = fs.String("api-key", "", "Gemini API key")
		model    = fs.String("model", "", "model name")
		store    = fs.String("store", "", "session store: file or sqlite")
		dataDir  = fs.String("data-dir", "", "directory for session data")
		logFile  = fs.String("log-file", "", "log file path")
		logLevel = fs.String("log-level", "", "log level")
	)
	if err := fs.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: parse flags: %w", err)
	}

	file := *path
	if file == "" {
		dir := cfg.DataDir
		if *dataDir != "" {
			dir = *dataDir
		}
		file = filepath.Join(dir, fileName)
	}
	if _, err := toml.DecodeFile(file, &cfg); err != nil {
		if *path != "" || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	if v := getenv(EnvAPIKey); v != "" {
		cfg.APIKey = v
	}
	if v := getenv(EnvModel); v != "" {
		cfg.Model = v
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "api-key":
			cfg.APIKey = *apiKey
		case "model":
			cfg.Model = *model
		case "store":
			cfg.Store = *store
		case "data-dir":
			cfg.DataDir = *dataDir
		case "log-file":
			cfg.LogFile = *logFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	return cfg, nil
}

// Env returns a getenv that prefers the process environment and falls back
// to the variables in the dotenv file at path. A missing file is ignored.
func Env(path string) (func(string) string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		vars = nil
	}
	return func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return vars[key]
	}, nil
}

// Validate reports settings the client cannot run with.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config: missing API key (set %s or -api-key)", EnvAPIKey)
	}
	if c.Store != StoreFile && c.Store != StoreSQLite {
		return fmt.Errorf("config: unknown store %q", c.Store)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// LogPath returns the log file, defaulting to parley.log in the data
// directory.
func (c Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "parley.log")
}

// SQLitePath returns the database file used by the sqlite store.
func (c Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "parley.db")
}
