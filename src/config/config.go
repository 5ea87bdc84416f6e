// Package config reads runtime settings from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win over it.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/HugoHeilmann/Data-visualisation/src/prefstore"
)

// DataConfig locates the match table.
type DataConfig struct {
	Path string
}

// PrefsConfig selects where the filter snapshot is persisted.
type PrefsConfig struct {
	Backend string // memory, file, sqlite, postgres, redis, fyne
	Target  string // directory, DSN or address depending on Backend
	// RedisPassword is only used by the redis backend.
	RedisPassword string
}

// Config holds all application configuration
type Config struct {
	Data     DataConfig
	Prefs    PrefsConfig
	LogLevel string
	OutDir   string
}

// BackendFyne keeps preferences in the desktop app's own store; only the viewer offers it.
const BackendFyne = "fyne"

// Load reads the optional env file, then the environment.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return LoadConfig(), nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Data: DataConfig{
			Path: getEnv("MATCHBOARD_DATA", "data/matches.csv"),
		},
		Prefs: PrefsConfig{
			Backend:       strings.ToLower(getEnv("MATCHBOARD_PREFS_BACKEND", prefstore.BackendFile)),
			Target:        getEnv("MATCHBOARD_PREFS_TARGET", defaultPrefsDir()),
			RedisPassword: getEnv("MATCHBOARD_REDIS_PASSWORD", ""),
		},
		LogLevel: getEnv("MATCHBOARD_LOG_LEVEL", "info"),
		OutDir:   getEnv("MATCHBOARD_OUT", "charts_out"),
	}
}

func defaultPrefsDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + string(os.PathSeparator) + "matchboard"
	}
	return ".matchboard"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// OpenSlot opens the configured preference slot. The fyne backend is resolved by the
// viewer, which owns the app preferences.
func (p PrefsConfig) OpenSlot(ctx context.Context) (prefstore.Slot, error) {
	switch p.Backend {
	case BackendFyne:
		return nil, fmt.Errorf("backend %q is only available in the desktop viewer", p.Backend)
	case prefstore.BackendRedis:
		r, err := prefstore.DialRedis(ctx, p.Target, p.RedisPassword)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return prefstore.Open(ctx, p.Backend, p.Target)
}
