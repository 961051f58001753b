// Package config loads settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvWorkDir   = "PCELLS_WORK_DIR"
	EnvRoundTrip = "PCELLS_ROUND_TRIP"
	EnvCacheSize = "PCELLS_CACHE_SIZE"
	EnvRecordDB  = "PCELLS_RECORD_DB"
	EnvPort      = "PCELLS_PORT"
	EnvLogLevel  = "PCELLS_LOG_LEVEL"
)

type Config struct {
	WorkDir   string
	RoundTrip bool
	CacheSize int

	// RecordDB is the build history database. Empty disables recording.
	RecordDB string

	Port     int
	LogLevel log.Level
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		WorkDir:   os.TempDir(),
		CacheSize: 256,
		LogLevel:  log.InfoLevel,
	}
}

// Load reads the given .env files, or ".env" when none is given, and then
// the environment. Missing files are ignored; variables already set in the
// environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	c := Default()

	if v := env(EnvWorkDir); v != "" {
		c.WorkDir = v
	}

	c.RecordDB = env(EnvRecordDB)

	if v := env(EnvRoundTrip); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvRoundTrip, err)
		}

		c.RoundTrip = b
	}

	if v := env(EnvCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s: invalid cache size %q", EnvCacheSize, v)
		}

		c.CacheSize = n
	}

	if v := env(EnvPort); v != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(v, ":"))
		if err != nil || n < 0 || n > 65535 {
			return nil, fmt.Errorf("%s: invalid port %q", EnvPort, v)
		}

		c.Port = n
	}

	if v := env(EnvLogLevel); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}

		c.LogLevel = lvl
	}

	return c, nil
}

func env(name string) string {
	return strings.TrimSpace(os.Getenv(name))
}
