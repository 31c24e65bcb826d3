// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel     = "WHEELTOOLS_LOG_LEVEL"
	EnvLogTimestamp = "WHEELTOOLS_LOG_TIMESTAMP"
	EnvLogNoColor   = "WHEELTOOLS_LOG_NOCOLOR"
	EnvLogJSON      = "WHEELTOOLS_LOG_JSON"
)

// Profile selects the logging defaults for a process type.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

// ConfigureRuntime applies the CLI defaults: info level, console output on
// stderr with timestamps.
func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

// ConfigureTests applies test defaults: debug level, no timestamps.
func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure sets up the global zerolog logger once. Environment variables
// override the profile defaults; later calls are no-ops.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		cfg := defaultConfig(profile)
		applyEnvOverrides(&cfg)

		var out io.Writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		}
		if cfg.JSON {
			out = os.Stderr
		}

		logger := zerolog.New(out).Level(cfg.Level)
		if cfg.Timestamp {
			logger = logger.With().Timestamp().Logger()
		}
		log.Logger = logger
	})
}

// SetLevel adjusts the global level after configuration. Config files feed
// their log_level value through here; unknown strings are ignored.
func SetLevel(raw string) {
	if lvl, ok := parseLevel(raw); ok {
		log.Logger = log.Logger.Level(lvl)
	}
}

// New returns a child of the global logger tagged with a component name.
func New(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}

type config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
	JSON      bool
}

func defaultConfig(profile Profile) config {
	switch profile {
	case ProfileTest:
		return config{Level: zerolog.DebugLevel, Timestamp: false}
	default:
		return config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

func applyEnvOverrides(cfg *config) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		cfg.Timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		cfg.NoColor = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogJSON)); ok {
		cfg.JSON = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
