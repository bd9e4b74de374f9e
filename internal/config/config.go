// Package config loads runtime configuration from flags and environment
// variables. Flags win over environment values.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/traytidy/traytidy/internal/app"
	"github.com/traytidy/traytidy/internal/backend"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envBus            = "TRAYTIDY_BUS"
	envOverlay        = "TRAYTIDY_OVERLAY"
	envRehide         = "TRAYTIDY_REHIDE"
	envRehideInterval = "TRAYTIDY_REHIDE_INTERVAL"
	envTick           = "TRAYTIDY_TICK"
	envDebounce       = "TRAYTIDY_DEBOUNCE"
	envWidth          = "TRAYTIDY_WIDTH"
	envHeight         = "TRAYTIDY_HEIGHT"
	envShowFooter     = "TRAYTIDY_FOOTER"
	envMenu           = "TRAYTIDY_MENU"
	envVerbose        = "TRAYTIDY_VERBOSE"
	envTrace          = "TRAYTIDY_TRACE"
	envLogFile        = "TRAYTIDY_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("traytidy", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	busAddr := fs.String("bus", envOrDefault(env, envBus, ""), "session bus address (overrides environment detection)")
	overlay := fs.Bool("overlay", envOrBool(env, envOverlay, false), "present hidden sections in the overlay panel instead of the strip")
	rehide := fs.String("rehide", envOrDefault(env, envRehide, app.RehideOff), "auto-rehide strategy: off or timed")
	rehideInterval := fs.Duration("rehide-interval", envOrDuration(env, envRehideInterval, 15*time.Second), "delay before a revealed section hides again")
	tick := fs.Duration("tick", envOrDuration(env, envTick, backend.MaxTick), "periodic capture refresh interval (capped at 3s)")
	debounce := fs.Duration("debounce", envOrDuration(env, envDebounce, backend.DefaultDebounce), "trigger coalescing window")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	rootMenu := fs.String("menu", envOrDefault(env, envMenu, ""), "open directly on the named menu (visible, hidden, always-hidden, rehide)")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "print success messages for actions")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Bus:            *busAddr,
			Overlay:        *overlay,
			Rehide:         *rehide,
			RehideInterval: *rehideInterval,
			Tick:           *tick,
			Debounce:       *debounce,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			Verbose:        *verbose,
			RootMenu:       *rootMenu,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"bus":            *busAddr,
			"overlay":        strconv.FormatBool(*overlay),
			"rehide":         *rehide,
			"rehideInterval": rehideInterval.String(),
			"tick":           tick.String(),
			"debounce":       debounce.String(),
			"width":          strconv.Itoa(*width),
			"height":         strconv.Itoa(*height),
			"footer":         strconv.FormatBool(*footer),
			"menu":           *rootMenu,
			"trace":          strconv.FormatBool(*trace),
			"verbose":        strconv.FormatBool(*verbose),
			"logFile":        *logFile,
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	switch cfg.App.Rehide {
	case app.RehideOff, app.RehideTimed:
	default:
		return fmt.Errorf("rehide must be %q or %q (got %q)", app.RehideOff, app.RehideTimed, cfg.App.Rehide)
	}
	if cfg.App.RehideInterval <= 0 {
		return fmt.Errorf("rehide-interval must be positive (got %s)", cfg.App.RehideInterval)
	}
	if cfg.App.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive (got %s)", cfg.App.Debounce)
	}
	return nil
}
