package main

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/traytidy/traytidy/internal/app"
	"github.com/traytidy/traytidy/internal/config"
	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/logging/events"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)
	events.App.Start(startupPayload(cfg))

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupPayload records the effective runtime context in the trace log, so
// a report with a trace attached shows how the process was launched.
func startupPayload(cfg config.Config) map[string]interface{} {
	payload := map[string]interface{}{
		"argv":     cfg.Args,
		"flags":    cfg.Flags,
		"bus":      cfg.App.Bus,
		"overlay":  cfg.App.Overlay,
		"rehide":   cfg.App.Rehide,
		"tick":     cfg.App.Tick.String(),
		"debounce": cfg.App.Debounce.String(),
		"trace":    cfg.Logging.Trace,
		"logFile":  cfg.Logging.FilePath,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	}
	payload["terminal"] = probeTerminals()
	return payload
}

type terminalProbe struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

func probeTerminals() []terminalProbe {
	return []terminalProbe{
		probeTerminal("stdin", os.Stdin),
		probeTerminal("stdout", os.Stdout),
		probeTerminal("stderr", os.Stderr),
	}
}

func probeTerminal(name string, f *os.File) terminalProbe {
	p := terminalProbe{Name: name}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return p
	}
	p.IsTerminal = true
	w, h, err := term.GetSize(fd)
	if err != nil {
		p.Error = err.Error()
		return p
	}
	p.Width = w
	p.Height = h
	return p
}
