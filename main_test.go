package main

import (
	"os"
	"testing"
	"time"

	"github.com/traytidy/traytidy/internal/app"
	"github.com/traytidy/traytidy/internal/config"
)

func TestProbeTerminalsCoversStandardDescriptors(t *testing.T) {
	probes := probeTerminals()
	if len(probes) != 3 {
		t.Fatalf("expected 3 probes, got %d", len(probes))
	}
	for i, name := range []string{"stdin", "stdout", "stderr"} {
		if probes[i].Name != name {
			t.Fatalf("probe %d: expected %q, got %q", i, name, probes[i].Name)
		}
	}
}

func TestProbeTerminalNonTerminal(t *testing.T) {
	f, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("open %s: %v", os.DevNull, err)
	}
	defer f.Close()
	p := probeTerminal("null", f)
	if p.IsTerminal {
		t.Fatalf("%s must not probe as a terminal", os.DevNull)
	}
	if p.Width != 0 || p.Height != 0 || p.Error != "" {
		t.Fatalf("non-terminal probe must stay zero, got %+v", p)
	}
}

func TestStartupPayloadRecordsRuntimeContext(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Bus:            "unix:path=/tmp/bus",
			Overlay:        true,
			Rehide:         app.RehideTimed,
			RehideInterval: 20 * time.Second,
			Tick:           3 * time.Second,
			Debounce:       500 * time.Millisecond,
			Width:          80,
			Height:         24,
			ShowFooter:     true,
			Verbose:        true,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Flags: map[string]string{
			"bus":    "unix:path=/tmp/bus",
			"rehide": "timed",
		},
		Args: []string{"--bus", "unix:path=/tmp/bus"},
	}

	payload := startupPayload(cfg)

	if payload["bus"] != "unix:path=/tmp/bus" {
		t.Fatalf("bus = %v", payload["bus"])
	}
	if payload["rehide"] != app.RehideTimed {
		t.Fatalf("rehide = %v", payload["rehide"])
	}
	if payload["tick"] != "3s" {
		t.Fatalf("tick = %v", payload["tick"])
	}
	if payload["trace"] != true {
		t.Fatalf("trace = %v", payload["trace"])
	}
	if payload["logFile"] != "trace.log" {
		t.Fatalf("logFile = %v", payload["logFile"])
	}
	flags, ok := payload["flags"].(map[string]string)
	if !ok || flags["rehide"] != "timed" {
		t.Fatalf("flags = %v", payload["flags"])
	}
	if _, ok := payload["terminal"].([]terminalProbe); !ok {
		t.Fatalf("expected terminal probes in payload")
	}
}
