package screen

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/traytidy/traytidy/internal/bus"
	"github.com/traytidy/traytidy/internal/logging"
)

const (
	displayConfigName      = "org.gnome.Mutter.DisplayConfig"
	displayConfigPath      = dbus.ObjectPath("/org/gnome/Mutter/DisplayConfig")
	displayConfigInterface = "org.gnome.Mutter.DisplayConfig"

	getCurrentState = displayConfigInterface + ".GetCurrentState"
	monitorsChanged = "MonitorsChanged"
)

// DefaultStripHeight is the assumed height of the status strip in points
// when the compositor does not report one.
const DefaultStripHeight = 24.0

type monitorSpec struct {
	Connector string
	Vendor    string
	Product   string
	Serial    string
}

type monitorMode struct {
	ID             string
	Width          int32
	Height         int32
	RefreshRate    float64
	PreferredScale float64
	Scales         []float64
	Properties     map[string]dbus.Variant
}

type monitor struct {
	Spec       monitorSpec
	Modes      []monitorMode
	Properties map[string]dbus.Variant
}

type logicalMonitor struct {
	X          int32
	Y          int32
	Scale      float64
	Transform  uint32
	Primary    bool
	Monitors   []monitorSpec
	Properties map[string]dbus.Variant
}

// BusSource enumerates displays through the compositor's display
// configuration service. Pointer position and space state are not exposed by
// that interface, so both report absent; BestDisplay degrades to the main
// display.
type BusSource struct {
	conn        *dbus.Conn
	stripHeight float64

	mu      sync.RWMutex
	cached  []Display
	changes chan struct{}
	signals chan *dbus.Signal
}

// NewBusSource connects to the session bus and primes the display list. The
// returned source refreshes itself whenever the compositor announces a
// monitor layout change.
func NewBusSource(address string) (*BusSource, error) {
	conn, err := bus.Connect(address)
	if err != nil {
		return nil, err
	}
	s := &BusSource{
		conn:        conn,
		stripHeight: DefaultStripHeight,
		changes:     make(chan struct{}, 1),
		signals:     make(chan *dbus.Signal, 8),
	}
	if err := s.refresh(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(displayConfigInterface),
		dbus.WithMatchMember(monitorsChanged),
	); err != nil {
		conn.Close()
		return nil, fmt.Errorf("monitor change signal: %w", err)
	}
	conn.Signal(s.signals)
	go s.watch()
	return s, nil
}

// Close releases the bus connection.
func (s *BusSource) Close() error {
	return s.conn.Close()
}

// Changes notifies when the monitor layout changed. At most one notification
// is pending at a time.
func (s *BusSource) Changes() <-chan struct{} {
	return s.changes
}

func (s *BusSource) watch() {
	for sig := range s.signals {
		if sig.Name != displayConfigInterface+"."+monitorsChanged {
			continue
		}
		if err := s.refresh(); err != nil {
			logging.Errorf("display refresh: %v", err)
			continue
		}
		select {
		case s.changes <- struct{}{}:
		default:
		}
	}
	close(s.changes)
}

func (s *BusSource) refresh() error {
	var serial uint32
	var monitors []monitor
	var logical []logicalMonitor
	var props map[string]dbus.Variant
	err := s.conn.Object(displayConfigName, displayConfigPath).
		Call(getCurrentState, 0).
		Store(&serial, &monitors, &logical, &props)
	if err != nil {
		return fmt.Errorf("display state: %w", err)
	}

	displays := make([]Display, 0, len(logical))
	for _, lm := range logical {
		if len(lm.Monitors) == 0 {
			continue
		}
		d := Display{
			ID:          lm.Monitors[0].Connector,
			Scale:       lm.Scale,
			StripHeight: s.stripHeight,
		}
		if d.Scale <= 0 {
			d.Scale = 1
		}
		width, height := currentModeSize(monitors, lm.Monitors[0])
		d.Bounds = Rect{
			X:      float64(lm.X),
			Y:      float64(lm.Y),
			Width:  float64(width) / d.Scale,
			Height: float64(height) / d.Scale,
		}
		if lm.Primary {
			// Keep the primary display first so Main is a cheap lookup.
			displays = append([]Display{d}, displays...)
		} else {
			displays = append(displays, d)
		}
	}

	s.mu.Lock()
	s.cached = displays
	s.mu.Unlock()
	return nil
}

// currentModeSize finds the active mode's pixel size for the given monitor.
func currentModeSize(monitors []monitor, spec monitorSpec) (int32, int32) {
	for _, m := range monitors {
		if m.Spec.Connector != spec.Connector {
			continue
		}
		for _, mode := range m.Modes {
			v, ok := mode.Properties["is-current"]
			if !ok {
				continue
			}
			if current, ok := v.Value().(bool); ok && current {
				return mode.Width, mode.Height
			}
		}
		if len(m.Modes) > 0 {
			return m.Modes[0].Width, m.Modes[0].Height
		}
	}
	return 0, 0
}

// Displays returns the cached display list.
func (s *BusSource) Displays() []Display {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Display, len(s.cached))
	copy(out, s.cached)
	return out
}

// Main returns the primary display.
func (s *BusSource) Main() (Display, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.cached) == 0 {
		return Display{}, false
	}
	return s.cached[0], true
}

// PointerPosition is not available through the display configuration
// service.
func (s *BusSource) PointerPosition() (Point, bool) {
	return Point{}, false
}

// ActiveSpaceFullScreen is not available through the display configuration
// service.
func (s *BusSource) ActiveSpaceFullScreen() bool {
	return false
}
