// Package strip coordinates the visibility of the three menu-bar sections
// through their proxy controls, the overlay panel, and the timed rehide
// monitor.
package strip

import (
	"context"
	"sync"
	"time"

	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/screen"
)

// Name identifies one of the three sections.
type Name int

const (
	Visible Name = iota
	Hidden
	AlwaysHidden
)

// Names lists all sections in strip order.
var Names = []Name{Visible, Hidden, AlwaysHidden}

func (n Name) String() string {
	switch n {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	case AlwaysHidden:
		return "always-hidden"
	default:
		return "unknown"
	}
}

// RehideStrategy selects how auto-rehide is driven.
type RehideStrategy int

const (
	RehideOff RehideStrategy = iota
	RehideTimed
)

// Settings is the snapshot of global configuration the section logic reads.
// It is passed in as a value so transitions are testable without a full app
// context.
type Settings struct {
	UseOverlay     bool
	AutoRehide     bool
	RehideStrategy RehideStrategy
	RehideInterval time.Duration
}

// Overlay is the auxiliary panel that can present one section's items
// outside the strip. At most one section is targeted at a time; Current
// reports absent when the panel is closed.
type Overlay interface {
	Show(ctx context.Context, target Name, on screen.Display) error
	Close()
	Current() (Name, bool)
}

// PointerSource supplies pointer-move events and on-demand position reads
// for the rehide monitor.
type PointerSource interface {
	Subscribe() (<-chan screen.Point, func())
	Position() (screen.Point, bool)
}

// RegistryConfig wires the collaborators shared by all three sections.
type RegistryConfig struct {
	Overlay  Overlay
	Screens  screen.Source
	Pointer  PointerSource
	Settings func() Settings

	// RearmHover asks the hover-triggered auto-show collaborator to re-arm
	// after a hide. Optional.
	RearmHover func()
}

// Registry owns the three sections for the lifetime of the app. The mutex
// serializes control-state transitions and reads: the rehide monitor hides
// sections from its own goroutine while the UI drives Show and Hide.
type Registry struct {
	mu       sync.Mutex
	sections [3]*Section
	cfg      RegistryConfig
}

// NewRegistry creates the three sections together. Controls for the hidden
// sections start added to the strip in the HideItems state.
func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Settings == nil {
		cfg.Settings = func() Settings { return Settings{} }
	}
	r := &Registry{cfg: cfg}
	r.sections[Visible] = &Section{
		name:    Visible,
		control: &Control{ID: ControlPrimary, State: ShowItems, InStrip: true},
		owner:   r,
	}
	r.sections[Hidden] = &Section{
		name:    Hidden,
		control: &Control{ID: ControlHidden, State: HideItems, InStrip: true},
		owner:   r,
	}
	r.sections[AlwaysHidden] = &Section{
		name:    AlwaysHidden,
		control: &Control{ID: ControlAlwaysHidden, State: HideItems, InStrip: true},
		owner:   r,
	}
	return r
}

// Section returns the section with the given name, or nil for an unknown
// name.
func (r *Registry) Section(name Name) *Section {
	if r == nil || name < Visible || name > AlwaysHidden {
		return nil
	}
	return r.sections[name]
}

// Sections returns all three sections in strip order.
func (r *Registry) Sections() []*Section {
	return r.sections[:]
}

func (r *Registry) overlayTarget() (Name, bool) {
	if r.cfg.Overlay == nil {
		return 0, false
	}
	return r.cfg.Overlay.Current()
}

func (r *Registry) closeOverlay() {
	if r.cfg.Overlay != nil {
		r.cfg.Overlay.Close()
	}
}

// Section is the state machine for one section. Exactly three instances
// exist, created together by NewRegistry. The owner back-reference is
// non-owning; a detached section no-ops rather than failing.
type Section struct {
	name    Name
	control *Control
	owner   *Registry

	rehideMu sync.Mutex
	rehide   *rehideMonitor
}

// Name returns the section's name.
func (s *Section) Name() Name { return s.name }

// Control exposes the section's proxy control.
func (s *Section) Control() *Control { return s.control }

// Enabled reports whether the section can currently act: the Visible section
// always can, the hidden sections only while their control is added to the
// strip.
func (s *Section) Enabled() bool {
	if r := s.owner; r != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return s.enabledLocked()
}

func (s *Section) enabledLocked() bool {
	if s.name == Visible {
		return true
	}
	return s.control.InStrip
}

// Snapshot assembles the current hidden-state inputs for this section.
func (s *Section) Snapshot() Snapshot {
	if r := s.owner; r != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return s.snapshotLocked()
}

func (s *Section) snapshotLocked() Snapshot {
	snap := Snapshot{State: s.control.State}
	if s.owner == nil {
		return snap
	}
	snap.UseOverlay = s.owner.cfg.Settings().UseOverlay
	snap.Target, snap.HasTarget = s.owner.overlayTarget()
	return snap
}

// Hidden reports whether the section's items are currently hidden. Derived,
// never stored.
func (s *Section) Hidden() bool {
	if r := s.owner; r != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}
	return s.hiddenLocked()
}

func (s *Section) hiddenLocked() bool {
	return s.name.HiddenIn(s.snapshotLocked())
}

// Show reveals the section's items, cascading to siblings as required.
func (s *Section) Show(ctx context.Context) {
	r := s.owner
	if r == nil {
		switch {
		case !s.hiddenLocked():
			events.Section.Skip(s.name.String(), events.SectionReasonNoop)
		case !s.enabledLocked():
			events.Section.Skip(s.name.String(), events.SectionReasonDisabled)
		default:
			events.Section.Skip(s.name.String(), events.SectionReasonNoOwner)
		}
		return
	}

	r.mu.Lock()
	st, shown := s.show(ctx)
	r.mu.Unlock()
	if !shown {
		return
	}
	events.Section.Show(s.name.String())
	s.startRehide(st)
}

// show performs the state transition. The registry mutex must be held.
func (s *Section) show(ctx context.Context) (Settings, bool) {
	if !s.hiddenLocked() {
		events.Section.Skip(s.name.String(), events.SectionReasonNoop)
		return Settings{}, false
	}
	if !s.enabledLocked() {
		events.Section.Skip(s.name.String(), events.SectionReasonDisabled)
		return Settings{}, false
	}
	r := s.owner
	st := r.cfg.Settings()
	if st.UseOverlay {
		target := Hidden
		if s.name == AlwaysHidden {
			target = AlwaysHidden
		}
		s.presentOverlay(ctx, target)
		for _, sib := range r.sections {
			sib.control.State = HideItems
		}
	} else {
		r.closeOverlay()
		switch s.name {
		case Visible:
			other := r.Section(Hidden)
			if other == nil {
				return Settings{}, false
			}
			s.control.State = ShowItems
			other.control.State = ShowItems
		case Hidden:
			other := r.Section(Visible)
			if other == nil {
				return Settings{}, false
			}
			s.control.State = ShowItems
			other.control.State = ShowItems
		case AlwaysHidden:
			hidden := r.Section(Hidden)
			visible := r.Section(Visible)
			if hidden == nil || visible == nil {
				return Settings{}, false
			}
			s.control.State = ShowItems
			hidden.control.State = ShowItems
			visible.control.State = ShowItems
		}
	}
	return st, true
}

func (s *Section) presentOverlay(ctx context.Context, target Name) {
	r := s.owner
	if r.cfg.Overlay == nil {
		return
	}
	display, ok := screen.BestDisplay(r.cfg.Screens)
	if !ok {
		logging.Errorf("show %s: no display available for overlay", s.name)
		return
	}
	if err := r.cfg.Overlay.Show(ctx, target, display); err != nil {
		logging.Errorf("show %s: overlay: %v", s.name, err)
	}
}

// Hide conceals the section's items, cascading to siblings as required.
func (s *Section) Hide(ctx context.Context) {
	r := s.owner
	if r == nil {
		if s.hiddenLocked() {
			events.Section.Skip(s.name.String(), events.SectionReasonNoop)
		} else {
			events.Section.Skip(s.name.String(), events.SectionReasonNoOwner)
		}
		return
	}

	r.mu.Lock()
	hid := s.hide()
	r.mu.Unlock()
	if !hid {
		return
	}
	events.Section.Hide(s.name.String())
	if r.cfg.RearmHover != nil {
		r.cfg.RearmHover()
	}
	s.stopRehide()
}

// hide performs the state transition. The registry mutex must be held.
func (s *Section) hide() bool {
	if s.hiddenLocked() {
		events.Section.Skip(s.name.String(), events.SectionReasonNoop)
		return false
	}
	r := s.owner
	st := r.cfg.Settings()
	r.closeOverlay()
	if st.UseOverlay {
		for _, sib := range r.sections {
			sib.control.State = HideItems
		}
	} else {
		switch s.name {
		case Visible, Hidden:
			for _, sib := range r.sections {
				sib.control.State = HideItems
			}
		case AlwaysHidden:
			s.control.State = HideItems
		}
	}
	return true
}

// Toggle shows the section when hidden and hides it otherwise.
func (s *Section) Toggle(ctx context.Context) {
	if s.Hidden() {
		s.Show(ctx)
	} else {
		s.Hide(ctx)
	}
}
