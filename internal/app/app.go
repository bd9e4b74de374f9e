// Package app assembles the application: discovery, sections, capture,
// triggers, and the terminal UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/backend"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/capture/portal"
	"github.com/traytidy/traytidy/internal/data/dispatcher"
	"github.com/traytidy/traytidy/internal/discovery"
	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/menu"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/service"
	"github.com/traytidy/traytidy/internal/state"
	"github.com/traytidy/traytidy/internal/strip"
	"github.com/traytidy/traytidy/internal/ui"
)

// RehideOff and RehideTimed are the accepted rehide strategy names.
const (
	RehideOff   = "off"
	RehideTimed = "timed"
)

// Config describes user-provided application options.
type Config struct {
	Bus            string
	Overlay        bool
	Rehide         string
	RehideInterval time.Duration
	Tick           time.Duration
	Debounce       time.Duration
	Width          int
	Height         int
	ShowFooter     bool
	Verbose        bool
	RootMenu       string
}

func (c Config) settings() strip.Settings {
	s := strip.Settings{
		UseOverlay:     c.Overlay,
		RehideInterval: c.RehideInterval,
	}
	if c.Rehide == RehideTimed {
		s.AutoRehide = true
		s.RehideStrategy = strip.RehideTimed
	}
	if s.RehideInterval <= 0 {
		s.RehideInterval = 15 * time.Second
	}
	return s
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	ctx := context.Background()

	screens, err := screen.NewBusSource(cfg.Bus)
	if err != nil {
		return fmt.Errorf("displays: %w", err)
	}
	defer screens.Close()

	pointer := screen.NewPointerPoller(screens, 0)
	defer pointer.Stop()

	channel := service.ChannelAt(cfg.Bus)
	channel.Start(ctx)
	defer channel.Invalidate()

	lister, err := discovery.NewBusLister(cfg.Bus)
	if err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	defer lister.Close()
	items := discovery.New(lister, channel)

	capturer, err := portal.New(cfg.Bus, func(ctx context.Context, window capture.Window) (screen.Rect, bool) {
		packed, ok := channel.WindowBounds(ctx, uint64(window))
		if !ok {
			return screen.Rect{}, false
		}
		return discovery.UnpackBounds(packed), true
	})
	if err != nil {
		return fmt.Errorf("capturer: %w", err)
	}
	defer capturer.Close()

	settings := state.NewSettingsStore(cfg.settings())
	panel := ui.NewPanel()
	registry := strip.NewRegistry(strip.RegistryConfig{
		Overlay:  panel,
		Screens:  screens,
		Pointer:  pointer,
		Settings: settings.Get,
	})

	permission := newHelperPermission(cfg.Bus)
	cache := capture.New(capture.Config{
		Source:       items,
		Capturer:     capturer,
		Permission:   permission,
		Presentation: panel,
		Screens:      screens,
	})

	if err := items.Refresh(ctx); err != nil {
		logging.Errorf("initial discovery: %v", err)
	}

	watcher := backend.NewWatcher(backend.Config{
		Tick:       cfg.Tick,
		Debounce:   cfg.Debounce,
		Permission: permission,
		Displays:   screens.Changes(),
		StripColor: cache.ColorChanges(),
		Items:      items.Changes(),
	})
	defer watcher.Stop()

	visible := state.NewItemStore()
	hidden := state.NewItemStore()
	alwaysHidden := state.NewItemStore()
	disp := dispatcher.New(items, cache, visible, hidden, alwaysHidden)

	model := ui.NewModel(ui.Config{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		RootMenu:   cfg.RootMenu,

		Watcher:    watcher,
		Dispatcher: disp,
		Controller: &sectionController{
			registry: registry,
			items:    items,
			settings: settings,
		},
		Settings:      settings,
		Cache:         cache,
		Panel:         panel,
		SectionHidden: func() map[strip.Name]bool { return sectionHidden(registry) },

		VisibleItems:      visible,
		HiddenItems:       hidden,
		AlwaysHiddenItems: alwaysHidden,
	})

	// The program starts foreground; focus reporting keeps the oracle in
	// step once the terminal moves to the background.
	panel.SetFrontmost(true)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func sectionHidden(r *strip.Registry) map[strip.Name]bool {
	out := make(map[strip.Name]bool, len(strip.Names))
	for _, s := range r.Sections() {
		out[s.Name()] = s.Hidden()
	}
	return out
}

// sectionController adapts the section registry and the discovery service to
// the menu's controller interface.
type sectionController struct {
	registry *strip.Registry
	items    *discovery.Service
	settings *state.SettingsStore
}

func (c *sectionController) ShowSection(ctx context.Context, name strip.Name) {
	if s := c.registry.Section(name); s != nil {
		s.Show(ctx)
	}
}

func (c *sectionController) HideSection(ctx context.Context, name strip.Name) {
	if s := c.registry.Section(name); s != nil {
		s.Hide(ctx)
	}
}

func (c *sectionController) ToggleSection(ctx context.Context, name strip.Name) {
	if s := c.registry.Section(name); s != nil {
		s.Toggle(ctx)
	}
}

func (c *sectionController) MoveItem(ctx context.Context, id identity.Identity, target strip.Name) error {
	if !id.CanMove() {
		return fmt.Errorf("%s is pinned and cannot move", id)
	}
	if target != strip.Visible && !id.CanHide() {
		return fmt.Errorf("%s cannot be hidden", id)
	}
	c.items.Move(ctx, id, target)
	return nil
}

func (c *sectionController) SetRehide(strategy strip.RehideStrategy, interval time.Duration) {
	c.settings.Update(func(s *strip.Settings) {
		s.RehideStrategy = strategy
		s.AutoRehide = strategy == strip.RehideTimed
		if interval > 0 {
			s.RehideInterval = interval
		}
		if s.RehideInterval <= 0 {
			s.RehideInterval = 15 * time.Second
		}
	})
}

var _ menu.Controller = (*sectionController)(nil)
