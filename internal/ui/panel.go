package ui

import (
	"context"
	"sync"

	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

// Panel tracks which of the app's surfaces are on screen. It doubles as
// the overlay collaborator for the section logic and as the presentation
// oracle the capture cache consults before recapturing. It is mutex
// guarded because the capture path runs outside the UI loop.
type Panel struct {
	mu        sync.Mutex
	target    strip.Name
	targeted  bool
	display   screen.Display
	search    bool
	settings  bool
	page      string
	frontmost bool
}

func NewPanel() *Panel {
	return &Panel{}
}

// Show presents the panel for the target section.
func (p *Panel) Show(ctx context.Context, target strip.Name, on screen.Display) error {
	p.mu.Lock()
	p.target = target
	p.targeted = true
	p.display = on
	p.mu.Unlock()
	events.UI.Overlay(target.String(), true)
	return nil
}

// Close dismisses the panel.
func (p *Panel) Close() {
	p.mu.Lock()
	wasTargeted := p.targeted
	target := p.target
	p.targeted = false
	p.mu.Unlock()
	if wasTargeted {
		events.UI.Overlay(target.String(), false)
	}
}

// Current reports the presented section, absent when closed.
func (p *Panel) Current() (strip.Name, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.target, p.targeted
}

// Display returns the display the panel was last presented on.
func (p *Panel) Display() screen.Display {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.display
}

func (p *Panel) OverlayTarget() (strip.Name, bool) {
	return p.Current()
}

func (p *Panel) SearchPresented() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.search
}

func (p *Panel) SettingsPresented() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.settings
}

func (p *Panel) SettingsPage() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

func (p *Panel) Frontmost() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frontmost
}

// SetSearch records whether the search surface is active.
func (p *Panel) SetSearch(active bool) {
	p.mu.Lock()
	p.search = active
	p.mu.Unlock()
}

// SetSettings records the settings surface state and its current page.
func (p *Panel) SetSettings(presented bool, page string) {
	p.mu.Lock()
	p.settings = presented
	p.page = page
	p.mu.Unlock()
}

// SetFrontmost records whether the app owns the foreground.
func (p *Panel) SetFrontmost(front bool) {
	p.mu.Lock()
	p.frontmost = front
	p.mu.Unlock()
}
