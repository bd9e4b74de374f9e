package capture

import (
	"context"
	"image"
	"sync"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

// Config wires the cache's collaborators.
type Config struct {
	Source       ItemSource
	Capturer     Capturer
	Permission   Permission
	Presentation Presentation
	Screens      screen.Source
}

// Cache maps item identities to their last captured bitmap. Entries are
// replaced on merge, never evicted; keys untouched by the latest update are
// retained. All mutation goes through the update routines.
type Cache struct {
	cfg Config

	mu          sync.RWMutex
	images      map[identity.Identity]*image.RGBA
	display     screen.Display
	stripHeight float64
	stripColor  [3]uint8
	hasColor    bool

	colorChanges chan struct{}
}

// New creates an empty cache.
func New(cfg Config) *Cache {
	return &Cache{
		cfg:          cfg,
		images:       make(map[identity.Identity]*image.RGBA),
		colorChanges: make(chan struct{}, 1),
	}
}

// ColorChanges signals whenever the averaged strip color of the captured
// bitmaps moves. The backend watcher consumes it as a refresh trigger.
func (c *Cache) ColorChanges() <-chan struct{} {
	return c.colorChanges
}

// StripColor returns the last averaged strip color, absent before the first
// merge.
func (c *Cache) StripColor() ([3]uint8, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stripColor, c.hasColor
}

// Images returns a snapshot copy of the cached images.
func (c *Cache) Images() map[identity.Identity]*image.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[identity.Identity]*image.RGBA, len(c.images))
	for k, v := range c.images {
		out[k] = v
	}
	return out
}

// Image returns the cached bitmap for one identity.
func (c *Cache) Image(id identity.Identity) (*image.RGBA, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	img, ok := c.images[id]
	return img, ok
}

// Display returns the display and strip height recorded by the last update.
func (c *Cache) Display() (screen.Display, float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.display, c.stripHeight
}

// Failed reports whether the cache has failed for a section: capture
// permission is absent, or the section manages items but none of them has a
// cached image. A section with no managed items has not failed.
func (c *Cache) Failed(section strip.Name) bool {
	if c.cfg.Permission != nil && !c.cfg.Permission.ScreenCaptureAllowed() {
		return true
	}
	if c.cfg.Source == nil {
		return false
	}
	items := c.cfg.Source.Items(section)
	if len(items) == 0 {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range items {
		if _, ok := c.images[it.Identity]; ok {
			return false
		}
	}
	return true
}

// Update is the all-sections entry point: it decides which sections need
// recapture from the presented surfaces. Settings or search visible means
// every section; an open overlay means only its target; otherwise nothing.
func (c *Cache) Update(ctx context.Context) {
	p := c.cfg.Presentation
	if p == nil {
		return
	}
	if p.SettingsPresented() || p.SearchPresented() {
		c.UpdateSections(ctx, strip.Names)
		return
	}
	if target, ok := p.OverlayTarget(); ok {
		c.UpdateSections(ctx, []strip.Name{target})
	}
}

// UpdateSections recaptures the given sections after checking that a surface
// which shows the images is actually presented and that no item was moved
// recently. Skips are logged with their reason.
func (c *Cache) UpdateSections(ctx context.Context, sections []strip.Name) {
	p := c.cfg.Presentation
	presented := false
	if p != nil {
		if _, ok := p.OverlayTarget(); ok {
			presented = true
		}
		presented = presented || p.SearchPresented()
		presented = presented || (p.Frontmost() && p.SettingsPresented() && p.SettingsPage() == SettingsPageLayout)
	}
	if !presented {
		events.Capture.Skip(events.CaptureSkipNotPresented)
		return
	}
	if c.cfg.Source != nil && c.cfg.Source.RecentlyMoved() {
		events.Capture.Skip(events.CaptureSkipRecentMove)
		return
	}
	c.UpdateSectionsWithoutChecks(ctx, sections)
}

// UpdateSectionsWithoutChecks recaptures the given sections unconditionally
// and merges the results into the cache. The recorded display and strip
// height are refreshed even when nothing was captured.
func (c *Cache) UpdateSectionsWithoutChecks(ctx context.Context, sections []strip.Name) {
	display, ok := screen.BestDisplay(c.cfg.Screens)
	if !ok {
		return
	}
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.String())
	}
	events.Capture.Begin(names)

	merged := 0
	var captured []*image.RGBA
	for _, section := range sections {
		items := c.cfg.Source.Items(section)
		if len(items) == 0 {
			continue
		}
		images := c.CreateImages(ctx, items, display)
		if len(images) == 0 {
			continue
		}
		c.mu.Lock()
		for id, img := range images {
			c.images[id] = img
			captured = append(captured, img)
		}
		c.mu.Unlock()
		merged += len(images)
	}
	events.Capture.Merge(merged)
	c.recordStripColor(captured)

	c.mu.Lock()
	c.display = display
	c.stripHeight = display.StripHeight
	c.mu.Unlock()
}

// recordStripColor folds the freshly captured bitmaps into one averaged
// color and signals when it moved since the previous merge.
func (c *Cache) recordStripColor(images []*image.RGBA) {
	var rSum, gSum, bSum, n uint64
	for _, img := range images {
		r, g, b := AverageColor(img)
		rSum += uint64(r)
		gSum += uint64(g)
		bSum += uint64(b)
		n++
	}
	if n == 0 {
		return
	}
	color := [3]uint8{uint8(rSum / n), uint8(gSum / n), uint8(bSum / n)}

	c.mu.Lock()
	changed := !c.hasColor || color != c.stripColor
	c.stripColor = color
	c.hasColor = true
	c.mu.Unlock()
	if !changed {
		return
	}
	select {
	case c.colorChanges <- struct{}{}:
	default:
	}
}

// CreateSectionImages captures the current items of one section without
// touching the cache.
func (c *Cache) CreateSectionImages(ctx context.Context, section strip.Name, on screen.Display) map[identity.Identity]*image.RGBA {
	return c.CreateImages(ctx, c.cfg.Source.Items(section), on)
}
