// Package discovery tracks the live menu-bar items, their section
// assignment, and the recently-moved debounce signal consumed by the image
// cache.
package discovery

import (
	"context"
	"sync"
	"time"

	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/screen"
	"github.com/traytidy/traytidy/internal/strip"
)

// RemoteItem is one item as reported by the registration watcher: the
// service identifier becomes the identity namespace, the advertised title
// the identity title.
type RemoteItem struct {
	Service string
	Title   string
	Window  uint64
}

// Lister enumerates the currently registered items. The production
// implementation queries the session bus; tests script it.
type Lister interface {
	ListItems(ctx context.Context) ([]RemoteItem, error)
}

// BoundsResolver resolves a window's current strip bounds. Implemented by
// the capture-helper channel.
type BoundsResolver interface {
	WindowBounds(ctx context.Context, window uint64) (int64, bool)
}

// DefaultMoveWindow is how long an item move suppresses recapture.
const DefaultMoveWindow = 3 * time.Second

// Service maintains the ordered per-section item lists.
type Service struct {
	lister   Lister
	resolver BoundsResolver

	mu         sync.RWMutex
	items      map[strip.Name][]capture.Item
	assignment map[identity.Identity]strip.Name
	movedAt    time.Time
	moveWindow time.Duration

	changes chan struct{}
}

// New creates a discovery service. Items default to the Visible section
// until assigned elsewhere.
func New(lister Lister, resolver BoundsResolver) *Service {
	return &Service{
		lister:     lister,
		resolver:   resolver,
		items:      make(map[strip.Name][]capture.Item),
		assignment: make(map[identity.Identity]strip.Name),
		moveWindow: DefaultMoveWindow,
		changes:    make(chan struct{}, 1),
	}
}

// SetMoveWindow overrides the recently-moved debounce window.
func (s *Service) SetMoveWindow(d time.Duration) {
	s.mu.Lock()
	s.moveWindow = d
	s.mu.Unlock()
}

// Changes notifies on every refresh or move. The channel carries at most
// one pending notification; intermediate events collapse.
func (s *Service) Changes() <-chan struct{} {
	return s.changes
}

func (s *Service) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Refresh re-enumerates the live items and rebuilds the per-section lists,
// preserving enumeration order within each section.
func (s *Service) Refresh(ctx context.Context) error {
	remote, err := s.lister.ListItems(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	next := make(map[strip.Name][]capture.Item, len(strip.Names))
	for _, r := range remote {
		id := identity.New(r.Service, r.Title)
		section := strip.Visible
		if assigned, ok := s.assignment[id]; ok && id.CanMove() {
			section = assigned
		}
		next[section] = append(next[section], s.buildItem(id, r.Window))
	}
	s.items = next
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Service) buildItem(id identity.Identity, window uint64) capture.Item {
	resolver := s.resolver
	return capture.Item{
		Identity: id,
		Window:   capture.Window(window),
		Bounds: func() (screen.Rect, bool) {
			if resolver == nil {
				return screen.Rect{}, false
			}
			packed, ok := resolver.WindowBounds(context.Background(), window)
			if !ok {
				return screen.Rect{}, false
			}
			return UnpackBounds(packed), true
		},
	}
}

// Items returns the ordered live items for one section.
func (s *Service) Items(section strip.Name) []capture.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.items[section]
	out := make([]capture.Item, len(items))
	copy(out, items)
	return out
}

// RecentlyMoved reports whether an item was moved within the debounce
// window.
func (s *Service) RecentlyMoved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.movedAt.IsZero() {
		return false
	}
	return time.Since(s.movedAt) < s.moveWindow
}

// Move reassigns an item to a section. Immovable items are refused with a
// logged diagnostic; the visible effect is simply that nothing moves.
func (s *Service) Move(ctx context.Context, id identity.Identity, section strip.Name) {
	if !id.CanMove() {
		logging.Errorf("move %s: item is immovable", id)
		return
	}
	s.mu.Lock()
	s.assignment[id] = section
	s.movedAt = time.Now()
	s.mu.Unlock()
	if err := s.Refresh(ctx); err != nil {
		logging.Error(err)
	}
}

// Assignment returns the section an identity is assigned to.
func (s *Service) Assignment(id identity.Identity) strip.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if section, ok := s.assignment[id]; ok && id.CanMove() {
		return section
	}
	return strip.Visible
}

// PackBounds encodes a point rectangle into the helper's packed wire value:
// four 16-bit fields, x/y/width/height, most significant first.
func PackBounds(r screen.Rect) int64 {
	return int64(uint64(uint16(int16(r.X)))<<48 |
		uint64(uint16(int16(r.Y)))<<32 |
		uint64(uint16(int16(r.Width)))<<16 |
		uint64(uint16(int16(r.Height))))
}

// UnpackBounds decodes the helper's packed rectangle value.
func UnpackBounds(v int64) screen.Rect {
	return screen.Rect{
		X:      float64(int16(uint16(uint64(v) >> 48))),
		Y:      float64(int16(uint16(uint64(v) >> 32))),
		Width:  float64(int16(uint16(uint64(v) >> 16))),
		Height: float64(int16(uint16(uint64(v)))),
	}
}
