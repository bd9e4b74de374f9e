// Package state holds the per-level menu state: item list, cursor, filter
// query, selections, and the viewport window.
package state

import (
	"strings"

	"github.com/traytidy/traytidy/internal/menu"
)

// Level is the state of one open menu level.
type Level struct {
	ID             string
	Title          string
	Items          []menu.Item
	Full           []menu.Item
	Filter         string
	FilterCursor   int
	Cursor         int
	MultiSelect    bool
	Selected       map[string]struct{}
	LastCursor     int
	Node           *menu.Node
	ViewportOffset int
}

// NewLevel builds a level over the given items. The cursor starts parked
// before the first item so the first key press lands on it.
func NewLevel(id, title string, items []menu.Item, node *menu.Node) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
		Selected:   make(map[string]struct{}),
		Node:       node,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf locates an item by identifier. Action IDs are namespaced
// ("hidden:show"), so a miss retries with the segment after the last colon.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	if i := l.indexOfExact(id); i >= 0 {
		return i
	}
	if cut := strings.LastIndex(id, ":"); cut >= 0 {
		return l.indexOfExact(id[cut+1:])
	}
	return -1
}

func (l *Level) indexOfExact(id string) int {
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItems swaps in a fresh item list, pruning stale selections and
// re-applying the active filter. The viewport offset survives when it still
// points inside the list.
func (l *Level) UpdateItems(items []menu.Item) {
	offset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.CleanupSelections()
	l.applyFilter()
	if offset < 0 || offset >= len(l.Items) {
		offset = 0
	}
	l.ViewportOffset = offset
}

// CloneItems copies a menu item slice so callers cannot alias level state.
func CloneItems(items []menu.Item) []menu.Item {
	dup := make([]menu.Item, len(items))
	copy(dup, items)
	return dup
}
