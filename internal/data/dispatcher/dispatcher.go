package dispatcher

import (
	"context"

	"github.com/traytidy/traytidy/internal/backend"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/menu"
	"github.com/traytidy/traytidy/internal/state"
	"github.com/traytidy/traytidy/internal/strip"
)

// Source exposes the discovered items per section.
type Source interface {
	Items(section strip.Name) []capture.Item
}

// Updater refreshes cached captures.
type Updater interface {
	Update(ctx context.Context)
}

type Result struct {
	VisibleUpdated      bool
	HiddenUpdated       bool
	AlwaysHiddenUpdated bool
	ImagesUpdated       bool
}

// Updated reports whether any section changed.
func (r Result) Updated() bool {
	return r.VisibleUpdated || r.HiddenUpdated || r.AlwaysHiddenUpdated
}

// Dispatcher routes refresh events into the item stores and the capture
// cache.
type Dispatcher struct {
	source Source
	cache  Updater

	visible      state.ItemStore
	hidden       state.ItemStore
	alwaysHidden state.ItemStore
}

func New(source Source, cache Updater, visible, hidden, alwaysHidden state.ItemStore) *Dispatcher {
	return &Dispatcher{
		source:       source,
		cache:        cache,
		visible:      visible,
		hidden:       hidden,
		alwaysHidden: alwaysHidden,
	}
}

func (d *Dispatcher) Handle(ctx context.Context, evt backend.Event) Result {
	var res Result
	if d.source != nil {
		res.VisibleUpdated = d.refresh(d.visible, strip.Visible)
		res.HiddenUpdated = d.refresh(d.hidden, strip.Hidden)
		res.AlwaysHiddenUpdated = d.refresh(d.alwaysHidden, strip.AlwaysHidden)
	}
	if d.cache != nil {
		d.cache.Update(ctx)
		res.ImagesUpdated = true
	}
	return res
}

func (d *Dispatcher) refresh(store state.ItemStore, section strip.Name) bool {
	if store == nil {
		return false
	}
	entries := entriesFromItems(d.source.Items(section))
	if !entriesChanged(store.Entries(), entries) {
		return false
	}
	store.SetEntries(entries)
	return true
}

func entriesFromItems(items []capture.Item) []menu.ItemEntry {
	entries := make([]menu.ItemEntry, 0, len(items))
	for _, item := range items {
		label := item.Identity.Title
		if label == "" {
			label = item.Identity.Namespace
		}
		entries = append(entries, menu.ItemEntry{
			ID:       item.Identity.String(),
			Label:    label,
			Identity: item.Identity,
			Movable:  item.Identity.CanMove(),
			Hideable: item.Identity.CanHide(),
		})
	}
	return entries
}

func entriesChanged(old, next []menu.ItemEntry) bool {
	if len(old) != len(next) {
		return true
	}
	for i := range old {
		if old[i].ID != next[i].ID {
			return true
		}
	}
	return false
}
