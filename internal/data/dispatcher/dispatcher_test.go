package dispatcher

import (
	"context"
	"testing"

	"github.com/traytidy/traytidy/internal/backend"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/state"
	"github.com/traytidy/traytidy/internal/strip"
)

type fakeSource struct {
	items map[strip.Name][]capture.Item
}

func (f *fakeSource) Items(section strip.Name) []capture.Item {
	return f.items[section]
}

type fakeCache struct {
	updates int
}

func (f *fakeCache) Update(context.Context) { f.updates++ }

func item(ns, title string) capture.Item {
	return capture.Item{Identity: identity.New(ns, title)}
}

func TestHandleRoutesItemsIntoStores(t *testing.T) {
	source := &fakeSource{items: map[strip.Name][]capture.Item{
		strip.Visible: {item("com.example.a", "Item-0")},
		strip.Hidden:  {item("com.example.b", "Item-0"), item(identity.Clock.Namespace, identity.Clock.Title)},
	}}
	cache := &fakeCache{}
	visible, hidden, always := state.NewItemStore(), state.NewItemStore(), state.NewItemStore()
	d := New(source, cache, visible, hidden, always)

	res := d.Handle(context.Background(), backend.Event{Reason: backend.ReasonItems})
	if !res.VisibleUpdated || !res.HiddenUpdated {
		t.Fatalf("expected visible and hidden updates, got %+v", res)
	}
	if res.AlwaysHiddenUpdated {
		t.Fatalf("empty section must not report an update")
	}
	if !res.ImagesUpdated || cache.updates != 1 {
		t.Fatalf("cache must refresh once, got %d", cache.updates)
	}

	entries := hidden.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 hidden entries, got %d", len(entries))
	}
	if entries[1].Movable {
		t.Fatalf("clock must be pinned")
	}
	if entries[0].Label != "Item-0" {
		t.Fatalf("label must fall back to the title, got %q", entries[0].Label)
	}
}

func TestHandleSkipsUnchangedStores(t *testing.T) {
	source := &fakeSource{items: map[strip.Name][]capture.Item{
		strip.Visible: {item("com.example.a", "Item-0")},
	}}
	visible := state.NewItemStore()
	d := New(source, nil, visible, state.NewItemStore(), state.NewItemStore())

	first := d.Handle(context.Background(), backend.Event{})
	if !first.VisibleUpdated {
		t.Fatalf("first event must update")
	}
	second := d.Handle(context.Background(), backend.Event{})
	if second.Updated() {
		t.Fatalf("identical items must not report an update")
	}
}
