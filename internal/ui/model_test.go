package ui

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/backend"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/data/dispatcher"
	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/menu"
	"github.com/traytidy/traytidy/internal/state"
	"github.com/traytidy/traytidy/internal/strip"
)

type recordingController struct {
	shown   []strip.Name
	hidden  []strip.Name
	toggled []strip.Name
	moves   map[identity.Identity]strip.Name
}

func newRecordingController() *recordingController {
	return &recordingController{moves: make(map[identity.Identity]strip.Name)}
}

func (c *recordingController) ShowSection(_ context.Context, name strip.Name) {
	c.shown = append(c.shown, name)
}

func (c *recordingController) HideSection(_ context.Context, name strip.Name) {
	c.hidden = append(c.hidden, name)
}

func (c *recordingController) ToggleSection(_ context.Context, name strip.Name) {
	c.toggled = append(c.toggled, name)
}

func (c *recordingController) MoveItem(_ context.Context, id identity.Identity, target strip.Name) error {
	c.moves[id] = target
	return nil
}

func (c *recordingController) SetRehide(strip.RehideStrategy, time.Duration) {}

func newTestModel(controller menu.Controller) *Model {
	hidden := state.NewItemStore()
	hidden.SetEntries([]menu.ItemEntry{
		{ID: "com.example.a:Item-0", Label: "Item-0", Identity: identity.New("com.example.a", "Item-0"), Movable: true, Hideable: true},
	})
	return NewModel(Config{
		Controller:  controller,
		HiddenItems: hidden,
	})
}

func TestMenuHeaderRootLevel(t *testing.T) {
	m := newTestModel(nil)
	if got := m.menuHeader(); got != defaultRootTitle {
		t.Fatalf("expected %q, got %q", defaultRootTitle, got)
	}
}

func TestMenuHeaderNestedLevels(t *testing.T) {
	m := newTestModel(nil)
	m.stack = append(m.stack, newLevel("hidden", "hidden", nil, nil))
	if got := m.menuHeader(); got != "hidden" {
		t.Fatalf("expected %q, got %q", "hidden", got)
	}
	m.stack = append(m.stack, newLevel("hidden:to-visible", "move to visible", nil, nil))
	if got := m.menuHeader(); got != "hidden→to visible" {
		t.Fatalf("unexpected breadcrumb %q", got)
	}
}

func TestRootMenuOverrideSetsInitialLevel(t *testing.T) {
	m := NewModel(Config{RootMenu: "hidden"})
	if got := m.stack[0].ID; got != "hidden" {
		t.Fatalf("expected root id hidden, got %s", got)
	}
	if m.rootMenuID != "hidden" {
		t.Fatalf("expected rootMenuID hidden, got %s", m.rootMenuID)
	}
}

func TestInvalidRootMenuFallsBackToDefault(t *testing.T) {
	m := NewModel(Config{RootMenu: "does-not-exist"})
	if got := m.stack[0].ID; got != "root" {
		t.Fatalf("expected default root id, got %s", got)
	}
	if m.errMsg == "" {
		t.Fatalf("expected error message for invalid root menu")
	}
}

func TestEnterOpensSectionMenu(t *testing.T) {
	m := newTestModel(nil)
	root := m.currentLevel()
	root.Cursor = root.IndexOf("hidden")
	if root.Cursor < 0 {
		t.Fatalf("missing hidden entry in %#v", root.Items)
	}
	cmd := m.handleEnterKey()
	if cmd == nil {
		t.Fatalf("expected a loader command")
	}
	msg := cmd()
	loaded, ok := msg.(categoryLoadedMsg)
	if !ok {
		t.Fatalf("expected categoryLoadedMsg, got %#v", msg)
	}
	m.handleCategoryLoadedMsg(loaded)
	current := m.currentLevel()
	if current.ID != "hidden" {
		t.Fatalf("expected hidden level, got %s", current.ID)
	}
	if idx := current.IndexOf("show"); idx < 0 {
		t.Fatalf("section menu must list show, got %#v", current.Items)
	}
}

func TestEnterExecutesSectionAction(t *testing.T) {
	controller := newRecordingController()
	m := newTestModel(controller)
	m.stack = append(m.stack, newLevel("hidden", "hidden", []menu.Item{{ID: "show", Label: "show"}}, nil))
	m.applyNodeSettings(m.currentLevel())
	m.currentLevel().Cursor = 0

	cmd := m.handleEnterKey()
	if cmd == nil {
		t.Fatalf("expected an action command")
	}
	msg := cmd()
	result, ok := msg.(menu.ActionResult)
	if !ok || result.Err != nil {
		t.Fatalf("unexpected result %#v", msg)
	}
	if len(controller.shown) != 1 || controller.shown[0] != strip.Hidden {
		t.Fatalf("show must reach the controller, got %v", controller.shown)
	}
	m.handleActionResultMsg(result)
	if m.loading {
		t.Fatalf("result must clear the loading flag")
	}
}

func TestMultiSelectMoveJoinsSelection(t *testing.T) {
	controller := newRecordingController()
	m := newTestModel(controller)
	items := []menu.Item{
		{ID: "com.example.a:Item-0", Label: "a"},
		{ID: "com.example.b:Item-0", Label: "b"},
	}
	node, _ := m.registry.Find("hidden:to-visible")
	lvl := newLevel("hidden:to-visible", "move to visible", items, node)
	m.stack = append(m.stack, lvl)
	m.applyNodeSettings(lvl)
	if !lvl.MultiSelect {
		t.Fatalf("move level must be multi-select")
	}
	lvl.Cursor = 0
	lvl.ToggleCurrentSelection()
	lvl.Cursor = 1
	lvl.ToggleCurrentSelection()

	cmd := m.handleEnterKey()
	if cmd == nil {
		t.Fatalf("expected an action command")
	}
	msg := cmd()
	if result, ok := msg.(menu.ActionResult); !ok || result.Err != nil {
		t.Fatalf("unexpected result %#v", msg)
	}
	if len(controller.moves) != 2 {
		t.Fatalf("expected both selections moved, got %v", controller.moves)
	}
}

func TestEscapePopsLevel(t *testing.T) {
	m := newTestModel(nil)
	m.stack = append(m.stack, newLevel("hidden", "hidden", nil, nil))
	if cmd := m.handleEscapeKey(); cmd != nil {
		t.Fatalf("expected no quit while nested")
	}
	if len(m.stack) != 1 {
		t.Fatalf("expected stack pop, got depth %d", len(m.stack))
	}
	if cmd := m.handleEscapeKey(); cmd == nil {
		t.Fatalf("expected quit at root")
	}
}

func TestLevelCursorPaging(t *testing.T) {
	items := make([]menu.Item, 12)
	for i := range items {
		items[i] = menu.Item{ID: fmt.Sprintf("item-%d", i)}
	}
	lvl := newLevel("test", "Test", items, nil)
	lvl.Cursor = 0
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 5 {
		t.Fatalf("expected cursor at 5, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 10 {
		t.Fatalf("expected cursor at 10, got %d", lvl.Cursor)
	}
	if !lvl.MoveCursorPageDown(5) || lvl.Cursor != 11 {
		t.Fatalf("expected cursor at end, got %d", lvl.Cursor)
	}
	if lvl.MoveCursorPageDown(5) {
		t.Fatalf("expected no movement past end")
	}
	if !lvl.MoveCursorPageUp(5) || lvl.Cursor != 6 {
		t.Fatalf("expected cursor at 6, got %d", lvl.Cursor)
	}
}

type stubDispatchSource struct {
	items map[strip.Name][]capture.Item
}

func (s *stubDispatchSource) Items(section strip.Name) []capture.Item { return s.items[section] }

func TestBackendEventsDispatchOffTheUpdateLoop(t *testing.T) {
	hidden := state.NewItemStore()
	src := &stubDispatchSource{items: map[strip.Name][]capture.Item{
		strip.Hidden: {{Identity: identity.New("com.example.a", "Item-0")}},
	}}
	d := dispatcher.New(src, nil, nil, hidden, nil)
	m := NewModel(Config{Dispatcher: d, HiddenItems: hidden})

	cmd := m.handleBackendEventMsg(backendEventMsg{event: backend.Event{Reason: backend.ReasonItems}})
	if cmd == nil {
		t.Fatalf("expected a dispatch command")
	}
	if len(hidden.Entries()) != 0 {
		t.Fatalf("dispatch must not run inside the update loop")
	}

	msg := cmd()
	applied, ok := msg.(backendAppliedMsg)
	if !ok || !applied.updated {
		t.Fatalf("unexpected message %#v", msg)
	}
	if len(hidden.Entries()) != 1 {
		t.Fatalf("running the command must refresh the stores")
	}

	node, _ := m.registry.Find("hidden:items")
	lvl := newLevel("hidden:items", "items", nil, node)
	m.stack = append(m.stack, lvl)
	m.handleBackendAppliedMsg(applied)
	if len(lvl.Items) != 1 {
		t.Fatalf("applied message must refresh open levels, got %#v", lvl.Items)
	}
}

func TestPanelTracksOpenSurfaces(t *testing.T) {
	panel := NewPanel()
	m := NewModel(Config{Panel: panel})
	m.finishUpdate(nil)
	if panel.SettingsPresented() || panel.SearchPresented() {
		t.Fatalf("root level must not present any surface")
	}

	node, _ := m.registry.Find("hidden:items")
	m.stack = append(m.stack, newLevel("hidden:items", "items", nil, node))
	m.finishUpdate(nil)
	if !panel.SettingsPresented() || panel.SettingsPage() != capture.SettingsPageLayout {
		t.Fatalf("items listing must present the layout page, got %q", panel.SettingsPage())
	}

	m.currentLevel().SetFilter("clo", 3)
	m.finishUpdate(nil)
	if !panel.SearchPresented() {
		t.Fatalf("active filter must present the search surface")
	}
	m.currentLevel().SetFilter("", 0)
	m.finishUpdate(nil)
	if panel.SearchPresented() {
		t.Fatalf("cleared filter must dismiss the search surface")
	}

	m.stack = m.stack[:1]
	m.stack = append(m.stack, newLevel("rehide", "rehide", nil, nil))
	m.finishUpdate(nil)
	if !panel.SettingsPresented() || panel.SettingsPage() != "rehide" {
		t.Fatalf("rehide menu must present its settings page, got %q", panel.SettingsPage())
	}

	m.handleFocusMsg(tea.FocusMsg{})
	if !panel.Frontmost() {
		t.Fatalf("focus must mark the app frontmost")
	}
	m.handleBlurMsg(tea.BlurMsg{})
	if panel.Frontmost() {
		t.Fatalf("blur must clear frontmost")
	}
}

func TestRefreshOpenLevelsTracksStores(t *testing.T) {
	m := newTestModel(nil)
	node, _ := m.registry.Find("hidden:items")
	lvl := newLevel("hidden:items", "items", nil, node)
	m.stack = append(m.stack, lvl)

	m.refreshOpenLevels()
	if len(lvl.Items) != 1 {
		t.Fatalf("expected the hidden entry to appear, got %#v", lvl.Items)
	}

	m.hiddenItems.SetEntries(nil)
	m.refreshOpenLevels()
	if len(lvl.Items) != 0 {
		t.Fatalf("expected the listing to empty, got %#v", lvl.Items)
	}
}
