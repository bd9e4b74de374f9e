package menu

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/strip"
)

// Item represents a selectable menu entry.
type Item struct {
	ID    string
	Label string
}

// Level describes a breadcrumb component for display purposes.
type Level struct {
	ID    string
	Title string
	Items []Item
}

// ItemEntry represents a status item reference for menu loaders.
type ItemEntry struct {
	ID       string
	Label    string
	Identity identity.Identity
	Movable  bool
	Hideable bool
}

// Controller performs section and item operations on behalf of menu
// actions.
type Controller interface {
	ShowSection(ctx context.Context, name strip.Name)
	HideSection(ctx context.Context, name strip.Name)
	ToggleSection(ctx context.Context, name strip.Name)
	MoveItem(ctx context.Context, id identity.Identity, target strip.Name) error
	SetRehide(strategy strip.RehideStrategy, interval time.Duration)
}

// Context carries runtime data needed by loader functions.
type Context struct {
	Visible       []ItemEntry
	Hidden        []ItemEntry
	AlwaysHidden  []ItemEntry
	SectionHidden map[strip.Name]bool
	Settings      strip.Settings
	Controller    Controller
}

// SectionEntries returns the entries currently assigned to a section.
func (c Context) SectionEntries(name strip.Name) []ItemEntry {
	switch name {
	case strip.Visible:
		return c.Visible
	case strip.Hidden:
		return c.Hidden
	case strip.AlwaysHidden:
		return c.AlwaysHidden
	}
	return nil
}

// Loader populates submenu entries on demand.
type Loader func(Context) ([]Item, error)

type Action func(Context, Item) tea.Cmd

// ActionResult communicates the outcome of executing a menu action.
type ActionResult struct {
	Info string
	Err  error
}

// RootItems returns the top-level menu entries.
func RootItems() []Item {
	return []Item{
		{ID: strip.Visible.String(), Label: "visible"},
		{ID: strip.Hidden.String(), Label: "hidden"},
		{ID: strip.AlwaysHidden.String(), Label: "always hidden"},
		{ID: "rehide", Label: "rehide"},
	}
}

// CategoryLoaders lists submenu loaders keyed by root item ID.
func CategoryLoaders() map[string]Loader {
	return map[string]Loader{
		strip.Visible.String():      loadSectionMenu(strip.Visible),
		strip.Hidden.String():       loadSectionMenu(strip.Hidden),
		strip.AlwaysHidden.String(): loadSectionMenu(strip.AlwaysHidden),
		"rehide":                    loadRehideMenu,
	}
}

// ActionHandlers maps submenu identifiers to their execution logic.
func ActionHandlers() map[string]Action {
	handlers := map[string]Action{
		"rehide:off":   RehideOffAction,
		"rehide:timed": RehideTimedAction,
	}
	for _, section := range strip.Names {
		handlers[section.String()+":show"] = SectionShowAction(section)
		handlers[section.String()+":hide"] = SectionHideAction(section)
		handlers[section.String()+":toggle"] = SectionToggleAction(section)
		for _, target := range moveTargets(section) {
			handlers[moveID(section, target)] = MoveAction(target)
		}
	}
	return handlers
}

// ActionLoaders enumerates loaders for nested submenu actions.
func ActionLoaders() map[string]Loader {
	loaders := map[string]Loader{}
	for _, section := range strip.Names {
		loaders[section.String()+":items"] = loadSectionItemsMenu(section)
		for _, target := range moveTargets(section) {
			loaders[moveID(section, target)] = loadMoveMenu(section, target)
		}
	}
	return loaders
}
