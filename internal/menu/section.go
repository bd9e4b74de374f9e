package menu

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/format/grid"
	"github.com/traytidy/traytidy/internal/identity"
	"github.com/traytidy/traytidy/internal/strip"
)

func loadSectionMenu(section strip.Name) Loader {
	return func(ctx Context) ([]Item, error) {
		items := []Item{
			{ID: "show", Label: "show"},
			{ID: "hide", Label: "hide"},
			{ID: "toggle", Label: "toggle"},
			{ID: "items", Label: fmt.Sprintf("items (%d)", len(ctx.SectionEntries(section)))},
		}
		for _, target := range moveTargets(section) {
			items = append(items, Item{
				ID:    "to-" + target.String(),
				Label: "move to " + strings.ReplaceAll(target.String(), "-", " "),
			})
		}
		return items, nil
	}
}

func loadSectionItemsMenu(section strip.Name) Loader {
	return func(ctx Context) ([]Item, error) {
		entries := ctx.SectionEntries(section)
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			note := ""
			if !entry.Movable {
				note = "pinned"
			}
			rows = append(rows, []string{entry.Label, entry.Identity.Namespace, note})
		}
		labels := grid.Format(rows, []grid.Alignment{grid.AlignLeft, grid.AlignLeft, grid.AlignRight})
		items := make([]Item, 0, len(entries))
		for i, entry := range entries {
			items = append(items, Item{ID: entry.ID, Label: labels[i]})
		}
		return items, nil
	}
}

func loadMoveMenu(section, target strip.Name) Loader {
	return func(ctx Context) ([]Item, error) {
		entries := ctx.SectionEntries(section)
		items := make([]Item, 0, len(entries))
		for _, entry := range entries {
			if !entry.Movable {
				continue
			}
			if target != strip.Visible && !entry.Hideable {
				continue
			}
			items = append(items, Item{ID: entry.ID, Label: entry.Label})
		}
		return items, nil
	}
}

func SectionShowAction(section strip.Name) Action {
	return func(ctx Context, item Item) tea.Cmd {
		controller := ctx.Controller
		return func() tea.Msg {
			if controller == nil {
				return ActionResult{Err: fmt.Errorf("no section controller")}
			}
			controller.ShowSection(context.Background(), section)
			return ActionResult{Info: fmt.Sprintf("Revealed %s items", section)}
		}
	}
}

func SectionHideAction(section strip.Name) Action {
	return func(ctx Context, item Item) tea.Cmd {
		controller := ctx.Controller
		return func() tea.Msg {
			if controller == nil {
				return ActionResult{Err: fmt.Errorf("no section controller")}
			}
			controller.HideSection(context.Background(), section)
			return ActionResult{Info: fmt.Sprintf("Concealed %s items", section)}
		}
	}
}

func SectionToggleAction(section strip.Name) Action {
	return func(ctx Context, item Item) tea.Cmd {
		controller := ctx.Controller
		return func() tea.Msg {
			if controller == nil {
				return ActionResult{Err: fmt.Errorf("no section controller")}
			}
			controller.ToggleSection(context.Background(), section)
			return ActionResult{Info: fmt.Sprintf("Toggled %s items", section)}
		}
	}
}

// MoveAction reassigns the selected items to the target section. Multi
// selections arrive as newline-joined IDs.
func MoveAction(target strip.Name) Action {
	return func(ctx Context, item Item) tea.Cmd {
		controller := ctx.Controller
		ids := splitSelection(item.ID)
		label := strings.TrimSpace(item.Label)
		return func() tea.Msg {
			if controller == nil {
				return ActionResult{Err: fmt.Errorf("no section controller")}
			}
			if len(ids) == 0 {
				return ActionResult{Err: fmt.Errorf("no items selected")}
			}
			for _, raw := range ids {
				id := identity.Parse(raw)
				if err := controller.MoveItem(context.Background(), id, target); err != nil {
					return ActionResult{Err: fmt.Errorf("move %s: %w", id, err)}
				}
			}
			if len(ids) == 1 {
				return ActionResult{Info: fmt.Sprintf("Moved %s to %s", label, target)}
			}
			return ActionResult{Info: fmt.Sprintf("Moved %d items to %s", len(ids), target)}
		}
	}
}

func moveTargets(section strip.Name) []strip.Name {
	targets := make([]strip.Name, 0, 2)
	for _, name := range strip.Names {
		if name != section {
			targets = append(targets, name)
		}
	}
	return targets
}

func moveID(section, target strip.Name) string {
	return section.String() + ":to-" + target.String()
}
