package menu

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/strip"
)

func loadRehideMenu(ctx Context) ([]Item, error) {
	off := "off"
	timed := "timed"
	switch ctx.Settings.RehideStrategy {
	case strip.RehideOff:
		off += " (current)"
	case strip.RehideTimed:
		timed += fmt.Sprintf(" (current, every %s)", ctx.Settings.RehideInterval)
	}
	return []Item{
		{ID: "off", Label: off},
		{ID: "timed", Label: timed},
	}, nil
}

func RehideOffAction(ctx Context, item Item) tea.Cmd {
	controller := ctx.Controller
	return func() tea.Msg {
		if controller == nil {
			return ActionResult{Err: fmt.Errorf("no section controller")}
		}
		controller.SetRehide(strip.RehideOff, 0)
		return ActionResult{Info: "Rehide disabled"}
	}
}

func RehideTimedAction(ctx Context, item Item) tea.Cmd {
	controller := ctx.Controller
	interval := ctx.Settings.RehideInterval
	return func() tea.Msg {
		if controller == nil {
			return ActionResult{Err: fmt.Errorf("no section controller")}
		}
		controller.SetRehide(strip.RehideTimed, interval)
		return ActionResult{Info: fmt.Sprintf("Rehide every %s", interval)}
	}
}
