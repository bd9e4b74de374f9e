// Package command funnels menu action invocations through one place so
// every queue, skip, and result is traced.
package command

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/menu"
)

// Request names one action invocation: the menu entry it came from and
// the handler that performs it.
type Request struct {
	ID      string
	Label   string
	Handler menu.Action
	Item    menu.Item
}

// Bus executes requests. Handlers run on the update goroutine, where the
// section registry expects its callers; only the produced command is
// deferred to the Bubble Tea runtime.
type Bus struct{}

func New() *Bus {
	return &Bus{}
}

// Execute runs the request's handler and returns its command wrapped with
// result tracing. Requests without a handler, and handlers that produce no
// command, yield nil.
func (b *Bus) Execute(ctx menu.Context, req Request) tea.Cmd {
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	events.Command.Queue(req.ID, req.Label)
	cmd := req.Handler(ctx, req.Item)
	if cmd == nil {
		events.Command.NoOp(req.ID, req.Label)
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
