package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/backend"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

// backendAppliedMsg reports a finished dispatch so the model can refresh
// its open levels on the UI goroutine.
type backendAppliedMsg struct {
	updated bool
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(msg tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent hands the event to the dispatcher inside a command, so
// store refreshes and capture round-trips run off the update loop and never
// block input.
func (m *Model) applyBackendEvent(evt backend.Event) tea.Cmd {
	if m.dispatcher == nil {
		return nil
	}
	d := m.dispatcher
	return func() tea.Msg {
		res := d.Handle(context.Background(), evt)
		return backendAppliedMsg{updated: res.Updated()}
	}
}

func (m *Model) handleBackendAppliedMsg(msg tea.Msg) tea.Cmd {
	applied, ok := msg.(backendAppliedMsg)
	if !ok || !applied.updated {
		return nil
	}
	return m.refreshOpenLevels()
}

// refreshOpenLevels reloads every open level whose node has a loader, so
// on-screen menus track the latest item assignments. The root level keeps
// its static entries.
func (m *Model) refreshOpenLevels() tea.Cmd {
	ctx := m.menuContext()
	for _, lvl := range m.stack {
		if lvl == nil || lvl.ID == "root" {
			continue
		}
		node := lvl.Node
		if node == nil {
			node, _ = m.registry.Find(lvl.ID)
		}
		if node == nil || node.Loader == nil {
			continue
		}
		items, err := node.Loader(ctx)
		if err != nil {
			m.errMsg = err.Error()
			continue
		}
		lvl.UpdateItems(items)
		m.applyNodeSettings(lvl)
		m.syncViewport(lvl)
	}
	if current := m.currentLevel(); current != nil && len(current.Items) > 0 {
		m.clearInfo()
	}
	return nil
}
