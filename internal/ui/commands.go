package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/logging"
	"github.com/traytidy/traytidy/internal/logging/events"
	"github.com/traytidy/traytidy/internal/menu"
	"github.com/traytidy/traytidy/internal/strip"
)

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	m.loading = false
	m.pendingID = ""
	m.pendingLabel = ""
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.forceClearInfo()
		events.Action.Error(result.Err)
		return nil
	}
	if result.Info != "" && m.verbose {
		m.setInfo(result.Info)
	} else {
		m.forceClearInfo()
	}
	events.Action.Success(result.Info)
	return m.refreshOpenLevels()
}

func (m *Model) loadMenuCmd(id, title string, loader menu.Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := loader(m.menuContext())
		if err != nil {
			logging.Error(err)
		}
		return categoryLoadedMsg{id: id, title: title, items: items, err: err}
	}
}

// categoryLoadedMsg mirrors the async loader response.
type categoryLoadedMsg struct {
	id    string
	title string
	items []menu.Item
	err   error
}

func (m *Model) menuContext() menu.Context {
	ctx := menu.Context{
		Visible:      m.visible.Entries(),
		Hidden:       m.hiddenItems.Entries(),
		AlwaysHidden: m.alwaysHidden.Entries(),
		Controller:   m.controller,
	}
	if m.settings != nil {
		ctx.Settings = m.settings.Get()
	}
	if m.sectionHidden != nil {
		ctx.SectionHidden = m.sectionHidden()
	} else {
		ctx.SectionHidden = map[strip.Name]bool{}
	}
	return ctx
}
