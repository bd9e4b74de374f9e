package ui

import (
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/traytidy/traytidy/internal/backend"
	"github.com/traytidy/traytidy/internal/capture"
	"github.com/traytidy/traytidy/internal/data/dispatcher"
	"github.com/traytidy/traytidy/internal/menu"
	"github.com/traytidy/traytidy/internal/state"
	"github.com/traytidy/traytidy/internal/strip"
	"github.com/traytidy/traytidy/internal/theme"
	"github.com/traytidy/traytidy/internal/ui/command"
	uistate "github.com/traytidy/traytidy/internal/ui/state"
)

type level = uistate.Level

const (
	menuHeaderSeparator = "→"
	defaultRootTitle    = "sections"
)

var styles = theme.Default()

var headerSegmentCleaner = strings.NewReplacer("_", " ", "-", " ")

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []menu.Item, node *menu.Node) *level {
	return uistate.NewLevel(id, title, items, node)
}

// Config wires the collaborators the model needs.
type Config struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	RootMenu   string

	Watcher       *backend.Watcher
	Dispatcher    *dispatcher.Dispatcher
	Controller    menu.Controller
	Settings      *state.SettingsStore
	Cache         *capture.Cache
	Panel         *Panel
	SectionHidden func() map[strip.Name]bool

	VisibleItems      state.ItemStore
	HiddenItems       state.ItemStore
	AlwaysHiddenItems state.ItemStore
}

// Model implements the Bubble Tea model for the section menu.
type Model struct {
	stack        []*level
	loading      bool
	pendingID    string
	pendingLabel string
	errMsg       string
	infoMsg      string
	infoExpire   time.Time
	width        int
	height       int
	fixedWidth   bool
	fixedHeight  bool
	showFooter   bool
	verbose      bool

	filterCursor      cursor.Model
	filterCursorDirty bool

	handlers map[reflect.Type]msgHandler

	registry   *menu.Registry
	bus        *command.Bus
	rootMenuID string
	rootTitle  string

	backend       *backend.Watcher
	dispatcher    *dispatcher.Dispatcher
	controller    menu.Controller
	settings      *state.SettingsStore
	cache         *capture.Cache
	panel         *Panel
	sectionHidden func() map[strip.Name]bool

	visible      state.ItemStore
	hiddenItems  state.ItemStore
	alwaysHidden state.ItemStore
}

// NewModel initialises the UI state with the root menu and configuration.
func NewModel(cfg Config) *Model {
	registry := menu.BuildRegistry()
	root := newLevel("root", "Sections", menu.RootItems(), registry.Root())
	m := &Model{
		stack:         []*level{root},
		registry:      registry,
		bus:           command.New(),
		showFooter:    cfg.ShowFooter,
		verbose:       cfg.Verbose,
		rootTitle:     defaultRootTitle,
		backend:       cfg.Watcher,
		dispatcher:    cfg.Dispatcher,
		controller:    cfg.Controller,
		settings:      cfg.Settings,
		cache:         cfg.Cache,
		panel:         cfg.Panel,
		sectionHidden: cfg.SectionHidden,
		visible:       cfg.VisibleItems,
		hiddenItems:   cfg.HiddenItems,
		alwaysHidden:  cfg.AlwaysHiddenItems,
	}
	if m.visible == nil {
		m.visible = state.NewItemStore()
	}
	if m.hiddenItems == nil {
		m.hiddenItems = state.NewItemStore()
	}
	if m.alwaysHidden == nil {
		m.alwaysHidden = state.NewItemStore()
	}
	m.applyNodeSettings(root)
	m.syncViewport(root)
	if cfg.Width > 0 {
		m.width = cfg.Width
		m.fixedWidth = true
	}
	if cfg.Height > 0 {
		m.height = cfg.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	m.applyRootMenuOverride(cfg.RootMenu)
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, m.finishUpdate(cmds)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(categoryLoadedMsg{}): m.handleCategoryLoadedMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendAppliedMsg{}): m.handleBackendAppliedMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(tea.FocusMsg{}):      m.handleFocusMsg,
		reflect.TypeOf(tea.BlurMsg{}):       m.handleBlurMsg,
	}
}

func (m *Model) handleFocusMsg(tea.Msg) tea.Cmd {
	if m.panel != nil {
		m.panel.SetFrontmost(true)
	}
	return nil
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	if m.panel != nil {
		m.panel.SetFrontmost(false)
	}
	return nil
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	m.syncPanel()
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// syncPanel mirrors the open surfaces into the presentation oracle after
// every update. An active filter counts as the search surface; an open
// items listing maps to the layout page, the rehide menu to its own page.
func (m *Model) syncPanel() {
	if m.panel == nil {
		return
	}
	search := false
	if current := m.currentLevel(); current != nil && current.Filter != "" {
		search = true
	}
	m.panel.SetSearch(search)

	presented := false
	page := ""
	for _, lvl := range m.stack {
		if lvl == nil {
			continue
		}
		switch {
		case strings.HasSuffix(lvl.ID, ":items"):
			presented = true
			page = capture.SettingsPageLayout
		case lvl.ID == "rehide" && !presented:
			presented = true
			page = "rehide"
		}
	}
	m.panel.SetSettings(presented, page)
}
