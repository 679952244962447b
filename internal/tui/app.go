// Package tui provides the interactive terminal dashboard.
package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
)

// App is the main TUI application.
type App struct {
	baseURL   string
	observers []dashboard.Observer
	opts      []api.Option
	onStart   func(*dashboard.Orchestrator)
}

// NewApp creates a new TUI application for the backend at baseURL.
func NewApp(baseURL string, observers ...dashboard.Observer) *App {
	return &App{
		baseURL:   baseURL,
		observers: observers,
	}
}

// WithClientOptions sets options for the backend client.
func (a *App) WithClientOptions(opts ...api.Option) *App {
	a.opts = opts
	return a
}

// OnStart registers a hook called with the orchestrator before the program
// starts.
func (a *App) OnStart(fn func(*dashboard.Orchestrator)) *App {
	a.onStart = fn
	return a
}

// Run starts the TUI application and blocks until the user quits or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sender := &programSender{}
	view := NewView(sender)
	status := dashboard.NewStatusReporter(view)
	client := api.NewClient(a.baseURL, status, a.opts...)
	orch := dashboard.New(client, view, status, a.observers...)
	defer orch.Close()

	if a.onStart != nil {
		a.onStart(orch)
	}

	p := tea.NewProgram(newModel(ctx, dashboard.NewRegistrar(orch), client.BaseURL()),
		tea.WithAltScreen(), tea.WithContext(ctx))
	sender.attach(p)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type keyMap struct {
	Fetch     key.Binding
	Parse     key.Binding
	Correlate key.Binding
	Reload    key.Binding
	NextTable key.Binding
	PrevTable key.Binding
	Quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Fetch:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fetch intel")),
		Parse:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parse logs")),
		Correlate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "run correlation")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		NextTable: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next table")),
		PrevTable: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev table")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// triggers maps each workflow binding to its action.
func (k *keyMap) triggers() []struct {
	binding *key.Binding
	action  dashboard.Action
} {
	return []struct {
		binding *key.Binding
		action  dashboard.Action
	}{
		{&k.Fetch, dashboard.ActionFetchIntel},
		{&k.Parse, dashboard.ActionParseLogs},
		{&k.Correlate, dashboard.ActionRunCorrelation},
		{&k.Reload, dashboard.ActionReload},
	}
}

func (k *keyMap) setTriggersEnabled(enabled bool) {
	for _, t := range k.triggers() {
		t.binding.SetEnabled(enabled)
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Fetch, k.Parse, k.Correlate, k.Reload, k.NextTable, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Fetch, k.Parse, k.Correlate, k.Reload}, {k.NextTable, k.PrevTable, k.Quit}}
}

type actionDoneMsg struct {
	action dashboard.Action
	ran    bool
}

type liveChart struct {
	id  int64
	cfg dashboard.ChartConfig
}

// dashboardModel is the main bubbletea model.
type dashboardModel struct {
	ctx       context.Context
	registrar *dashboard.Registrar
	baseURL   string

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	// busy mirrors the tracker; dispatching covers the gap between a key
	// press and the tracker's first report.
	busy        bool
	dispatching bool

	status    string
	statusErr bool
	totals    model.Totals
	tables    map[dashboard.TableID]*table.Model
	focus     int
	charts    map[string]liveChart

	width  int
	height int
}

func newModel(ctx context.Context, reg *dashboard.Registrar, baseURL string) dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SectionTitleStyle

	m := dashboardModel{
		ctx:         ctx,
		registrar:   reg,
		baseURL:     baseURL,
		keys:        newKeyMap(),
		help:        help.New(),
		spinner:     s,
		dispatching: true,
		tables:      make(map[dashboard.TableID]*table.Model),
		charts:      make(map[string]liveChart),
		width:       100,
		height:      40,
	}
	for i, slot := range dashboard.TableSlots {
		t := newTable(slot, m.width)
		if i == 0 {
			t.Focus()
		}
		m.tables[slot.ID] = &t
	}
	m.keys.setTriggersEnabled(false)
	return m
}

// Init starts the spinner and the initial load.
func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.trigger(dashboard.ActionReload),
	)
}

// Update handles messages.
func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		for _, t := range m.keys.triggers() {
			if key.Matches(msg, *t.binding) {
				m.dispatching = true
				m.syncControls()
				return m, m.trigger(t.action)
			}
		}
		switch {
		case key.Matches(msg, m.keys.NextTable):
			m.setFocus(m.focus + 1)
			return m, nil
		case key.Matches(msg, m.keys.PrevTable):
			m.setFocus(m.focus - 1)
			return m, nil
		}
		focused := m.tables[dashboard.TableSlots[m.focus].ID]
		var cmd tea.Cmd
		*focused, cmd = focused.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		for _, slot := range dashboard.TableSlots {
			t := m.tables[slot.ID]
			t.SetColumns(tableColumns(slot, msg.Width))
			t.SetHeight(tableHeight(msg.Height))
		}

	case statusMsg:
		m.status = msg.message
		m.statusErr = msg.isError

	case busyMsg:
		m.busy = msg.busy
		m.syncControls()

	case actionDoneMsg:
		m.dispatching = false
		m.syncControls()

	case totalsMsg:
		m.totals = msg.totals

	case rowsMsg:
		t, ok := m.tables[msg.id]
		slot, known := tableSlot(msg.id)
		if ok && known {
			t.SetRows(tableRows(len(slot.Columns), msg.rows))
			t.GotoTop()
		}

	case chartMsg:
		m.charts[msg.surface] = liveChart{id: msg.id, cfg: msg.cfg}

	case chartDestroyedMsg:
		if live, ok := m.charts[msg.surface]; ok && live.id == msg.id {
			delete(m.charts, msg.surface)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI.
func (m dashboardModel) View() string {
	return renderDashboard(m)
}

// disabled reports whether workflow triggers are currently ignored.
func (m dashboardModel) disabled() bool {
	return m.busy || m.dispatching
}

func (m *dashboardModel) syncControls() {
	m.keys.setTriggersEnabled(!m.disabled())
}

func (m *dashboardModel) setFocus(i int) {
	n := len(dashboard.TableSlots)
	i = ((i % n) + n) % n
	m.tables[dashboard.TableSlots[m.focus].ID].Blur()
	m.focus = i
	m.tables[dashboard.TableSlots[m.focus].ID].Focus()
}

// trigger runs action off the event loop. The registrar must never be
// consulted from Update: sinks block on the loop while holding tracker state.
func (m dashboardModel) trigger(action dashboard.Action) tea.Cmd {
	reg, ctx := m.registrar, m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, ran: reg.Trigger(ctx, action)}
	}
}
