package tui

import (
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
)

// Sender delivers messages to the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Messages pushed by the dashboard sinks.
type (
	statusMsg struct {
		message string
		isError bool
	}

	busyMsg struct {
		busy bool
	}

	totalsMsg struct {
		totals model.Totals
	}

	rowsMsg struct {
		id   dashboard.TableID
		rows []dashboard.TableRow
	}

	chartMsg struct {
		surface string
		id      int64
		cfg     dashboard.ChartConfig
	}

	chartDestroyedMsg struct {
		surface string
		id      int64
	}
)

// View implements dashboard.View by turning every sink call into a program
// message, so all screen state is owned by the bubbletea event loop.
type View struct {
	sender   Sender
	tables   map[dashboard.TableID]*tableSurface
	canvases map[string]*canvas
	nextID   atomic.Int64
}

// NewView creates a view exposing every dashboard table and canvas.
func NewView(sender Sender) *View {
	v := &View{
		sender:   sender,
		tables:   make(map[dashboard.TableID]*tableSurface),
		canvases: make(map[string]*canvas),
	}
	for _, slot := range dashboard.TableSlots {
		v.tables[slot.ID] = &tableSurface{view: v, id: slot.ID}
	}
	for _, slot := range dashboard.ChartSlots {
		v.canvases[slot.Surface] = &canvas{view: v, surface: slot.Surface}
	}
	return v
}

func (v *View) SetStatus(message string, isError bool) {
	v.sender.Send(statusMsg{message: message, isError: isError})
}

func (v *View) SetBusy(busy bool) {
	v.sender.Send(busyMsg{busy: busy})
}

func (v *View) SetTotals(totals model.Totals) {
	v.sender.Send(totalsMsg{totals: totals})
}

func (v *View) Table(id dashboard.TableID) (dashboard.TableSurface, bool) {
	t, ok := v.tables[id]
	return t, ok
}

func (v *View) Canvas(id string) (dashboard.Canvas, bool) {
	c, ok := v.canvases[id]
	return c, ok
}

type tableSurface struct {
	view *View
	id   dashboard.TableID
}

func (t *tableSurface) ReplaceRows(rows []dashboard.TableRow) {
	t.view.sender.Send(rowsMsg{id: t.id, rows: rows})
}

type canvas struct {
	view    *View
	surface string
}

func (c *canvas) NewChart(cfg dashboard.ChartConfig) dashboard.Chart {
	id := c.view.nextID.Add(1)
	c.view.sender.Send(chartMsg{surface: c.surface, id: id, cfg: cfg})
	return &chart{canvas: c, id: id}
}

type chart struct {
	canvas *canvas
	id     int64
	once   sync.Once
}

func (ch *chart) Destroy() {
	ch.once.Do(func() {
		ch.canvas.view.sender.Send(chartDestroyedMsg{surface: ch.canvas.surface, id: ch.id})
	})
}

// programSender forwards to a program attached after construction. Messages
// sent before attach are dropped.
type programSender struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *programSender) attach(p *tea.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.p = p
}

func (s *programSender) Send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}
