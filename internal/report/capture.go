package report

import (
	"sync"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
)

// StatusLine is one status update seen by a Capture.
type StatusLine struct {
	Message string
	IsError bool
}

// Capture is a headless dashboard.View that keeps the latest state of every
// surface in memory.
type Capture struct {
	mu       sync.Mutex
	statuses []StatusLine
	busy     bool
	totals   model.Totals
	tables   map[dashboard.TableID]*capturedTable
	canvases map[string]*capturedCanvas
}

// NewCapture creates a capture exposing every dashboard table and canvas.
func NewCapture() *Capture {
	c := &Capture{
		tables:   make(map[dashboard.TableID]*capturedTable),
		canvases: make(map[string]*capturedCanvas),
	}
	for _, slot := range dashboard.TableSlots {
		c.tables[slot.ID] = &capturedTable{}
	}
	for _, slot := range dashboard.ChartSlots {
		c.canvases[slot.Surface] = &capturedCanvas{}
	}
	return c
}

func (c *Capture) SetStatus(message string, isError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = append(c.statuses, StatusLine{Message: message, IsError: isError})
}

func (c *Capture) SetBusy(busy bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = busy
}

func (c *Capture) SetTotals(totals model.Totals) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totals = totals
}

func (c *Capture) Table(id dashboard.TableID) (dashboard.TableSurface, bool) {
	t, ok := c.tables[id]
	return t, ok
}

func (c *Capture) Canvas(id string) (dashboard.Canvas, bool) {
	cv, ok := c.canvases[id]
	return cv, ok
}

// Statuses returns every status update in order.
func (c *Capture) Statuses() []StatusLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]StatusLine(nil), c.statuses...)
}

// Busy reports the last busy flag pushed by the tracker.
func (c *Capture) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Totals returns the last totals.
func (c *Capture) Totals() model.Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals
}

// Rows returns the rows currently shown in a table and whether the table
// was ever rendered.
func (c *Capture) Rows(id dashboard.TableID) ([]dashboard.TableRow, bool) {
	t, ok := c.tables[id]
	if !ok {
		return nil, false
	}
	return t.get()
}

// Chart returns the live chart config on a surface.
func (c *Capture) Chart(surface string) (dashboard.ChartConfig, bool) {
	cv, ok := c.canvases[surface]
	if !ok {
		return dashboard.ChartConfig{}, false
	}
	return cv.get()
}

type capturedTable struct {
	mu       sync.Mutex
	rows     []dashboard.TableRow
	rendered bool
}

func (t *capturedTable) ReplaceRows(rows []dashboard.TableRow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
	t.rendered = true
}

func (t *capturedTable) get() ([]dashboard.TableRow, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows, t.rendered
}

type capturedCanvas struct {
	mu   sync.Mutex
	live *capturedChart
}

func (cv *capturedCanvas) NewChart(cfg dashboard.ChartConfig) dashboard.Chart {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	ch := &capturedChart{canvas: cv, cfg: cfg}
	cv.live = ch
	return ch
}

func (cv *capturedCanvas) get() (dashboard.ChartConfig, bool) {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	if cv.live == nil {
		return dashboard.ChartConfig{}, false
	}
	return cv.live.cfg, true
}

type capturedChart struct {
	canvas *capturedCanvas
	cfg    dashboard.ChartConfig
}

func (ch *capturedChart) Destroy() {
	ch.canvas.mu.Lock()
	defer ch.canvas.mu.Unlock()
	if ch.canvas.live == ch {
		ch.canvas.live = nil
	}
}
