// Package report renders a point-in-time snapshot of the dashboard as a
// markdown document.
package report

import (
	"context"
	"time"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
)

// Generator creates dashboard snapshots.
type Generator struct {
	baseURL   string
	opts      []api.Option
	observers []dashboard.Observer
}

// NewGenerator creates a generator for the backend at baseURL.
func NewGenerator(baseURL string, observers []dashboard.Observer, opts ...api.Option) *Generator {
	return &Generator{
		baseURL:   baseURL,
		opts:      opts,
		observers: observers,
	}
}

// ReportData holds all data for a report.
type ReportData struct {
	GeneratedAt time.Time
	BaseURL     string

	// Status is the bootstrap outcome. Failed and Error come from the
	// returned error, not from the status history, which late sibling
	// loads may still append to.
	Status  StatusLine
	Failed  bool
	Error   string
	History []StatusLine
	Totals  model.Totals

	Tables []TableData
	Charts []ChartData
}

// TableData is one rendered table.
type TableData struct {
	dashboard.TableSlot
	Rendered bool
	Rows     []dashboard.TableRow
}

// ChartData is one live chart.
type ChartData struct {
	dashboard.ChartSlot
	Live   bool
	Config dashboard.ChartConfig
}

// Generate bootstraps a headless dashboard and collects what it rendered.
// Sections that failed to load are reported as not rendered; the bootstrap
// error is returned alongside the data.
func (g *Generator) Generate(ctx context.Context) (*ReportData, error) {
	capture := NewCapture()
	status := dashboard.NewStatusReporter(capture)
	client := api.NewClient(g.baseURL, status, g.opts...)
	orch := dashboard.New(client, capture, status, g.observers...)
	defer orch.Close()

	err := orch.Bootstrap(ctx)
	orch.Wait()

	data := Collect(capture, client.BaseURL())
	if err != nil {
		data.Failed = true
		data.Error = err.Error()
		data.Status = StatusLine{Message: dashboard.StatusInitFailure, IsError: true}
	} else {
		data.Status = StatusLine{Message: dashboard.StatusReady}
	}
	return data, err
}

// Collect builds report data from a capture. Status defaults to the last
// status line.
func Collect(capture *Capture, baseURL string) *ReportData {
	data := &ReportData{
		GeneratedAt: time.Now(),
		BaseURL:     baseURL,
		History:     capture.Statuses(),
		Totals:      capture.Totals(),
	}
	if n := len(data.History); n > 0 {
		data.Status = data.History[n-1]
	}

	for _, slot := range dashboard.TableSlots {
		rows, rendered := capture.Rows(slot.ID)
		data.Tables = append(data.Tables, TableData{TableSlot: slot, Rendered: rendered, Rows: rows})
	}
	for _, slot := range dashboard.ChartSlots {
		cfg, live := capture.Chart(slot.Surface)
		data.Charts = append(data.Charts, ChartData{ChartSlot: slot, Live: live, Config: cfg})
	}
	return data
}
