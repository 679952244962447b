// Package dashboard orchestrates the telemetry dashboard: it loads backend
// data, keeps table and chart state consistent and tracks in-flight
// workflows. It depends only on the sink interfaces in this file, so any UI
// (terminal, headless report, test fake) can drive it.
package dashboard

import "github.com/user/sentineldash/internal/model"

// TableID names one of the dashboard tables.
type TableID string

const (
	TableIntel  TableID = "intel-table"
	TableSSH    TableID = "ssh-table"
	TableApache TableID = "apache-table"
	TableAlerts TableID = "alerts-table"
)

// TableSlot describes a table surface for presentation.
type TableSlot struct {
	ID      TableID
	Title   string
	Columns []string
}

// TableSlots lists the dashboard tables in display order.
var TableSlots = []TableSlot{
	{ID: TableIntel, Title: "Threat Intelligence", Columns: []string{"Indicator", "Type", "Source", "Seen", "Confidence"}},
	{ID: TableSSH, Title: "SSH Events", Columns: []string{"Time", "IP", "User", "Message"}},
	{ID: TableApache, Title: "Apache Events", Columns: []string{"Time", "IP", "Request", "Status"}},
	{ID: TableAlerts, Title: "Alerts", Columns: []string{"Time", "Indicator", "Source", "Severity", "Message"}},
}

// TableCell is one rendered cell. Span is the number of columns it covers.
type TableCell struct {
	Text string
	Span int
}

// TableRow is one rendered table row.
type TableRow struct {
	Cells []TableCell
}

// StatusSink displays the single status line.
type StatusSink interface {
	SetStatus(message string, isError bool)
}

// Controls enables or disables every workflow trigger at once.
type Controls interface {
	SetBusy(busy bool)
}

// TotalsSink displays the numeric summaries.
type TotalsSink interface {
	SetTotals(totals model.Totals)
}

// TableSurface is the body of one table. ReplaceRows discards prior content.
type TableSurface interface {
	ReplaceRows(rows []TableRow)
}

// Chart is a live chart instance attached to a canvas.
type Chart interface {
	Destroy()
}

// Canvas is a surface charts can be drawn on.
type Canvas interface {
	NewChart(cfg ChartConfig) Chart
}

// CanvasSource resolves canvas surfaces by id.
type CanvasSource interface {
	Canvas(id string) (Canvas, bool)
}

// View is the full set of capabilities the orchestrator renders into.
type View interface {
	StatusSink
	Controls
	TotalsSink
	CanvasSource
	Table(id TableID) (TableSurface, bool)
}
