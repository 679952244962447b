package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/model"
)

// Fetcher is the backend transport the orchestrator needs.
type Fetcher interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, out any) error
}

// Orchestrator runs the dashboard workflows.
type Orchestrator struct {
	fetcher Fetcher
	view    View
	status  *StatusReporter
	pending *Tracker
	charts  *ChartManager

	// ui serializes table, totals and chart updates coming from parallel
	// branches.
	ui sync.Mutex

	branches sync.WaitGroup
}

// New creates an orchestrator. status should be the reporter the fetcher
// reports its failures to, so both write the same status line.
func New(fetcher Fetcher, view View, status *StatusReporter, observers ...Observer) *Orchestrator {
	if status == nil {
		status = NewStatusReporter(view)
	}
	return &Orchestrator{
		fetcher: fetcher,
		view:    view,
		status:  status,
		pending: NewTracker(view, observers...),
		charts:  NewChartManager(view),
	}
}

// Pending exposes the in-flight tracker.
func (o *Orchestrator) Pending() *Tracker {
	return o.pending
}

// Charts exposes the chart registry.
func (o *Orchestrator) Charts() *ChartManager {
	return o.charts
}

// Status exposes the status reporter.
func (o *Orchestrator) Status() *StatusReporter {
	return o.status
}

// Wait blocks until every parallel branch started so far has returned,
// including branches whose result was dropped after an early failure.
func (o *Orchestrator) Wait() {
	o.branches.Wait()
}

// Close destroys every live chart.
func (o *Orchestrator) Close() {
	o.charts.Close()
}

// LoadIntel fetches indicators and renders the intel table.
func (o *Orchestrator) LoadIntel(ctx context.Context) error {
	return o.pending.Guard(KeyIntel, func() error {
		o.status.Update("Fetching threat intelligence...")

		var payload model.IntelResponse
		if err := o.fetcher.Get(ctx, api.PathIntel, &payload); err != nil {
			return err
		}

		o.renderTable(TableIntel, model.IndicatorRows(payload.Data))
		o.status.Update(fmt.Sprintf("Loaded %d indicators.", payload.Count))
		return nil
	})
}

// LoadLogs fetches both log families in parallel. Tables are rendered only
// after both fetches succeeded.
func (o *Orchestrator) LoadLogs(ctx context.Context) error {
	return o.pending.Guard(KeyLogs, func() error {
		var ssh, apache model.LogsResponse
		err := o.join(ctx,
			func(ctx context.Context) error { return o.fetcher.Get(ctx, api.PathSSHLogs, &ssh) },
			func(ctx context.Context) error { return o.fetcher.Get(ctx, api.PathApacheLogs, &apache) },
		)
		if err != nil {
			return err
		}

		o.renderTable(TableSSH, model.SSHRows(ssh.Data))
		o.renderTable(TableApache, model.ApacheRows(apache.Data))
		return nil
	})
}

// LoadAlerts fetches and renders correlation alerts.
func (o *Orchestrator) LoadAlerts(ctx context.Context) error {
	return o.pending.Guard(KeyAlerts, func() error {
		var payload model.AlertsResponse
		if err := o.fetcher.Get(ctx, api.PathAlerts, &payload); err != nil {
			return err
		}

		o.renderTable(TableAlerts, model.AlertRows(payload.Data))
		return nil
	})
}

// LoadAnalytics fetches one analytics snapshot and renders totals and charts.
func (o *Orchestrator) LoadAnalytics(ctx context.Context) error {
	return o.pending.Guard(KeyAnalytics, func() error {
		var metrics model.AnalyticsMetrics
		if err := o.fetcher.Get(ctx, api.PathAnalytics, &metrics); err != nil {
			return err
		}

		o.RenderAnalytics(metrics)
		return nil
	})
}

// RenderAnalytics updates totals and all four charts from one snapshot.
func (o *Orchestrator) RenderAnalytics(metrics model.AnalyticsMetrics) {
	o.ui.Lock()
	defer o.ui.Unlock()

	o.view.SetTotals(metrics.Totals)
	for _, spec := range AnalyticsCharts(metrics) {
		o.charts.RenderChart(spec.Key, spec.Surface, spec.Config)
	}
}

// RunParseLogs asks the backend to parse its log files, then reloads logs
// and analytics in that order.
func (o *Orchestrator) RunParseLogs(ctx context.Context) error {
	return o.pending.Guard(KeyParse, func() error {
		o.status.Update("Parsing log files...")

		var payload model.ParseResponse
		if err := o.fetcher.Post(ctx, api.PathParseLogs, &payload); err != nil {
			return err
		}

		o.status.Update(fmt.Sprintf("Parsed logs: SSH=%d, Apache=%d.",
			payload.Sources.SSHCount(), payload.Sources.ApacheCount()))

		if err := o.LoadLogs(ctx); err != nil {
			return err
		}
		return o.LoadAnalytics(ctx)
	})
}

// RunFetchIntel asks the backend to pull fresh indicators, then reloads
// intel and analytics in that order.
func (o *Orchestrator) RunFetchIntel(ctx context.Context) error {
	return o.pending.Guard(KeyFetch, func() error {
		o.status.Update("Fetching latest indicators...")

		var payload model.FetchResponse
		if err := o.fetcher.Post(ctx, api.PathFetchIntel, &payload); err != nil {
			return err
		}

		o.status.Update(fmt.Sprintf("Fetched %d indicators; stored %d.", payload.Fetched, payload.Stored))

		if err := o.LoadIntel(ctx); err != nil {
			return err
		}
		return o.LoadAnalytics(ctx)
	})
}

// RunCorrelationWorkflow triggers the server-side full refresh, reloads the
// tables in parallel and draws the charts from the analytics snapshot
// embedded in the refresh response. The summary route is never called here,
// so charts always match the refresh that produced the tables.
func (o *Orchestrator) RunCorrelationWorkflow(ctx context.Context) error {
	return o.pending.Guard(KeyCorrelate, func() error {
		o.status.Update("Executing correlation workflow...")

		var payload model.RefreshResponse
		if err := o.fetcher.Post(ctx, api.PathWorkflowRefresh, &payload); err != nil {
			return err
		}

		ssh, apache := payload.LogCounts()
		o.status.Update(fmt.Sprintf("Workflow completed: intel=%d, logs=%d/%d, alerts=%d.",
			payload.IntelFetched(), ssh, apache, payload.AlertsGenerated()))

		if err := o.join(ctx, o.LoadIntel, o.LoadLogs, o.LoadAlerts); err != nil {
			return err
		}

		o.RenderAnalytics(payload.Analytics)
		return nil
	})
}

func (o *Orchestrator) join(ctx context.Context, tasks ...Task) error {
	return joinAll(ctx, &o.branches, tasks...)
}

func (o *Orchestrator) renderTable(id TableID, rows [][]any) {
	o.ui.Lock()
	defer o.ui.Unlock()

	surface, ok := o.view.Table(id)
	if !ok {
		return
	}
	RenderTable(surface, rows, DefaultFallbackColumns)
}
