package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/model"
)

func TestLoadIntelRendersTableAndCount(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.LoadIntel(context.Background()))

	assert.Equal(t, []string{"Fetching threat intelligence...", "Loaded 3 indicators."}, view.statusMessages())

	n, rows := view.tables[TableIntel].snapshot()
	assert.Equal(t, 1, n)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-11-14T12:00:00Z", rows[0].Cells[3].Text)
	assert.Equal(t, "90", rows[0].Cells[4].Text)
	assert.Equal(t, "2025-11-13T08:00:00Z", rows[1].Cells[3].Text)
	assert.Equal(t, "-", rows[1].Cells[4].Text)
	assert.Equal(t, "-", rows[2].Cells[3].Text)

	busy, ok := view.lastBusy()
	require.True(t, ok)
	assert.False(t, busy)
	assert.False(t, orch.Pending().Busy())
}

func TestLoadLogsRendersBothTables(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.LoadLogs(context.Background()))

	_, ssh := view.tables[TableSSH].snapshot()
	require.Len(t, ssh, 1)
	assert.Equal(t, "Failed password for invalid user admin", ssh[0].Cells[3].Text)

	_, apache := view.tables[TableApache].snapshot()
	require.Len(t, apache, 2)
	assert.Equal(t, "404", apache[0].Cells[3].Text)
	assert.Equal(t, "200", apache[1].Cells[3].Text)
}

func TestLoadLogsPartialFailureRendersNeitherTable(t *testing.T) {
	b := newFakeBackend(t)
	b.fail(route(http.MethodGet, api.PathApacheLogs), http.StatusInternalServerError, "db unavailable")
	orch, view := newTestOrchestrator(t, b)

	err := orch.LoadLogs(context.Background())
	require.Error(t, err)

	var reqErr *api.RequestError
	require.True(t, errors.As(err, &reqErr))

	sshCount, _ := view.tables[TableSSH].snapshot()
	apacheCount, _ := view.tables[TableApache].snapshot()
	assert.Zero(t, sshCount)
	assert.Zero(t, apacheCount)
	assert.Equal(t, statusEntry{"Error: 500 Internal Server Error: db unavailable", true}, view.lastStatus())
	assert.False(t, orch.Pending().Busy())
}

func TestLoadAlertsRendersTable(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.LoadAlerts(context.Background()))

	_, rows := view.tables[TableAlerts].snapshot()
	require.Len(t, rows, 1)
	assert.Equal(t, []TableCell{
		{Text: "2025-11-14T12:05:00Z", Span: 1},
		{Text: "203.0.113.7", Span: 1},
		{Text: "ssh", Span: 1},
		{Text: "high", Span: 1},
		{Text: "match", Span: 1},
	}, rows[0].Cells)
}

func TestLoadAnalyticsRendersTotalsAndFourCharts(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.LoadAnalytics(context.Background()))

	assert.Equal(t, model.Totals{SSHEvents: 2, ApacheEvents: 1, Alerts: 1}, view.lastTotals())
	assert.Equal(t, []ChartKey{ChartAlertSeverity, ChartApacheStatus, ChartSSHTrend, ChartSSHTopIPs}, orch.Charts().Keys())

	trend := view.canvases[SurfaceSSHTrend].latest()
	require.NotNil(t, trend)
	assert.Equal(t, ChartLine, trend.cfg.Type)
	assert.Equal(t, []string{"2025-11-14T12:00"}, trend.cfg.Data.Labels)
	assert.Equal(t, []float64{2}, trend.cfg.Data.Datasets[0].Data)

	status := view.canvases[SurfaceApacheStatus].latest()
	require.NotNil(t, status)
	assert.Equal(t, ChartDoughnut, status.cfg.Type)
	assert.Equal(t, "60%", status.cfg.Options.Cutout)
}

func TestLoadAnalyticsTwiceKeepsOneLiveChartPerKey(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.LoadAnalytics(context.Background()))
	require.NoError(t, orch.LoadAnalytics(context.Background()))

	for id, canvas := range view.canvases {
		assert.Equal(t, 1, canvas.live(), "surface %s", id)
		assert.Equal(t, []string{"create", "destroy", "create"}, canvas.eventLog(), "surface %s", id)
	}
	assert.Len(t, orch.Charts().Keys(), 4)
}

func TestRunParseLogsReloadsLogsThenAnalytics(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.RunParseLogs(context.Background()))

	assert.Equal(t, []string{"Parsing log files...", "Parsed logs: SSH=12, Apache=340."}, view.statusMessages())
	assert.Equal(t, 1, b.hitCount(route(http.MethodPost, api.PathParseLogs)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathSSHLogs)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathApacheLogs)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathAnalytics)))
	assert.Len(t, orch.Charts().Keys(), 4)
	assert.False(t, orch.Pending().Busy())
}

func TestRunParseLogsMissingSourcesDefaultToZero(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(route(http.MethodPost, api.PathParseLogs), `{"sources":{"ssh":4}}`)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.RunParseLogs(context.Background()))
	assert.Contains(t, view.statusMessages(), "Parsed logs: SSH=4, Apache=0.")
}

func TestRunParseLogsStopsWhenLogsFail(t *testing.T) {
	b := newFakeBackend(t)
	b.fail(route(http.MethodGet, api.PathSSHLogs), http.StatusBadGateway, "upstream")
	orch, view := newTestOrchestrator(t, b)

	require.Error(t, orch.RunParseLogs(context.Background()))
	assert.Zero(t, b.hitCount(route(http.MethodGet, api.PathAnalytics)))
	assert.Equal(t, statusEntry{"Error: 502 Bad Gateway: upstream", true}, view.lastStatus())
	assert.False(t, orch.Pending().Busy())
}

func TestRunFetchIntelReloadsIntelThenAnalytics(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.RunFetchIntel(context.Background()))

	assert.Equal(t, []string{
		"Fetching latest indicators...",
		"Fetched 10 indicators; stored 4.",
		"Fetching threat intelligence...",
		"Loaded 3 indicators.",
	}, view.statusMessages())
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathIntel)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathAnalytics)))
}

func TestRunCorrelationUsesEmbeddedAnalytics(t *testing.T) {
	b := newFakeBackend(t)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.RunCorrelationWorkflow(context.Background()))

	assert.Zero(t, b.hitCount(route(http.MethodGet, api.PathAnalytics)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathIntel)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathSSHLogs)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathApacheLogs)))
	assert.Equal(t, 1, b.hitCount(route(http.MethodGet, api.PathAlerts)))

	assert.Contains(t, view.statusMessages(), "Workflow completed: intel=5, logs=12/340, alerts=2.")
	assert.Equal(t, model.Totals{SSHEvents: 12, ApacheEvents: 340, Alerts: 2}, view.lastTotals())

	severity := view.canvases[SurfaceAlertSeverity].latest()
	require.NotNil(t, severity)
	assert.Equal(t, []string{"critical"}, severity.cfg.Data.Labels)
	assert.Equal(t, ChartPolarArea, severity.cfg.Type)

	for _, id := range []TableID{TableIntel, TableSSH, TableApache, TableAlerts} {
		n, _ := view.tables[id].snapshot()
		assert.Equal(t, 1, n, "table %s", id)
	}
}

func TestRunCorrelationEmptyRefreshSummary(t *testing.T) {
	b := newFakeBackend(t)
	b.reply(route(http.MethodPost, api.PathWorkflowRefresh), `{"analytics":{}}`)
	orch, view := newTestOrchestrator(t, b)

	require.NoError(t, orch.RunCorrelationWorkflow(context.Background()))
	assert.Contains(t, view.statusMessages(), "Workflow completed: intel=0, logs=0/0, alerts=0.")
	assert.Equal(t, model.Totals{}, view.lastTotals())
}

func TestRunCorrelationTableFailureSkipsCharts(t *testing.T) {
	b := newFakeBackend(t)
	b.fail(route(http.MethodGet, api.PathAlerts), http.StatusInternalServerError, "db unavailable")
	orch, _ := newTestOrchestrator(t, b)

	require.Error(t, orch.RunCorrelationWorkflow(context.Background()))

	// LoadIntel and LoadLogs are not cancelled and may still be running.
	orch.Wait()
	assert.False(t, orch.Pending().Busy())
	assert.Empty(t, orch.Charts().Keys())
}

func TestHTTP500ReportsErrorAndReenablesControls(t *testing.T) {
	b := newFakeBackend(t)
	b.fail(route(http.MethodPost, api.PathFetchIntel), http.StatusInternalServerError, "db unavailable")
	orch, view := newTestOrchestrator(t, b)
	reg := NewRegistrar(orch)

	require.True(t, reg.Trigger(context.Background(), ActionFetchIntel))

	assert.Equal(t, statusEntry{"Error: 500 Internal Server Error: db unavailable", true}, view.lastStatus())
	busy, ok := view.lastBusy()
	require.True(t, ok)
	assert.False(t, busy)
	assert.True(t, reg.Enabled())
	assert.Zero(t, b.hitCount(route(http.MethodGet, api.PathIntel)))
}

func TestObserversSeeEveryGuardedOperation(t *testing.T) {
	b := newFakeBackend(t)
	b.fail(route(http.MethodGet, api.PathAnalytics), http.StatusServiceUnavailable, "warming up")
	obs := &recordingObserver{}
	orch, _ := newTestOrchestrator(t, b, obs)

	require.Error(t, orch.RunFetchIntel(context.Background()))

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []string{KeyFetch, KeyIntel, KeyAnalytics}, obs.started)
	assert.Equal(t, []string{KeyIntel, KeyAnalytics, KeyFetch}, obs.finished)
	assert.Equal(t, []string{KeyAnalytics, KeyFetch}, obs.failed)
}
