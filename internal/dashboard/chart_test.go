package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sentineldash/internal/model"
)

func TestRenderChartUnknownSurfaceIsNoop(t *testing.T) {
	view := newFakeView()
	m := NewChartManager(view)

	require.True(t, m.RenderChart(ChartSSHTrend, SurfaceSSHTrend, ChartConfig{Type: ChartLine}))
	assert.False(t, m.RenderChart(ChartSSHTrend, "missing-canvas", ChartConfig{Type: ChartBar}))

	live, ok := m.Live(ChartSSHTrend)
	require.True(t, ok)
	assert.Equal(t, ChartLine, live.(*fakeChart).cfg.Type)
	assert.Equal(t, 1, view.canvases[SurfaceSSHTrend].live())
}

func TestRenderChartDestroysBeforeCreate(t *testing.T) {
	view := newFakeView()
	m := NewChartManager(view)

	for i := 0; i < 3; i++ {
		m.RenderChart(ChartSSHTopIPs, SurfaceSSHTopIPs, ChartConfig{Type: ChartBar})
	}

	canvas := view.canvases[SurfaceSSHTopIPs]
	assert.Equal(t, []string{"create", "destroy", "create", "destroy", "create"}, canvas.eventLog())
	assert.Equal(t, 1, canvas.live())
	assert.Equal(t, 3, canvas.latest().seq)
}

func TestRenderChartMovesKeyBetweenSurfaces(t *testing.T) {
	view := newFakeView()
	m := NewChartManager(view)

	m.RenderChart(ChartApacheStatus, SurfaceApacheStatus, ChartConfig{})
	m.RenderChart(ChartApacheStatus, SurfaceAlertSeverity, ChartConfig{})

	assert.Zero(t, view.canvases[SurfaceApacheStatus].live())
	assert.Equal(t, 1, view.canvases[SurfaceAlertSeverity].live())
}

func TestChartManagerClose(t *testing.T) {
	view := newFakeView()
	m := NewChartManager(view)
	for _, spec := range AnalyticsCharts(model.AnalyticsMetrics{}) {
		m.RenderChart(spec.Key, spec.Surface, spec.Config)
	}
	require.Len(t, m.Keys(), 4)

	m.Close()

	assert.Empty(t, m.Keys())
	for id, canvas := range view.canvases {
		assert.Zero(t, canvas.live(), "surface %s", id)
	}
}

func TestAnalyticsChartsShapes(t *testing.T) {
	metrics := model.AnalyticsMetrics{
		SSHFailuresOverTime: []model.TimeCount{{Time: "10:00", Count: 1}, {Time: "11:00", Count: 4}},
		SSHTopIPs:           []model.IPCount{{IP: "10.0.0.1", Count: 9}},
		ApacheStatusCounts:  []model.StatusCount{{Status: "200", Count: 30}, {Status: "404", Count: 2}},
		AlertSeverityCounts: []model.SeverityCount{{Severity: "low", Count: 3}},
	}

	specs := AnalyticsCharts(metrics)
	require.Len(t, specs, 4)

	byKey := make(map[ChartKey]ChartSpec)
	for _, s := range specs {
		byKey[s.Key] = s
	}

	trend := byKey[ChartSSHTrend]
	assert.Equal(t, SurfaceSSHTrend, trend.Surface)
	assert.Equal(t, ChartLine, trend.Config.Type)
	assert.Equal(t, []string{"10:00", "11:00"}, trend.Config.Data.Labels)
	assert.Equal(t, []float64{1, 4}, trend.Config.Data.Datasets[0].Data)
	assert.True(t, trend.Config.Data.Datasets[0].Fill)

	ips := byKey[ChartSSHTopIPs]
	assert.Equal(t, ChartBar, ips.Config.Type)
	assert.Equal(t, "Attempts", ips.Config.Data.Datasets[0].Label)

	status := byKey[ChartApacheStatus]
	assert.Equal(t, ChartDoughnut, status.Config.Type)
	assert.Equal(t, "60%", status.Config.Options.Cutout)
	assert.Equal(t, []float64{30, 2}, status.Config.Data.Datasets[0].Data)

	severity := byKey[ChartAlertSeverity]
	assert.Equal(t, ChartPolarArea, severity.Config.Type)
	assert.Equal(t, []string{"low"}, severity.Config.Data.Labels)
}

func TestAnalyticsChartsEmptySnapshot(t *testing.T) {
	for _, spec := range AnalyticsCharts(model.AnalyticsMetrics{}) {
		assert.Empty(t, spec.Config.Data.Labels, "chart %s", spec.Key)
		assert.NotNil(t, spec.Config.Data.Labels, "chart %s", spec.Key)
	}
}
