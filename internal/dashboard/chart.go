package dashboard

import (
	"sort"
	"sync"

	"github.com/user/sentineldash/internal/model"
)

// ChartKey identifies one logical chart.
type ChartKey string

const (
	ChartSSHTrend      ChartKey = "ssh-failures-trend"
	ChartSSHTopIPs     ChartKey = "ssh-top-talkers"
	ChartApacheStatus  ChartKey = "apache-status-distribution"
	ChartAlertSeverity ChartKey = "alert-severity-distribution"
)

// Canvas surfaces for the analytics charts.
const (
	SurfaceSSHTrend      = "ssh-trend-chart"
	SurfaceSSHTopIPs     = "ssh-top-ips-chart"
	SurfaceApacheStatus  = "apache-status-chart"
	SurfaceAlertSeverity = "alert-severity-chart"
)

// ChartSlot pairs a chart key with the surface it is drawn on.
type ChartSlot struct {
	Key     ChartKey
	Surface string
	Title   string
}

// ChartSlots lists the analytics charts in display order.
var ChartSlots = []ChartSlot{
	{Key: ChartSSHTrend, Surface: SurfaceSSHTrend, Title: "SSH Failures Over Time"},
	{Key: ChartSSHTopIPs, Surface: SurfaceSSHTopIPs, Title: "SSH Top Talkers"},
	{Key: ChartApacheStatus, Surface: SurfaceApacheStatus, Title: "Apache Status Distribution"},
	{Key: ChartAlertSeverity, Surface: SurfaceAlertSeverity, Title: "Alert Severity Distribution"},
}

// ChartManager owns at most one live chart per key.
type ChartManager struct {
	mu       sync.Mutex
	canvases CanvasSource
	charts   map[ChartKey]Chart
}

// NewChartManager creates a manager drawing on canvases.
func NewChartManager(canvases CanvasSource) *ChartManager {
	return &ChartManager{
		canvases: canvases,
		charts:   make(map[ChartKey]Chart),
	}
}

// RenderChart draws cfg on the surface for key. An unknown surface is a
// no-op and leaves any existing chart alone. Otherwise the previous chart
// for key is destroyed before the new one is created.
func (m *ChartManager) RenderChart(key ChartKey, surfaceID string, cfg ChartConfig) bool {
	canvas, ok := m.canvases.Canvas(surfaceID)
	if !ok {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.charts[key]; ok {
		prev.Destroy()
		delete(m.charts, key)
	}
	m.charts[key] = canvas.NewChart(cfg)
	return true
}

// Live returns the chart currently attached to key.
func (m *ChartManager) Live(key ChartKey) (Chart, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.charts[key]
	return c, ok
}

// Keys returns the keys with a live chart, sorted.
func (m *ChartManager) Keys() []ChartKey {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]ChartKey, 0, len(m.charts))
	for k := range m.charts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Close destroys every live chart.
func (m *ChartManager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, c := range m.charts {
		c.Destroy()
		delete(m.charts, k)
	}
}

// ChartSpec pairs a chart key and surface with its config.
type ChartSpec struct {
	Key     ChartKey
	Surface string
	Config  ChartConfig
}

// AnalyticsCharts builds the four dashboard charts from one snapshot.
func AnalyticsCharts(m model.AnalyticsMetrics) []ChartSpec {
	trendLabels, trendValues := make([]string, 0, len(m.SSHFailuresOverTime)), make([]float64, 0, len(m.SSHFailuresOverTime))
	for _, e := range m.SSHFailuresOverTime {
		trendLabels = append(trendLabels, string(e.Time))
		trendValues = append(trendValues, e.Count)
	}

	ipLabels, ipValues := make([]string, 0, len(m.SSHTopIPs)), make([]float64, 0, len(m.SSHTopIPs))
	for _, e := range m.SSHTopIPs {
		ipLabels = append(ipLabels, string(e.IP))
		ipValues = append(ipValues, e.Count)
	}

	statusLabels, statusValues := make([]string, 0, len(m.ApacheStatusCounts)), make([]float64, 0, len(m.ApacheStatusCounts))
	for _, e := range m.ApacheStatusCounts {
		statusLabels = append(statusLabels, string(e.Status))
		statusValues = append(statusValues, e.Count)
	}

	severityLabels, severityValues := make([]string, 0, len(m.AlertSeverityCounts)), make([]float64, 0, len(m.AlertSeverityCounts))
	for _, e := range m.AlertSeverityCounts {
		severityLabels = append(severityLabels, string(e.Severity))
		severityValues = append(severityValues, e.Count)
	}

	cutout := "60%"

	return []ChartSpec{
		{
			Key:     ChartSSHTrend,
			Surface: SurfaceSSHTrend,
			Config: BuildChartConfig(ChartLine, ChartData{
				Labels: trendLabels,
				Datasets: []Dataset{{
					Label:           "SSH Failures",
					Data:            trendValues,
					BorderColor:     "#38bdf8",
					BackgroundColor: []string{"rgba(56, 189, 248, 0.15)"},
					Tension:         0.35,
					Fill:            true,
				}},
			}, ChartOverrides{}),
		},
		{
			Key:     ChartSSHTopIPs,
			Surface: SurfaceSSHTopIPs,
			Config: BuildChartConfig(ChartBar, ChartData{
				Labels: ipLabels,
				Datasets: []Dataset{{
					Label:           "Attempts",
					Data:            ipValues,
					BackgroundColor: []string{"rgba(14, 165, 233, 0.65)"},
					BorderRadius:    12,
				}},
			}, ChartOverrides{}),
		},
		{
			Key:     ChartApacheStatus,
			Surface: SurfaceApacheStatus,
			Config: BuildChartConfig(ChartDoughnut, ChartData{
				Labels: statusLabels,
				Datasets: []Dataset{{
					Data:            statusValues,
					BackgroundColor: []string{"#38bdf8", "#f97316", "#f87171", "#22c55e", "#a855f7"},
					BorderColor:     ThemeSliceOutline,
					BorderWidth:     2,
				}},
			}, ChartOverrides{Cutout: &cutout}),
		},
		{
			Key:     ChartAlertSeverity,
			Surface: SurfaceAlertSeverity,
			Config: BuildChartConfig(ChartPolarArea, ChartData{
				Labels: severityLabels,
				Datasets: []Dataset{{
					Data:            severityValues,
					BackgroundColor: []string{"#f87171", "#facc15", "#34d399", "#38bdf8"},
				}},
			}, ChartOverrides{}),
		},
	}
}
