package dashboard

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/user/sentineldash/internal/api"
	"github.com/user/sentineldash/internal/model"
)

type statusEntry struct {
	message string
	isError bool
}

// fakeView records everything the orchestrator renders.
type fakeView struct {
	mu       sync.Mutex
	statuses []statusEntry
	busy     []bool
	totals   []model.Totals
	tables   map[TableID]*fakeTable
	canvases map[string]*fakeCanvas
}

func newFakeView() *fakeView {
	v := &fakeView{
		tables:   make(map[TableID]*fakeTable),
		canvases: make(map[string]*fakeCanvas),
	}
	for _, id := range []TableID{TableIntel, TableSSH, TableApache, TableAlerts} {
		v.tables[id] = &fakeTable{}
	}
	for _, id := range []string{SurfaceSSHTrend, SurfaceSSHTopIPs, SurfaceApacheStatus, SurfaceAlertSeverity} {
		v.canvases[id] = &fakeCanvas{id: id}
	}
	return v
}

func (v *fakeView) SetStatus(message string, isError bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.statuses = append(v.statuses, statusEntry{message, isError})
}

func (v *fakeView) SetBusy(busy bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.busy = append(v.busy, busy)
}

func (v *fakeView) SetTotals(t model.Totals) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.totals = append(v.totals, t)
}

func (v *fakeView) Table(id TableID) (TableSurface, bool) {
	t, ok := v.tables[id]
	return t, ok
}

func (v *fakeView) Canvas(id string) (Canvas, bool) {
	c, ok := v.canvases[id]
	return c, ok
}

func (v *fakeView) lastStatus() statusEntry {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.statuses) == 0 {
		return statusEntry{}
	}
	return v.statuses[len(v.statuses)-1]
}

func (v *fakeView) statusMessages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]string, 0, len(v.statuses))
	for _, s := range v.statuses {
		out = append(out, s.message)
	}
	return out
}

func (v *fakeView) lastBusy() (bool, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.busy) == 0 {
		return false, false
	}
	return v.busy[len(v.busy)-1], true
}

func (v *fakeView) lastTotals() model.Totals {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.totals) == 0 {
		return model.Totals{}
	}
	return v.totals[len(v.totals)-1]
}

type fakeTable struct {
	mu       sync.Mutex
	replaced int
	rows     []TableRow
}

func (t *fakeTable) ReplaceRows(rows []TableRow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replaced++
	t.rows = rows
}

func (t *fakeTable) snapshot() (int, []TableRow) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.replaced, t.rows
}

type fakeCanvas struct {
	mu     sync.Mutex
	id     string
	charts []*fakeChart
	events []string
}

func (c *fakeCanvas) NewChart(cfg ChartConfig) Chart {
	c.mu.Lock()
	defer c.mu.Unlock()
	chart := &fakeChart{canvas: c, cfg: cfg, seq: len(c.charts) + 1}
	c.charts = append(c.charts, chart)
	c.events = append(c.events, "create")
	return chart
}

func (c *fakeCanvas) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ch := range c.charts {
		if !ch.destroyed {
			n++
		}
	}
	return n
}

func (c *fakeCanvas) latest() *fakeChart {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.charts) == 0 {
		return nil
	}
	return c.charts[len(c.charts)-1]
}

func (c *fakeCanvas) eventLog() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.events...)
}

type fakeChart struct {
	canvas    *fakeCanvas
	cfg       ChartConfig
	seq       int
	destroyed bool
}

func (ch *fakeChart) Destroy() {
	ch.canvas.mu.Lock()
	defer ch.canvas.mu.Unlock()
	ch.destroyed = true
	ch.canvas.events = append(ch.canvas.events, "destroy")
}

// fakeBackend serves the dashboard routes and counts hits per route.
type fakeBackend struct {
	mu       sync.Mutex
	hits     map[string]int
	handlers map[string]http.HandlerFunc
	srv      *httptest.Server
}

const (
	intelBody     = `{"count":3,"data":[{"indicator":"203.0.113.7","type":"ipv4","source":"otx","last_seen":"2025-11-14T12:00:00Z","confidence":90},{"indicator":"198.51.100.24","type":"ipv4","source":"abuse","first_seen":"2025-11-13T08:00:00Z"},{"indicator":"evil.example","type":"domain","source":"feed"}]}`
	sshBody       = `{"data":[{"event_time":"2025-11-14T12:00:00Z","ip_address":"203.0.113.7","username":"admin","raw":"Failed password for invalid user admin"}]}`
	apacheBody    = `{"data":[{"event_time":"2025-11-14T12:10:00Z","ip_address":"198.51.100.24","request":"GET /admin/login HTTP/1.1","status_code":404},{"event_time":"2025-11-14T12:11:00Z","ip_address":"198.51.100.25","request":"GET / HTTP/1.1","status_code":200}]}`
	alertsBody    = `{"data":[{"indicator":"203.0.113.7","log_source":"ssh","severity":"high","message":"match","event_time":"2025-11-14T12:05:00Z"}]}`
	analyticsBody = `{"totals":{"ssh_events":2,"apache_events":1,"alerts":1},"ssh_failures_over_time":[{"time":"2025-11-14T12:00","count":2}],"ssh_top_ips":[{"ip":"203.0.113.7","count":2}],"apache_status_counts":[{"status":"404","count":1}],"alert_severity_counts":[{"severity":"high","count":1}]}`
	parseBody     = `{"sources":{"ssh":12,"apache":340}}`
	fetchBody     = `{"fetched":10,"stored":4}`
	refreshBody   = `{"intel":{"fetched":5},"logs":{"sources":{"ssh":12,"apache":340}},"correlation":{"generated":2},"analytics":{"totals":{"ssh_events":12,"apache_events":340,"alerts":2},"ssh_failures_over_time":[],"ssh_top_ips":[],"apache_status_counts":[{"status":"500","count":7}],"alert_severity_counts":[{"severity":"critical","count":2}]}}`
)

func route(method, uri string) string {
	return method + " " + uri
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		hits:     make(map[string]int),
		handlers: make(map[string]http.HandlerFunc),
	}
	b.reply(route(http.MethodGet, api.PathIntel), intelBody)
	b.reply(route(http.MethodGet, api.PathSSHLogs), sshBody)
	b.reply(route(http.MethodGet, api.PathApacheLogs), apacheBody)
	b.reply(route(http.MethodGet, api.PathAlerts), alertsBody)
	b.reply(route(http.MethodGet, api.PathAnalytics), analyticsBody)
	b.reply(route(http.MethodPost, api.PathParseLogs), parseBody)
	b.reply(route(http.MethodPost, api.PathFetchIntel), fetchBody)
	b.reply(route(http.MethodPost, api.PathWorkflowRefresh), refreshBody)

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := route(r.Method, r.URL.RequestURI())
		b.mu.Lock()
		b.hits[key]++
		h, ok := b.handlers[key]
		b.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("no route"))
			return
		}
		h(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) reply(key, body string) {
	b.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func (b *fakeBackend) fail(key string, code int, body string) {
	b.handle(key, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		w.Write([]byte(body))
	})
}

func (b *fakeBackend) handle(key string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[key] = h
}

func (b *fakeBackend) hitCount(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[key]
}

type recordingObserver struct {
	mu       sync.Mutex
	started  []string
	finished []string
	failed   []string
}

func (r *recordingObserver) OperationStarted(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, key)
}

func (r *recordingObserver) OperationFinished(key string, elapsed time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, key)
	if err != nil {
		r.failed = append(r.failed, key)
	}
}

func newTestOrchestrator(t *testing.T, b *fakeBackend, observers ...Observer) (*Orchestrator, *fakeView) {
	t.Helper()
	view := newFakeView()
	status := NewStatusReporter(view)
	client := api.NewClient(b.srv.URL, status)
	orch := New(client, view, status, observers...)
	t.Cleanup(orch.Close)
	return orch, view
}
