// Package model defines the backend payloads consumed by the dashboard.
package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Indicator is a threat-intelligence artifact with provenance.
type Indicator struct {
	Indicator  *string  `json:"indicator,omitempty"`
	Type       *string  `json:"type,omitempty"`
	Source     *string  `json:"source,omitempty"`
	LastSeen   *string  `json:"last_seen,omitempty"`
	FirstSeen  *string  `json:"first_seen,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// LogSource names one of the two host log families.
type LogSource string

const (
	SourceSSH    LogSource = "ssh"
	SourceApache LogSource = "apache"
)

// LogMeta holds the parser metadata the dashboard reads.
type LogMeta struct {
	Message *string `json:"message,omitempty"`
}

// LogEvent is a parsed host-log line. SSH events carry Username/Meta/Raw,
// apache events carry Request/StatusCode.
type LogEvent struct {
	EventTime *string  `json:"event_time,omitempty"`
	IPAddress *string  `json:"ip_address,omitempty"`
	Username  *string  `json:"username,omitempty"`
	Meta      *LogMeta `json:"meta,omitempty"`
	Raw       *string  `json:"raw,omitempty"`
	Request   *string  `json:"request,omitempty"`
	// StatusCode is a pointer so that a missing code renders as "-" rather than 0.
	StatusCode *int `json:"status_code,omitempty"`
}

// Alert is a correlation hit between an indicator and a log event.
type Alert struct {
	CreatedAt *string `json:"created_at,omitempty"`
	EventTime *string `json:"event_time,omitempty"`
	Indicator *string `json:"indicator,omitempty"`
	LogSource *string `json:"log_source,omitempty"`
	Severity  *string `json:"severity,omitempty"`
	Message   *string `json:"message,omitempty"`
}

// Totals are the numeric dashboard summaries. Missing fields decode as 0.
type Totals struct {
	SSHEvents    int `json:"ssh_events"`
	ApacheEvents int `json:"apache_events"`
	Alerts       int `json:"alerts"`
}

// TimeCount is one point of the ssh failure trend.
type TimeCount struct {
	Time  Label   `json:"time"`
	Count float64 `json:"count"`
}

// IPCount is one bar of the ssh top talkers chart.
type IPCount struct {
	IP    Label   `json:"ip"`
	Count float64 `json:"count"`
}

// StatusCount is one slice of the apache status distribution.
type StatusCount struct {
	Status Label   `json:"status"`
	Count  float64 `json:"count"`
}

// SeverityCount is one slice of the alert severity distribution.
type SeverityCount struct {
	Severity Label   `json:"severity"`
	Count    float64 `json:"count"`
}

// AnalyticsMetrics is one atomic analytics snapshot. Every chart on screen is
// drawn from a single value of this type.
type AnalyticsMetrics struct {
	Totals              Totals          `json:"totals"`
	SSHFailuresOverTime []TimeCount     `json:"ssh_failures_over_time"`
	SSHTopIPs           []IPCount       `json:"ssh_top_ips"`
	ApacheStatusCounts  []StatusCount   `json:"apache_status_counts"`
	AlertSeverityCounts []SeverityCount `json:"alert_severity_counts"`
}

// Label is a chart label that the backend may send as a string or a number.
type Label string

// UnmarshalJSON accepts strings, numbers and null.
func (l *Label) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = Label(n.String())
	return nil
}

// IntelResponse is the GET /api/intel payload.
type IntelResponse struct {
	Count int         `json:"count"`
	Data  []Indicator `json:"data"`
}

// LogsResponse is the GET /api/logs payload.
type LogsResponse struct {
	Data []LogEvent `json:"data"`
}

// AlertsResponse is the GET /api/alerts payload.
type AlertsResponse struct {
	Data []Alert `json:"data"`
}

// SourceCounts maps each log source to the number of parsed events.
type SourceCounts struct {
	SSH    *int `json:"ssh,omitempty"`
	Apache *int `json:"apache,omitempty"`
}

// SSHCount returns the ssh count, 0 when absent.
func (s *SourceCounts) SSHCount() int {
	if s == nil || s.SSH == nil {
		return 0
	}
	return *s.SSH
}

// ApacheCount returns the apache count, 0 when absent.
func (s *SourceCounts) ApacheCount() int {
	if s == nil || s.Apache == nil {
		return 0
	}
	return *s.Apache
}

// ParseResponse is the POST /api/logs/parse payload.
type ParseResponse struct {
	Sources *SourceCounts `json:"sources,omitempty"`
}

// FetchResponse is the POST /api/intel/fetch payload.
type FetchResponse struct {
	Fetched int `json:"fetched"`
	Stored  int `json:"stored"`
}

// CorrelationSummary reports how many alerts a correlation pass generated.
type CorrelationSummary struct {
	Generated *int `json:"generated,omitempty"`
}

// RefreshResponse is the POST /api/workflow/refresh payload.
type RefreshResponse struct {
	Intel       *FetchResponse      `json:"intel,omitempty"`
	Logs        *ParseResponse      `json:"logs,omitempty"`
	Correlation *CorrelationSummary `json:"correlation,omitempty"`
	Analytics   AnalyticsMetrics    `json:"analytics"`
}

// IntelFetched returns intel.fetched, 0 when absent.
func (r *RefreshResponse) IntelFetched() int {
	if r.Intel == nil {
		return 0
	}
	return r.Intel.Fetched
}

// LogCounts returns logs.sources.{ssh,apache}, 0 when absent.
func (r *RefreshResponse) LogCounts() (ssh, apache int) {
	if r.Logs == nil {
		return 0, 0
	}
	return r.Logs.Sources.SSHCount(), r.Logs.Sources.ApacheCount()
}

// AlertsGenerated returns correlation.generated, 0 when absent.
func (r *RefreshResponse) AlertsGenerated() int {
	if r.Correlation == nil || r.Correlation.Generated == nil {
		return 0
	}
	return *r.Correlation.Generated
}

// FormatNumber renders a JSON number the way the backend would print it.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
