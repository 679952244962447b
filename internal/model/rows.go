package model

// Row projections turn payload records into display tuples. A nil element
// means the value is absent; the table renderer shows it as "-".

// IndicatorRow is [indicator, type, source, seen, confidence]. Seen prefers
// last_seen over first_seen.
func IndicatorRow(i Indicator) []any {
	var confidence any
	if i.Confidence != nil {
		confidence = *i.Confidence
	}
	return []any{
		firstOf(i.Indicator),
		firstOf(i.Type),
		firstOf(i.Source),
		firstOf(i.LastSeen, i.FirstSeen),
		confidence,
	}
}

// SSHRow is [event_time, ip_address, username, message]. Message prefers
// meta.message over the raw line.
func SSHRow(e LogEvent) []any {
	var metaMessage *string
	if e.Meta != nil {
		metaMessage = e.Meta.Message
	}
	return []any{
		firstOf(e.EventTime),
		firstOf(e.IPAddress),
		firstOf(e.Username),
		firstOf(metaMessage, e.Raw),
	}
}

// ApacheRow is [event_time, ip_address, request, status_code].
func ApacheRow(e LogEvent) []any {
	var status any
	if e.StatusCode != nil {
		status = *e.StatusCode
	}
	return []any{
		firstOf(e.EventTime),
		firstOf(e.IPAddress),
		firstOf(e.Request),
		status,
	}
}

// AlertRow is [time, indicator, log_source, severity, message]. Time prefers
// created_at over event_time.
func AlertRow(a Alert) []any {
	return []any{
		firstOf(a.CreatedAt, a.EventTime),
		firstOf(a.Indicator),
		firstOf(a.LogSource),
		firstOf(a.Severity),
		firstOf(a.Message),
	}
}

// IndicatorRows projects every indicator, preserving order.
func IndicatorRows(items []Indicator) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, IndicatorRow(item))
	}
	return rows
}

// SSHRows projects ssh log events, preserving order.
func SSHRows(items []LogEvent) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, SSHRow(item))
	}
	return rows
}

// ApacheRows projects apache log events, preserving order.
func ApacheRows(items []LogEvent) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, ApacheRow(item))
	}
	return rows
}

// AlertRows projects alerts, preserving order.
func AlertRows(items []Alert) [][]any {
	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, AlertRow(item))
	}
	return rows
}

// firstOf returns the first non-nil value or an untyped nil.
func firstOf(values ...*string) any {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return nil
}
