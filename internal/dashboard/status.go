package dashboard

import "sync"

// StatusReporter owns the status line. It always reflects the most recent
// outcome, success message or error.
type StatusReporter struct {
	mu      sync.Mutex
	sink    StatusSink
	last    string
	isError bool
}

// NewStatusReporter creates a reporter writing to sink.
func NewStatusReporter(sink StatusSink) *StatusReporter {
	return &StatusReporter{sink: sink}
}

// Update shows an informational message.
func (r *StatusReporter) Update(message string) {
	r.set(message, false)
}

// ReportError shows an error message.
func (r *StatusReporter) ReportError(message string) {
	r.set(message, true)
}

// Last returns the message currently shown.
func (r *StatusReporter) Last() (message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.isError
}

func (r *StatusReporter) set(message string, isError bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = message
	r.isError = isError
	if r.sink != nil {
		r.sink.SetStatus(message, isError)
	}
}
