package model

import "time"

// Run outcomes recorded in the journal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// OperationRun is one finished dashboard operation.
type OperationRun struct {
	ID        int64         `json:"id"`
	Operation string        `json:"operation"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Outcome   string        `json:"outcome"`
	Error     string        `json:"error,omitempty"`
}
