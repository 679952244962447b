package api

import "fmt"

// RequestError is returned when the backend answers with a non-2xx status.
type RequestError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.StatusText, e.Body)
}

// TransportError wraps network failures, unreadable bodies and malformed JSON.
type TransportError struct {
	Method string
	URL    string
	Cause  error
}

func (e *TransportError) Error() string {
	return e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}
