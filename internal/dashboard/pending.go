package dashboard

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Pending keys, one per guarded procedure.
const (
	KeyIntel     = "intel"
	KeyLogs      = "logs"
	KeyAlerts    = "alerts"
	KeyAnalytics = "analytics"
	KeyParse     = "parse"
	KeyFetch     = "fetch"
	KeyCorrelate = "correlate"
)

// Observer is notified when a guarded operation starts and finishes.
type Observer interface {
	OperationStarted(key string)
	OperationFinished(key string, elapsed time.Duration, err error)
}

// Tracker records which operations are in flight. Controls are disabled
// while the set is non-empty.
//
// Acquiring a key twice is not rejected: re-entry is prevented by the UI,
// which ignores triggers while controls are disabled.
type Tracker struct {
	mu        sync.Mutex
	pending   map[string]int
	controls  Controls
	observers []Observer
}

// NewTracker creates a tracker pushing the busy flag to controls.
func NewTracker(controls Controls, observers ...Observer) *Tracker {
	return &Tracker{
		pending:   make(map[string]int),
		controls:  controls,
		observers: observers,
	}
}

// AddObserver registers another observer.
func (t *Tracker) AddObserver(o Observer) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, o)
}

// Acquire marks key as in flight and disables controls.
func (t *Tracker) Acquire(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[key]++
	t.publish()
}

// Release marks key as finished. Controls are re-enabled once nothing is
// pending.
func (t *Tracker) Release(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := t.pending[key]; n > 1 {
		t.pending[key] = n - 1
	} else {
		delete(t.pending, key)
	}
	t.publish()
}

// Busy reports whether any operation is in flight.
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) > 0
}

// Pending returns the in-flight keys in sorted order.
func (t *Tracker) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	keys := make([]string, 0, len(t.pending))
	for k := range t.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Guard runs fn with key held. The key is released on every exit path,
// including a panic, which is re-raised after release.
func (t *Tracker) Guard(key string, fn func() error) (err error) {
	t.Acquire(key)
	started := time.Now()
	t.notifyStarted(key)

	defer func() {
		if r := recover(); r != nil {
			t.finish(key, started, fmt.Errorf("panic: %v", r))
			panic(r)
		}
		t.finish(key, started, err)
	}()

	return fn()
}

func (t *Tracker) finish(key string, started time.Time, err error) {
	t.Release(key)
	elapsed := time.Since(started)
	for _, o := range t.snapshotObservers() {
		o.OperationFinished(key, elapsed, err)
	}
}

func (t *Tracker) notifyStarted(key string) {
	for _, o := range t.snapshotObservers() {
		o.OperationStarted(key)
	}
}

func (t *Tracker) snapshotObservers() []Observer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Observer(nil), t.observers...)
}

// publish must be called with mu held so sink observations stay ordered.
func (t *Tracker) publish() {
	if t.controls != nil {
		t.controls.SetBusy(len(t.pending) > 0)
	}
}
