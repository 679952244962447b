package dashboard

import (
	"context"

	"github.com/user/sentineldash/internal/util"
)

// Bootstrap status messages.
const (
	StatusLoading     = "Loading dashboard..."
	StatusReady       = "Dashboard ready."
	StatusInitFailure = "Failed to load initial data."
)

// Bootstrap loads every section in parallel. Each section renders as soon as
// its own fetch resolves; a failing section leaves only itself unrendered.
// The first failure is logged, replaces the status with StatusInitFailure
// and is returned without waiting for the remaining sections.
func (o *Orchestrator) Bootstrap(ctx context.Context) error {
	o.status.Update(StatusLoading)

	err := o.join(ctx, o.LoadIntel, o.LoadLogs, o.LoadAlerts, o.LoadAnalytics)
	if err != nil {
		util.Error("Initial dashboard load failed: %v", err)
		o.status.ReportError(StatusInitFailure)
		return err
	}

	o.status.Update(StatusReady)
	return nil
}

// Action is a user-facing workflow trigger.
type Action string

const (
	ActionFetchIntel     Action = "fetch-intel"
	ActionParseLogs      Action = "parse-logs"
	ActionRunCorrelation Action = "run-correlation"
	ActionReload         Action = "reload"
)

// Actions lists the triggers in display order.
var Actions = []Action{ActionFetchIntel, ActionParseLogs, ActionRunCorrelation, ActionReload}

// Registrar maps UI triggers to orchestrator procedures.
type Registrar struct {
	orch     *Orchestrator
	handlers map[Action]func(context.Context) error
}

// NewRegistrar wires every action to its procedure.
func NewRegistrar(orch *Orchestrator) *Registrar {
	return &Registrar{
		orch: orch,
		handlers: map[Action]func(context.Context) error{
			ActionFetchIntel:     orch.RunFetchIntel,
			ActionParseLogs:      orch.RunParseLogs,
			ActionRunCorrelation: orch.RunCorrelationWorkflow,
			ActionReload:         orch.Bootstrap,
		},
	}
}

// Enabled reports whether triggers are currently accepted.
func (r *Registrar) Enabled() bool {
	return !r.orch.Pending().Busy()
}

// Trigger runs the procedure bound to action and blocks until it finishes.
// It returns false without running anything when the action is unknown or
// controls are disabled. Procedure errors are already on the status line,
// so they are only logged here.
func (r *Registrar) Trigger(ctx context.Context, action Action) bool {
	handler, ok := r.handlers[action]
	if !ok || !r.Enabled() {
		return false
	}

	if err := handler(ctx); err != nil {
		util.Debug("Action %s failed: %v", action, err)
	}
	return true
}
