package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/user/sentineldash/internal/dashboard"
	"github.com/user/sentineldash/internal/model"
	"github.com/user/sentineldash/internal/storage"
)

// maxRunsLimit caps the limit query parameter of /api/runs.
const maxRunsLimit = 500

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	Status  string   `json:"status"`
	IsError bool     `json:"is_error"`
	Busy    bool     `json:"busy"`
	Pending []string `json:"pending"`
	Charts  []string `json:"charts"`
}

// Handlers contains HTTP handlers.
type Handlers struct {
	orch         *dashboard.Orchestrator
	runs         *storage.RunStorage
	historyLimit int
}

// NewHandlers creates new handlers. runs may be nil when the journal is
// unavailable.
func NewHandlers(orch *dashboard.Orchestrator, runs *storage.RunStorage, historyLimit int) *Handlers {
	if historyLimit <= 0 {
		historyLimit = 20
	}
	return &Handlers{
		orch:         orch,
		runs:         runs,
		historyLimit: historyLimit,
	}
}

// APIGetStatus returns the live dashboard state.
func (h *Handlers) APIGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, errors.New("method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	message, isError := h.orch.Status().Last()
	keys := h.orch.Charts().Keys()
	charts := make([]string, 0, len(keys))
	for _, k := range keys {
		charts = append(charts, string(k))
	}

	writeJSON(w, StatusResponse{
		Status:  message,
		IsError: isError,
		Busy:    h.orch.Pending().Busy(),
		Pending: h.orch.Pending().Pending(),
		Charts:  charts,
	})
}

// APIGetRuns returns the most recent journaled runs.
func (h *Handlers) APIGetRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, errors.New("method not allowed"), http.StatusMethodNotAllowed)
		return
	}
	if h.runs == nil {
		writeError(w, errors.New("run journal unavailable"), http.StatusServiceUnavailable)
		return
	}

	limit := h.historyLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if ln, err := strconv.Atoi(l); err == nil && ln > 0 && ln <= maxRunsLimit {
			limit = ln
		}
	}

	runs, err := h.runs.GetRecent(limit)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []model.OperationRun{}
	}
	writeJSON(w, runs)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
