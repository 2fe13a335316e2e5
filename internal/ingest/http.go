package ingest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"alertcycle/internal/config"
	"alertcycle/internal/domain"
	"alertcycle/internal/engine"
)

// Engine is the lifecycle operation surface consumed by ingest transports.
// Params: submission intake plus per-alert lifecycle operations and queries.
// Returns: implemented by the lifecycle controller.
type Engine interface {
	CreateAlert(sub domain.Submission) (domain.Alert, error)
	Acknowledge(alertID, userID string) (domain.Alert, bool)
	Assign(alertID, userID string) (domain.Alert, bool)
	Resolve(alertID, actor string) (domain.Alert, bool)
	Close(alertID string) (domain.Alert, bool)
	Suppress(alertID string, until time.Time, reason string) (domain.Alert, bool)
	GetAlert(alertID string) (domain.Alert, bool)
	ClearResolved() int
	Alerts(filter engine.Filter) []domain.Alert
	Stats() engine.Stats
}

// API serves the alert lifecycle HTTP surface.
// Params: engine, request body limit, and logger.
// Returns: route registrar for the service mux.
type API struct {
	engine      Engine
	maxBodySize int64
	logger      *slog.Logger
}

// NewAPI creates the HTTP API handler set.
// Params: engine, HTTP ingest config, and logger.
// Returns: configured API.
func NewAPI(eng Engine, cfg config.HTTPIngestConfig, logger *slog.Logger) *API {
	return &API{engine: eng, maxBodySize: cfg.MaxBodyBytes, logger: logger}
}

// Register mounts every API route under the prefix.
// Params: service mux and path prefix.
// Returns: none.
func (a *API) Register(mux *http.ServeMux, prefix string) {
	prefix = strings.TrimSuffix(prefix, "/")
	mux.HandleFunc("POST "+prefix+"/alerts", a.handleCreate)
	mux.HandleFunc("GET "+prefix+"/alerts", a.handleList)
	mux.HandleFunc("GET "+prefix+"/alerts/{id}", a.handleGet)
	mux.HandleFunc("POST "+prefix+"/alerts/{id}/acknowledge", a.handleAcknowledge)
	mux.HandleFunc("POST "+prefix+"/alerts/{id}/assign", a.handleAssign)
	mux.HandleFunc("POST "+prefix+"/alerts/{id}/resolve", a.handleResolve)
	mux.HandleFunc("POST "+prefix+"/alerts/{id}/close", a.handleClose)
	mux.HandleFunc("POST "+prefix+"/alerts/{id}/suppress", a.handleSuppress)
	mux.HandleFunc("DELETE "+prefix+"/alerts/resolved", a.handleClearResolved)
	mux.HandleFunc("GET "+prefix+"/stats", a.handleStats)
}

type actionRequest struct {
	UserID string `json:"user_id"`
}

type suppressRequest struct {
	SuppressUntil time.Time `json:"suppress_until"`
	Reason        string    `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type clearResolvedResponse struct {
	Removed int `json:"removed"`
}

// handleCreate ingests one submission or a batch of submissions.
func (a *API) handleCreate(writer http.ResponseWriter, request *http.Request) {
	body, ok := a.readBody(writer, request)
	if !ok {
		return
	}

	scratch := acquireDecodeScratch()
	defer releaseDecodeScratch(scratch)
	submissions, err := decodeSubmissionPayloadInto(body, scratch)
	if err != nil {
		writeError(writer, http.StatusBadRequest, err.Error())
		return
	}

	alerts := make([]domain.Alert, 0, len(submissions))
	for i, submission := range submissions {
		alert, err := a.engine.CreateAlert(submission)
		if err != nil {
			a.logger.Warn("alert create rejected", "index", i, "error", err.Error())
			writeError(writer, http.StatusBadRequest, err.Error())
			return
		}
		alerts = append(alerts, alert)
	}

	if len(alerts) == 1 && bytes.TrimSpace(body)[0] != '[' {
		writeJSON(writer, http.StatusCreated, alerts[0])
		return
	}
	writeJSON(writer, http.StatusCreated, alerts)
}

func (a *API) handleGet(writer http.ResponseWriter, request *http.Request) {
	alert, ok := a.engine.GetAlert(request.PathValue("id"))
	if !ok {
		writeError(writer, http.StatusNotFound, "alert not found")
		return
	}
	writeJSON(writer, http.StatusOK, alert)
}

func (a *API) handleAcknowledge(writer http.ResponseWriter, request *http.Request) {
	action, ok := a.decodeAction(writer, request, true)
	if !ok {
		return
	}
	alert, applied := a.engine.Acknowledge(request.PathValue("id"), action.UserID)
	a.writeLifecycleResult(writer, alert, applied)
}

func (a *API) handleAssign(writer http.ResponseWriter, request *http.Request) {
	action, ok := a.decodeAction(writer, request, true)
	if !ok {
		return
	}
	alert, applied := a.engine.Assign(request.PathValue("id"), action.UserID)
	a.writeLifecycleResult(writer, alert, applied)
}

func (a *API) handleResolve(writer http.ResponseWriter, request *http.Request) {
	action, ok := a.decodeAction(writer, request, false)
	if !ok {
		return
	}
	alert, applied := a.engine.Resolve(request.PathValue("id"), action.UserID)
	a.writeLifecycleResult(writer, alert, applied)
}

func (a *API) handleClose(writer http.ResponseWriter, request *http.Request) {
	alert, applied := a.engine.Close(request.PathValue("id"))
	a.writeLifecycleResult(writer, alert, applied)
}

func (a *API) handleSuppress(writer http.ResponseWriter, request *http.Request) {
	body, ok := a.readBody(writer, request)
	if !ok {
		return
	}
	var req suppressRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(writer, http.StatusBadRequest, "decode suppress request: "+err.Error())
		return
	}
	if req.SuppressUntil.IsZero() {
		writeError(writer, http.StatusBadRequest, "suppress_until is required")
		return
	}
	alert, applied := a.engine.Suppress(request.PathValue("id"), req.SuppressUntil, req.Reason)
	a.writeLifecycleResult(writer, alert, applied)
}

func (a *API) handleClearResolved(writer http.ResponseWriter, _ *http.Request) {
	removed := a.engine.ClearResolved()
	writeJSON(writer, http.StatusOK, clearResolvedResponse{Removed: removed})
}

func (a *API) handleList(writer http.ResponseWriter, request *http.Request) {
	filter, err := parseFilter(request)
	if err != nil {
		writeError(writer, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(writer, http.StatusOK, a.engine.Alerts(filter))
}

func (a *API) handleStats(writer http.ResponseWriter, _ *http.Request) {
	writeJSON(writer, http.StatusOK, a.engine.Stats())
}

// readBody reads the size-limited request body.
func (a *API) readBody(writer http.ResponseWriter, request *http.Request) ([]byte, bool) {
	request.Body = http.MaxBytesReader(writer, request.Body, a.maxBodySize)
	defer request.Body.Close()
	body, err := io.ReadAll(request.Body)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "read request body: "+err.Error())
		return nil, false
	}
	return body, true
}

// decodeAction decodes one lifecycle action body. An empty body is allowed
// when the user id is optional.
func (a *API) decodeAction(writer http.ResponseWriter, request *http.Request, requireUser bool) (actionRequest, bool) {
	body, ok := a.readBody(writer, request)
	if !ok {
		return actionRequest{}, false
	}
	var action actionRequest
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &action); err != nil {
			writeError(writer, http.StatusBadRequest, "decode action request: "+err.Error())
			return actionRequest{}, false
		}
	}
	if requireUser && strings.TrimSpace(action.UserID) == "" {
		writeError(writer, http.StatusBadRequest, "user_id is required")
		return actionRequest{}, false
	}
	return action, true
}

// writeLifecycleResult maps the engine's applied flag onto HTTP status: a
// transition outside the state machine's source set (or an unknown id) is a
// conflict, not a server failure.
func (a *API) writeLifecycleResult(writer http.ResponseWriter, alert domain.Alert, applied bool) {
	if !applied {
		writeError(writer, http.StatusConflict, "not applicable")
		return
	}
	writeJSON(writer, http.StatusOK, alert)
}

// parseFilter builds an alert listing filter from query parameters.
// Params: request with optional tenant_id/status/severity/source/assigned_to
// and created_after/created_before (RFC 3339) parameters.
// Returns: filter or parse error.
func parseFilter(request *http.Request) (engine.Filter, error) {
	query := request.URL.Query()
	filter := engine.Filter{
		TenantID:   query.Get("tenant_id"),
		Source:     query.Get("source"),
		AssignedTo: query.Get("assigned_to"),
	}
	for _, value := range splitList(query.Get("status")) {
		filter.Statuses = append(filter.Statuses, domain.Status(strings.ToUpper(value)))
	}
	for _, value := range splitList(query.Get("severity")) {
		severity := domain.Severity(strings.ToUpper(value))
		if !severity.Known() {
			return engine.Filter{}, &filterError{field: "severity", value: value}
		}
		filter.Severities = append(filter.Severities, severity)
	}
	if raw := query.Get("created_after"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return engine.Filter{}, &filterError{field: "created_after", value: raw}
		}
		filter.CreatedAfter = at
	}
	if raw := query.Get("created_before"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return engine.Filter{}, &filterError{field: "created_before", value: raw}
		}
		filter.CreatedBefore = at
	}
	return filter, nil
}

type filterError struct {
	field string
	value string
}

func (e *filterError) Error() string {
	return "invalid " + e.field + " value " + e.value
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeJSON(writer http.ResponseWriter, status int, payload any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(payload)
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, errorResponse{Error: message})
}
