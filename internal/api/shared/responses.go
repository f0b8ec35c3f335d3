package shared

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the fixed three-field response shape used across the
// operations, report and trades endpoints. Status carries either a string
// ("success"/"error") or a numeric status depending on the endpoint's
// historical contract.
type Envelope struct {
	Status  any `json:"status"`
	Data    any `json:"data"`
	Details any `json:"details"`
}

// ErrorResponse defines the standard error response structure for the
// auth endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"-"` // Not serialized to JSON, used for logging
	TraceID string `json:"trace_id,omitempty"`
	Details any    `json:"details,omitempty"`
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondWithEnvelope writes the three-field envelope with the given HTTP
// status code.
func RespondWithEnvelope(w http.ResponseWriter, r *http.Request, httpStatus int, env Envelope) {
	RespondWithJSON(w, r, httpStatus, env)
}

// RespondWithError writes a JSON error response with the given status code
// and message. It also sets the TraceID from the request context if available.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: traceID,
	}

	logLevel := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		logLevel = slog.LevelError
	}
	slog.LogAttrs(r.Context(), logLevel, "API error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, errorResponse)
}

// RespondWithDetails writes a JSON error response carrying per-field
// validation details alongside the top-level message.
func RespondWithDetails(w http.ResponseWriter, r *http.Request, status int, message string, details any) {
	traceID := GetTraceID(r.Context())

	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		TraceID: traceID,
		Details: details,
	}

	slog.LogAttrs(r.Context(), slog.LevelDebug, "API validation error response",
		slog.Int("status_code", status),
		slog.String("message", message),
		slog.String("trace_id", traceID),
		slog.String("path", r.URL.Path),
		slog.String("method", r.Method))

	RespondWithJSON(w, r, status, errorResponse)
}
