// Package httpapi provides the REST HTTP adapter for the server surfaces.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/hylla/weekplan/internal/adapters/server/common"
	"github.com/hylla/weekplan/internal/domain"
)

// maxRequestBodyBytes limits decoded JSON payload size for fail-closed request handling.
const maxRequestBodyBytes int64 = 1 << 20

// operationRoutes maps POST paths to store operations.
var operationRoutes = map[string]domain.ChangeOperation{
	"select":           domain.ChangeOperationSelect,
	"copy":             domain.ChangeOperationCopy,
	"cut":              domain.ChangeOperationCut,
	"paste":            domain.ChangeOperationPaste,
	"folder/add":       domain.ChangeOperationFolderAdd,
	"folder/remove":    domain.ChangeOperationFolderRemove,
	"drag/begin":       domain.ChangeOperationDragBegin,
	"drag/drop":        domain.ChangeOperationDrop,
	"drag/drop-folder": domain.ChangeOperationDropFolder,
	"drag/cancel":      domain.ChangeOperationDragCancel,
	"edit/begin":       domain.ChangeOperationEditBegin,
	"edit/field":       domain.ChangeOperationEditField,
	"edit/commit":      domain.ChangeOperationEditCommit,
	"edit/cancel":      domain.ChangeOperationEditCancel,
}

// Handler serves the versioned API subrouter mounted under `/api/v1`.
type Handler struct {
	board common.BoardService
}

// APIError represents one structured API failure response.
type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Hint    string         `json:"hint,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

// ErrorEnvelope wraps one structured API error.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// operationBody is the optional JSON body accepted by operation routes.
type operationBody struct {
	TaskID int    `json:"task_id"`
	Multi  bool   `json:"multi"`
	Day    string `json:"day"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

// NewHandler constructs one HTTP API adapter over a board service.
func NewHandler(board common.BoardService) *Handler {
	return &Handler{board: board}
}

// ServeHTTP routes one versioned API request to the matching handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(r.URL.Path)
	switch path {
	case "state":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleState(w, r)
		return
	case "activity":
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w, http.MethodGet)
			return
		}
		h.handleActivity(w, r)
		return
	}

	op, ok := operationRoutes[path]
	if !ok {
		writeJSONError(w, http.StatusNotFound, APIError{
			Code:    "not_found",
			Message: "endpoint not found",
		})
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}
	h.handleOperation(w, r, op)
}

// handleState serves GET `/state`.
func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	if h.board == nil {
		writeServiceUnavailable(w)
		return
	}
	state, err := h.board.State(r.Context())
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// handleActivity serves GET `/activity`.
func (h *Handler) handleActivity(w http.ResponseWriter, r *http.Request) {
	if h.board == nil {
		writeServiceUnavailable(w)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeJSONError(w, http.StatusBadRequest, APIError{
				Code:    "invalid_request",
				Message: "limit must be a non-negative integer",
				Context: map[string]any{"limit": raw},
			})
			return
		}
		limit = parsed
	}
	events, err := h.board.Activity(r.Context(), limit)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"events": events,
	})
}

// handleOperation serves POST operation routes.
func (h *Handler) handleOperation(w http.ResponseWriter, r *http.Request, op domain.ChangeOperation) {
	if h.board == nil {
		writeServiceUnavailable(w)
		return
	}
	var body operationBody
	if err := decodeOptionalJSONBody(r.Context(), w, r, &body); err != nil {
		writeErrorFrom(w, err)
		return
	}
	result, err := h.board.Apply(r.Context(), common.OperationRequest{
		Op:     op,
		TaskID: body.TaskID,
		Multi:  body.Multi,
		Day:    body.Day,
		Field:  body.Field,
		Value:  body.Value,
	})
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// normalizePath canonicalizes one request path for route matching.
func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	path = strings.Trim(path, "/")
	return path
}

// writeServiceUnavailable reports a handler built without a board.
func writeServiceUnavailable(w http.ResponseWriter) {
	writeJSONError(w, http.StatusServiceUnavailable, APIError{
		Code:    "service_unavailable",
		Message: "board service is not configured",
	})
}

// writeErrorFrom maps adapter errors into structured HTTP responses.
func writeErrorFrom(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "unknown error",
		})
	case errors.Is(err, common.ErrInvalidRequest):
		writeJSONError(w, http.StatusBadRequest, APIError{
			Code:    "invalid_request",
			Message: err.Error(),
		})
	case errors.Is(err, common.ErrActivityUnavailable):
		writeJSONError(w, http.StatusNotImplemented, APIError{
			Code:    "not_implemented",
			Message: err.Error(),
			Hint:    "Set ledger.mode to memory or file to record activity.",
		})
	case errors.Is(err, common.ErrNotConfigured):
		writeServiceUnavailable(w)
	default:
		writeJSONError(w, http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: err.Error(),
		})
	}
}

// writeMethodNotAllowed writes a structured 405 response with `Allow` headers.
func writeMethodNotAllowed(w http.ResponseWriter, methods ...string) {
	if len(methods) > 0 {
		w.Header().Set("Allow", strings.Join(methods, ", "))
	}
	writeJSONError(w, http.StatusMethodNotAllowed, APIError{
		Code:    "method_not_allowed",
		Message: "method not allowed",
	})
}

// writeJSONError writes one structured error envelope.
func writeJSONError(w http.ResponseWriter, statusCode int, apiErr APIError) {
	writeJSON(w, statusCode, ErrorEnvelope{Error: apiErr})
}

// writeJSON writes one JSON response envelope.
func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, fmt.Sprintf(`{"error":{"code":"encode_error","message":"%s"}}`, err.Error()), http.StatusInternalServerError)
	}
}

// decodeOptionalJSONBody decodes one optional JSON body with strict shape checks and ignores empty payloads.
func decodeOptionalJSONBody(ctx context.Context, w http.ResponseWriter, r *http.Request, out any) error {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	defer reader.Close()

	decoder := json.NewDecoder(reader)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(out)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("decode request body: %w", errors.Join(common.ErrInvalidRequest, err))
	}
	// Reject trailing payloads so malformed JSON bodies fail closed.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode request body: trailing content: %w", common.ErrInvalidRequest)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("request canceled: %w", ctx.Err())
	default:
		return nil
	}
}
