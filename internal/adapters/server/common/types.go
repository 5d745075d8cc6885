// Package common provides transport-agnostic server contracts used by HTTP and MCP adapters.
package common

import (
	"context"
	"errors"

	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/domain"
)

// ErrInvalidRequest reports malformed operation input.
var ErrInvalidRequest = errors.New("invalid request")

// ErrActivityUnavailable reports a board running without an activity ledger.
var ErrActivityUnavailable = errors.New("activity ledger unavailable")

// ErrNotConfigured reports an adapter built without a store.
var ErrNotConfigured = errors.New("board service is not configured")

// BoardService is the transport-facing contract over one task store.
type BoardService interface {
	State(context.Context) (BoardState, error)
	Apply(context.Context, OperationRequest) (OperationResult, error)
	Activity(context.Context, int) ([]domain.ChangeEvent, error)
}

// OperationRequest names one store operation and its arguments.
type OperationRequest struct {
	Op     domain.ChangeOperation `json:"op"`
	TaskID int                    `json:"task_id,omitempty"`
	Multi  bool                   `json:"multi,omitempty"`
	Day    string                 `json:"day,omitempty"`
	Field  string                 `json:"field,omitempty"`
	Value  string                 `json:"value,omitempty"`
}

// OutcomeView is the transport form of app.Outcome.
type OutcomeView struct {
	Op      domain.ChangeOperation `json:"op"`
	Applied bool                   `json:"applied"`
	Reason  string                 `json:"reason,omitempty"`
	TaskIDs []int                  `json:"task_ids"`
	Version uint64                 `json:"version"`
}

// BoardState wraps one snapshot with a content hash for change detection.
type BoardState struct {
	SessionID string       `json:"session_id"`
	StateHash string       `json:"state_hash"`
	Board     app.Snapshot `json:"board"`
}

// OperationResult reports one applied operation and the resulting state.
type OperationResult struct {
	Outcome OutcomeView        `json:"outcome"`
	Drag    *app.DragView      `json:"drag,omitempty"`
	Form    *domain.FormBuffer `json:"form,omitempty"`
	State   BoardState         `json:"state"`
}

// NewOutcomeView converts one store outcome for transport.
func NewOutcomeView(out app.Outcome) OutcomeView {
	ids := out.TaskIDs
	if ids == nil {
		ids = []int{}
	}
	return OutcomeView{
		Op:      out.Op,
		Applied: out.Applied,
		Reason:  out.ReasonText(),
		TaskIDs: ids,
		Version: out.Version,
	}
}
