package common

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/domain"
)

// SerializedBoard maps transport requests onto one app.Store. Requests are
// applied one at a time so concurrent callers never interleave inside an operation.
type SerializedBoard struct {
	mu       sync.Mutex
	store    *app.Store
	activity app.ActivityReader
}

// NewSerializedBoard builds one adapter. activity may be nil.
func NewSerializedBoard(store *app.Store, activity app.ActivityReader) *SerializedBoard {
	return &SerializedBoard{store: store, activity: activity}
}

// State returns the current snapshot.
func (b *SerializedBoard) State(context.Context) (BoardState, error) {
	if b == nil || b.store == nil {
		return BoardState{}, ErrNotConfigured
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

// Apply validates and applies one operation.
func (b *SerializedBoard) Apply(ctx context.Context, req OperationRequest) (OperationResult, error) {
	if b == nil || b.store == nil {
		return OperationResult{}, ErrNotConfigured
	}
	op, err := normalizeOperationRequest(req)
	if err != nil {
		return OperationResult{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var result OperationResult
	switch op.Op {
	case domain.ChangeOperationDragBegin:
		payload, out := b.store.BeginDrag(ctx, op.Task)
		result.Outcome = NewOutcomeView(out)
		if payload != nil {
			result.Drag = &app.DragView{
				Kind:    domain.PayloadKind(payload),
				TaskIDs: domain.PayloadTaskIDs(payload),
			}
		}
	case domain.ChangeOperationEditBegin:
		form, out := b.store.BeginEdit(ctx, op.Task)
		result.Outcome = NewOutcomeView(out)
		if out.Applied {
			result.Form = &form
		}
	default:
		out, err := b.store.Apply(ctx, op)
		if err != nil {
			return OperationResult{}, fmt.Errorf("apply %s: %w", op.Op, errors.Join(ErrInvalidRequest, err))
		}
		result.Outcome = NewOutcomeView(out)
		if form, ok := b.store.Edit(); ok {
			result.Form = &form
		}
	}

	state, err := b.stateLocked()
	if err != nil {
		return OperationResult{}, err
	}
	result.State = state
	return result, nil
}

// Activity lists recent ledger events for the store session, newest first.
func (b *SerializedBoard) Activity(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if b == nil || b.store == nil {
		return nil, ErrNotConfigured
	}
	if b.activity == nil {
		return nil, ErrActivityUnavailable
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0: %w", ErrInvalidRequest)
	}
	events, err := b.activity.ListChangeEvents(ctx, b.store.SessionID(), limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	return events, nil
}

func (b *SerializedBoard) stateLocked() (BoardState, error) {
	snap := b.store.Snapshot()
	hash, err := computeStateHash(snap)
	if err != nil {
		return BoardState{}, err
	}
	return BoardState{
		SessionID: b.store.SessionID(),
		StateHash: hash,
		Board:     snap,
	}, nil
}

// computeStateHash hashes snapshot content. The version counter is excluded so
// no-op transitions that leave content unchanged keep the same hash.
func computeStateHash(snap app.Snapshot) (string, error) {
	snap.Version = 0
	encoded, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode state hash payload: %w", err)
	}
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:]), nil
}

// normalizeOperationRequest checks per-operation required arguments.
func normalizeOperationRequest(req OperationRequest) (app.ScriptOp, error) {
	op := app.ScriptOp{
		Op:    domain.ChangeOperation(strings.ToLower(strings.TrimSpace(string(req.Op)))),
		Task:  req.TaskID,
		Multi: req.Multi,
		Day:   domain.NormalizeDay(domain.Day(req.Day)),
		Field: domain.FormField(strings.ToLower(strings.TrimSpace(req.Field))),
		Value: req.Value,
	}
	switch op.Op {
	case domain.ChangeOperationSelect, domain.ChangeOperationFolderRemove,
		domain.ChangeOperationDragBegin, domain.ChangeOperationEditBegin:
		if op.Task <= 0 {
			return app.ScriptOp{}, fmt.Errorf("%s requires task_id: %w", op.Op, ErrInvalidRequest)
		}
	case domain.ChangeOperationPaste, domain.ChangeOperationDrop:
		if op.Day == "" {
			return app.ScriptOp{}, fmt.Errorf("%s requires day: %w", op.Op, ErrInvalidRequest)
		}
	case domain.ChangeOperationEditField:
		if op.Field == "" {
			return app.ScriptOp{}, fmt.Errorf("%s requires field: %w", op.Op, ErrInvalidRequest)
		}
	case domain.ChangeOperationCopy, domain.ChangeOperationCut, domain.ChangeOperationFolderAdd,
		domain.ChangeOperationDropFolder, domain.ChangeOperationDragCancel,
		domain.ChangeOperationEditCommit, domain.ChangeOperationEditCancel:
	default:
		return app.ScriptOp{}, fmt.Errorf("unknown op %q: %w", op.Op, ErrInvalidRequest)
	}
	return op, nil
}
