package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/hylla/weekplan/internal/domain"
)

// ScriptOp is one recorded store operation. Op uses the activity ledger names.
type ScriptOp struct {
	Op    domain.ChangeOperation `toml:"op" json:"op"`
	Task  int                    `toml:"task,omitempty" json:"task,omitempty"`
	Multi bool                   `toml:"multi,omitempty" json:"multi,omitempty"`
	Day   domain.Day             `toml:"day,omitempty" json:"day,omitempty"`
	Field domain.FormField       `toml:"field,omitempty" json:"field,omitempty"`
	Value string                 `toml:"value,omitempty" json:"value,omitempty"`
}

// Script is an ordered list of operations replayed against a store.
type Script struct {
	Steps []ScriptOp `toml:"step"`
}

var scriptOps = map[domain.ChangeOperation]struct{}{
	domain.ChangeOperationSelect:       {},
	domain.ChangeOperationCopy:         {},
	domain.ChangeOperationCut:          {},
	domain.ChangeOperationPaste:        {},
	domain.ChangeOperationFolderAdd:    {},
	domain.ChangeOperationFolderRemove: {},
	domain.ChangeOperationDragBegin:    {},
	domain.ChangeOperationDrop:         {},
	domain.ChangeOperationDropFolder:   {},
	domain.ChangeOperationDragCancel:   {},
	domain.ChangeOperationEditBegin:    {},
	domain.ChangeOperationEditField:    {},
	domain.ChangeOperationEditCommit:   {},
	domain.ChangeOperationEditCancel:   {},
}

// ParseScript decodes a TOML script of [[step]] tables.
func ParseScript(data []byte) (Script, error) {
	var script Script
	if err := toml.Unmarshal(data, &script); err != nil {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	for i := range script.Steps {
		step := &script.Steps[i]
		step.Op = domain.ChangeOperation(strings.ToLower(strings.TrimSpace(string(step.Op))))
		if _, ok := scriptOps[step.Op]; !ok {
			return Script{}, fmt.Errorf("step %d %q: %w", i+1, step.Op, ErrUnknownOp)
		}
	}
	return script, nil
}

// Apply dispatches one script step to the matching store operation.
func (s *Store) Apply(ctx context.Context, op ScriptOp) (Outcome, error) {
	switch op.Op {
	case domain.ChangeOperationSelect:
		return s.Select(ctx, op.Task, op.Multi), nil
	case domain.ChangeOperationCopy:
		return s.Copy(ctx), nil
	case domain.ChangeOperationCut:
		return s.Cut(ctx), nil
	case domain.ChangeOperationPaste:
		return s.PasteInto(ctx, op.Day), nil
	case domain.ChangeOperationFolderAdd:
		return s.AddSelectionToFolder(ctx), nil
	case domain.ChangeOperationFolderRemove:
		return s.RemoveFromFolder(ctx, op.Task), nil
	case domain.ChangeOperationDragBegin:
		_, out := s.BeginDrag(ctx, op.Task)
		return out, nil
	case domain.ChangeOperationDrop:
		return s.DropOnBucket(ctx, op.Day), nil
	case domain.ChangeOperationDropFolder:
		return s.DropOnFolder(ctx), nil
	case domain.ChangeOperationDragCancel:
		return s.CancelDrag(ctx), nil
	case domain.ChangeOperationEditBegin:
		_, out := s.BeginEdit(ctx, op.Task)
		return out, nil
	case domain.ChangeOperationEditField:
		return s.UpdateFormField(ctx, op.Field, op.Value), nil
	case domain.ChangeOperationEditCommit:
		return s.CommitEdit(ctx), nil
	case domain.ChangeOperationEditCancel:
		return s.CancelEdit(ctx), nil
	default:
		return Outcome{Op: op.Op, Version: s.version}, fmt.Errorf("%q: %w", op.Op, ErrUnknownOp)
	}
}

// Replay applies every step in order and stops at the first unknown operation.
func (s *Store) Replay(ctx context.Context, script Script) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(script.Steps))
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		out, err := s.Apply(ctx, step)
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
