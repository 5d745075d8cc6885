package domain

import "time"

// ChangeOperation describes a recorded board operation.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationSelect       ChangeOperation = "select"
	ChangeOperationCopy         ChangeOperation = "copy"
	ChangeOperationCut          ChangeOperation = "cut"
	ChangeOperationPaste        ChangeOperation = "paste"
	ChangeOperationFolderAdd    ChangeOperation = "folder_add"
	ChangeOperationFolderRemove ChangeOperation = "folder_remove"
	ChangeOperationDragBegin    ChangeOperation = "drag_begin"
	ChangeOperationDrop         ChangeOperation = "drop"
	ChangeOperationDropFolder   ChangeOperation = "drop_folder"
	ChangeOperationDragCancel   ChangeOperation = "drag_cancel"
	ChangeOperationEditBegin    ChangeOperation = "edit_begin"
	ChangeOperationEditField    ChangeOperation = "edit_field"
	ChangeOperationEditCommit   ChangeOperation = "edit_commit"
	ChangeOperationEditCancel   ChangeOperation = "edit_cancel"
)

// ChangeEvent represents a single activity-log entry for an applied operation.
type ChangeEvent struct {
	ID         int64             `json:"id"`
	SessionID  string            `json:"session_id"`
	Operation  ChangeOperation   `json:"operation"`
	TaskIDs    []int             `json:"task_ids"`
	Day        Day               `json:"day,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
