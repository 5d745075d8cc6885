package app

import (
	"slices"
	"time"

	"github.com/hylla/weekplan/internal/domain"
)

// SnapshotFormat tags exported snapshots.
const SnapshotFormat = "weekplan.snapshot.v1"

// DayView is one bucket resolved against the task table.
type DayView struct {
	Name   domain.Day    `json:"name"`
	Tasks  []domain.Task `json:"tasks"`
	Points int           `json:"points"`
}

// ClipboardView is the clipboard resolved against the task table.
type ClipboardView struct {
	Mode  domain.ClipboardMode `json:"mode"`
	Tasks []domain.Task        `json:"tasks"`
}

// DragView describes the pending drag payload.
type DragView struct {
	Kind    domain.DragKind `json:"kind"`
	TaskIDs []int           `json:"task_ids"`
}

// Snapshot is an immutable copy of the whole store state at one version.
type Snapshot struct {
	Version      uint64             `json:"version"`
	Days         []DayView          `json:"days"`
	Folder       []domain.Task      `json:"folder"`
	FolderPoints int                `json:"folder_points"`
	Selection    []domain.Task      `json:"selection"`
	Clipboard    ClipboardView      `json:"clipboard"`
	Drag         *DragView          `json:"drag,omitempty"`
	Edit         *domain.FormBuffer `json:"edit,omitempty"`
}

// Export wraps a snapshot for the export and replay commands.
type Export struct {
	Format     string    `json:"format"`
	SessionID  string    `json:"session_id"`
	ExportedAt time.Time `json:"exported_at"`
	Board      Snapshot  `json:"board"`
}

// Snapshot copies the current state.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Version:   s.version,
		Days:      make([]DayView, 0, len(s.days)),
		Folder:    s.resolve(s.folder),
		Selection: s.resolve(s.selection),
		Clipboard: ClipboardView{
			Mode:  s.clipMode,
			Tasks: s.resolve(s.clipboard),
		},
	}
	for _, day := range s.days {
		tasks := s.resolve(s.buckets[day])
		snap.Days = append(snap.Days, DayView{
			Name:   day,
			Tasks:  tasks,
			Points: domain.SumPoints(tasks),
		})
	}
	snap.FolderPoints = domain.SumPoints(snap.Folder)
	if s.drag != nil {
		snap.Drag = &DragView{
			Kind:    domain.PayloadKind(s.drag),
			TaskIDs: domain.PayloadTaskIDs(s.drag),
		}
	}
	if s.edit != nil {
		buf := *s.edit
		snap.Edit = &buf
	}
	return snap
}

// ExportSnapshot stamps the current snapshot for output.
func (s *Store) ExportSnapshot() Export {
	return Export{
		Format:     SnapshotFormat,
		SessionID:  s.sessionID,
		ExportedAt: s.clock().UTC(),
		Board:      s.Snapshot(),
	}
}

func (s *Store) resolve(ids []int) []domain.Task {
	out := make([]domain.Task, 0, len(ids))
	for _, id := range ids {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task)
		}
	}
	return out
}

// Day returns the view for name.
func (s Snapshot) Day(name domain.Day) (DayView, bool) {
	name = domain.NormalizeDay(name)
	for _, day := range s.Days {
		if day.Name == name {
			return day, true
		}
	}
	return DayView{}, false
}

// Locate finds the day holding id.
func (s Snapshot) Locate(id int) (domain.Task, domain.Day, bool) {
	for _, day := range s.Days {
		for _, task := range day.Tasks {
			if task.ID == id {
				return task, day.Name, true
			}
		}
	}
	return domain.Task{}, "", false
}

// SelectedIDs returns selected ids in selection order.
func (s Snapshot) SelectedIDs() []int {
	return taskIDs(s.Selection)
}

// IsSelected reports whether id is selected.
func (s Snapshot) IsSelected(id int) bool {
	return slices.Contains(s.SelectedIDs(), id)
}

// InFolder reports whether id is referenced from the folder.
func (s Snapshot) InFolder(id int) bool {
	return slices.Contains(taskIDs(s.Folder), id)
}

// TotalPoints sums the points of every task held by a day.
func (s Snapshot) TotalPoints() int {
	total := 0
	for _, day := range s.Days {
		total += day.Points
	}
	return total
}

func taskIDs(tasks []domain.Task) []int {
	out := make([]int, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.ID)
	}
	return out
}
