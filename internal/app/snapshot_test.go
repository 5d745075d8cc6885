package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hylla/weekplan/internal/domain"
)

func TestExportSnapshotJSON(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)
	s := newTestStore(t, seedWeek(), WithSessionID("export-1"), WithClock(func() time.Time { return now }))
	ctx := context.Background()
	s.Select(ctx, 2, false)
	s.BeginEdit(ctx, 2)

	export := s.ExportSnapshot()
	if export.Format != SnapshotFormat || export.SessionID != "export-1" || !export.ExportedAt.Equal(now) {
		t.Fatalf("unexpected export header %#v", export)
	}
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	var decoded struct {
		Format string `json:"format"`
		Board  struct {
			Version uint64 `json:"version"`
			Days    []struct {
				Name   string `json:"name"`
				Points int    `json:"points"`
			} `json:"days"`
			Edit *domain.FormBuffer `json:"edit"`
			Drag *DragView          `json:"drag"`
		} `json:"board"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded.Board.Version != 2 || len(decoded.Board.Days) != 7 {
		t.Fatalf("unexpected board %#v", decoded.Board)
	}
	if decoded.Board.Days[1].Name != "Tuesday" || decoded.Board.Days[1].Points != 5 {
		t.Fatalf("unexpected Tuesday %#v", decoded.Board.Days[1])
	}
	if decoded.Board.Edit == nil || decoded.Board.Edit.TaskID != 2 {
		t.Fatalf("expected open edit for task 2, got %#v", decoded.Board.Edit)
	}
	if decoded.Board.Drag != nil {
		t.Fatalf("expected drag omitted, got %#v", decoded.Board.Drag)
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := newTestStore(t, seedWeek())
	snap := s.Snapshot()
	if _, ok := snap.Day(" Sunday "); !ok {
		t.Fatal("expected Sunday view")
	}
	if _, ok := snap.Day("Funday"); ok {
		t.Fatal("expected unknown day lookup to fail")
	}
	task, day, ok := snap.Locate(3)
	if !ok || day != "Tuesday" || task.Title != "T3" {
		t.Fatalf("Locate(3) = %#v %q %v", task, day, ok)
	}
	if !snap.InFolder(4) || snap.InFolder(1) || snap.IsSelected(1) {
		t.Fatal("unexpected folder or selection membership")
	}
}
