package app

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/hylla/weekplan/internal/domain"
)

type fakeRecorder struct {
	events []domain.ChangeEvent
	err    error
}

func (f *fakeRecorder) RecordChange(_ context.Context, event domain.ChangeEvent) error {
	if f.err != nil {
		return f.err
	}
	event.ID = int64(len(f.events) + 1)
	f.events = append(f.events, event)
	return nil
}

func newTestStore(t *testing.T, seed []Placement, opts ...Option) *Store {
	t.Helper()
	s, err := NewStore(nil, seed, opts...)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return s
}

func mustCheck(t *testing.T, s *Store) {
	t.Helper()
	if err := s.checkInvariants(); err != nil {
		t.Fatalf("checkInvariants() error = %v", err)
	}
}

func dayIDs(t *testing.T, s *Store, day domain.Day) []int {
	t.Helper()
	view, ok := s.Snapshot().Day(day)
	if !ok {
		t.Fatalf("day %q not found", day)
	}
	return taskIDs(view.Tasks)
}

func seedMonday() []Placement {
	return []Placement{
		{Day: "Monday", Task: domain.Task{ID: 1, Title: "T1", Description: "first", Points: 2}},
	}
}

func seedWeek() []Placement {
	return []Placement{
		{Day: "Monday", Task: domain.Task{ID: 1, Title: "T1", Points: 2}},
		{Day: "Monday", Task: domain.Task{ID: 2, Title: "T2", Points: 3}},
		{Day: "Tuesday", Task: domain.Task{ID: 3, Title: "T3", Points: 5}},
		{Day: "Wednesday", Task: domain.Task{ID: 4, Title: "T4", Points: 1}, InFolder: true},
	}
}

func TestNewStoreValidatesSeed(t *testing.T) {
	if _, err := NewStore([]domain.Day{"Mon"}, nil); !errors.Is(err, domain.ErrInvalidWeek) {
		t.Fatalf("expected ErrInvalidWeek, got %v", err)
	}
	dup := []Placement{
		{Day: "Monday", Task: domain.Task{ID: 1, Title: "a"}},
		{Day: "Tuesday", Task: domain.Task{ID: 1, Title: "b"}},
	}
	if _, err := NewStore(nil, dup); !errors.Is(err, ErrDuplicateSeed) {
		t.Fatalf("expected ErrDuplicateSeed, got %v", err)
	}
	badDay := []Placement{{Day: "Someday", Task: domain.Task{ID: 1, Title: "a"}}}
	if _, err := NewStore(nil, badDay); !errors.Is(err, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %v", err)
	}
	badTask := []Placement{{Day: "Monday", Task: domain.Task{ID: 1, Title: "a", Points: -2}}}
	if _, err := NewStore(nil, badTask); !errors.Is(err, domain.ErrInvalidPoints) {
		t.Fatalf("expected ErrInvalidPoints, got %v", err)
	}

	s := newTestStore(t, seedWeek())
	snap := s.Snapshot()
	if len(snap.Days) != 7 || snap.Days[0].Name != "Monday" || snap.Days[6].Name != "Sunday" {
		t.Fatalf("unexpected days %#v", snap.Days)
	}
	if snap.Days[0].Points != 5 || snap.FolderPoints != 1 || snap.TotalPoints() != 11 {
		t.Fatalf("unexpected point totals %d %d %d", snap.Days[0].Points, snap.FolderPoints, snap.TotalPoints())
	}
	if snap.Version != 0 {
		t.Fatalf("expected version 0, got %d", snap.Version)
	}
	mustCheck(t, s)
}

func TestSelectSingleToggleAndMulti(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	s.Select(ctx, 1, false)
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{1}) {
		t.Fatalf("expected selection [1], got %v", got)
	}
	s.Select(ctx, 1, false)
	if got := s.Snapshot().SelectedIDs(); len(got) != 0 {
		t.Fatalf("expected click-to-deselect, got %v", got)
	}

	s.Select(ctx, 1, true)
	s.Select(ctx, 3, true)
	s.Select(ctx, 2, true)
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{1, 3, 2}) {
		t.Fatalf("expected multi selection [1 3 2], got %v", got)
	}
	s.Select(ctx, 3, true)
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{1, 2}) {
		t.Fatalf("expected toggle off of 3, got %v", got)
	}
	s.Select(ctx, 4, false)
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{4}) {
		t.Fatalf("expected single select to replace multi selection, got %v", got)
	}

	out := s.Select(ctx, 99, false)
	if out.Applied || !errors.Is(out.Reason, ErrUnknownTask) {
		t.Fatalf("expected unknown task no-op, got %#v", out)
	}
	mustCheck(t, s)
}

func TestCutPasteScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedMonday())

	s.Select(ctx, 1, false)
	out := s.Cut(ctx)
	if !out.Applied {
		t.Fatalf("Cut() outcome = %#v", out)
	}
	snap := s.Snapshot()
	if snap.Clipboard.Mode != domain.ClipboardCut || len(snap.Clipboard.Tasks) != 1 || snap.Clipboard.Tasks[0].ID != 1 {
		t.Fatalf("unexpected clipboard %#v", snap.Clipboard)
	}
	if len(dayIDs(t, s, "Monday")) != 0 || len(snap.Selection) != 0 {
		t.Fatal("expected Monday empty and selection cleared after cut")
	}
	if _, _, ok := snap.Locate(1); ok {
		t.Fatal("expected cut task absent from every day")
	}
	mustCheck(t, s)

	out = s.PasteInto(ctx, "Tuesday")
	if !out.Applied || !slices.Equal(out.TaskIDs, []int{1}) {
		t.Fatalf("PasteInto() outcome = %#v", out)
	}
	snap = s.Snapshot()
	task, day, ok := snap.Locate(1)
	if !ok || day != "Tuesday" || task.Points != 2 || task.Title != "T1" {
		t.Fatalf("expected T1 unchanged in Tuesday, got %#v in %q", task, day)
	}
	if len(snap.Clipboard.Tasks) != 0 || snap.Clipboard.Mode != domain.ClipboardCopy {
		t.Fatalf("expected empty clipboard reset to copy mode, got %#v", snap.Clipboard)
	}
	if len(dayIDs(t, s, "Monday")) != 0 {
		t.Fatal("expected Monday to stay empty")
	}

	out = s.PasteInto(ctx, "Wednesday")
	if out.Applied || !errors.Is(out.Reason, ErrEmptyClipboard) {
		t.Fatalf("expected second paste to be a no-op, got %#v", out)
	}
	mustCheck(t, s)
}

func TestCopyPasteScenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedMonday())

	s.Select(ctx, 1, false)
	s.Copy(ctx)
	snap := s.Snapshot()
	if snap.Clipboard.Mode != domain.ClipboardCopy || len(snap.Clipboard.Tasks) != 1 {
		t.Fatalf("unexpected clipboard %#v", snap.Clipboard)
	}

	first := s.PasteInto(ctx, "Tuesday")
	second := s.PasteInto(ctx, "Tuesday")
	if len(first.TaskIDs) != 1 || len(second.TaskIDs) != 1 {
		t.Fatalf("unexpected paste outcomes %#v %#v", first, second)
	}
	if first.TaskIDs[0] <= 1 || second.TaskIDs[0] <= first.TaskIDs[0] {
		t.Fatalf("expected increasing fresh ids, got %d then %d", first.TaskIDs[0], second.TaskIDs[0])
	}
	tuesday, _ := s.Snapshot().Day("Tuesday")
	if len(tuesday.Tasks) != 2 || tuesday.Points != 4 {
		t.Fatalf("expected two duplicates worth 4 points, got %#v", tuesday)
	}
	for _, task := range tuesday.Tasks {
		if task.Title != "T1" || task.Description != "first" || task.Points != 2 {
			t.Fatalf("unexpected duplicate content %#v", task)
		}
	}
	if !slices.Equal(dayIDs(t, s, "Monday"), []int{1}) {
		t.Fatal("expected original to stay in Monday")
	}
	if got := s.Snapshot().Clipboard; len(got.Tasks) != 1 || got.Tasks[0].ID != 1 {
		t.Fatalf("expected clipboard kept for repeat paste, got %#v", got)
	}
	third := s.PasteInto(ctx, "Friday")
	if !third.Applied || len(dayIDs(t, s, "Friday")) != 1 {
		t.Fatalf("expected third paste to work, got %#v", third)
	}
	mustCheck(t, s)
}

func TestCopyAndCutRequireSelection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())
	before := s.Version()
	if out := s.Copy(ctx); !errors.Is(out.Reason, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %#v", out)
	}
	if out := s.Cut(ctx); !errors.Is(out.Reason, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %#v", out)
	}
	if out := s.PasteInto(ctx, "Monday"); !errors.Is(out.Reason, ErrEmptyClipboard) {
		t.Fatalf("expected ErrEmptyClipboard, got %#v", out)
	}
	if out := s.PasteInto(ctx, "Noday"); !errors.Is(out.Reason, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %#v", out)
	}
	if s.Version() != before {
		t.Fatalf("expected no-ops to keep version %d, got %d", before, s.Version())
	}
}

func TestCopyAllocatesAboveDetachedIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	s.Select(ctx, 4, false)
	s.Cut(ctx)
	s.Select(ctx, 1, false)
	s.Copy(ctx)
	out := s.PasteInto(ctx, "Sunday")
	if len(out.TaskIDs) != 1 || out.TaskIDs[0] != 5 {
		t.Fatalf("expected id 5 above detached task 4, got %v", out.TaskIDs)
	}
	if !s.Snapshot().InFolder(4) {
		t.Fatal("expected cut task to stay in the folder")
	}
	mustCheck(t, s)
}

func TestBeginDragPayloads(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	payload, out := s.BeginDrag(ctx, 3)
	if !out.Applied {
		t.Fatalf("BeginDrag() outcome = %#v", out)
	}
	if single, ok := payload.(domain.SingleDrag); !ok || single.TaskID != 3 {
		t.Fatalf("expected single payload for 3, got %#v", payload)
	}
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{3}) {
		t.Fatalf("expected selection collapsed to [3], got %v", got)
	}

	s.Select(ctx, 1, true)
	s.Select(ctx, 2, true)
	payload, _ = s.BeginDrag(ctx, 2)
	multi, ok := payload.(domain.MultiDrag)
	if !ok || !slices.Equal(multi.TaskIDs, []int{3, 1, 2}) {
		t.Fatalf("expected multi payload [3 1 2], got %#v", payload)
	}
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("expected selection unchanged, got %v", got)
	}

	payload, _ = s.BeginDrag(ctx, 4)
	if _, ok := payload.(domain.SingleDrag); !ok {
		t.Fatalf("expected unselected drag to be single, got %#v", payload)
	}
	if got := s.Snapshot().SelectedIDs(); !slices.Equal(got, []int{4}) {
		t.Fatalf("expected selection collapsed to [4], got %v", got)
	}
	if drag := s.Snapshot().Drag; drag == nil || drag.Kind != domain.DragKindSingle {
		t.Fatalf("expected pending single drag, got %#v", drag)
	}

	if p, out := s.BeginDrag(ctx, 42); p != nil || !errors.Is(out.Reason, ErrUnknownTask) {
		t.Fatalf("expected unknown task no-op, got %#v %#v", p, out)
	}
}

func TestDropOnBucketMovesAndSkipsOwnDay(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	s.Select(ctx, 1, true)
	s.Select(ctx, 3, true)
	s.BeginDrag(ctx, 1)
	out := s.DropOnBucket(ctx, "Tuesday")
	if !out.Applied || !slices.Equal(out.TaskIDs, []int{1}) {
		t.Fatalf("DropOnBucket() outcome = %#v", out)
	}
	if got := dayIDs(t, s, "Tuesday"); !slices.Equal(got, []int{3, 1}) {
		t.Fatalf("expected T3 untouched and T1 appended, got %v", got)
	}
	if got := dayIDs(t, s, "Monday"); !slices.Equal(got, []int{2}) {
		t.Fatalf("expected T1 removed from Monday, got %v", got)
	}
	snap := s.Snapshot()
	if snap.Drag != nil {
		t.Fatal("expected drag payload consumed")
	}
	if !slices.Equal(snap.SelectedIDs(), []int{1, 3}) {
		t.Fatalf("expected selection kept after drop, got %v", snap.SelectedIDs())
	}
	if out := s.DropOnBucket(ctx, "Friday"); !errors.Is(out.Reason, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %#v", out)
	}
	mustCheck(t, s)
}

func TestDropOnOwnBucketIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())
	before := s.Snapshot()

	s.Select(ctx, 1, true)
	s.Select(ctx, 2, true)
	s.BeginDrag(ctx, 2)
	out := s.DropOnBucket(ctx, "Monday")
	if len(out.TaskIDs) != 0 {
		t.Fatalf("expected nothing moved, got %v", out.TaskIDs)
	}
	after := s.Snapshot()
	for i := range before.Days {
		if !slices.Equal(taskIDs(before.Days[i].Tasks), taskIDs(after.Days[i].Tasks)) {
			t.Fatalf("day %q changed: %v -> %v", before.Days[i].Name, taskIDs(before.Days[i].Tasks), taskIDs(after.Days[i].Tasks))
		}
	}
	if after.Drag != nil {
		t.Fatal("expected payload cleared by no-op drop")
	}
}

func TestDropOnUnknownDayConsumesPayload(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())
	s.BeginDrag(ctx, 1)
	out := s.DropOnBucket(ctx, "Caturday")
	if out.Applied || !errors.Is(out.Reason, ErrUnknownDay) {
		t.Fatalf("expected ErrUnknownDay, got %#v", out)
	}
	if s.Snapshot().Drag != nil {
		t.Fatal("expected payload consumed")
	}
	if !slices.Equal(dayIDs(t, s, "Monday"), []int{1, 2}) {
		t.Fatal("expected Monday unchanged")
	}
}

func TestFolderAddDropAndRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	s.Select(ctx, 1, true)
	s.Select(ctx, 4, true)
	out := s.AddSelectionToFolder(ctx)
	if !slices.Equal(out.TaskIDs, []int{1}) {
		t.Fatalf("expected only T1 added, got %v", out.TaskIDs)
	}
	if len(s.Snapshot().Selection) != 0 {
		t.Fatal("expected selection cleared")
	}

	s.Select(ctx, 1, true)
	s.Select(ctx, 4, true)
	out = s.AddSelectionToFolder(ctx)
	if len(out.TaskIDs) != 0 {
		t.Fatalf("expected idempotent second add, got %v", out.TaskIDs)
	}
	if got := taskIDs(s.Snapshot().Folder); !slices.Equal(got, []int{4, 1}) {
		t.Fatalf("unexpected folder %v", got)
	}
	if out := s.AddSelectionToFolder(ctx); !errors.Is(out.Reason, ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %#v", out)
	}

	s.BeginDrag(ctx, 3)
	out = s.DropOnFolder(ctx)
	if !slices.Equal(out.TaskIDs, []int{3}) {
		t.Fatalf("expected T3 dropped into folder, got %v", out.TaskIDs)
	}
	if !slices.Equal(dayIDs(t, s, "Tuesday"), []int{3}) {
		t.Fatal("expected folder drop to keep day membership")
	}
	if s.Snapshot().Drag != nil {
		t.Fatal("expected payload consumed")
	}
	if out := s.DropOnFolder(ctx); !errors.Is(out.Reason, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %#v", out)
	}

	s.RemoveFromFolder(ctx, 4)
	if s.Snapshot().InFolder(4) {
		t.Fatal("expected T4 removed from folder")
	}
	if !slices.Equal(dayIDs(t, s, "Wednesday"), []int{4}) {
		t.Fatal("expected T4 kept in Wednesday")
	}
	if out := s.RemoveFromFolder(ctx, 4); !errors.Is(out.Reason, ErrNotInFolder) {
		t.Fatalf("expected ErrNotInFolder, got %#v", out)
	}
	mustCheck(t, s)
}

func TestCancelDrag(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())
	if out := s.CancelDrag(ctx); !errors.Is(out.Reason, ErrNoDrag) {
		t.Fatalf("expected ErrNoDrag, got %#v", out)
	}
	s.BeginDrag(ctx, 2)
	if out := s.CancelDrag(ctx); !out.Applied || !slices.Equal(out.TaskIDs, []int{2}) {
		t.Fatalf("CancelDrag() outcome = %#v", out)
	}
	if s.Drag() != nil {
		t.Fatal("expected payload discarded")
	}
}

func TestEditPropagatesEverywhere(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	s.Select(ctx, 4, false)
	s.Copy(ctx)
	buf, out := s.BeginEdit(ctx, 4)
	if !out.Applied || buf.TaskID != 4 || buf.Title != "T4" || buf.Points != 1 {
		t.Fatalf("BeginEdit() = %#v, %#v", buf, out)
	}
	s.UpdateFormField(ctx, domain.FormFieldTitle, "Invoice ACME")
	s.UpdateFormField(ctx, domain.FormFieldDescription, "march hours")
	s.UpdateFormField(ctx, domain.FormFieldPoints, "8")
	if pending, ok := s.Edit(); !ok || pending.Points != 8 {
		t.Fatalf("expected pending edit with 8 points, got %#v", pending)
	}
	if task, _ := s.Task(4); task.Title != "T4" {
		t.Fatal("expected task untouched before commit")
	}
	if out := s.CommitEdit(ctx); !out.Applied {
		t.Fatalf("CommitEdit() outcome = %#v", out)
	}

	want := domain.Task{ID: 4, Title: "Invoice ACME", Description: "march hours", Points: 8}
	snap := s.Snapshot()
	if task, day, _ := snap.Locate(4); task != want || day != "Wednesday" {
		t.Fatalf("unexpected day entry %#v in %q", task, day)
	}
	if snap.Selection[0] != want {
		t.Fatalf("unexpected selection entry %#v", snap.Selection[0])
	}
	if snap.Folder[0] != want {
		t.Fatalf("unexpected folder entry %#v", snap.Folder[0])
	}
	if snap.Clipboard.Tasks[0] != want {
		t.Fatalf("unexpected clipboard entry %#v", snap.Clipboard.Tasks[0])
	}
	if snap.FolderPoints != 8 {
		t.Fatalf("expected folder points 8, got %d", snap.FolderPoints)
	}
	if snap.Edit != nil {
		t.Fatal("expected edit surface closed")
	}
	mustCheck(t, s)
}

func TestEditFallbacks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())

	if out := s.UpdateFormField(ctx, domain.FormFieldTitle, "x"); !errors.Is(out.Reason, ErrNoEdit) {
		t.Fatalf("expected ErrNoEdit, got %#v", out)
	}
	if out := s.CommitEdit(ctx); !errors.Is(out.Reason, ErrNoEdit) {
		t.Fatalf("expected ErrNoEdit, got %#v", out)
	}
	if out := s.CancelEdit(ctx); !errors.Is(out.Reason, ErrNoEdit) {
		t.Fatalf("expected ErrNoEdit, got %#v", out)
	}

	s.BeginEdit(ctx, 2)
	if out := s.UpdateFormField(ctx, "priority", "high"); !errors.Is(out.Reason, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %#v", out)
	}
	s.UpdateFormField(ctx, domain.FormFieldPoints, "lots")
	s.CommitEdit(ctx)
	if task, _ := s.Task(2); task.Points != 0 || task.Title != "T2" {
		t.Fatalf("expected points coerced to 0, got %#v", task)
	}

	s.BeginEdit(ctx, 3)
	s.UpdateFormField(ctx, domain.FormFieldTitle, "discard me")
	s.CancelEdit(ctx)
	if task, _ := s.Task(3); task.Title != "T3" {
		t.Fatalf("expected cancel to keep title, got %q", task.Title)
	}

	s.BeginEdit(ctx, 1)
	s.UpdateFormField(ctx, domain.FormFieldTitle, "after cut")
	s.Select(ctx, 1, false)
	s.Cut(ctx)
	out := s.CommitEdit(ctx)
	if out.Applied || !errors.Is(out.Reason, ErrNotInBucket) {
		t.Fatalf("expected detached commit to be dropped, got %#v", out)
	}
	if task, _ := s.Task(1); task.Title != "T1" {
		t.Fatalf("expected detached task unchanged, got %q", task.Title)
	}
	if _, ok := s.Edit(); ok {
		t.Fatal("expected edit closed")
	}
	if _, out := s.BeginEdit(ctx, 1); !errors.Is(out.Reason, ErrNotInBucket) {
		t.Fatalf("expected ErrNotInBucket for detached task, got %#v", out)
	}
}

func TestRecorderAndSubscribers(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	s := newTestStore(t, seedWeek(), WithRecorder(rec), WithSessionID("sess-1"), WithClock(func() time.Time { return now }))

	var versions []uint64
	cancel := s.Subscribe(func(snap Snapshot) {
		versions = append(versions, snap.Version)
	})
	s.Select(ctx, 1, false)
	s.Copy(ctx)
	s.Copy(context.Background())
	s.PasteInto(ctx, "Friday")
	s.RemoveFromFolder(ctx, 99)
	cancel()
	s.Select(ctx, 2, false)

	if !slices.Equal(versions, []uint64{1, 2, 3, 4}) {
		t.Fatalf("unexpected notified versions %v", versions)
	}
	if len(rec.events) != 5 {
		t.Fatalf("expected 5 recorded events, got %d", len(rec.events))
	}
	paste := rec.events[3]
	if paste.Operation != domain.ChangeOperationPaste || paste.Day != "Friday" || paste.SessionID != "sess-1" {
		t.Fatalf("unexpected paste event %#v", paste)
	}
	if paste.Metadata["mode"] != "copy" || !paste.OccurredAt.Equal(now) {
		t.Fatalf("unexpected paste metadata %#v", paste)
	}

	rec.err = errors.New("disk full")
	if out := s.Select(ctx, 3, false); !out.Applied {
		t.Fatalf("expected recorder failure to leave outcome applied, got %#v", out)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, seedWeek())
	s.Select(ctx, 1, true)
	s.Select(ctx, 2, true)
	s.BeginDrag(ctx, 1)

	snap := s.Snapshot()
	snap.Days[0].Tasks[0].Title = "mutated"
	snap.Drag.TaskIDs[0] = 99
	snap.Selection[0].Points = 100

	fresh := s.Snapshot()
	if fresh.Days[0].Tasks[0].Title != "T1" || fresh.Drag.TaskIDs[0] != 1 || fresh.Selection[0].Points != 2 {
		t.Fatalf("expected snapshot copies to be independent, got %#v", fresh)
	}
	if multi, ok := s.Drag().(domain.MultiDrag); ok {
		multi.TaskIDs[0] = 77
	}
	if s.Snapshot().Drag.TaskIDs[0] != 1 {
		t.Fatal("expected Drag() to return a copy")
	}
}
