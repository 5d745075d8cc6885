package app

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	charmLog "github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/hylla/weekplan/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

// Placement seeds one task into a day, optionally also referencing it from the folder.
type Placement struct {
	Day      domain.Day
	Task     domain.Task
	InFolder bool
}

// Option configures a Store.
type Option func(*Store)

// WithRecorder reports every state change to r.
func WithRecorder(r ActivityRecorder) Option {
	return func(s *Store) {
		s.recorder = r
	}
}

// WithLogger sets the store logger.
func WithLogger(l *charmLog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock sets the clock used to stamp activity events.
func WithClock(c Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

// WithSessionID overrides the generated activity session id.
func WithSessionID(id string) Option {
	return func(s *Store) {
		s.sessionID = strings.TrimSpace(id)
	}
}

type subscription struct {
	id int
	fn func(Snapshot)
}

// Store is the task-collection state machine: seven day buckets, the billing
// folder, the selection, the clipboard, a pending drag and an open edit.
//
// Task content lives only in the task table. Buckets, selection, folder,
// clipboard and drag hold ids resolved against the table when a Snapshot is
// built. Store is not safe for concurrent use.
type Store struct {
	days    []domain.Day
	tasks   map[int]domain.Task
	buckets map[domain.Day][]int
	owner   map[int]domain.Day
	maxID   int

	selection []int
	folder    []int
	clipboard []int
	clipMode  domain.ClipboardMode
	drag      domain.DragPayload
	edit      *domain.FormBuffer

	version     uint64
	subscribers []subscription
	nextSubID   int

	recorder  ActivityRecorder
	logger    *charmLog.Logger
	clock     Clock
	sessionID string
}

// NewStore builds a store over week (the default week when empty) seeded with placements.
func NewStore(week []domain.Day, seed []Placement, opts ...Option) (*Store, error) {
	if len(week) == 0 {
		week = domain.DefaultWeek()
	}
	if err := domain.ValidateWeek(week); err != nil {
		return nil, err
	}
	s := &Store{
		days:     domain.NormalizeWeek(week),
		tasks:    map[int]domain.Task{},
		buckets:  map[domain.Day][]int{},
		owner:    map[int]domain.Day{},
		clipMode: domain.ClipboardCopy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.logger == nil {
		s.logger = charmLog.New(io.Discard)
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.sessionID == "" {
		s.sessionID = uuid.NewString()
	}
	for _, day := range s.days {
		s.buckets[day] = nil
	}

	for _, p := range seed {
		task, err := domain.NewTask(domain.TaskInput{
			ID:          p.Task.ID,
			Title:       p.Task.Title,
			Description: p.Task.Description,
			Points:      p.Task.Points,
		})
		if err != nil {
			return nil, fmt.Errorf("seed task %d: %w", p.Task.ID, err)
		}
		day := domain.NormalizeDay(p.Day)
		if !domain.ContainsDay(s.days, day) {
			return nil, fmt.Errorf("seed task %d day %q: %w", task.ID, day, ErrUnknownDay)
		}
		if _, exists := s.tasks[task.ID]; exists {
			return nil, fmt.Errorf("seed task %d: %w", task.ID, ErrDuplicateSeed)
		}
		s.insertTask(task)
		s.attach(task.ID, day)
		if p.InFolder {
			s.folder = append(s.folder, task.ID)
		}
	}
	return s, nil
}

// Days returns the bucket names in display order.
func (s *Store) Days() []domain.Day {
	return slices.Clone(s.days)
}

// SessionID returns the id stamped on recorded activity.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Version returns the number of state changes applied so far.
func (s *Store) Version() uint64 {
	return s.version
}

// Task resolves one task from the task table.
func (s *Store) Task(id int) (domain.Task, bool) {
	task, ok := s.tasks[id]
	return task, ok
}

// Owner reports which day currently holds id.
func (s *Store) Owner(id int) (domain.Day, bool) {
	day, ok := s.owner[id]
	return day, ok
}

// Subscribe registers fn to receive a snapshot after every state change.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	if fn == nil {
		return func() {}
	}
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	return func() {
		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscription) bool {
			return sub.id == id
		})
	}
}

// Select toggles id in the selection when multi is set. Otherwise it
// single-selects id, or clears the selection when id is already the only member.
func (s *Store) Select(ctx context.Context, id int, multi bool) Outcome {
	op := domain.ChangeOperationSelect
	if reason := s.requireOwned(id); reason != nil {
		return s.skip(op, reason)
	}
	switch {
	case multi:
		if idx := slices.Index(s.selection, id); idx >= 0 {
			s.selection = slices.Delete(s.selection, idx, idx+1)
		} else {
			s.selection = append(s.selection, id)
		}
	case len(s.selection) == 1 && s.selection[0] == id:
		s.selection = nil
	default:
		s.selection = []int{id}
	}
	return s.commit(ctx, change{
		op:   op,
		ids:  slices.Clone(s.selection),
		meta: map[string]string{"task": strconv.Itoa(id), "multi": strconv.FormatBool(multi)},
	})
}

// Copy places the selection on the clipboard in copy mode.
func (s *Store) Copy(ctx context.Context) Outcome {
	op := domain.ChangeOperationCopy
	if len(s.selection) == 0 {
		return s.skip(op, ErrEmptySelection)
	}
	s.clipboard = slices.Clone(s.selection)
	s.clipMode = domain.ClipboardCopy
	return s.commit(ctx, change{op: op, ids: slices.Clone(s.clipboard)})
}

// Cut detaches the selected tasks from their days and holds them on the
// clipboard in cut mode until pasted. The selection is cleared.
func (s *Store) Cut(ctx context.Context) Outcome {
	op := domain.ChangeOperationCut
	if len(s.selection) == 0 {
		return s.skip(op, ErrEmptySelection)
	}
	ids := slices.Clone(s.selection)
	for _, id := range ids {
		s.detach(id)
	}
	s.clipboard = ids
	s.clipMode = domain.ClipboardCut
	s.selection = nil
	return s.commit(ctx, change{op: op, ids: slices.Clone(ids)})
}

// PasteInto appends the clipboard to day. Cut mode moves the original tasks
// once and empties the clipboard. Copy mode appends fresh duplicates and keeps
// the clipboard for further pastes.
func (s *Store) PasteInto(ctx context.Context, day domain.Day) Outcome {
	op := domain.ChangeOperationPaste
	day = domain.NormalizeDay(day)
	if !domain.ContainsDay(s.days, day) {
		return s.skip(op, ErrUnknownDay)
	}
	if len(s.clipboard) == 0 {
		return s.skip(op, ErrEmptyClipboard)
	}

	mode := s.clipMode
	pasted := make([]int, 0, len(s.clipboard))
	switch mode {
	case domain.ClipboardCut:
		for _, id := range s.clipboard {
			if _, ok := s.tasks[id]; !ok {
				continue
			}
			s.detach(id)
			s.attach(id, day)
			pasted = append(pasted, id)
		}
		s.clipboard = nil
		s.clipMode = domain.ClipboardCopy
	default:
		for _, id := range s.clipboard {
			src, ok := s.tasks[id]
			if !ok {
				continue
			}
			dup := src.Duplicate(s.nextID())
			s.insertTask(dup)
			s.attach(dup.ID, day)
			pasted = append(pasted, dup.ID)
		}
	}
	return s.commit(ctx, change{
		op:   op,
		ids:  pasted,
		day:  day,
		meta: map[string]string{"mode": string(mode)},
	})
}

// AddSelectionToFolder references every selected task from the folder once,
// then clears the selection.
func (s *Store) AddSelectionToFolder(ctx context.Context) Outcome {
	op := domain.ChangeOperationFolderAdd
	if len(s.selection) == 0 {
		return s.skip(op, ErrEmptySelection)
	}
	added := s.addToFolder(s.selection)
	s.selection = nil
	return s.commit(ctx, change{op: op, ids: added})
}

// RemoveFromFolder drops id from the folder. Day membership is untouched.
func (s *Store) RemoveFromFolder(ctx context.Context, id int) Outcome {
	op := domain.ChangeOperationFolderRemove
	idx := slices.Index(s.folder, id)
	if idx < 0 {
		return s.skip(op, ErrNotInFolder)
	}
	s.folder = slices.Delete(s.folder, idx, idx+1)
	return s.commit(ctx, change{op: op, ids: []int{id}})
}

// BeginDrag starts a drag from id. Dragging a member of a multi-selection
// carries the whole selection. Any other drag carries id alone and collapses
// the selection to it. A previous pending payload is replaced.
func (s *Store) BeginDrag(ctx context.Context, id int) (domain.DragPayload, Outcome) {
	op := domain.ChangeOperationDragBegin
	if reason := s.requireOwned(id); reason != nil {
		return nil, s.skip(op, reason)
	}
	var payload domain.DragPayload
	if len(s.selection) > 1 && slices.Contains(s.selection, id) {
		payload = domain.MultiDrag{TaskIDs: slices.Clone(s.selection)}
	} else {
		payload = domain.SingleDrag{TaskID: id}
		s.selection = []int{id}
	}
	s.drag = payload
	out := s.commit(ctx, change{
		op:   op,
		ids:  domain.PayloadTaskIDs(payload),
		meta: map[string]string{"kind": string(domain.PayloadKind(payload))},
	})
	return s.Drag(), out
}

// Drag returns a copy of the pending payload, or nil.
func (s *Store) Drag() domain.DragPayload {
	switch payload := s.drag.(type) {
	case domain.MultiDrag:
		return domain.MultiDrag{TaskIDs: slices.Clone(payload.TaskIDs)}
	case domain.SingleDrag:
		return payload
	default:
		return nil
	}
}

// DropOnBucket moves every payload task owned by another day to the end of
// day. Tasks already in day stay where they are. The payload is always consumed.
func (s *Store) DropOnBucket(ctx context.Context, day domain.Day) Outcome {
	op := domain.ChangeOperationDrop
	if s.drag == nil {
		return s.skip(op, ErrNoDrag)
	}
	ids := domain.PayloadTaskIDs(s.drag)
	s.drag = nil

	day = domain.NormalizeDay(day)
	if !domain.ContainsDay(s.days, day) {
		return s.commit(ctx, change{op: op, day: day, reason: ErrUnknownDay})
	}
	moved := make([]int, 0, len(ids))
	for _, id := range ids {
		from, ok := s.owner[id]
		if !ok || from == day {
			continue
		}
		s.detach(id)
		s.attach(id, day)
		moved = append(moved, id)
	}
	return s.commit(ctx, change{op: op, ids: moved, day: day})
}

// DropOnFolder references every payload task from the folder once and
// consumes the payload. Day membership is untouched.
func (s *Store) DropOnFolder(ctx context.Context) Outcome {
	op := domain.ChangeOperationDropFolder
	if s.drag == nil {
		return s.skip(op, ErrNoDrag)
	}
	ids := domain.PayloadTaskIDs(s.drag)
	s.drag = nil
	added := s.addToFolder(ids)
	return s.commit(ctx, change{op: op, ids: added})
}

// CancelDrag discards the pending payload without dropping it.
func (s *Store) CancelDrag(ctx context.Context) Outcome {
	op := domain.ChangeOperationDragCancel
	if s.drag == nil {
		return s.skip(op, ErrNoDrag)
	}
	ids := domain.PayloadTaskIDs(s.drag)
	s.drag = nil
	return s.commit(ctx, change{op: op, ids: ids})
}

// BeginEdit opens a form buffer loaded from the task's current content.
// An edit already in progress is discarded.
func (s *Store) BeginEdit(ctx context.Context, id int) (domain.FormBuffer, Outcome) {
	op := domain.ChangeOperationEditBegin
	if reason := s.requireOwned(id); reason != nil {
		return domain.FormBuffer{}, s.skip(op, reason)
	}
	buf := domain.NewFormBuffer(s.tasks[id])
	s.edit = &buf
	out := s.commit(ctx, change{op: op, ids: []int{id}})
	return buf, out
}

// Edit returns a copy of the open form buffer.
func (s *Store) Edit() (domain.FormBuffer, bool) {
	if s.edit == nil {
		return domain.FormBuffer{}, false
	}
	return *s.edit, true
}

// UpdateFormField stores raw into field of the open form. Points fall back to 0
// when raw is not a non-negative integer.
func (s *Store) UpdateFormField(ctx context.Context, field domain.FormField, raw string) Outcome {
	op := domain.ChangeOperationEditField
	if s.edit == nil {
		return s.skip(op, ErrNoEdit)
	}
	if !s.edit.Set(field, raw) {
		return s.skip(op, ErrUnknownField)
	}
	return s.commit(ctx, change{
		op:   op,
		ids:  []int{s.edit.TaskID},
		meta: map[string]string{"field": string(field)},
	})
}

// CommitEdit writes the form buffer into the task table and closes the form.
// Every day, folder, selection and clipboard view of the task shows the new
// content. A task no longer held by any day is left unchanged.
func (s *Store) CommitEdit(ctx context.Context) Outcome {
	op := domain.ChangeOperationEditCommit
	if s.edit == nil {
		return s.skip(op, ErrNoEdit)
	}
	buf := *s.edit
	s.edit = nil
	if _, owned := s.owner[buf.TaskID]; !owned {
		return s.commit(ctx, change{op: op, ids: []int{buf.TaskID}, reason: ErrNotInBucket})
	}
	s.tasks[buf.TaskID] = s.tasks[buf.TaskID].WithContent(buf.Title, buf.Description, buf.Points)
	return s.commit(ctx, change{
		op:   op,
		ids:  []int{buf.TaskID},
		meta: map[string]string{"points": strconv.Itoa(buf.Points)},
	})
}

// CancelEdit closes the form without touching the task.
func (s *Store) CancelEdit(ctx context.Context) Outcome {
	op := domain.ChangeOperationEditCancel
	if s.edit == nil {
		return s.skip(op, ErrNoEdit)
	}
	id := s.edit.TaskID
	s.edit = nil
	return s.commit(ctx, change{op: op, ids: []int{id}})
}

// change describes one state transition to publish. A non-nil reason marks a
// transition whose primary effect fell back to a no-op.
type change struct {
	op     domain.ChangeOperation
	ids    []int
	day    domain.Day
	meta   map[string]string
	reason error
}

func (s *Store) skip(op domain.ChangeOperation, reason error) Outcome {
	s.logger.Debug("store no-op", "op", op, "reason", reason)
	return Outcome{Op: op, Reason: reason, Version: s.version}
}

func (s *Store) commit(ctx context.Context, c change) Outcome {
	s.version++
	ids := c.ids
	if ids == nil {
		ids = []int{}
	}
	out := Outcome{
		Op:      c.op,
		Applied: c.reason == nil,
		Reason:  c.reason,
		TaskIDs: ids,
		Version: s.version,
	}
	s.logger.Debug("store operation", "op", c.op, "tasks", ids, "version", s.version)
	if s.logger.GetLevel() <= charmLog.DebugLevel {
		if err := s.checkInvariants(); err != nil {
			s.logger.Error("store invariant violated", "op", c.op, "err", err)
		}
	}
	s.record(ctx, c)
	s.notify()
	return out
}

func (s *Store) record(ctx context.Context, c change) {
	if s.recorder == nil {
		return
	}
	meta := map[string]string{}
	for k, v := range c.meta {
		meta[k] = v
	}
	if c.reason != nil {
		meta["reason"] = c.reason.Error()
	}
	if len(meta) == 0 {
		meta = nil
	}
	event := domain.ChangeEvent{
		SessionID:  s.sessionID,
		Operation:  c.op,
		TaskIDs:    slices.Clone(c.ids),
		Day:        c.day,
		Metadata:   meta,
		OccurredAt: s.clock().UTC(),
	}
	if err := s.recorder.RecordChange(ctx, event); err != nil {
		s.logger.Warn("record activity failed", "op", c.op, "err", err)
	}
}

func (s *Store) notify() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.Snapshot()
	for _, sub := range slices.Clone(s.subscribers) {
		sub.fn(snap)
	}
}

func (s *Store) requireOwned(id int) error {
	if _, ok := s.tasks[id]; !ok {
		return ErrUnknownTask
	}
	if _, ok := s.owner[id]; !ok {
		return ErrNotInBucket
	}
	return nil
}

func (s *Store) insertTask(t domain.Task) {
	s.tasks[t.ID] = t
	if t.ID > s.maxID {
		s.maxID = t.ID
	}
}

// nextID is one past the largest id the task table has ever held, which
// includes detached and folder-only tasks.
func (s *Store) nextID() int {
	return s.maxID + 1
}

func (s *Store) attach(id int, day domain.Day) {
	s.buckets[day] = append(s.buckets[day], id)
	s.owner[id] = day
}

func (s *Store) detach(id int) (domain.Day, bool) {
	day, ok := s.owner[id]
	if !ok {
		return "", false
	}
	s.buckets[day] = slices.DeleteFunc(s.buckets[day], func(candidate int) bool {
		return candidate == id
	})
	delete(s.owner, id)
	return day, true
}

func (s *Store) addToFolder(ids []int) []int {
	added := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.tasks[id]; !ok {
			continue
		}
		if slices.Contains(s.folder, id) {
			continue
		}
		s.folder = append(s.folder, id)
		added = append(added, id)
	}
	return added
}

// checkInvariants verifies that the owner index agrees with the buckets and
// that every reference resolves against the task table.
func (s *Store) checkInvariants() error {
	seen := map[int]domain.Day{}
	for _, day := range s.days {
		for _, id := range s.buckets[day] {
			if prev, dup := seen[id]; dup {
				return fmt.Errorf("task %d held by %q and %q", id, prev, day)
			}
			seen[id] = day
			if s.owner[id] != day {
				return fmt.Errorf("owner index for task %d is %q, bucket is %q", id, s.owner[id], day)
			}
			if _, ok := s.tasks[id]; !ok {
				return fmt.Errorf("bucket %q references unknown task %d", day, id)
			}
		}
	}
	if len(seen) != len(s.owner) {
		return fmt.Errorf("owner index has %d entries, buckets hold %d", len(s.owner), len(seen))
	}
	folder := map[int]struct{}{}
	for _, id := range s.folder {
		if _, dup := folder[id]; dup {
			return fmt.Errorf("folder holds task %d twice", id)
		}
		folder[id] = struct{}{}
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("folder references unknown task %d", id)
		}
	}
	selected := map[int]struct{}{}
	for _, id := range s.selection {
		if _, dup := selected[id]; dup {
			return fmt.Errorf("selection holds task %d twice", id)
		}
		selected[id] = struct{}{}
		if _, ok := s.owner[id]; !ok {
			return fmt.Errorf("selected task %d is not in any day", id)
		}
	}
	for _, id := range s.clipboard {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("clipboard references unknown task %d", id)
		}
	}
	for id := range s.tasks {
		if id > s.maxID {
			return fmt.Errorf("task %d exceeds id high-water mark %d", id, s.maxID)
		}
	}
	return nil
}
