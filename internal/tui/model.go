package tui

import (
	"context"
	"fmt"
	"image/color"
	"slices"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hylla/weekplan/internal/app"
	"github.com/hylla/weekplan/internal/domain"
)

// Store is the task-store surface the board drives.
type Store interface {
	Snapshot() app.Snapshot
	SessionID() string
	Select(context.Context, int, bool) app.Outcome
	Copy(context.Context) app.Outcome
	Cut(context.Context) app.Outcome
	PasteInto(context.Context, domain.Day) app.Outcome
	AddSelectionToFolder(context.Context) app.Outcome
	RemoveFromFolder(context.Context, int) app.Outcome
	BeginDrag(context.Context, int) (domain.DragPayload, app.Outcome)
	DropOnBucket(context.Context, domain.Day) app.Outcome
	DropOnFolder(context.Context) app.Outcome
	CancelDrag(context.Context) app.Outcome
	BeginEdit(context.Context, int) (domain.FormBuffer, app.Outcome)
	UpdateFormField(context.Context, domain.FormField, string) app.Outcome
	CommitEdit(context.Context) app.Outcome
	CancelEdit(context.Context) app.Outcome
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeEditTask
	modeTaskInfo
	modeActivityLog
)

// activity overlay limits.
const (
	defaultActivityRows   = 20
	activityLogViewWindow = 14
)

// board layout rows above the first column line: header plus spacer.
const boardTop = 2

// activityEntry is one rendered activity log row.
type activityEntry struct {
	At      time.Time
	Summary string
	Detail  string
}

// Model is the weekly board view over one task store.
type Model struct {
	store Store
	snap  app.Snapshot

	activity     app.ActivityReader
	activityRows int
	activityLog  []activityEntry

	keys           keyMap
	help           help.Model
	markdown       *markdownRenderer
	writeClipboard ClipboardWriter

	ready  bool
	width  int
	height int
	mode   inputMode
	status string

	showFolder bool
	focusCol   int
	focusRow   int

	formInputs []textinput.Model
	formFocus  int
}

// activityLogLoadedMsg carries ledger entries for the store session.
type activityLogLoadedMsg struct {
	entries []activityEntry
	err     error
}

// clipboardMsg reports one system clipboard write.
type clipboardMsg struct {
	taskID int
	err    error
}

// NewModel constructs a board over store.
func NewModel(store Store, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:          store,
		snap:           store.Snapshot(),
		activityRows:   defaultActivityRows,
		keys:           newKeyMap(),
		help:           h,
		markdown:       &markdownRenderer{style: "dark"},
		writeClipboard: defaultClipboardWriter,
		status:         "ready",
		showFolder:     true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	m.clampFocus()
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case activityLogLoadedMsg:
		if msg.err != nil {
			if m.mode == modeActivityLog {
				m.status = "activity log unavailable: " + msg.err.Error()
			}
			return m, nil
		}
		m.activityLog = append([]activityEntry(nil), msg.entries...)
		if m.mode == modeActivityLog {
			m.status = "activity log"
		}
		return m, nil

	case clipboardMsg:
		if msg.err != nil {
			m.status = "yank failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("yanked task %d", msg.taskID)
		return m, nil

	case tea.KeyPressMsg:
		if m.mode != modeNone {
			return m.handleInputModeKey(msg)
		}
		return m.handleNormalModeKey(msg)

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	case tea.MouseClickMsg:
		return m.handleMouseClick(msg)

	default:
		return m, nil
	}
}

// handleNormalModeKey maps board keys onto store operations.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.snap.Drag != nil {
		switch {
		case key.Matches(msg, m.keys.drop):
			return m.dropOnFocused()
		case key.Matches(msg, m.keys.cancel):
			return m.apply("cancel drag", m.store.CancelDrag)
		}
	}

	task, hasTask := m.focusedTask()
	switch {
	case key.Matches(msg, m.keys.moveLeft):
		m.focusCol = clamp(m.focusCol-1, 0, m.columnCount()-1)
		m.clampFocus()
	case key.Matches(msg, m.keys.moveRight):
		m.focusCol = clamp(m.focusCol+1, 0, m.columnCount()-1)
		m.clampFocus()
	case key.Matches(msg, m.keys.moveUp):
		m.focusRow--
		m.clampFocus()
	case key.Matches(msg, m.keys.moveDown):
		m.focusRow++
		m.clampFocus()
	case key.Matches(msg, m.keys.selectTask), key.Matches(msg, m.keys.multiSelect):
		if !hasTask {
			return m, nil
		}
		multi := key.Matches(msg, m.keys.multiSelect)
		return m.apply("select", func(ctx context.Context) app.Outcome {
			return m.store.Select(ctx, task.ID, multi)
		})
	case key.Matches(msg, m.keys.copyTasks):
		return m.apply("copy", m.store.Copy)
	case key.Matches(msg, m.keys.cutTasks):
		return m.apply("cut", m.store.Cut)
	case key.Matches(msg, m.keys.paste):
		day, ok := m.focusedDay()
		if !ok {
			m.status = "paste needs a day column"
			return m, nil
		}
		return m.apply("paste into "+string(day), func(ctx context.Context) app.Outcome {
			return m.store.PasteInto(ctx, day)
		})
	case key.Matches(msg, m.keys.addToFolder):
		return m.apply("add to folder", m.store.AddSelectionToFolder)
	case key.Matches(msg, m.keys.removeFolder):
		if !m.folderFocused() || !hasTask {
			m.status = "focus a folder task to remove it"
			return m, nil
		}
		return m.apply("remove from folder", func(ctx context.Context) app.Outcome {
			return m.store.RemoveFromFolder(ctx, task.ID)
		})
	case key.Matches(msg, m.keys.beginDrag):
		if !hasTask {
			return m, nil
		}
		return m.apply("drag", func(ctx context.Context) app.Outcome {
			_, out := m.store.BeginDrag(ctx, task.ID)
			return out
		})
	case key.Matches(msg, m.keys.editTask):
		if !hasTask {
			return m, nil
		}
		return m.startTaskForm(task)
	case key.Matches(msg, m.keys.taskInfo):
		if hasTask {
			m.mode = modeTaskInfo
		}
	case key.Matches(msg, m.keys.yank):
		if hasTask {
			return m, m.yankTask(task)
		}
	case key.Matches(msg, m.keys.activityLog):
		return m.openActivityLog()
	case key.Matches(msg, m.keys.toggleFolder):
		m.showFolder = !m.showFolder
		m.clampFocus()
	case key.Matches(msg, m.keys.cancel):
		m.status = "ready"
	}
	return m, nil
}

// handleInputModeKey routes keys while an overlay owns input.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeEditTask:
		return m.handleTaskFormKey(msg)
	case modeActivityLog:
		if key.Matches(msg, m.keys.closeActivity) {
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil
	case modeTaskInfo:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.mode = modeNone
		return m, nil
	default:
		m.mode = modeNone
		return m, nil
	}
}

// apply runs one store operation and refreshes the snapshot.
func (m Model) apply(label string, run func(context.Context) app.Outcome) (tea.Model, tea.Cmd) {
	out := run(context.Background())
	m.snap = m.store.Snapshot()
	m.status = outcomeStatus(label, out)
	m.clampFocus()
	return m, nil
}

// dropOnFocused drops the pending payload onto the focused column.
func (m Model) dropOnFocused() (tea.Model, tea.Cmd) {
	if m.folderFocused() {
		return m.apply("drop on folder", m.store.DropOnFolder)
	}
	day, ok := m.focusedDay()
	if !ok {
		return m, nil
	}
	return m.apply("drop on "+string(day), func(ctx context.Context) app.Outcome {
		return m.store.DropOnBucket(ctx, day)
	})
}

// outcomeStatus formats one outcome for the status line.
func outcomeStatus(label string, out app.Outcome) string {
	if !out.Applied {
		return label + ": " + out.ReasonText()
	}
	switch n := len(out.TaskIDs); n {
	case 0:
		return label
	case 1:
		return fmt.Sprintf("%s: task %d", label, out.TaskIDs[0])
	default:
		return fmt.Sprintf("%s: %d tasks", label, n)
	}
}

// yankTask copies one task as plain text to the system clipboard.
func (m Model) yankTask(task domain.Task) tea.Cmd {
	write := m.writeClipboard
	text := formatTaskText(task)
	return func() tea.Msg {
		return clipboardMsg{taskID: task.ID, err: write(text)}
	}
}

// formatTaskText renders one task for the system clipboard.
func formatTaskText(task domain.Task) string {
	text := fmt.Sprintf("#%d %s (%d pts)", task.ID, task.Title, task.Points)
	if desc := strings.TrimSpace(task.Description); desc != "" {
		text += "\n\n" + desc
	}
	return text
}

// openActivityLog opens the overlay and loads ledger rows.
func (m Model) openActivityLog() (tea.Model, tea.Cmd) {
	if m.activity == nil {
		m.status = "activity log unavailable"
		return m, nil
	}
	m.mode = modeActivityLog
	m.status = "loading activity..."
	return m, m.loadActivityLog
}

// loadActivityLog loads recent ledger events for the store session.
func (m Model) loadActivityLog() tea.Msg {
	events, err := m.activity.ListChangeEvents(context.Background(), m.store.SessionID(), m.activityRows)
	if err != nil {
		return activityLogLoadedMsg{err: err}
	}
	return activityLogLoadedMsg{entries: mapChangeEventsToActivityEntries(events)}
}

func mapChangeEventsToActivityEntries(events []domain.ChangeEvent) []activityEntry {
	out := make([]activityEntry, 0, len(events))
	for _, event := range events {
		out = append(out, mapChangeEventToActivityEntry(event))
	}
	return out
}

// mapChangeEventToActivityEntry summarizes one ledger row.
func mapChangeEventToActivityEntry(event domain.ChangeEvent) activityEntry {
	ids := make([]string, 0, len(event.TaskIDs))
	for _, id := range event.TaskIDs {
		ids = append(ids, "#"+strconv.Itoa(id))
	}
	summary := string(event.Operation)
	if len(ids) > 0 {
		summary += " " + strings.Join(ids, ",")
	}
	if event.Day != "" {
		summary += " → " + string(event.Day)
	}
	detail := ""
	if reason := event.Metadata["reason"]; reason != "" {
		detail = reason
	} else if mode := event.Metadata["mode"]; mode != "" {
		detail = mode
	}
	return activityEntry{At: event.OccurredAt, Summary: summary, Detail: detail}
}

// handleMouseWheel moves the task focus.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseWheelUp:
		m.focusRow--
	case tea.MouseWheelDown:
		m.focusRow++
	}
	m.clampFocus()
	return m, nil
}

// handleMouseClick focuses the clicked column and task.
func (m Model) handleMouseClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeNone || m.help.ShowAll {
		return m, nil
	}
	colWidth := m.columnWidth() + 1 // margin-right
	col := msg.X / max(1, colWidth)
	if col >= m.columnCount() {
		return m, nil
	}
	m.focusCol = col
	if row, ok := taskRowAt(msg.Y); ok {
		m.focusRow = row
	}
	m.clampFocus()
	return m, nil
}

// taskRowAt maps a screen row to a task index. Each task occupies two lines
// below the column border and title.
func taskRowAt(y int) (int, bool) {
	rel := y - boardTop - 2
	if rel < 0 {
		return 0, false
	}
	return rel / 2, true
}

// columnCount counts day columns plus the folder pane when shown.
func (m Model) columnCount() int {
	n := len(m.snap.Days)
	if m.showFolder {
		n++
	}
	return n
}

// columnTasks returns the tasks shown in column col.
func (m Model) columnTasks(col int) []domain.Task {
	if col >= 0 && col < len(m.snap.Days) {
		return m.snap.Days[col].Tasks
	}
	if m.showFolder && col == len(m.snap.Days) {
		return m.snap.Folder
	}
	return nil
}

func (m Model) folderFocused() bool {
	return m.showFolder && m.focusCol == len(m.snap.Days)
}

func (m Model) focusedDay() (domain.Day, bool) {
	if m.focusCol < 0 || m.focusCol >= len(m.snap.Days) {
		return "", false
	}
	return m.snap.Days[m.focusCol].Name, true
}

func (m Model) focusedTask() (domain.Task, bool) {
	tasks := m.columnTasks(m.focusCol)
	if m.focusRow < 0 || m.focusRow >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.focusRow], true
}

// clampFocus keeps focus inside the current board.
func (m *Model) clampFocus() {
	m.focusCol = clamp(m.focusCol, 0, m.columnCount()-1)
	m.focusRow = clamp(m.focusRow, 0, len(m.columnTasks(m.focusCol))-1)
}

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		return newView("loading...")
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	statusStyle := lipgloss.NewStyle().Foreground(dim)

	header := titleStyle.Render("weekplan") + statusStyle.Render(fmt.Sprintf("  [%s]  week: %d pts  folder: %d pts",
		m.modeLabel(), m.snap.TotalPoints(), m.snap.FolderPoints))
	body := m.renderBoard(accent, muted, dim)

	sections := []string{header, "", body}
	sections = append(sections, statusStyle.Render(m.summaryLine()))
	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		content = fitLines(content, max(0, m.height-lipgloss.Height(helpLine)))
	}
	fullContent := content + "\n" + helpLine

	overlay := m.renderModeOverlay(accent, muted, dim, max(24, m.width-8))
	if m.help.ShowAll {
		overlay = m.renderHelpOverlay(accent, muted, dim, max(24, m.width-8))
	}
	if overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}
	return newView(fullContent)
}

func newView(content string) tea.View {
	v := tea.NewView(content)
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// renderBoard renders the day columns and the folder pane.
func (m Model) renderBoard(accent, muted, dim color.Color) string {
	colWidth := m.columnWidth()
	innerHeight := max(4, m.columnHeight()-2)
	baseColStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dim).
		Padding(0, 1).
		MarginRight(1).
		Width(colWidth)
	focusColStyle := baseColStyle.BorderForeground(accent)
	colTitle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	focusTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	selectedTaskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("237")).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)

	textWidth := max(1, colWidth-6)
	dragIDs := []int(nil)
	if m.snap.Drag != nil {
		dragIDs = m.snap.Drag.TaskIDs
	}
	cutIDs := []int(nil)
	if m.snap.Clipboard.Mode == domain.ClipboardCut {
		for _, task := range m.snap.Clipboard.Tasks {
			cutIDs = append(cutIDs, task.ID)
		}
	}

	views := make([]string, 0, m.columnCount())
	for col := range m.columnCount() {
		tasks := m.columnTasks(col)
		title := ""
		if col < len(m.snap.Days) {
			day := m.snap.Days[col]
			title = fmt.Sprintf("%s (%d)", day.Name, day.Points)
		} else {
			title = fmt.Sprintf("Folder (%d)", m.snap.FolderPoints)
		}
		lines := []string{colTitle.Render(truncate(title, textWidth+2))}
		if len(tasks) == 0 {
			lines = append(lines, emptyStyle.Render("(empty)"))
		}
		for row, task := range tasks {
			focused := col == m.focusCol && row == m.focusRow
			selected := m.snap.IsSelected(task.ID)
			prefix := "  "
			switch {
			case focused && selected:
				prefix = "│*"
			case focused:
				prefix = "│ "
			case selected:
				prefix = " *"
			}
			line := prefix + truncate(task.Title, textWidth)
			switch {
			case focused:
				line = focusTaskStyle.Render(line)
			case selected:
				line = selectedTaskStyle.Render(line)
			}
			lines = append(lines, line, subStyle.Render("  "+m.taskMeta(task, dragIDs, cutIDs)))
		}
		content := fitLines(strings.Join(lines, "\n"), innerHeight)
		if col == m.focusCol {
			views = append(views, focusColStyle.Render(content))
		} else {
			views = append(views, baseColStyle.Render(content))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, views...)
}

// taskMeta renders the secondary task line.
func (m Model) taskMeta(task domain.Task, dragIDs, cutIDs []int) string {
	parts := []string{fmt.Sprintf("%dp #%d", task.Points, task.ID)}
	if m.snap.InFolder(task.ID) {
		parts = append(parts, "$")
	}
	if slices.Contains(cutIDs, task.ID) {
		parts = append(parts, "cut")
	}
	if slices.Contains(dragIDs, task.ID) {
		parts = append(parts, "drag")
	}
	return strings.Join(parts, " ")
}

// summaryLine describes selection, clipboard, and drag state.
func (m Model) summaryLine() string {
	parts := []string{fmt.Sprintf("%d selected", len(m.snap.Selection))}
	if n := len(m.snap.Clipboard.Tasks); n > 0 {
		parts = append(parts, fmt.Sprintf("clipboard: %s %d", m.snap.Clipboard.Mode, n))
	}
	if m.snap.Drag != nil {
		parts = append(parts, fmt.Sprintf("dragging %d • %s drop • %s cancel",
			len(m.snap.Drag.TaskIDs), m.keys.drop.Help().Key, m.keys.cancel.Help().Key))
	}
	return strings.Join(parts, " • ")
}

// modeLabel names the active mode for the header.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeEditTask:
		return "edit"
	case modeTaskInfo:
		return "info"
	case modeActivityLog:
		return "activity"
	}
	if m.snap.Drag != nil {
		return "drag"
	}
	return "board"
}

// renderModeOverlay renders the overlay for the active mode, if any.
func (m Model) renderModeOverlay(accent, muted, dim color.Color, maxWidth int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Width(min(maxWidth, 72))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	hintStyle := lipgloss.NewStyle().Foreground(muted)

	switch m.mode {
	case modeEditTask:
		lines := []string{titleStyle.Render(fmt.Sprintf("Edit task #%d", m.editTaskID())), ""}
		for _, input := range m.formInputs {
			lines = append(lines, input.View())
		}
		lines = append(lines, "", hintStyle.Render("tab next field • enter save • esc cancel"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeTaskInfo:
		task, ok := m.focusedTask()
		if !ok {
			return ""
		}
		lines := []string{
			titleStyle.Render(fmt.Sprintf("#%d %s", task.ID, task.Title)),
			hintStyle.Render(fmt.Sprintf("%d points • %s", task.Points, m.taskLocation(task.ID))),
			"",
		}
		if rendered := m.markdown.render(task.Description, min(maxWidth, 72)-4); rendered != "" {
			lines = append(lines, rendered)
		} else {
			lines = append(lines, hintStyle.Render("(no description)"))
		}
		lines = append(lines, "", hintStyle.Render("any key to close"))
		return boxStyle.Render(strings.Join(lines, "\n"))

	case modeActivityLog:
		lines := []string{titleStyle.Render("Activity"), ""}
		if len(m.activityLog) == 0 {
			lines = append(lines, hintStyle.Render("(no activity yet)"))
		}
		start, end := 0, min(len(m.activityLog), activityLogViewWindow)
		dimStyle := lipgloss.NewStyle().Foreground(dim)
		for _, entry := range m.activityLog[start:end] {
			line := dimStyle.Render(formatActivityTimestamp(entry.At)) + " " + entry.Summary
			if entry.Detail != "" {
				line += hintStyle.Render(" (" + entry.Detail + ")")
			}
			lines = append(lines, line)
		}
		lines = append(lines, "", hintStyle.Render("esc close"))
		return boxStyle.Render(strings.Join(lines, "\n"))
	}
	return ""
}

// renderHelpOverlay renders the full key help.
func (m Model) renderHelpOverlay(accent, muted, _ color.Color, maxWidth int) string {
	helpBubble := m.help
	helpBubble.ShowAll = true
	helpBubble.SetWidth(max(0, maxWidth-4))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Foreground(muted).
		Padding(0, 1).
		Render(lipgloss.NewStyle().Bold(true).Foreground(accent).Render("Keys") + "\n\n" + helpBubble.View(m.keys))
}

// taskLocation names the day holding id.
func (m Model) taskLocation(id int) string {
	if _, day, ok := m.snap.Locate(id); ok {
		return string(day)
	}
	return "unplaced"
}

func formatActivityTimestamp(at time.Time) string {
	if at.IsZero() {
		return "--:--:--"
	}
	local := at.Local()
	now := time.Now().In(local.Location())
	if local.Year() != now.Year() || local.YearDay() != now.YearDay() {
		return local.Format("01-02 15:04")
	}
	return local.Format("15:04:05")
}

// columnWidth returns column width.
func (m Model) columnWidth() int {
	count := m.columnCount()
	if count == 0 {
		return 20
	}
	w := 20
	if m.width > 0 {
		// margin-right (1) per column
		if candidate := m.width/count - 1; candidate > 0 {
			w = candidate
		}
	}
	return clamp(w, 12, 36)
}

// columnHeight returns column height.
func (m Model) columnHeight() int {
	const headerLines, footerLines = 2, 5
	return max(8, m.height-headerLines-footerLines)
}

// clamp clamps v into [minV, maxV], preferring minV when the range is empty.
func clamp(v, minV, maxV int) int {
	if maxV < minV {
		return minV
	}
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent centers overlay over base.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= max {
		return s
	}
	if max <= 1 {
		return string(rs[:max])
	}
	return string(rs[:max-1]) + "…"
}
