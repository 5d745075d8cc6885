package tui

import (
	"context"
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/hylla/weekplan/internal/domain"
)

// newModalInput builds one form input.
func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.SetValue(value)
	return in
}

// startTaskForm opens the store edit form for task and mirrors it into inputs.
func (m Model) startTaskForm(task domain.Task) (tea.Model, tea.Cmd) {
	form, out := m.store.BeginEdit(context.Background(), task.ID)
	m.snap = m.store.Snapshot()
	if !out.Applied {
		m.status = outcomeStatus("edit", out)
		return m, nil
	}
	m.formInputs = []textinput.Model{
		newModalInput("title: ", "required", form.Title, 200),
		newModalInput("description: ", "markdown", form.Description, 2000),
		newModalInput("points: ", "0", strconv.Itoa(form.Points), 6),
	}
	m.mode = modeEditTask
	m.status = fmt.Sprintf("editing task %d", form.TaskID)
	cmd := m.focusTaskFormField(0)
	return m, cmd
}

// focusTaskFormField moves input focus to idx.
func (m *Model) focusTaskFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	m.formFocus = (idx%len(m.formInputs) + len(m.formInputs)) % len(m.formInputs)
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	return m.formInputs[m.formFocus].Focus()
}

// handleTaskFormKey edits, saves, or cancels the open form.
func (m Model) handleTaskFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.cancel):
		m.mode = modeNone
		m.formInputs = nil
		return m.apply("cancel edit", m.store.CancelEdit)
	case key.Matches(msg, m.keys.commitEdit):
		return m.submitTaskForm()
	case key.Matches(msg, m.keys.nextField):
		cmd := m.focusTaskFormField(m.formFocus + 1)
		return m, cmd
	case key.Matches(msg, m.keys.prevField):
		cmd := m.focusTaskFormField(m.formFocus - 1)
		return m, cmd
	}
	if len(m.formInputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

// submitTaskForm pushes every input into the store form and commits it.
func (m Model) submitTaskForm() (tea.Model, tea.Cmd) {
	ctx := context.Background()
	for i, field := range domain.FormFields {
		if i < len(m.formInputs) {
			m.store.UpdateFormField(ctx, field, m.formInputs[i].Value())
		}
	}
	m.mode = modeNone
	m.formInputs = nil
	return m.apply("save", m.store.CommitEdit)
}

// editTaskID returns the id of the task being edited, or 0.
func (m Model) editTaskID() int {
	if m.snap.Edit == nil {
		return 0
	}
	return m.snap.Edit.TaskID
}
