package domain

import (
	"strconv"
	"strings"
)

// FormField identifies one editable task field.
type FormField string

// FormField values.
const (
	FormFieldTitle       FormField = "title"
	FormFieldDescription FormField = "description"
	FormFieldPoints      FormField = "points"
)

// FormFields lists editable fields in display order.
var FormFields = []FormField{FormFieldTitle, FormFieldDescription, FormFieldPoints}

// FormBuffer holds in-progress edits for one task.
type FormBuffer struct {
	TaskID      int    `json:"task_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

// NewFormBuffer loads a buffer from the task's current content.
func NewFormBuffer(t Task) FormBuffer {
	return FormBuffer{
		TaskID:      t.ID,
		Title:       t.Title,
		Description: t.Description,
		Points:      t.Points,
	}
}

// Set stores raw into the named field. Points are coerced with ParsePoints;
// other fields are kept verbatim. Unknown fields report false.
func (f *FormBuffer) Set(field FormField, raw string) bool {
	switch FormField(strings.ToLower(strings.TrimSpace(string(field)))) {
	case FormFieldTitle:
		f.Title = raw
	case FormFieldDescription:
		f.Description = raw
	case FormFieldPoints:
		f.Points = ParsePoints(raw)
	default:
		return false
	}
	return true
}

// ParsePoints parses a points value. Non-numeric or negative input becomes 0.
func ParsePoints(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
