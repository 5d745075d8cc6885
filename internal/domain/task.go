package domain

import "strings"

type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Points      int    `json:"points"`
}

type TaskInput struct {
	ID          int
	Title       string
	Description string
	Points      int
}

func NewTask(in TaskInput) (Task, error) {
	in.Title = strings.TrimSpace(in.Title)

	if in.ID <= 0 {
		return Task{}, ErrInvalidID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Points < 0 {
		return Task{}, ErrInvalidPoints
	}

	return Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		Points:      in.Points,
	}, nil
}

// WithContent returns a copy carrying the edited content under the same id.
func (t Task) WithContent(title, description string, points int) Task {
	if points < 0 {
		points = 0
	}
	t.Title = title
	t.Description = description
	t.Points = points
	return t
}

// Duplicate returns a copy of the content under a freshly allocated id.
func (t Task) Duplicate(id int) Task {
	t.ID = id
	return t
}

func SumPoints(tasks []Task) int {
	total := 0
	for _, task := range tasks {
		total += task.Points
	}
	return total
}
