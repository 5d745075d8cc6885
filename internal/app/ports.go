package app

import (
	"context"

	"github.com/hylla/weekplan/internal/domain"
)

// ActivityRecorder receives one event per state-changing store operation.
type ActivityRecorder interface {
	RecordChange(context.Context, domain.ChangeEvent) error
}

// ActivityReader lists recorded events for a session, newest first.
type ActivityReader interface {
	ListChangeEvents(context.Context, string, int) ([]domain.ChangeEvent, error)
}
