package app

import "github.com/hylla/weekplan/internal/domain"

// Outcome reports what one store operation did. Reason is set when the
// operation fell back to a no-op.
type Outcome struct {
	Op      domain.ChangeOperation
	Applied bool
	Reason  error
	TaskIDs []int
	Version uint64
}

// Noop reports whether the operation left the primary state untouched.
func (o Outcome) Noop() bool {
	return !o.Applied
}

// ReasonText returns the no-op reason as text, or "".
func (o Outcome) ReasonText() string {
	if o.Reason == nil {
		return ""
	}
	return o.Reason.Error()
}
