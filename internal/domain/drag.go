package domain

// DragPayload is the transient set of tasks being relocated by drag-and-drop.
// It is either a SingleDrag or a MultiDrag.
type DragPayload interface {
	isDragPayload()
}

// SingleDrag carries exactly one dragged task.
type SingleDrag struct {
	TaskID int `json:"task_id"`
}

// MultiDrag carries the whole active selection at drag start.
type MultiDrag struct {
	TaskIDs []int `json:"task_ids"`
}

func (SingleDrag) isDragPayload() {}
func (MultiDrag) isDragPayload()  {}

// DragKind labels a payload variant for transport and logging.
type DragKind string

// DragKind values.
const (
	DragKindSingle DragKind = "single"
	DragKindMulti  DragKind = "multi"
)

// PayloadTaskIDs returns the ids carried by a payload, in payload order.
func PayloadTaskIDs(p DragPayload) []int {
	switch payload := p.(type) {
	case SingleDrag:
		return []int{payload.TaskID}
	case MultiDrag:
		return append([]int(nil), payload.TaskIDs...)
	default:
		return nil
	}
}

// PayloadKind reports the variant of a payload, or "" for nil.
func PayloadKind(p DragPayload) DragKind {
	switch p.(type) {
	case SingleDrag:
		return DragKindSingle
	case MultiDrag:
		return DragKindMulti
	default:
		return ""
	}
}
