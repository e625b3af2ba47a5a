package model

import "time"

// Status is the kanban column a task belongs to. Values are stored as-is.
type Status string

const (
	StatusPending    Status = "대기"
	StatusInProgress Status = "진행중"
	StatusDone       Status = "완료"
)

// Statuses lists the board columns in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three board columns.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ParseStatus accepts the stored value or an English alias.
func ParseStatus(s string) (Status, bool) {
	switch s {
	case string(StatusPending), "pending", "todo":
		return StatusPending, true
	case string(StatusInProgress), "in-progress", "in_progress", "inprogress", "doing":
		return StatusInProgress, true
	case string(StatusDone), "done", "completed":
		return StatusDone, true
	}
	return Status(s), false
}

// Task is a kanban card.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"taskName"`
	Assignee  string    `json:"assigneeName"`
	Status    Status    `json:"status"`
	DueDate   string    `json:"dueDate"` // YYYY-MM-DD or empty
	CreatedAt time.Time `json:"createdAt,omitzero"`
}
