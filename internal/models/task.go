package models

import "time"

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

type Status string

const (
	StatusTodo       Status = "Todo"
	StatusInProgress Status = "In Progress"
	StatusDone       Status = "Done"
)

const DefaultTitle = "Untitled Task"

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Revenue     float64    `json:"revenue"`
	TimeTaken   float64    `json:"timeTaken"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		t.CompletedAt = &completedAt
	}
	return t
}

// TaskPatch holds the fields of an update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Revenue     *float64
	TimeTaken   *float64
	Priority    *Priority
	Status      *Status
	Notes       *string
	CompletedAt *time.Time
}

type DerivedTask struct {
	Task
	ROI float64 `json:"roi"`
}
