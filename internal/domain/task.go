package domain

import "context"

// Priority is the task urgency level, stored as its integer value.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// PriorityFromInt maps a stored integer back to a Priority, defaulting to
// medium for anything out of range.
func PriorityFromInt(v int) Priority {
	switch Priority(v) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(v)
	default:
		return PriorityMedium
	}
}

func (p Priority) Title() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// PriorityColors maps each priority to its display color. Presentation
// data only; kept out of the Priority type itself.
var PriorityColors = map[Priority]string{
	PriorityLow:    "#22c55e",
	PriorityMedium: "#f97316",
	PriorityHigh:   "#ef4444",
}

// Task is an actionable to-do item linked to a Subject. SubjectName is a
// display snapshot taken when the task is saved.
type Task struct {
	ID          int64
	SubjectID   int64
	Title       string
	Description string
	DueDate     int64 // epoch millis
	Priority    Priority
	SubjectName string
	Complete    bool
}

// Task list queries return tasks ordered by ascending due date, then
// descending priority.
type TaskRepository interface {
	Upsert(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id int64) (*Task, error)
	ListUpcoming(ctx context.Context) ([]Task, error)
	ListUpcomingForSubject(ctx context.Context, subjectID int64) ([]Task, error)
	ListCompletedForSubject(ctx context.Context, subjectID int64) ([]Task, error)
	Delete(ctx context.Context, id int64) error
	DeleteForSubject(ctx context.Context, subjectID int64) error
}
