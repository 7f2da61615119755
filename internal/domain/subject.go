package domain

import "context"

// Subject is a named study topic with a weekly goal in hours. Colors holds
// the ARGB gradient values used by the card UI; nothing in the core reads
// them beyond storing and returning them.
type Subject struct {
	ID        int64
	Name      string
	GoalHours float64
	Colors    []int64
}

const (
	SubjectNameMaxLen = 20
	GoalHoursMin      = 1.0
	GoalHoursMax      = 100.0
)

type SubjectRepository interface {
	Upsert(ctx context.Context, subject *Subject) error
	GetByID(ctx context.Context, id int64) (*Subject, error)
	List(ctx context.Context) ([]Subject, error)
	Count(ctx context.Context) (int, error)
	TotalGoalHours(ctx context.Context) (float64, error)
	Delete(ctx context.Context, id int64) error
}
