package domain

import "context"

// MinSessionSeconds is the shortest session the commit protocol will accept.
const MinSessionSeconds = 60

// Session is a committed record of time spent studying. SubjectName is a
// snapshot of the subject's name at commit time and is never rewritten if
// the subject is later renamed.
type Session struct {
	ID          int64
	SubjectID   int64
	SubjectName string
	StartedAt   int64 // epoch millis
	Duration    int64 // seconds
}

// Sessions are inserted exactly once by the commit protocol and only ever
// deleted afterwards, never updated in place. Aggregates are recomputed
// from the stored rows, never adjusted incrementally.
type SessionRepository interface {
	Insert(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id int64) error
	DeleteForSubject(ctx context.Context, subjectID int64) error
	List(ctx context.Context) ([]Session, error)
	ListRecent(ctx context.Context, limit int) ([]Session, error)
	ListRecentForSubject(ctx context.Context, subjectID int64, limit int) ([]Session, error)
	TotalDuration(ctx context.Context) (int64, error)
	TotalDurationForSubject(ctx context.Context, subjectID int64) (int64, error)
}
