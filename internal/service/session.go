package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/timer"
)

// Severity hints how long an outcome message should stay on screen.
type Severity string

const (
	SeverityShort Severity = "short"
	SeverityLong  Severity = "long"
)

// Outcome is the user-facing result of a commit or delete request. It is
// always a message, never a raised error: persistence failures are folded
// into it with their cause text.
type Outcome struct {
	OK       bool
	Message  string
	Severity Severity
}

// SessionService owns the session commit protocol: it validates a finished
// timer run, persists it exactly once, and resets the timer after a
// successful commit so the same run can never be committed twice.
type SessionService struct {
	sessions domain.SessionRepository
	timer    *timer.Timer
	changes  *broadcast.Broadcast[struct{}]
	now      func() time.Time
}

// NewSessionService creates a new SessionService. changes is published on
// every successful write so derived views recompute.
func NewSessionService(sessions domain.SessionRepository, t *timer.Timer, changes *broadcast.Broadcast[struct{}]) *SessionService {
	return &SessionService{sessions: sessions, timer: t, changes: changes, now: time.Now}
}

// Finish validates and commits a finished session. On a successful commit
// the timer is cancelled, zeroing the accumulator. On an insert failure the
// timer is left untouched so the user may retry; there is no automatic
// retry or rollback.
func (s *SessionService) Finish(ctx context.Context, elapsed int64, subjectID int64, subjectName string) Outcome {
	if elapsed < domain.MinSessionSeconds {
		return Outcome{Message: "single session cannot be less than 1 minute", Severity: SeverityShort}
	}
	if subjectID == 0 {
		return Outcome{Message: "please select a subject related to this session", Severity: SeverityShort}
	}

	session := &domain.Session{
		SubjectID:   subjectID,
		SubjectName: subjectName,
		StartedAt:   s.now().UnixMilli(),
		Duration:    elapsed,
	}
	if err := s.sessions.Insert(ctx, session); err != nil {
		return Outcome{
			Message:  fmt.Sprintf("couldn't save session: %v", err),
			Severity: SeverityLong,
		}
	}

	s.timer.Cancel()
	s.changes.Publish(struct{}{})
	return Outcome{OK: true, Message: "session saved successfully", Severity: SeverityShort}
}

// Delete removes a previously committed session. selected may be nil, in
// which case there is nothing to do. Aggregates shrink on the next read;
// nothing is subtracted in place.
func (s *SessionService) Delete(ctx context.Context, selected *domain.Session) Outcome {
	if selected == nil {
		return Outcome{Message: "no session to delete", Severity: SeverityShort}
	}
	if err := s.sessions.Delete(ctx, selected.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Outcome{Message: "no session to delete", Severity: SeverityShort}
		}
		return Outcome{
			Message:  fmt.Sprintf("couldn't delete session: %v", err),
			Severity: SeverityLong,
		}
	}
	s.changes.Publish(struct{}{})
	return Outcome{OK: true, Message: "session deleted successfully", Severity: SeverityShort}
}

// List returns all committed sessions, most recent first.
func (s *SessionService) List(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.List(ctx)
}

// Recent returns the five most recent sessions for the dashboard.
func (s *SessionService) Recent(ctx context.Context) ([]domain.Session, error) {
	return s.sessions.ListRecent(ctx, 5)
}

// RecentForSubject returns the ten most recent sessions for a subject.
func (s *SessionService) RecentForSubject(ctx context.Context, subjectID int64) ([]domain.Session, error) {
	return s.sessions.ListRecentForSubject(ctx, subjectID, 10)
}
