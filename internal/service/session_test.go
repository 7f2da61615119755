package service_test

import (
	"context"
	"testing"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/repository/sqlite"
	"github.com/hasheddev/studytrack/internal/service"
	"github.com/hasheddev/studytrack/internal/timer"
)

func newTestSessionService(t *testing.T) (*service.SessionService, *timer.Timer, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	tm := timer.New()
	t.Cleanup(tm.Close)
	changes := broadcast.New[struct{}]()
	return service.NewSessionService(db.Sessions(), tm, changes), tm, db
}

func countSessions(t *testing.T, db *sqlite.DB) int {
	t.Helper()
	var count int
	if err := db.SqlDB.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count); err != nil {
		t.Fatalf("count sessions: %v", err)
	}
	return count
}

func TestFinish_RejectsBelowOneMinute(t *testing.T) {
	svc, _, db := newTestSessionService(t)
	ctx := context.Background()

	outcome := svc.Finish(ctx, 59, 1, "Algebra")
	if outcome.OK {
		t.Fatal("expected rejection for 59s session")
	}
	if outcome.Message != "single session cannot be less than 1 minute" {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
	if outcome.Severity != service.SeverityShort {
		t.Fatalf("expected short severity, got %q", outcome.Severity)
	}
	if got := countSessions(t, db); got != 0 {
		t.Fatalf("expected no persisted session, got %d", got)
	}
}

func TestFinish_RejectsWithoutSubject(t *testing.T) {
	svc, _, db := newTestSessionService(t)
	ctx := context.Background()

	outcome := svc.Finish(ctx, 120, 0, "")
	if outcome.OK {
		t.Fatal("expected rejection without subject")
	}
	if outcome.Message != "please select a subject related to this session" {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
	if got := countSessions(t, db); got != 0 {
		t.Fatalf("expected no persisted session, got %d", got)
	}
}

func TestFinish_CommitsAtThresholdAndCancelsTimer(t *testing.T) {
	svc, tm, db := newTestSessionService(t)
	ctx := context.Background()

	subjects := service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), broadcast.New[struct{}]())
	subject := createTestSubject(t, subjects, "Algebra", 10)

	tm.SetSubject(subject.ID, subject.Name)
	tm.Start()

	outcome := svc.Finish(ctx, 60, subject.ID, subject.Name)
	if !outcome.OK {
		t.Fatalf("expected commit at 60s, got %q", outcome.Message)
	}
	if outcome.Message != "session saved successfully" {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
	if outcome.Severity != service.SeverityShort {
		t.Fatalf("expected short severity, got %q", outcome.Severity)
	}
	if got := countSessions(t, db); got != 1 {
		t.Fatalf("expected exactly one session, got %d", got)
	}

	// Successful commit cancels the timer: idle, accumulator zeroed.
	snap := tm.Snapshot()
	if snap.State != timer.StateIdle || snap.Elapsed != 0 {
		t.Fatalf("expected idle/0 after commit, got %s/%d", snap.State, snap.Elapsed)
	}

	sessions, err := db.Sessions().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if sessions[0].SubjectName != "Algebra" || sessions[0].Duration != 60 {
		t.Fatalf("unexpected session: %+v", sessions[0])
	}
}

func TestFinish_NoDoubleCommit(t *testing.T) {
	svc, tm, db := newTestSessionService(t)
	ctx := context.Background()

	subjects := service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), broadcast.New[struct{}]())
	subject := createTestSubject(t, subjects, "Algebra", 10)
	tm.SetSubject(subject.ID, subject.Name)

	first := svc.Finish(ctx, 90, subject.ID, subject.Name)
	if !first.OK {
		t.Fatalf("first finish failed: %q", first.Message)
	}

	// The commit zeroed the accumulator, so a second finish driven by the
	// timer's state finds nothing to commit.
	snap := tm.Snapshot()
	second := svc.Finish(ctx, snap.Elapsed, snap.SubjectID, snap.SubjectName)
	if second.OK {
		t.Fatal("second finish must be rejected")
	}
	if got := countSessions(t, db); got != 1 {
		t.Fatalf("expected exactly one session after double finish, got %d", got)
	}
}

func TestFinish_PersistenceFailureLeavesTimerRunning(t *testing.T) {
	svc, tm, db := newTestSessionService(t)
	ctx := context.Background()

	tm.SetSubject(1, "Algebra")
	tm.Start()

	// Force the insert to fail.
	db.Close()

	outcome := svc.Finish(ctx, 120, 1, "Algebra")
	if outcome.OK {
		t.Fatal("expected failure outcome after closed database")
	}
	if outcome.Severity != service.SeverityLong {
		t.Fatalf("expected long severity, got %q", outcome.Severity)
	}

	// No rollback and no auto-cancel: the run is still there to retry.
	snap := tm.Snapshot()
	if snap.State != timer.StateStarted {
		t.Fatalf("expected timer still started after failed commit, got %s", snap.State)
	}
}

func TestDelete_NothingSelected(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	outcome := svc.Delete(context.Background(), nil)
	if outcome.OK {
		t.Fatal("expected no-op outcome")
	}
	if outcome.Message != "no session to delete" {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
}

func TestDelete_UnknownSession(t *testing.T) {
	svc, _, _ := newTestSessionService(t)

	outcome := svc.Delete(context.Background(), &domain.Session{ID: 999})
	if outcome.OK {
		t.Fatal("expected no-op outcome for unknown id")
	}
	if outcome.Message != "no session to delete" {
		t.Fatalf("unexpected message: %q", outcome.Message)
	}
}

func TestDelete_ShrinksAggregatesOnNextRead(t *testing.T) {
	svc, _, db := newTestSessionService(t)
	ctx := context.Background()

	subjects := service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), broadcast.New[struct{}]())
	subject := createTestSubject(t, subjects, "Algebra", 10)

	if o := svc.Finish(ctx, 600, subject.ID, subject.Name); !o.OK {
		t.Fatalf("finish: %q", o.Message)
	}
	if o := svc.Finish(ctx, 300, subject.ID, subject.Name); !o.OK {
		t.Fatalf("finish: %q", o.Message)
	}

	total, err := db.Sessions().TotalDuration(ctx)
	if err != nil {
		t.Fatalf("TotalDuration: %v", err)
	}
	if total != 900 {
		t.Fatalf("expected 900s total, got %d", total)
	}

	sessions, err := db.Sessions().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if o := svc.Delete(ctx, &sessions[0]); !o.OK {
		t.Fatalf("delete: %q", o.Message)
	}

	total, err = db.Sessions().TotalDuration(ctx)
	if err != nil {
		t.Fatalf("TotalDuration after delete: %v", err)
	}
	if total != 900-sessions[0].Duration {
		t.Fatalf("expected %d after delete, got %d", 900-sessions[0].Duration, total)
	}
}
