package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
	"github.com/hasheddev/studytrack/internal/repository/sqlite"
	"github.com/hasheddev/studytrack/internal/service"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestSubjectService(t *testing.T) (*service.SubjectService, *sqlite.DB, *broadcast.Broadcast[struct{}]) {
	t.Helper()
	db := newTestDB(t)
	changes := broadcast.New[struct{}]()
	return service.NewSubjectService(db.Subjects(), db.Tasks(), db.Sessions(), changes), db, changes
}

func createTestSubject(t *testing.T, svc *service.SubjectService, name string, goalHours float64) *domain.Subject {
	t.Helper()
	subject, err := svc.Save(context.Background(), 0, name, goalHours, []int64{0xFF0000, 0x00FF00})
	if err != nil {
		t.Fatalf("Save subject: %v", err)
	}
	return subject
}
