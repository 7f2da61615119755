package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hasheddev/studytrack/internal/domain"
)

// SessionRepository implements domain.SessionRepository using SQLite.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SQLite-backed SessionRepository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db.SqlDB}
}

const sessionColumns = "id, subject_id, subject_name, started_at, duration"

func (r *SessionRepository) Insert(ctx context.Context, session *domain.Session) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (subject_id, subject_name, started_at, duration)
		 VALUES (?, ?, ?, ?)`,
		session.SubjectID, session.SubjectName, session.StartedAt, session.Duration,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get session id: %w", err)
	}
	session.ID = id
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) DeleteForSubject(ctx context.Context, subjectID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE subject_id = ?", subjectID); err != nil {
		return fmt.Errorf("delete sessions for subject: %w", err)
	}
	return nil
}

func (r *SessionRepository) List(ctx context.Context) ([]domain.Session, error) {
	return r.list(ctx,
		"SELECT "+sessionColumns+" FROM sessions ORDER BY started_at DESC")
}

func (r *SessionRepository) ListRecent(ctx context.Context, limit int) ([]domain.Session, error) {
	return r.list(ctx,
		"SELECT "+sessionColumns+" FROM sessions ORDER BY started_at DESC LIMIT ?", limit)
}

func (r *SessionRepository) ListRecentForSubject(ctx context.Context, subjectID int64, limit int) ([]domain.Session, error) {
	return r.list(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE subject_id = ? ORDER BY started_at DESC LIMIT ?",
		subjectID, limit)
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var s domain.Session
		if err := rows.Scan(&s.ID, &s.SubjectID, &s.SubjectName, &s.StartedAt, &s.Duration); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) TotalDuration(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(duration), 0) FROM sessions").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total session duration: %w", err)
	}
	return total, nil
}

func (r *SessionRepository) TotalDurationForSubject(ctx context.Context, subjectID int64) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(duration), 0) FROM sessions WHERE subject_id = ?", subjectID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total session duration for subject: %w", err)
	}
	return total, nil
}
