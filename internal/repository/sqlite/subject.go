package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/hasheddev/studytrack/internal/domain"
)

// SubjectRepository implements domain.SubjectRepository using SQLite.
type SubjectRepository struct {
	db *sql.DB
}

// NewSubjectRepository creates a new SQLite-backed SubjectRepository.
func NewSubjectRepository(db *DB) *SubjectRepository {
	return &SubjectRepository{db: db.SqlDB}
}

func (r *SubjectRepository) Upsert(ctx context.Context, subject *domain.Subject) error {
	if subject.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			"INSERT INTO subjects (name, goal_hours, colors) VALUES (?, ?, ?)",
			subject.Name, subject.GoalHours, encodeColors(subject.Colors),
		)
		if err != nil {
			return fmt.Errorf("insert subject: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get subject id: %w", err)
		}
		subject.ID = id
		return nil
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE subjects SET name = ?, goal_hours = ?, colors = ? WHERE id = ?",
		subject.Name, subject.GoalHours, encodeColors(subject.Colors), subject.ID,
	)
	if err != nil {
		return fmt.Errorf("update subject: %w", err)
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

func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	s := &domain.Subject{}
	var colors string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, goal_hours, colors FROM subjects WHERE id = ?", id,
	).Scan(&s.ID, &s.Name, &s.GoalHours, &colors)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	s.Colors = decodeColors(colors)
	return s, nil
}

func (r *SubjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, goal_hours, colors FROM subjects ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		var colors string
		if err := rows.Scan(&s.ID, &s.Name, &s.GoalHours, &colors); err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		s.Colors = decodeColors(colors)
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM subjects").Scan(&count); err != nil {
		return 0, fmt.Errorf("count subjects: %w", err)
	}
	return count, nil
}

func (r *SubjectRepository) TotalGoalHours(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(goal_hours), 0) FROM subjects").Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total goal hours: %w", err)
	}
	return total, nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM subjects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
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

// Colors are stored as a comma-separated list of ARGB integers.
func encodeColors(colors []int64) string {
	parts := make([]string, len(colors))
	for i, c := range colors {
		parts[i] = strconv.FormatInt(c, 10)
	}
	return strings.Join(parts, ",")
}

func decodeColors(s string) []int64 {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	colors := make([]int64, 0, len(parts))
	for _, p := range parts {
		c, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		colors = append(colors, c)
	}
	return colors
}
