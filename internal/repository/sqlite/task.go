package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hasheddev/studytrack/internal/domain"
)

// TaskRepository implements domain.TaskRepository using SQLite.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new SQLite-backed TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db.SqlDB}
}

const taskColumns = "id, subject_id, title, description, due_date, priority, subject_name, complete"

// Display order: soonest due date first, higher priority breaking ties.
const taskOrder = "ORDER BY due_date ASC, priority DESC"

func (r *TaskRepository) Upsert(ctx context.Context, task *domain.Task) error {
	if task.ID == 0 {
		result, err := r.db.ExecContext(ctx,
			`INSERT INTO tasks (subject_id, title, description, due_date, priority, subject_name, complete)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			task.SubjectID, task.Title, task.Description, task.DueDate,
			int(task.Priority), task.SubjectName, task.Complete,
		)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("get task id: %w", err)
		}
		task.ID = id
		return nil
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET subject_id = ?, title = ?, description = ?, due_date = ?,
		 priority = ?, subject_name = ?, complete = ?
		 WHERE id = ?`,
		task.SubjectID, task.Title, task.Description, task.DueDate,
		int(task.Priority), task.SubjectName, task.Complete, task.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
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

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	t := &domain.Task{}
	var priority int
	err := r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = ?", id,
	).Scan(&t.ID, &t.SubjectID, &t.Title, &t.Description, &t.DueDate,
		&priority, &t.SubjectName, &t.Complete)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get task: %w", err)
	}
	t.Priority = domain.PriorityFromInt(priority)
	return t, nil
}

func (r *TaskRepository) ListUpcoming(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE complete = 0 "+taskOrder)
}

func (r *TaskRepository) ListUpcomingForSubject(ctx context.Context, subjectID int64) ([]domain.Task, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE subject_id = ? AND complete = 0 "+taskOrder,
		subjectID)
}

func (r *TaskRepository) ListCompletedForSubject(ctx context.Context, subjectID int64) ([]domain.Task, error) {
	return r.list(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE subject_id = ? AND complete = 1 "+taskOrder,
		subjectID)
}

func (r *TaskRepository) list(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var priority int
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Title, &t.Description,
			&t.DueDate, &priority, &t.SubjectName, &t.Complete); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		t.Priority = domain.PriorityFromInt(priority)
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
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

func (r *TaskRepository) DeleteForSubject(ctx context.Context, subjectID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE subject_id = ?", subjectID); err != nil {
		return fmt.Errorf("delete tasks for subject: %w", err)
	}
	return nil
}
