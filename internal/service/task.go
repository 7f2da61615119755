package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
)

// TaskService handles task lifecycle. Every task belongs to exactly one
// subject; saving without one is rejected.
type TaskService struct {
	tasks    domain.TaskRepository
	subjects domain.SubjectRepository
	changes  *broadcast.Broadcast[struct{}]
	now      func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository, subjects domain.SubjectRepository, changes *broadcast.Broadcast[struct{}]) *TaskService {
	return &TaskService{tasks: tasks, subjects: subjects, changes: changes, now: time.Now}
}

// Save validates and upserts a task. A zero due date defaults to now; the
// subject name snapshot is refreshed from the referenced subject.
func (s *TaskService) Save(ctx context.Context, task *domain.Task) error {
	if task.SubjectID == 0 {
		return domain.ErrNoSubject
	}
	if strings.TrimSpace(task.Title) == "" {
		return fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if task.DueDate == 0 {
		task.DueDate = s.now().UnixMilli()
	}

	subject, err := s.subjects.GetByID(ctx, task.SubjectID)
	if err != nil {
		return fmt.Errorf("get subject for task: %w", err)
	}
	task.SubjectName = subject.Name

	if err := s.tasks.Upsert(ctx, task); err != nil {
		return fmt.Errorf("upsert task: %w", err)
	}

	s.changes.Publish(struct{}{})
	return nil
}

// ToggleComplete flips a task's completion flag.
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Complete = !task.Complete
	if err := s.tasks.Upsert(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	s.changes.Publish(struct{}{})
	return task, nil
}

// GetByID returns a task by id.
func (s *TaskService) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// Upcoming returns all incomplete tasks in display order.
func (s *TaskService) Upcoming(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.ListUpcoming(ctx)
}

// UpcomingForSubject returns a subject's incomplete tasks in display order.
func (s *TaskService) UpcomingForSubject(ctx context.Context, subjectID int64) ([]domain.Task, error) {
	return s.tasks.ListUpcomingForSubject(ctx, subjectID)
}

// CompletedForSubject returns a subject's completed tasks.
func (s *TaskService) CompletedForSubject(ctx context.Context, subjectID int64) ([]domain.Task, error) {
	return s.tasks.ListCompletedForSubject(ctx, subjectID)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Publish(struct{}{})
	return nil
}
