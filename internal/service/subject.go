package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
)

// SubjectService handles subject lifecycle, including the cascade delete of
// everything referencing a subject.
type SubjectService struct {
	subjects domain.SubjectRepository
	tasks    domain.TaskRepository
	sessions domain.SessionRepository
	changes  *broadcast.Broadcast[struct{}]
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjects domain.SubjectRepository, tasks domain.TaskRepository, sessions domain.SessionRepository, changes *broadcast.Broadcast[struct{}]) *SubjectService {
	return &SubjectService{subjects: subjects, tasks: tasks, sessions: sessions, changes: changes}
}

// ParseGoalHours converts raw goal-hours input to a float. Unparsable or
// non-positive input defaults to 1 so progress division is always safe.
func ParseGoalHours(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || v <= 0 {
		return 1
	}
	return v
}

// Save validates and upserts a subject. ID zero creates a new subject and
// fills in the assigned id.
func (s *SubjectService) Save(ctx context.Context, id int64, name string, goalHours float64, colors []int64) (*domain.Subject, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > domain.SubjectNameMaxLen {
		return nil, fmt.Errorf("%w: subject name must be 1-%d characters", domain.ErrInvalidInput, domain.SubjectNameMaxLen)
	}
	if goalHours < domain.GoalHoursMin || goalHours > domain.GoalHoursMax {
		return nil, fmt.Errorf("%w: goal hours must be between %v and %v", domain.ErrInvalidInput, domain.GoalHoursMin, domain.GoalHoursMax)
	}

	subject := &domain.Subject{
		ID:        id,
		Name:      name,
		GoalHours: goalHours,
		Colors:    colors,
	}
	if err := s.subjects.Upsert(ctx, subject); err != nil {
		return nil, fmt.Errorf("upsert subject: %w", err)
	}

	s.changes.Publish(struct{}{})
	return subject, nil
}

// GetByID returns a subject by id.
func (s *SubjectService) GetByID(ctx context.Context, id int64) (*domain.Subject, error) {
	return s.subjects.GetByID(ctx, id)
}

// List returns all subjects.
func (s *SubjectService) List(ctx context.Context) ([]domain.Subject, error) {
	return s.subjects.List(ctx)
}

// Delete removes a subject and everything referencing it, in a fixed
// order: tasks, then sessions, then the subject row itself.
func (s *SubjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.subjects.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.tasks.DeleteForSubject(ctx, id); err != nil {
		return fmt.Errorf("cascade tasks: %w", err)
	}
	if err := s.sessions.DeleteForSubject(ctx, id); err != nil {
		return fmt.Errorf("cascade sessions: %w", err)
	}
	if err := s.subjects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}

	s.changes.Publish(struct{}{})
	return nil
}
