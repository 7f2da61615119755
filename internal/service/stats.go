package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/hasheddev/studytrack/internal/broadcast"
	"github.com/hasheddev/studytrack/internal/domain"
)

// SecondsToHours converts studied seconds to hours, rounded to two
// decimals.
func SecondsToHours(seconds int64) float64 {
	return math.Round(float64(seconds)/3600*100) / 100
}

// Progress returns the studied-to-goal fraction clamped to [0, 1]. A goal
// of zero or less is treated as 1 to avoid division by zero.
func Progress(hoursStudied, goalHours float64) float64 {
	if goalHours <= 0 {
		goalHours = 1
	}
	p := hoursStudied / goalHours
	return math.Min(math.Max(p, 0), 1)
}

// Percentage converts a progress fraction to a display percentage, rounded
// and clamped to [0, 100].
func Percentage(progress float64) int {
	p := int(math.Round(progress * 100))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DashboardStats are the top-level aggregates across all subjects and
// sessions.
type DashboardStats struct {
	SubjectCount      int     `json:"subjectCount"`
	TotalGoalHours    float64 `json:"totalGoalHours"`
	TotalHoursStudied float64 `json:"totalHoursStudied"`
}

// SubjectStats is a single subject's studied time against its goal.
type SubjectStats struct {
	HoursStudied float64 `json:"hoursStudied"`
	GoalHours    float64 `json:"goalHours"`
	Progress     float64 `json:"progress"`
	Percentage   int     `json:"percentage"`
}

// StatsService recomputes derived study statistics from persisted data
// whenever it changes. Deleting a session shrinks the totals on the next
// recompute; nothing is ever subtracted in place.
type StatsService struct {
	subjects domain.SubjectRepository
	sessions domain.SessionRepository
	changes  *broadcast.Broadcast[struct{}]
	updates  *broadcast.Broadcast[DashboardStats]
}

// NewStatsService creates a new StatsService listening on changes.
func NewStatsService(subjects domain.SubjectRepository, sessions domain.SessionRepository, changes *broadcast.Broadcast[struct{}]) *StatsService {
	return &StatsService{
		subjects: subjects,
		sessions: sessions,
		changes:  changes,
		updates:  broadcast.New[DashboardStats](),
	}
}

// Refresh recomputes the dashboard aggregates and publishes them.
func (s *StatsService) Refresh(ctx context.Context) (DashboardStats, error) {
	count, err := s.subjects.Count(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("count subjects: %w", err)
	}
	goalHours, err := s.subjects.TotalGoalHours(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("total goal hours: %w", err)
	}
	totalSeconds, err := s.sessions.TotalDuration(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("total duration: %w", err)
	}

	stats := DashboardStats{
		SubjectCount:      count,
		TotalGoalHours:    goalHours,
		TotalHoursStudied: SecondsToHours(totalSeconds),
	}
	s.updates.Publish(stats)
	return stats, nil
}

// ForSubject returns a subject's studied hours and goal progress.
func (s *StatsService) ForSubject(ctx context.Context, subjectID int64) (SubjectStats, error) {
	subject, err := s.subjects.GetByID(ctx, subjectID)
	if err != nil {
		return SubjectStats{}, err
	}
	totalSeconds, err := s.sessions.TotalDurationForSubject(ctx, subjectID)
	if err != nil {
		return SubjectStats{}, fmt.Errorf("total duration for subject: %w", err)
	}

	hours := SecondsToHours(totalSeconds)
	progress := Progress(hours, subject.GoalHours)
	return SubjectStats{
		HoursStudied: hours,
		GoalHours:    subject.GoalHours,
		Progress:     progress,
		Percentage:   Percentage(progress),
	}, nil
}

// Run recomputes on every persistence change until ctx is cancelled. A
// failed recompute is logged and skipped; the loop never terminates over
// it.
func (s *StatsService) Run(ctx context.Context) {
	if _, err := s.Refresh(ctx); err != nil {
		slog.Error("initial stats refresh", "error", err)
	}

	ch, cancel := s.changes.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			if _, err := s.Refresh(ctx); err != nil {
				slog.Error("stats refresh", "error", err)
			}
		}
	}
}

// Updates subscribes to recomputed dashboard stats with replay-latest
// semantics.
func (s *StatsService) Updates() (<-chan DashboardStats, func()) {
	return s.updates.Subscribe()
}
