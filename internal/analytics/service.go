// AngelaMos | 2026
// service.go

package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelamos/habitflow/internal/habit"
	"github.com/angelamos/habitflow/internal/habitlog"
)

// HabitProvider is the slice of the habit service the analytics engine
// reads through, so every query carries the same ownership checks as the
// rest of the API.
type HabitProvider interface {
	GetByID(
		ctx context.Context,
		habitID, requesterID int64,
	) (*habit.Habit, error)
	ListByUser(
		ctx context.Context,
		userID int64,
		includeArchived bool,
	) ([]habit.Habit, error)
}

// TrackingDaysProvider supplies a user's default analytics window.
// Satisfied by the user service.
type TrackingDaysProvider interface {
	GetTrackingDays(ctx context.Context, userID int64) (int, error)
}

// Service computes completion statistics over a bounded tracking window.
type Service struct {
	habits HabitProvider
	logs   habitlog.Repository
	users  TrackingDaysProvider
	logger *slog.Logger
	now    func() time.Time
}

func NewService(
	habits HabitProvider,
	logs habitlog.Repository,
	users TrackingDaysProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		habits: habits,
		logs:   logs,
		users:  users,
		logger: logger,
		now:    time.Now,
	}
}

// HabitStatistics builds the full stat block for one habit over the given
// window. A zero trackingDays falls back to the user's configured default.
func (s *Service) HabitStatistics(
	ctx context.Context,
	habitID, requesterID int64,
	trackingDays int,
) (*HabitStatistics, error) {
	h, err := s.habits.GetByID(ctx, habitID, requesterID)
	if err != nil {
		return nil, err
	}

	days, err := s.resolveWindow(ctx, requesterID, trackingDays)
	if err != nil {
		return nil, err
	}

	return s.buildStatistics(ctx, h, days)
}

// UserSummary aggregates statistics across every active habit the user
// has, plus habit counts by kind.
func (s *Service) UserSummary(
	ctx context.Context,
	userID int64,
	trackingDays int,
) (*UserSummary, error) {
	days, err := s.resolveWindow(ctx, userID, trackingDays)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("user summary: %w", err)
	}

	summary := &UserSummary{
		UserID:       userID,
		TrackingDays: days,
		TotalHabits:  len(habits),
		Habits:       []HabitStatistics{},
	}

	for i := range habits {
		h := &habits[i]

		if h.IsUseful() {
			summary.UsefulHabits++
		} else {
			summary.PleasantHabits++
		}
		if h.IsArchived {
			continue
		}
		summary.ActiveHabits++

		stats, err := s.buildStatistics(ctx, h, days)
		if err != nil {
			return nil, err
		}
		summary.Habits = append(summary.Habits, *stats)
	}

	return summary, nil
}

func (s *Service) buildStatistics(
	ctx context.Context,
	h *habit.Habit,
	days int,
) (*HabitStatistics, error) {
	today := s.today()
	from := today.AddDate(0, 0, -(days - 1))

	completed, err := s.logs.CountCompleted(ctx, h.ID, from, today)
	if err != nil {
		return nil, fmt.Errorf("habit statistics: %w", err)
	}

	total, err := s.logs.CountCompletedTotal(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("habit statistics: %w", err)
	}

	last, err := s.logs.LastCompletedDate(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("habit statistics: %w", err)
	}

	dates, err := s.logs.ListCompletedDates(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("habit statistics: %w", err)
	}
	current, best := computeStreaks(dates, today)

	stats := &HabitStatistics{
		HabitID:           h.ID,
		HabitName:         h.Name,
		HabitType:         string(h.HabitType),
		TrackingDays:      days,
		CompletedCount:    completed,
		CompletionPercent: percentage(completed, days),
		CurrentStreak:     current,
		BestStreak:        best,
		TotalCompletions:  total,
	}
	if last != nil {
		formatted := last.Format("2006-01-02")
		stats.LastCompletedDate = &formatted
	}

	return stats, nil
}

// resolveWindow picks the tracking window: explicit request value first,
// then the user's stored default, then the package default, and validates
// whichever won.
func (s *Service) resolveWindow(
	ctx context.Context,
	userID int64,
	requested int,
) (int, error) {
	days := requested
	if days == 0 {
		stored, err := s.users.GetTrackingDays(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("resolve tracking window: %w", err)
		}
		days = stored
	}
	if days == 0 {
		days = DefaultTrackingDays
	}

	if err := ValidateTrackingDays(days); err != nil {
		return 0, err
	}

	return days, nil
}

func (s *Service) today() time.Time {
	now := s.now()
	return time.Date(
		now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func percentage(completed, days int) float64 {
	if days <= 0 {
		return 0
	}
	return float64(completed) / float64(days) * 100
}

// computeStreaks walks the ascending list of completed days and returns
// the current streak and the best streak ever. The current streak only
// counts if its most recent day is today or yesterday.
func computeStreaks(dates []time.Time, today time.Time) (int, int) {
	if len(dates) == 0 {
		return 0, 0
	}

	best := 1
	run := 1
	for i := 1; i < len(dates); i++ {
		gap := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if gap == 1 {
			run++
		} else if gap > 1 {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	latest := dates[len(dates)-1]
	sinceLatest := int(today.Sub(latest).Hours() / 24)
	if sinceLatest > 1 {
		return 0, best
	}

	return run, best
}
