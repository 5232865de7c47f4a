// AngelaMos | 2026
// service.go

package habitlog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
)

// defaultRangeDays is how far back a log listing reaches when the caller
// does not give an explicit range.
const defaultRangeDays = 30

// HabitProvider resolves a habit while enforcing ownership. Satisfied by
// the habit service.
type HabitProvider interface {
	GetByID(
		ctx context.Context,
		habitID, requesterID int64,
	) (*habit.Habit, error)
}

// Service records and toggles daily habit completions. Ownership is
// transitive: a log belongs to whoever owns its habit, so every operation
// goes through the habit provider first.
type Service struct {
	repo   Repository
	habits HabitProvider
	logger *slog.Logger
	now    func() time.Time
}

func NewService(
	repo Repository,
	habits HabitProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		habits: habits,
		logger: logger,
		now:    time.Now,
	}
}

// Toggle flips the completion state for one habit on one day. The first
// toggle of a day creates the log as completed; toggling again flips it
// back. Days in the future cannot be logged.
func (s *Service) Toggle(
	ctx context.Context,
	habitID, requesterID int64,
	req ToggleRequest,
) (*HabitLog, error) {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return nil, err
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByHabitAndDate(ctx, habitID, date)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("toggle habit log: %w", err)
	}

	if existing != nil {
		existing.Completed = !existing.Completed
		applyDetails(existing, req)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("toggle habit log: %w", err)
		}
		return existing, nil
	}

	log := &HabitLog{
		HabitID:   habitID,
		LogDate:   date,
		Completed: true,
	}
	applyDetails(log, req)

	err = s.repo.Create(ctx, log)
	if errors.Is(err, core.ErrDuplicateKey) {
		// Lost a race with a concurrent toggle for the same day; flip
		// the row that won instead.
		existing, getErr := s.repo.GetByHabitAndDate(ctx, habitID, date)
		if getErr != nil {
			return nil, fmt.Errorf("toggle habit log: %w", getErr)
		}
		existing.Completed = !existing.Completed
		applyDetails(existing, req)
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("toggle habit log: %w", err)
		}
		return existing, nil
	}
	if err != nil {
		return nil, fmt.Errorf("toggle habit log: %w", err)
	}

	s.logger.InfoContext(ctx, "habit log created",
		"habit_id", habitID,
		"log_date", log.DateString(),
	)

	return log, nil
}

// ListRange returns the habit's logs between two dates inclusive. Absent
// bounds default to the last 30 days ending today.
func (s *Service) ListRange(
	ctx context.Context,
	habitID, requesterID int64,
	fromStr, toStr string,
) ([]HabitLog, error) {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return nil, err
	}

	today := normalizeDate(s.now())

	to := today
	if toStr != "" {
		var err error
		if to, err = ParseDate(toStr); err != nil {
			return nil, core.NewValidationError(
				"to date must use the YYYY-MM-DD format")
		}
	}

	from := to.AddDate(0, 0, -(defaultRangeDays - 1))
	if fromStr != "" {
		var err error
		if from, err = ParseDate(fromStr); err != nil {
			return nil, core.NewValidationError(
				"from date must use the YYYY-MM-DD format")
		}
	}

	if from.After(to) {
		return nil, core.NewValidationError(
			"from date cannot be after to date")
	}

	return s.repo.ListByHabit(ctx, habitID, from, to)
}

// resolveDate parses the requested day, defaulting to today, and rejects
// future days.
func (s *Service) resolveDate(raw string) (time.Time, error) {
	today := normalizeDate(s.now())
	if raw == "" {
		return today, nil
	}

	date, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, core.NewValidationError(
			"date must use the YYYY-MM-DD format")
	}
	if date.After(today) {
		return time.Time{}, core.NewValidationError(
			"cannot log a habit for a future date")
	}

	return date, nil
}

func applyDetails(log *HabitLog, req ToggleRequest) {
	if req.Notes != nil {
		log.Notes = req.Notes
	}
	if req.Duration != nil {
		log.Duration = req.Duration
	}
}
