// AngelaMos | 2026
// service.go

package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
)

// HabitProvider resolves a habit while enforcing ownership. Satisfied by
// the habit service.
type HabitProvider interface {
	GetByID(
		ctx context.Context,
		habitID, requesterID int64,
	) (*habit.Habit, error)
}

// Service manages per-log comments. Ownership is transitive through the
// habit: whoever owns the habit owns every comment under it.
type Service struct {
	repo   Repository
	habits HabitProvider
	logger *slog.Logger
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
	}
}

// Create attaches a comment to a log. The log's habit is resolved first so
// the requester's ownership can be checked before anything is written.
func (s *Service) Create(
	ctx context.Context,
	logID, requesterID int64,
	text string,
) (*Comment, error) {
	habitID, err := s.resolveLog(ctx, logID, requesterID)
	if err != nil {
		return nil, err
	}

	if violations := ValidateText(text); len(violations) > 0 {
		return nil, core.NewValidationError(violations...)
	}

	comment := &Comment{
		HabitID:    habitID,
		HabitLogID: logID,
		Text:       SanitizeText(text),
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		"comment_id", comment.ID,
		"habit_id", habitID,
		"habit_log_id", logID,
	)

	return comment, nil
}

// ListForLog returns a log's comments in chronological order.
func (s *Service) ListForLog(
	ctx context.Context,
	logID, requesterID int64,
) ([]Comment, error) {
	if _, err := s.resolveLog(ctx, logID, requesterID); err != nil {
		return nil, err
	}
	return s.repo.ListByLog(ctx, logID)
}

// ListForHabit returns every comment under the habit, oldest first. A
// non-empty query narrows the listing to comments containing it.
func (s *Service) ListForHabit(
	ctx context.Context,
	habitID, requesterID int64,
	query string,
) ([]Comment, error) {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query != "" {
		return s.repo.Search(ctx, habitID, query)
	}
	return s.repo.ListByHabit(ctx, habitID)
}

// Update replaces a comment's text. The updated_at bump makes the comment
// report itself as edited from then on.
func (s *Service) Update(
	ctx context.Context,
	commentID, requesterID int64,
	text string,
) (*Comment, error) {
	comment, err := s.getOwned(ctx, commentID, requesterID)
	if err != nil {
		return nil, err
	}

	if violations := ValidateText(text); len(violations) > 0 {
		return nil, core.NewValidationError(violations...)
	}

	comment.Text = SanitizeText(text)
	if err := s.repo.Update(ctx, comment); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("comment", commentID)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	return comment, nil
}

func (s *Service) Delete(
	ctx context.Context,
	commentID, requesterID int64,
) error {
	if _, err := s.getOwned(ctx, commentID, requesterID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("comment", commentID)
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment deleted", "comment_id", commentID)

	return nil
}

// resolveLog maps a log to its habit and verifies the requester owns that
// habit. Returns the habit id on success.
func (s *Service) resolveLog(
	ctx context.Context,
	logID, requesterID int64,
) (int64, error) {
	habitID, err := s.repo.GetLogHabit(ctx, logID)
	if errors.Is(err, core.ErrNotFound) {
		return 0, core.NotFoundError("habit log", logID)
	}
	if err != nil {
		return 0, fmt.Errorf("resolve log: %w", err)
	}

	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return 0, err
	}

	return habitID, nil
}

func (s *Service) getOwned(
	ctx context.Context,
	commentID, requesterID int64,
) (*Comment, error) {
	comment, err := s.repo.GetByID(ctx, commentID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("comment", commentID)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	if _, err := s.habits.GetByID(ctx, comment.HabitID, requesterID); err != nil {
		s.logger.WarnContext(ctx, "comment access denied",
			"comment_id", commentID,
			"requester_id", requesterID,
		)
		return nil, err
	}

	return comment, nil
}
