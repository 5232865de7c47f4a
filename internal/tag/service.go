// AngelaMos | 2026
// service.go

package tag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

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

// Service manages the user's tag vocabulary and its habit assignments.
// It holds the raw database handle because replacing a habit's tag set
// creates missing tags and swaps the assignments in one transaction.
type Service struct {
	db     *sqlx.DB
	repo   Repository
	habits HabitProvider
	logger *slog.Logger
}

func NewService(
	db *sqlx.DB,
	habits HabitProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:     db,
		repo:   NewRepository(db),
		habits: habits,
		logger: logger,
	}
}

// Assign replaces a habit's tag set. Tags are normalized first; names the
// user has not used before are created on the fly. The whole swap runs in
// one transaction so a failed assignment leaves the habit's tags as they
// were.
func (s *Service) Assign(
	ctx context.Context,
	habitID, requesterID int64,
	names []string,
) ([]Tag, error) {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return nil, err
	}

	if violations := ValidateNames(names); len(violations) > 0 {
		return nil, core.NewValidationError(violations...)
	}
	normalized := Normalize(names)

	var assigned []Tag

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		tagIDs := make([]int64, 0, len(normalized))
		assigned = make([]Tag, 0, len(normalized))

		for _, name := range normalized {
			tag, err := s.getOrCreate(ctx, repo, requesterID, name)
			if err != nil {
				return err
			}
			tagIDs = append(tagIDs, tag.ID)
			assigned = append(assigned, *tag)
		}

		return repo.ReplaceHabitTags(ctx, habitID, tagIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("assign tags: %w", err)
	}

	s.logger.InfoContext(ctx, "habit tags replaced",
		"habit_id", habitID,
		"user_id", requesterID,
		"tag_count", len(assigned),
	)

	return assigned, nil
}

func (s *Service) ListForHabit(
	ctx context.Context,
	habitID, requesterID int64,
) ([]Tag, error) {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return nil, err
	}
	return s.repo.ListByHabit(ctx, habitID)
}

// Remove detaches a tag from a habit. A tag left with no habits is deleted
// outright; an unused tag is noise in the suggestion list.
func (s *Service) Remove(
	ctx context.Context,
	habitID, tagID, requesterID int64,
) error {
	if _, err := s.habits.GetByID(ctx, habitID, requesterID); err != nil {
		return err
	}

	tag, err := s.repo.GetByID(ctx, tagID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NotFoundError("tag", tagID)
	}
	if err != nil {
		return fmt.Errorf("remove tag: %w", err)
	}
	if tag.UserID != requesterID {
		return core.AuthorizationError("tag", "remove")
	}

	if err := s.repo.RemoveFromHabit(ctx, habitID, tagID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("tag", tagID)
		}
		return fmt.Errorf("remove tag: %w", err)
	}

	remaining, err := s.repo.CountHabits(ctx, tagID)
	if err != nil {
		return fmt.Errorf("remove tag: %w", err)
	}
	if remaining == 0 {
		if err := s.repo.Delete(ctx, tagID); err != nil {
			return fmt.Errorf("remove tag: %w", err)
		}
	}

	return nil
}

func (s *Service) ListForUser(
	ctx context.Context,
	userID int64,
) ([]Tag, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Suggest completes a tag prefix against the user's vocabulary.
func (s *Service) Suggest(
	ctx context.Context,
	userID int64,
	prefix string,
) ([]string, error) {
	return s.repo.Suggest(ctx, userID, strings.ToLower(
		strings.TrimSpace(prefix)))
}

// CleanupUnused drops every tag of the user that no habit references.
func (s *Service) CleanupUnused(
	ctx context.Context,
	userID int64,
) (int64, error) {
	deleted, err := s.repo.DeleteUnused(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("cleanup unused tags: %w", err)
	}

	if deleted > 0 {
		s.logger.InfoContext(ctx, "unused tags removed",
			"user_id", userID,
			"deleted", deleted,
		)
	}

	return deleted, nil
}

func (s *Service) getOrCreate(
	ctx context.Context,
	repo Repository,
	userID int64,
	name string,
) (*Tag, error) {
	tag, err := repo.GetByName(ctx, userID, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	created := &Tag{UserID: userID, Name: name}
	if err := repo.Create(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}
