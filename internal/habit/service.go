// AngelaMos | 2026
// service.go

package habit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/habitflow/internal/core"
)

// CategoryProvider confirms that a category exists and belongs to a user.
// Satisfied by the category service.
type CategoryProvider interface {
	EnsureOwned(ctx context.Context, categoryID, requesterID int64) error
}

// Service owns the habit lifecycle. It holds the raw database handle in
// addition to the repository because deletion runs a multi-statement
// cascade inside a single transaction.
type Service struct {
	db         *sqlx.DB
	repo       Repository
	validator  *PayloadValidator
	categories CategoryProvider
	logger     *slog.Logger
}

func NewService(
	db *sqlx.DB,
	categories CategoryProvider,
	logger *slog.Logger,
) *Service {
	return &Service{
		db:         db,
		repo:       NewRepository(db),
		validator:  NewPayloadValidator(),
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID int64,
	payload map[string]any,
) (*Habit, error) {
	if result := s.validator.Validate(payload); !result.Valid {
		return nil, core.NewValidationError(result.Errors...)
	}

	habit := habitFromPayload(userID, payload)

	if violations := habit.ValidateBusinessRules(); len(violations) > 0 {
		return nil, core.NewValidationError(violations...)
	}

	if err := s.checkRelatedHabit(ctx, &habit, userID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, &habit, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &habit); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, core.NewValidationError(
				"related habit does not exist")
		}
		return nil, fmt.Errorf("create habit: %w", err)
	}

	s.logger.InfoContext(ctx, "habit created",
		"habit_id", habit.ID,
		"user_id", userID,
		"habit_type", habit.HabitType,
	)

	return &habit, nil
}

func (s *Service) GetByID(
	ctx context.Context,
	habitID, requesterID int64,
) (*Habit, error) {
	return s.getOwned(ctx, habitID, requesterID, "view")
}

func (s *Service) Update(
	ctx context.Context,
	habitID, requesterID int64,
	payload map[string]any,
) (*Habit, error) {
	current, err := s.getOwned(ctx, habitID, requesterID, "update")
	if err != nil {
		return nil, err
	}

	if result := s.validator.ValidatePartial(payload); !result.Valid {
		return nil, core.NewValidationError(result.Errors...)
	}

	// The patch is applied to a copy; the stored habit is only replaced
	// once the merged result passes every business rule.
	updated := current.Apply(patchFromPayload(payload))

	if violations := updated.ValidateBusinessRules(); len(violations) > 0 {
		return nil, core.NewValidationError(violations...)
	}

	if err := s.checkRelatedHabit(ctx, &updated, requesterID); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, &updated, requesterID); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return nil, core.NewValidationError(
				"related habit does not exist")
		}
		return nil, fmt.Errorf("update habit: %w", err)
	}

	return &updated, nil
}

// Delete removes a habit and everything that references it in one
// transaction: completion logs go first, then habits pointing at this one
// as their related habit are unlinked, then the habit row itself.
func (s *Service) Delete(
	ctx context.Context,
	habitID, requesterID int64,
) error {
	if _, err := s.getOwned(ctx, habitID, requesterID, "delete"); err != nil {
		return err
	}

	var logsDeleted, refsCleared int64

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		var err error
		if logsDeleted, err = repo.DeleteLogsByHabit(ctx, habitID); err != nil {
			return err
		}
		if refsCleared, err = repo.ClearRelatedReferences(ctx, habitID); err != nil {
			return err
		}
		return repo.Delete(ctx, habitID)
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("habit", habitID)
		}
		return fmt.Errorf("delete habit: %w", err)
	}

	s.logger.InfoContext(ctx, "habit deleted",
		"habit_id", habitID,
		"user_id", requesterID,
		"logs_deleted", logsDeleted,
		"references_cleared", refsCleared,
	)

	return nil
}

func (s *Service) Archive(
	ctx context.Context,
	habitID, requesterID int64,
) (*Habit, error) {
	return s.setArchived(ctx, habitID, requesterID, true)
}

func (s *Service) Restore(
	ctx context.Context,
	habitID, requesterID int64,
) (*Habit, error) {
	return s.setArchived(ctx, habitID, requesterID, false)
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID int64,
	includeArchived bool,
) ([]Habit, error) {
	return s.repo.ListByUser(ctx, userID, includeArchived)
}

func (s *Service) ListByType(
	ctx context.Context,
	userID int64,
	habitType HabitType,
) ([]Habit, error) {
	if !habitType.Valid() {
		return nil, core.NewValidationError(
			fmt.Sprintf("invalid habit type: %s", habitType))
	}
	return s.repo.ListByType(ctx, userID, habitType)
}

// ListByCategory returns the user's active habits filed under a category
// they own.
func (s *Service) ListByCategory(
	ctx context.Context,
	userID, categoryID int64,
) ([]Habit, error) {
	if err := s.categories.EnsureOwned(ctx, categoryID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByCategory(ctx, userID, categoryID)
}

func (s *Service) setArchived(
	ctx context.Context,
	habitID, requesterID int64,
	archived bool,
) (*Habit, error) {
	action := "archive"
	if !archived {
		action = "restore"
	}

	habit, err := s.getOwned(ctx, habitID, requesterID, action)
	if err != nil {
		return nil, err
	}
	if habit.IsArchived == archived {
		return habit, nil
	}

	if err := s.repo.SetArchived(ctx, habitID, archived); err != nil {
		return nil, fmt.Errorf("%s habit: %w", action, err)
	}

	habit.IsArchived = archived
	return habit, nil
}

// getOwned fetches a habit and enforces ownership. A habit belonging to
// someone else yields an authorization error, not a not-found, so the
// caller can tell the two apart.
func (s *Service) getOwned(
	ctx context.Context,
	habitID, requesterID int64,
	action string,
) (*Habit, error) {
	habit, err := s.repo.GetByID(ctx, habitID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("habit", habitID)
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}

	if habit.UserID != requesterID {
		s.logger.WarnContext(ctx, "habit ownership check failed",
			"habit_id", habitID,
			"owner_id", habit.UserID,
			"requester_id", requesterID,
			"action", action,
		)
		return nil, core.AuthorizationError("habit", action)
	}

	return habit, nil
}

// checkRelatedHabit verifies that a linked habit exists, belongs to the
// same user, and is not the habit itself.
func (s *Service) checkRelatedHabit(
	ctx context.Context,
	habit *Habit,
	userID int64,
) error {
	if habit.RelatedHabitID == nil {
		return nil
	}

	relatedID := *habit.RelatedHabitID
	if relatedID == habit.ID && habit.ID != 0 {
		return core.NewValidationError(
			"a habit cannot be related to itself")
	}

	related, err := s.repo.GetByID(ctx, relatedID)
	if errors.Is(err, core.ErrNotFound) {
		return core.NewValidationError("related habit does not exist")
	}
	if err != nil {
		return fmt.Errorf("check related habit: %w", err)
	}

	if related.UserID != userID {
		return core.NewValidationError(
			"related habit must belong to the same user")
	}
	if !related.IsPleasant() {
		return core.NewValidationError(
			"related habit must be a pleasant habit")
	}

	return nil
}

// checkCategory verifies that a referenced category exists and belongs to
// the habit's owner.
func (s *Service) checkCategory(
	ctx context.Context,
	habit *Habit,
	userID int64,
) error {
	if habit.CategoryID == nil {
		return nil
	}

	err := s.categories.EnsureOwned(ctx, *habit.CategoryID, userID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		return core.NewValidationError("category does not exist")
	case errors.Is(err, core.ErrForbidden):
		return core.NewValidationError(
			"category must belong to the same user")
	case err != nil:
		return fmt.Errorf("check category: %w", err)
	}

	return nil
}
