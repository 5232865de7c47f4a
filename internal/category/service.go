// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/angelamos/habitflow/internal/core"
)

// Service owns category lifecycle and ownership checks. It holds the raw
// database handle because deletion releases the category's habits and
// removes the category in one transaction.
type Service struct {
	db     *sqlx.DB
	repo   Repository
	logger *slog.Logger
}

func NewService(db *sqlx.DB, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		repo:   NewRepository(db),
		logger: logger,
	}
}

func (s *Service) Create(
	ctx context.Context,
	userID int64,
	req CreateCategoryRequest,
) (*Category, error) {
	category := Category{
		UserID: userID,
		Name:   req.Name,
		Color:  defaultColor,
		Icon:   req.Icon,
	}
	if req.Color != nil {
		category.Color = *req.Color
	}

	if err := s.repo.Create(ctx, &category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("category name")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.InfoContext(ctx, "category created",
		"category_id", category.ID,
		"user_id", userID,
	)

	return &category, nil
}

func (s *Service) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetByID(
	ctx context.Context,
	categoryID, requesterID int64,
) (*Category, error) {
	return s.getOwned(ctx, categoryID, requesterID, "view")
}

func (s *Service) Update(
	ctx context.Context,
	categoryID, requesterID int64,
	req UpdateCategoryRequest,
) (*Category, error) {
	category, err := s.getOwned(ctx, categoryID, requesterID, "update")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.Icon != nil {
		category.Icon = req.Icon
	}

	if err := s.repo.Update(ctx, category); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("category name")
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// Delete removes a category and releases its habits in one transaction.
// The habits survive; only the grouping disappears.
func (s *Service) Delete(
	ctx context.Context,
	categoryID, requesterID int64,
) error {
	if _, err := s.getOwned(ctx, categoryID, requesterID, "delete"); err != nil {
		return err
	}

	var released int64

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		var err error
		if released, err = repo.ReleaseHabits(ctx, categoryID); err != nil {
			return err
		}
		return repo.Delete(ctx, categoryID)
	})
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NotFoundError("category", categoryID)
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "category deleted",
		"category_id", categoryID,
		"user_id", requesterID,
		"habits_released", released,
	)

	return nil
}

// EnsureOwned reports whether the category exists and belongs to the
// requester. Satisfies habit.CategoryProvider.
func (s *Service) EnsureOwned(
	ctx context.Context,
	categoryID, requesterID int64,
) error {
	_, err := s.getOwned(ctx, categoryID, requesterID, "use")
	return err
}

// Predefined returns the starter category names.
func (s *Service) Predefined() []string {
	names := make([]string, len(PredefinedNames))
	copy(names, PredefinedNames)
	return names
}

func (s *Service) getOwned(
	ctx context.Context,
	categoryID, requesterID int64,
	action string,
) (*Category, error) {
	category, err := s.repo.GetByID(ctx, categoryID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NotFoundError("category", categoryID)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	if category.UserID != requesterID {
		s.logger.WarnContext(ctx, "category ownership check failed",
			"category_id", categoryID,
			"owner_id", category.UserID,
			"requester_id", requesterID,
			"action", action,
		)
		return nil, core.AuthorizationError("category", action)
	}

	return category, nil
}
