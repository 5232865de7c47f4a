// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/habitflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id int64) (*Category, error)
	ListByUser(ctx context.Context, userID int64) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error
	ReleaseHabits(ctx context.Context, categoryID int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *Category) error {
	query := `
		INSERT INTO categories (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, category, query,
		category.UserID,
		category.Name,
		category.Color,
		category.Icon,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.color, c.icon, c.created_at,
		       (SELECT COUNT(*) FROM habits h
		        WHERE h.category_id = c.id) AS habits_count
		FROM categories c
		WHERE c.id = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.color, c.icon, c.created_at,
		       COUNT(h.id) AS habits_count
		FROM categories c
		LEFT JOIN habits h ON h.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name ASC`

	categories := []Category{}
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) Update(ctx context.Context, category *Category) error {
	query := `
		UPDATE categories
		SET name = $2, color = $3, icon = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Color,
		category.Icon,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("update category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}

	return nil
}

// ReleaseHabits detaches every habit filed under the category and reports
// how many were released. Part of the category delete cascade.
func (r *repository) ReleaseHabits(
	ctx context.Context,
	categoryID int64,
) (int64, error) {
	query := `
		UPDATE habits
		SET category_id = NULL, updated_at = NOW()
		WHERE category_id = $1`

	result, err := r.db.ExecContext(ctx, query, categoryID)
	if err != nil {
		return 0, fmt.Errorf("release habits: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("release habits: %w", err)
	}

	return rows, nil
}
