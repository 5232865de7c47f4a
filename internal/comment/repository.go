// AngelaMos | 2026
// repository.go

package comment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/habitflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id int64) (*Comment, error)
	ListByLog(ctx context.Context, logID int64) ([]Comment, error)
	ListByHabit(ctx context.Context, habitID int64) ([]Comment, error)
	Search(
		ctx context.Context,
		habitID int64,
		query string,
	) ([]Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id int64) error
	GetLogHabit(ctx context.Context, logID int64) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (habit_id, habit_log_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, comment, query,
		comment.HabitID, comment.HabitLogID, comment.Text)
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*Comment, error) {
	query := `
		SELECT id, habit_id, habit_log_id, text, created_at, updated_at
		FROM comments
		WHERE id = $1`

	var comment Comment
	err := r.db.GetContext(ctx, &comment, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	return &comment, nil
}

func (r *repository) ListByLog(
	ctx context.Context,
	logID int64,
) ([]Comment, error) {
	query := `
		SELECT id, habit_id, habit_log_id, text, created_at, updated_at
		FROM comments
		WHERE habit_log_id = $1
		ORDER BY created_at ASC`

	comments := []Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, logID); err != nil {
		return nil, fmt.Errorf("list log comments: %w", err)
	}

	return comments, nil
}

func (r *repository) ListByHabit(
	ctx context.Context,
	habitID int64,
) ([]Comment, error) {
	query := `
		SELECT id, habit_id, habit_log_id, text, created_at, updated_at
		FROM comments
		WHERE habit_id = $1
		ORDER BY created_at ASC`

	comments := []Comment{}
	if err := r.db.SelectContext(ctx, &comments, query, habitID); err != nil {
		return nil, fmt.Errorf("list habit comments: %w", err)
	}

	return comments, nil
}

func (r *repository) Search(
	ctx context.Context,
	habitID int64,
	query string,
) ([]Comment, error) {
	stmt := `
		SELECT id, habit_id, habit_log_id, text, created_at, updated_at
		FROM comments
		WHERE habit_id = $1 AND text ILIKE '%' || $2 || '%'
		ORDER BY created_at ASC`

	comments := []Comment{}
	err := r.db.SelectContext(ctx, &comments, stmt, habitID, query)
	if err != nil {
		return nil, fmt.Errorf("search comments: %w", err)
	}

	return comments, nil
}

func (r *repository) Update(ctx context.Context, comment *Comment) error {
	query := `
		UPDATE comments
		SET text = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &comment.UpdatedAt, query,
		comment.ID, comment.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update comment: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM comments WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete comment: %w", core.ErrNotFound)
	}

	return nil
}

// GetLogHabit resolves the habit a log belongs to, so comment operations can
// route ownership checks through the habit.
func (r *repository) GetLogHabit(
	ctx context.Context,
	logID int64,
) (int64, error) {
	query := `SELECT habit_id FROM habit_logs WHERE id = $1`

	var habitID int64
	err := r.db.GetContext(ctx, &habitID, query, logID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get log habit: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get log habit: %w", err)
	}

	return habitID, nil
}
