// AngelaMos | 2026
// repository.go

package habit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/habitflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, habit *Habit) error
	GetByID(ctx context.Context, id int64) (*Habit, error)
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id int64) error
	DeleteLogsByHabit(ctx context.Context, habitID int64) (int64, error)
	ClearRelatedReferences(ctx context.Context, habitID int64) (int64, error)
	ListByUser(
		ctx context.Context,
		userID int64,
		includeArchived bool,
	) ([]Habit, error)
	ListByType(
		ctx context.Context,
		userID int64,
		habitType HabitType,
	) ([]Habit, error)
	ListByCategory(
		ctx context.Context,
		userID, categoryID int64,
	) ([]Habit, error)
	SetArchived(ctx context.Context, id int64, archived bool) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, habit *Habit) error {
	query := `
		INSERT INTO habits (user_id, name, description, execution_time,
		                    frequency, habit_type, reward, related_habit_id,
		                    category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, is_archived, created_at, updated_at`

	err := r.db.GetContext(ctx, habit, query,
		habit.UserID,
		habit.Name,
		habit.Description,
		habit.ExecutionTime,
		habit.Frequency,
		habit.HabitType,
		habit.Reward,
		habit.RelatedHabitID,
		habit.CategoryID,
	)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create habit: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("create habit: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Habit, error) {
	query := `
		SELECT id, user_id, name, description, execution_time, frequency,
		       habit_type, reward, related_habit_id, category_id,
		       is_archived, created_at, updated_at
		FROM habits
		WHERE id = $1`

	var habit Habit
	err := r.db.GetContext(ctx, &habit, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get habit: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}

	return &habit, nil
}

func (r *repository) Update(ctx context.Context, habit *Habit) error {
	query := `
		UPDATE habits
		SET name = $2, description = $3, execution_time = $4, frequency = $5,
		    habit_type = $6, reward = $7, related_habit_id = $8,
		    category_id = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &habit.UpdatedAt, query,
		habit.ID,
		habit.Name,
		habit.Description,
		habit.ExecutionTime,
		habit.Frequency,
		habit.HabitType,
		habit.Reward,
		habit.RelatedHabitID,
		habit.CategoryID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update habit: %w", core.ErrNotFound)
	}
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("update habit: %w", core.ErrInvalidInput)
		}
		return fmt.Errorf("update habit: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM habits WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete habit: %w", core.ErrNotFound)
	}

	return nil
}

// DeleteLogsByHabit removes every completion log tied to the habit and
// reports how many were removed. Part of the delete cascade.
func (r *repository) DeleteLogsByHabit(
	ctx context.Context,
	habitID int64,
) (int64, error) {
	query := `DELETE FROM habit_logs WHERE habit_id = $1`

	result, err := r.db.ExecContext(ctx, query, habitID)
	if err != nil {
		return 0, fmt.Errorf("delete habit logs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete habit logs: %w", err)
	}

	return rows, nil
}

// ClearRelatedReferences nulls out related_habit_id on every habit that
// points at the habit being deleted, so the delete cannot strand a
// dangling reference.
func (r *repository) ClearRelatedReferences(
	ctx context.Context,
	habitID int64,
) (int64, error) {
	query := `
		UPDATE habits
		SET related_habit_id = NULL, updated_at = NOW()
		WHERE related_habit_id = $1`

	result, err := r.db.ExecContext(ctx, query, habitID)
	if err != nil {
		return 0, fmt.Errorf("clear related references: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear related references: %w", err)
	}

	return rows, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
	includeArchived bool,
) ([]Habit, error) {
	query := `
		SELECT id, user_id, name, description, execution_time, frequency,
		       habit_type, reward, related_habit_id, category_id,
		       is_archived, created_at, updated_at
		FROM habits
		WHERE user_id = $1`
	if !includeArchived {
		query += ` AND is_archived = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	habits := []Habit{}
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	return habits, nil
}

func (r *repository) ListByType(
	ctx context.Context,
	userID int64,
	habitType HabitType,
) ([]Habit, error) {
	query := `
		SELECT id, user_id, name, description, execution_time, frequency,
		       habit_type, reward, related_habit_id, category_id,
		       is_archived, created_at, updated_at
		FROM habits
		WHERE user_id = $1 AND habit_type = $2 AND is_archived = FALSE
		ORDER BY created_at DESC`

	habits := []Habit{}
	err := r.db.SelectContext(ctx, &habits, query, userID, habitType)
	if err != nil {
		return nil, fmt.Errorf("list habits by type: %w", err)
	}

	return habits, nil
}

func (r *repository) ListByCategory(
	ctx context.Context,
	userID, categoryID int64,
) ([]Habit, error) {
	query := `
		SELECT id, user_id, name, description, execution_time, frequency,
		       habit_type, reward, related_habit_id, category_id,
		       is_archived, created_at, updated_at
		FROM habits
		WHERE user_id = $1 AND category_id = $2 AND is_archived = FALSE
		ORDER BY created_at DESC`

	habits := []Habit{}
	err := r.db.SelectContext(ctx, &habits, query, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list habits by category: %w", err)
	}

	return habits, nil
}

func (r *repository) SetArchived(
	ctx context.Context,
	id int64,
	archived bool,
) error {
	query := `
		UPDATE habits
		SET is_archived = $2, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, archived)
	if err != nil {
		return fmt.Errorf("set habit archived: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set habit archived: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set habit archived: %w", core.ErrNotFound)
	}

	return nil
}
