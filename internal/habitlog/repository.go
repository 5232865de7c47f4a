// AngelaMos | 2026
// repository.go

package habitlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/angelamos/habitflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, log *HabitLog) error
	GetByHabitAndDate(
		ctx context.Context,
		habitID int64,
		date time.Time,
	) (*HabitLog, error)
	Update(ctx context.Context, log *HabitLog) error
	ListByHabit(
		ctx context.Context,
		habitID int64,
		from, to time.Time,
	) ([]HabitLog, error)
	CountCompleted(
		ctx context.Context,
		habitID int64,
		from, to time.Time,
	) (int, error)
	CountCompletedTotal(ctx context.Context, habitID int64) (int, error)
	LastCompletedDate(
		ctx context.Context,
		habitID int64,
	) (*time.Time, error)
	ListCompletedDates(
		ctx context.Context,
		habitID int64,
	) ([]time.Time, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *HabitLog) error {
	query := `
		INSERT INTO habit_logs (habit_id, log_date, completed, notes, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, log, query,
		log.HabitID,
		log.LogDate,
		log.Completed,
		log.Notes,
		log.Duration,
	)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create habit log: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create habit log: %w", err)
	}

	return nil
}

func (r *repository) GetByHabitAndDate(
	ctx context.Context,
	habitID int64,
	date time.Time,
) (*HabitLog, error) {
	query := `
		SELECT id, habit_id, log_date, completed, notes, duration,
		       created_at, updated_at
		FROM habit_logs
		WHERE habit_id = $1 AND log_date = $2`

	var log HabitLog
	err := r.db.GetContext(ctx, &log, query, habitID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get habit log: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get habit log: %w", err)
	}

	return &log, nil
}

func (r *repository) Update(ctx context.Context, log *HabitLog) error {
	query := `
		UPDATE habit_logs
		SET completed = $2, notes = $3, duration = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &log.UpdatedAt, query,
		log.ID,
		log.Completed,
		log.Notes,
		log.Duration,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update habit log: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update habit log: %w", err)
	}

	return nil
}

func (r *repository) ListByHabit(
	ctx context.Context,
	habitID int64,
	from, to time.Time,
) ([]HabitLog, error) {
	query := `
		SELECT id, habit_id, log_date, completed, notes, duration,
		       created_at, updated_at
		FROM habit_logs
		WHERE habit_id = $1 AND log_date BETWEEN $2 AND $3
		ORDER BY log_date ASC`

	logs := []HabitLog{}
	err := r.db.SelectContext(ctx, &logs, query, habitID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}

	return logs, nil
}

func (r *repository) CountCompleted(
	ctx context.Context,
	habitID int64,
	from, to time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM habit_logs
		WHERE habit_id = $1 AND completed = TRUE
		  AND log_date BETWEEN $2 AND $3`

	var count int
	err := r.db.GetContext(ctx, &count, query, habitID, from, to)
	if err != nil {
		return 0, fmt.Errorf("count completed logs: %w", err)
	}

	return count, nil
}

func (r *repository) CountCompletedTotal(
	ctx context.Context,
	habitID int64,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM habit_logs
		WHERE habit_id = $1 AND completed = TRUE`

	var count int
	err := r.db.GetContext(ctx, &count, query, habitID)
	if err != nil {
		return 0, fmt.Errorf("count total completed logs: %w", err)
	}

	return count, nil
}

func (r *repository) LastCompletedDate(
	ctx context.Context,
	habitID int64,
) (*time.Time, error) {
	query := `
		SELECT MAX(log_date)
		FROM habit_logs
		WHERE habit_id = $1 AND completed = TRUE`

	var last sql.NullTime
	err := r.db.GetContext(ctx, &last, query, habitID)
	if err != nil {
		return nil, fmt.Errorf("last completed date: %w", err)
	}
	if !last.Valid {
		return nil, nil
	}

	return &last.Time, nil
}

// ListCompletedDates returns every completed day for a habit in ascending
// order. Streak math walks this list.
func (r *repository) ListCompletedDates(
	ctx context.Context,
	habitID int64,
) ([]time.Time, error) {
	query := `
		SELECT log_date
		FROM habit_logs
		WHERE habit_id = $1 AND completed = TRUE
		ORDER BY log_date ASC`

	dates := []time.Time{}
	if err := r.db.SelectContext(ctx, &dates, query, habitID); err != nil {
		return nil, fmt.Errorf("list completed dates: %w", err)
	}

	return dates, nil
}
