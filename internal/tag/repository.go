// AngelaMos | 2026
// repository.go

package tag

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/angelamos/habitflow/internal/core"
)

type Repository interface {
	Create(ctx context.Context, tag *Tag) error
	GetByName(ctx context.Context, userID int64, name string) (*Tag, error)
	ListByUser(ctx context.Context, userID int64) ([]Tag, error)
	ListByHabit(ctx context.Context, habitID int64) ([]Tag, error)
	ReplaceHabitTags(ctx context.Context, habitID int64, tagIDs []int64) error
	RemoveFromHabit(ctx context.Context, habitID, tagID int64) error
	GetByID(ctx context.Context, id int64) (*Tag, error)
	CountHabits(ctx context.Context, tagID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteUnused(ctx context.Context, userID int64) (int64, error)
	Suggest(
		ctx context.Context,
		userID int64,
		prefix string,
	) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, tag *Tag) error {
	query := `
		INSERT INTO tags (user_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, tag, query, tag.UserID, tag.Name)
	if err != nil {
		if core.IsDuplicateKey(err) {
			return fmt.Errorf("create tag: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tag: %w", err)
	}

	return nil
}

func (r *repository) GetByName(
	ctx context.Context,
	userID int64,
	name string,
) (*Tag, error) {
	query := `
		SELECT id, user_id, name, created_at, 0 AS habits_count
		FROM tags
		WHERE user_id = $1 AND name = $2`

	var tag Tag
	err := r.db.GetContext(ctx, &tag, query, userID, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag by name: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag by name: %w", err)
	}

	return &tag, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Tag, error) {
	query := `
		SELECT id, user_id, name, created_at, 0 AS habits_count
		FROM tags
		WHERE id = $1`

	var tag Tag
	err := r.db.GetContext(ctx, &tag, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tag: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}

	return &tag, nil
}

func (r *repository) ListByUser(
	ctx context.Context,
	userID int64,
) ([]Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.created_at,
		       COUNT(ht.habit_id) AS habits_count
		FROM tags t
		LEFT JOIN habit_tags ht ON ht.tag_id = t.id
		WHERE t.user_id = $1
		GROUP BY t.id
		ORDER BY t.name ASC`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query, userID); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	return tags, nil
}

func (r *repository) ListByHabit(
	ctx context.Context,
	habitID int64,
) ([]Tag, error) {
	query := `
		SELECT t.id, t.user_id, t.name, t.created_at, 0 AS habits_count
		FROM tags t
		JOIN habit_tags ht ON ht.tag_id = t.id
		WHERE ht.habit_id = $1
		ORDER BY t.name ASC`

	tags := []Tag{}
	if err := r.db.SelectContext(ctx, &tags, query, habitID); err != nil {
		return nil, fmt.Errorf("list habit tags: %w", err)
	}

	return tags, nil
}

// ReplaceHabitTags swaps the habit's tag set for the given one. Runs as two
// statements, so callers wrap it in a transaction.
func (r *repository) ReplaceHabitTags(
	ctx context.Context,
	habitID int64,
	tagIDs []int64,
) error {
	clearQuery := `DELETE FROM habit_tags WHERE habit_id = $1`
	if _, err := r.db.ExecContext(ctx, clearQuery, habitID); err != nil {
		return fmt.Errorf("clear habit tags: %w", err)
	}

	insert := `
		INSERT INTO habit_tags (habit_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx, insert, habitID, tagID); err != nil {
			return fmt.Errorf("attach habit tag: %w", err)
		}
	}

	return nil
}

func (r *repository) RemoveFromHabit(
	ctx context.Context,
	habitID, tagID int64,
) error {
	query := `
		DELETE FROM habit_tags
		WHERE habit_id = $1 AND tag_id = $2`

	result, err := r.db.ExecContext(ctx, query, habitID, tagID)
	if err != nil {
		return fmt.Errorf("remove habit tag: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove habit tag: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("remove habit tag: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountHabits(
	ctx context.Context,
	tagID int64,
) (int64, error) {
	query := `SELECT COUNT(*) FROM habit_tags WHERE tag_id = $1`

	var count int64
	if err := r.db.GetContext(ctx, &count, query, tagID); err != nil {
		return 0, fmt.Errorf("count tag habits: %w", err)
	}

	return count, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tags WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	return nil
}

// DeleteUnused removes the user's tags that no habit references and reports
// how many went away.
func (r *repository) DeleteUnused(
	ctx context.Context,
	userID int64,
) (int64, error) {
	query := `
		DELETE FROM tags
		WHERE user_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM habit_tags ht WHERE ht.tag_id = tags.id
		  )`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("delete unused tags: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete unused tags: %w", err)
	}

	return rows, nil
}

// Suggest returns up to ten tag names starting with the prefix, shortest
// first so the closest completions lead.
func (r *repository) Suggest(
	ctx context.Context,
	userID int64,
	prefix string,
) ([]string, error) {
	query := `
		SELECT name
		FROM tags
		WHERE user_id = $1 AND name LIKE $2 || '%'
		ORDER BY LENGTH(name) ASC, name ASC
		LIMIT $3`

	names := []string{}
	err := r.db.SelectContext(ctx, &names, query, userID, prefix,
		maxSuggestions)
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}

	return names, nil
}
