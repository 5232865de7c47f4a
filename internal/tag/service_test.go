// AngelaMos | 2026
// service_test.go

package tag

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
)

// stubHabits owns exactly one habit and answers lookups the way the habit
// service would.
type stubHabits struct {
	habitID int64
	ownerID int64
}

func (s *stubHabits) GetByID(
	_ context.Context,
	habitID, requesterID int64,
) (*habit.Habit, error) {
	if habitID != s.habitID {
		return nil, core.NotFoundError("habit", habitID)
	}
	if requesterID != s.ownerID {
		return nil, core.AuthorizationError("habit", "view")
	}
	return &habit.Habit{ID: s.habitID, UserID: s.ownerID}, nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewService(db, &stubHabits{habitID: 1, ownerID: 10}, logger), mock
}

func tagColumns() []string {
	return []string{"id", "user_id", "name", "created_at", "habits_count"}
}

func TestNormalize(t *testing.T) {
	got := Normalize([]string{" Morning ", "HEALTH", "health", "", "  "})

	assert.Equal(t, []string{"morning", "health"}, got)
}

func TestValidateNames(t *testing.T) {
	tests := []struct {
		name  string
		tags  []string
		wants string
	}{
		{
			name:  "too many tags",
			tags:  []string{"a", "b", "c", "d", "e", "f"},
			wants: "a habit can carry at most 5 tags",
		},
		{
			name:  "empty tag",
			tags:  []string{"morning", "   "},
			wants: "a tag cannot be empty",
		},
		{
			name:  "too long",
			tags:  []string{strings.Repeat("x", MaxTagLength+1)},
			wants: "a tag cannot exceed 20 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := ValidateNames(tt.tags)
			assert.Contains(t, violations, tt.wants)
		})
	}

	assert.Empty(t, ValidateNames([]string{"morning", "health"}))
}

func TestServiceAssign_TooManyTagsRejected(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.Assign(context.Background(), 1, 10,
		[]string{"a", "b", "c", "d", "e", "f"})

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAssign_ForeignHabitForbidden(t *testing.T) {
	svc, mock := newTestService(t)

	_, err := svc.Assign(context.Background(), 1, 99, []string{"morning"})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAssign_CreatesMissingTagsInTransaction(t *testing.T) {
	svc, mock := newTestService(t)

	now := time.Now()

	mock.ExpectBegin()
	// "health" already exists for the user.
	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(10), "health").
		WillReturnRows(sqlmock.NewRows(tagColumns()).
			AddRow(3, 10, "health", now, 0))
	// "morning" does not and gets created.
	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(10), "morning").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO tags").
		WithArgs(int64(10), "morning").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).
			AddRow(4, now))
	mock.ExpectExec("DELETE FROM habit_tags WHERE habit_id =").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO habit_tags").
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO habit_tags").
		WithArgs(int64(1), int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tags, err := svc.Assign(context.Background(), 1, 10,
		[]string{" Health ", "Morning"})

	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "health", tags[0].Name)
	assert.Equal(t, "morning", tags[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceAssign_RollsBackOnFailure(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(10), "morning").
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.Assign(context.Background(), 1, 10, []string{"morning"})

	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRemove_DeletesOrphanedTag(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(tagColumns()).
			AddRow(3, 10, "health", time.Now(), 0))
	mock.ExpectExec("DELETE FROM habit_tags").
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT(.+) FROM habit_tags").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM tags WHERE id =").
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.Remove(context.Background(), 1, 3, 10)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRemove_TagStillInUseSurvives(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(tagColumns()).
			AddRow(3, 10, "health", time.Now(), 0))
	mock.ExpectExec("DELETE FROM habit_tags").
		WithArgs(int64(1), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT COUNT(.+) FROM habit_tags").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := svc.Remove(context.Background(), 1, 3, 10)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceRemove_ForeignTagForbidden(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery("SELECT (.+) FROM tags").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(tagColumns()).
			AddRow(3, 99, "health", time.Now(), 0))

	err := svc.Remove(context.Background(), 1, 3, 10)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
