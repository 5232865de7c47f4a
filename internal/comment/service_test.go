// AngelaMos | 2026
// service_test.go

package comment

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
)

// stubHabits resolves ownership the way the habit service does: the habit
// exists for exactly one owner.
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
		return nil, core.AuthorizationError("habit", "access")
	}
	return &habit.Habit{ID: habitID, UserID: s.ownerID}, nil
}

// stubRepo is an in-memory Repository. logHabits maps log ids to their
// habit so resolveLog can be exercised without a database.
type stubRepo struct {
	comments  map[int64]*Comment
	logHabits map[int64]int64
	nextID    int64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		comments:  make(map[int64]*Comment),
		logHabits: map[int64]int64{100: 1},
		nextID:    1,
	}
}

func (r *stubRepo) Create(_ context.Context, comment *Comment) error {
	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	stored := *comment
	r.comments[comment.ID] = &stored
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	found := *comment
	return &found, nil
}

func (r *stubRepo) ListByLog(
	_ context.Context,
	logID int64,
) ([]Comment, error) {
	var out []Comment
	for _, c := range r.comments {
		if c.HabitLogID == logID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubRepo) ListByHabit(
	_ context.Context,
	habitID int64,
) ([]Comment, error) {
	var out []Comment
	for _, c := range r.comments {
		if c.HabitID == habitID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubRepo) Search(
	_ context.Context,
	habitID int64,
	query string,
) ([]Comment, error) {
	var out []Comment
	lowered := strings.ToLower(query)
	for _, c := range r.comments {
		if c.HabitID != habitID {
			continue
		}
		if strings.Contains(strings.ToLower(c.Text), lowered) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *stubRepo) Update(_ context.Context, comment *Comment) error {
	stored, ok := r.comments[comment.ID]
	if !ok {
		return core.ErrNotFound
	}
	stored.Text = comment.Text
	stored.UpdatedAt = stored.CreatedAt.Add(time.Second)
	comment.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *stubRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.comments[id]; !ok {
		return core.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *stubRepo) GetLogHabit(
	_ context.Context,
	logID int64,
) (int64, error) {
	habitID, ok := r.logHabits[logID]
	if !ok {
		return 0, core.ErrNotFound
	}
	return habitID, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()

	repo := newStubRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(repo, &stubHabits{habitID: 1, ownerID: 10}, logger)

	return svc, repo
}

func TestServiceCreate_SanitizesText(t *testing.T) {
	svc, _ := newTestService(t)

	comment, err := svc.Create(context.Background(), 100, 10,
		"  <b>great</b> run  ")

	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;great&lt;/b&gt; run", comment.Text)
	assert.Equal(t, int64(1), comment.HabitID)
	assert.Equal(t, int64(100), comment.HabitLogID)
	assert.False(t, comment.IsEdited())
}

func TestServiceCreate_EmptyTextRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 100, 10, "   ")

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages, "comment text cannot be empty")
}

func TestServiceCreate_OverlongTextRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 100, 10,
		strings.Repeat("x", MaxTextLength+1))

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Messages,
		"comment text cannot exceed 500 characters")
}

func TestServiceCreate_UnknownLogNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 999, 10, "note")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestServiceCreate_ForeignLogForbidden(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 100, 99, "note")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestServiceUpdate_MarksEdited(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), 100, 10, "first draft")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, 10,
		"second draft")

	require.NoError(t, err)
	assert.Equal(t, "second draft", updated.Text)
	assert.True(t, updated.IsEdited())
}

func TestServiceUpdate_ForeignCommentForbidden(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), 100, 10, "mine")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, 99, "theirs")

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "AUTHORIZATION_ERROR", appErr.Code)
}

func TestServiceDelete_RemovesComment(t *testing.T) {
	svc, repo := newTestService(t)

	created, err := svc.Create(context.Background(), 100, 10, "to delete")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID, 10))
	assert.Empty(t, repo.comments)
}

func TestServiceDelete_UnknownCommentNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), 999, 10)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Status)
}

func TestServiceListForHabit_SearchFilters(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), 100, 10, "morning run felt great")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 100, 10, "skipped today")
	require.NoError(t, err)

	all, err := svc.ListForHabit(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	matched, err := svc.ListForHabit(context.Background(), 1, 10, "run")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Contains(t, matched[0].Text, "run")
}

func TestServiceListForLog_OwnershipEnforced(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ListForLog(context.Background(), 100, 99)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}
