// AngelaMos | 2026
// service_test.go

package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/habitflow/internal/core"
	"github.com/angelamos/habitflow/internal/habit"
	"github.com/angelamos/habitflow/internal/habitlog"
)

var testToday = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return testToday.AddDate(0, 0, offset)
}

type stubHabits struct {
	habits map[int64]*habit.Habit
	owner  int64
}

func (s *stubHabits) GetByID(
	_ context.Context,
	habitID, requesterID int64,
) (*habit.Habit, error) {
	h, ok := s.habits[habitID]
	if !ok {
		return nil, core.NotFoundError("habit", habitID)
	}
	if requesterID != s.owner {
		return nil, core.AuthorizationError("habit", "access")
	}
	return h, nil
}

func (s *stubHabits) ListByUser(
	_ context.Context,
	userID int64,
	includeArchived bool,
) ([]habit.Habit, error) {
	var out []habit.Habit
	for _, h := range s.habits {
		if h.IsArchived && !includeArchived {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

type stubUsers struct {
	trackingDays int
}

func (s *stubUsers) GetTrackingDays(
	_ context.Context,
	_ int64,
) (int, error) {
	return s.trackingDays, nil
}

// stubLogs serves the read side of the log repository from a fixed list
// of completed dates per habit, held in ascending order.
type stubLogs struct {
	completed map[int64][]time.Time
}

func (s *stubLogs) Create(context.Context, *habitlog.HabitLog) error {
	panic("not used")
}

func (s *stubLogs) GetByHabitAndDate(
	context.Context, int64, time.Time,
) (*habitlog.HabitLog, error) {
	panic("not used")
}

func (s *stubLogs) Update(context.Context, *habitlog.HabitLog) error {
	panic("not used")
}

func (s *stubLogs) ListByHabit(
	context.Context, int64, time.Time, time.Time,
) ([]habitlog.HabitLog, error) {
	panic("not used")
}

func (s *stubLogs) CountCompleted(
	_ context.Context,
	habitID int64,
	from, to time.Time,
) (int, error) {
	count := 0
	for _, d := range s.completed[habitID] {
		if !d.Before(from) && !d.After(to) {
			count++
		}
	}
	return count, nil
}

func (s *stubLogs) CountCompletedTotal(
	_ context.Context,
	habitID int64,
) (int, error) {
	return len(s.completed[habitID]), nil
}

func (s *stubLogs) LastCompletedDate(
	_ context.Context,
	habitID int64,
) (*time.Time, error) {
	dates := s.completed[habitID]
	if len(dates) == 0 {
		return nil, nil
	}
	last := dates[len(dates)-1]
	return &last, nil
}

func (s *stubLogs) ListCompletedDates(
	_ context.Context,
	habitID int64,
) ([]time.Time, error) {
	return s.completed[habitID], nil
}

const ownerID = int64(1)

func newTestService(
	habits map[int64]*habit.Habit,
	logs map[int64][]time.Time,
	userTrackingDays int,
) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(
		&stubHabits{habits: habits, owner: ownerID},
		&stubLogs{completed: logs},
		&stubUsers{trackingDays: userTrackingDays},
		logger,
	)
	svc.now = func() time.Time { return testToday }
	return svc
}

func readingHabit() *habit.Habit {
	return &habit.Habit{
		ID:        int64(10),
		UserID:    ownerID,
		Name:      "Read 20 pages",
		HabitType: habit.TypeUseful,
	}
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []time.Time
		wantCurrent int
		wantBest    int
	}{
		{
			name: "no completions",
		},
		{
			name:        "single completion today",
			dates:       []time.Time{day(0)},
			wantCurrent: 1,
			wantBest:    1,
		},
		{
			name:        "run ending today",
			dates:       []time.Time{day(-2), day(-1), day(0)},
			wantCurrent: 3,
			wantBest:    3,
		},
		{
			name:        "run ending yesterday still counts",
			dates:       []time.Time{day(-2), day(-1)},
			wantCurrent: 2,
			wantBest:    2,
		},
		{
			name:        "stale run resets current",
			dates:       []time.Time{day(-6), day(-5), day(-4)},
			wantCurrent: 0,
			wantBest:    3,
		},
		{
			name: "best run in the past",
			dates: []time.Time{
				day(-10), day(-9), day(-8), day(-7),
				day(-1), day(0),
			},
			wantCurrent: 2,
			wantBest:    4,
		},
		{
			name:        "gap breaks the run",
			dates:       []time.Time{day(-4), day(-2), day(0)},
			wantCurrent: 1,
			wantBest:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, best := computeStreaks(tt.dates, testToday)
			assert.Equal(t, tt.wantCurrent, current, "current streak")
			assert.Equal(t, tt.wantBest, best, "best streak")
		})
	}
}

func TestValidateTrackingDays(t *testing.T) {
	assert.NoError(t, ValidateTrackingDays(MinTrackingDays))
	assert.NoError(t, ValidateTrackingDays(MaxTrackingDays))
	assert.NoError(t, ValidateTrackingDays(DefaultTrackingDays))

	for _, days := range []int{0, -1, 31, 100} {
		err := ValidateTrackingDays(days)
		var vErr *core.ValidationError
		require.ErrorAs(t, err, &vErr, "days=%d", days)
		assert.Contains(t, vErr.Messages,
			"tracking days must be between 1 and 30")
	}
}

func TestHabitStatistics(t *testing.T) {
	h := readingHabit()
	logs := map[int64][]time.Time{
		h.ID: {day(-9), day(-2), day(-1), day(0)},
	}
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, logs, 0)

	stats, err := svc.HabitStatistics(context.Background(), h.ID, ownerID, 7)
	require.NoError(t, err)

	assert.Equal(t, h.ID, stats.HabitID)
	assert.Equal(t, "Read 20 pages", stats.HabitName)
	assert.Equal(t, "useful", stats.HabitType)
	assert.Equal(t, 7, stats.TrackingDays)
	// day(-9) falls outside the 7-day window.
	assert.Equal(t, 3, stats.CompletedCount)
	assert.InDelta(t, 42.857, stats.CompletionPercent, 0.01)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.BestStreak)
	assert.Equal(t, 4, stats.TotalCompletions)
	require.NotNil(t, stats.LastCompletedDate)
	assert.Equal(t, "2026-08-29", *stats.LastCompletedDate)
}

func TestHabitStatisticsNoCompletions(t *testing.T) {
	h := readingHabit()
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, nil, 0)

	stats, err := svc.HabitStatistics(context.Background(), h.ID, ownerID, 7)
	require.NoError(t, err)

	assert.Zero(t, stats.CompletedCount)
	assert.Zero(t, stats.CompletionPercent)
	assert.Zero(t, stats.CurrentStreak)
	assert.Zero(t, stats.BestStreak)
	assert.Nil(t, stats.LastCompletedDate)
}

func TestHabitStatisticsWindowFallsBackToUserDefault(t *testing.T) {
	h := readingHabit()
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, nil, 14)

	stats, err := svc.HabitStatistics(context.Background(), h.ID, ownerID, 0)
	require.NoError(t, err)

	assert.Equal(t, 14, stats.TrackingDays)
}

func TestHabitStatisticsWindowFallsBackToPackageDefault(t *testing.T) {
	h := readingHabit()
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, nil, 0)

	stats, err := svc.HabitStatistics(context.Background(), h.ID, ownerID, 0)
	require.NoError(t, err)

	assert.Equal(t, DefaultTrackingDays, stats.TrackingDays)
}

func TestHabitStatisticsRejectsOutOfRangeWindow(t *testing.T) {
	h := readingHabit()
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, nil, 0)

	_, err := svc.HabitStatistics(context.Background(), h.ID, ownerID, 45)

	var vErr *core.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestHabitStatisticsEnforcesOwnership(t *testing.T) {
	h := readingHabit()
	svc := newTestService(map[int64]*habit.Habit{h.ID: h}, nil, 0)

	_, err := svc.HabitStatistics(context.Background(), h.ID, int64(99), 7)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
}

func TestUserSummary(t *testing.T) {
	reward := "episode of a show"
	habits := map[int64]*habit.Habit{
		10: readingHabit(),
		11: {
			ID:        11,
			UserID:    ownerID,
			Name:      "Watch TV",
			HabitType: habit.TypePleasant,
		},
		12: {
			ID:         12,
			UserID:     ownerID,
			Name:       "Old habit",
			HabitType:  habit.TypeUseful,
			Reward:     &reward,
			IsArchived: true,
		},
	}
	logs := map[int64][]time.Time{
		10: {day(-1), day(0)},
	}
	svc := newTestService(habits, logs, 0)

	summary, err := svc.UserSummary(context.Background(), ownerID, 7)
	require.NoError(t, err)

	assert.Equal(t, ownerID, summary.UserID)
	assert.Equal(t, 7, summary.TrackingDays)
	assert.Equal(t, 3, summary.TotalHabits)
	assert.Equal(t, 2, summary.ActiveHabits)
	assert.Equal(t, 2, summary.UsefulHabits)
	assert.Equal(t, 1, summary.PleasantHabits)

	// Archived habits are counted but excluded from per-habit stats.
	require.Len(t, summary.Habits, 2)
	for _, stats := range summary.Habits {
		assert.NotEqual(t, int64(12), stats.HabitID)
	}
}
