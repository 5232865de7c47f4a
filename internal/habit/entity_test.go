// AngelaMos | 2026
// entity_test.go

package habit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func int64Ptr(n int64) *int64 {
	return &n
}

func validUsefulHabit() Habit {
	return Habit{
		ID:            1,
		UserID:        10,
		Name:          "morning run",
		ExecutionTime: 60,
		Frequency:     7,
		HabitType:     TypeUseful,
	}
}

func TestValidateBusinessRules_ValidHabits(t *testing.T) {
	tests := []struct {
		name  string
		habit Habit
	}{
		{
			name:  "useful habit without reward or related",
			habit: validUsefulHabit(),
		},
		{
			name: "useful habit with reward only",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Reward = strPtr("watch an episode")
				return h
			}(),
		},
		{
			name: "useful habit with related habit only",
			habit: func() Habit {
				h := validUsefulHabit()
				h.RelatedHabitID = int64Ptr(2)
				return h
			}(),
		},
		{
			name: "pleasant habit without reward or related",
			habit: Habit{
				UserID:        10,
				Name:          "video games",
				ExecutionTime: 30,
				Frequency:     7,
				HabitType:     TypePleasant,
			},
		},
		{
			name: "execution time at the limit",
			habit: func() Habit {
				h := validUsefulHabit()
				h.ExecutionTime = MaxExecutionTime
				return h
			}(),
		},
		{
			name: "reward at the length limit",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Reward = strPtr(strings.Repeat("a", MaxRewardLength))
				return h
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, tt.habit.ValidateBusinessRules())
		})
	}
}

func TestValidateBusinessRules_Violations(t *testing.T) {
	tests := []struct {
		name    string
		habit   Habit
		message string
	}{
		{
			name: "pleasant habit with reward",
			habit: Habit{
				Name:          "video games",
				ExecutionTime: 30,
				Frequency:     7,
				HabitType:     TypePleasant,
				Reward:        strPtr("more games"),
			},
			message: "a pleasant habit cannot have a reward",
		},
		{
			name: "pleasant habit with related habit",
			habit: Habit{
				Name:           "video games",
				ExecutionTime:  30,
				Frequency:      7,
				HabitType:      TypePleasant,
				RelatedHabitID: int64Ptr(5),
			},
			message: "a pleasant habit cannot be linked to a related habit",
		},
		{
			name: "useful habit with both reward and related",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Reward = strPtr("coffee")
				h.RelatedHabitID = int64Ptr(5)
				return h
			}(),
			message: "a useful habit can have either a reward or a related habit, but not both",
		},
		{
			name: "execution time over the limit",
			habit: func() Habit {
				h := validUsefulHabit()
				h.ExecutionTime = MaxExecutionTime + 1
				return h
			}(),
			message: "execution time cannot exceed 120 seconds",
		},
		{
			name: "execution time zero",
			habit: func() Habit {
				h := validUsefulHabit()
				h.ExecutionTime = 0
				return h
			}(),
			message: "execution time must be a positive number of seconds",
		},
		{
			name: "frequency more often than weekly",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Frequency = MinFrequencyDays - 1
				return h
			}(),
			message: "frequency cannot be more often than once every 7 days",
		},
		{
			name: "frequency zero",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Frequency = 0
				return h
			}(),
			message: "frequency must be a positive number of days",
		},
		{
			name: "empty name",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Name = "   "
				return h
			}(),
			message: "habit name cannot be empty",
		},
		{
			name: "reward too long",
			habit: func() Habit {
				h := validUsefulHabit()
				h.Reward = strPtr(strings.Repeat("a", MaxRewardLength+1))
				return h
			}(),
			message: "reward cannot exceed 200 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := tt.habit.ValidateBusinessRules()
			assert.Contains(t, violations, tt.message)
		})
	}
}

func TestValidateBusinessRules_CollectsAllViolations(t *testing.T) {
	habit := Habit{
		Name:          "",
		ExecutionTime: 500,
		Frequency:     2,
		HabitType:     TypePleasant,
		Reward:        strPtr("treat"),
	}

	violations := habit.ValidateBusinessRules()
	require.Len(t, violations, 4)
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	original := validUsefulHabit()
	original.Reward = strPtr("coffee")

	name := "evening walk"
	seconds := 90
	updated := original.Apply(Patch{
		Name:          &name,
		ExecutionTime: &seconds,
	})

	assert.Equal(t, "morning run", original.Name)
	assert.Equal(t, 60, original.ExecutionTime)

	assert.Equal(t, "evening walk", updated.Name)
	assert.Equal(t, 90, updated.ExecutionTime)
	require.NotNil(t, updated.Reward)
	assert.Equal(t, "coffee", *updated.Reward)
}

func TestApply_NilFieldsLeaveValues(t *testing.T) {
	original := validUsefulHabit()

	updated := original.Apply(Patch{})

	assert.Equal(t, original, updated)
}

func TestApply_EmptyRewardClears(t *testing.T) {
	original := validUsefulHabit()
	original.Reward = strPtr("coffee")

	updated := original.Apply(Patch{Reward: strPtr("  ")})

	assert.Nil(t, updated.Reward)
	require.NotNil(t, original.Reward)
}

func TestApply_ZeroRelatedHabitClears(t *testing.T) {
	original := validUsefulHabit()
	original.RelatedHabitID = int64Ptr(5)

	updated := original.Apply(Patch{RelatedHabitID: int64Ptr(0)})

	assert.Nil(t, updated.RelatedHabitID)
}

func TestApply_TypeChange(t *testing.T) {
	original := validUsefulHabit()

	pleasant := TypePleasant
	updated := original.Apply(Patch{HabitType: &pleasant})

	assert.True(t, updated.IsPleasant())
	assert.True(t, original.IsUseful())
}
