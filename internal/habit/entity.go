// AngelaMos | 2026
// entity.go

package habit

import (
	"fmt"
	"strings"
	"time"
)

type HabitType string

const (
	TypeUseful   HabitType = "useful"
	TypePleasant HabitType = "pleasant"
)

func (t HabitType) Valid() bool {
	return t == TypeUseful || t == TypePleasant
}

const (
	// MaxExecutionTime caps how long a single habit execution may take,
	// in seconds.
	MaxExecutionTime = 120
	// MinFrequencyDays is the smallest allowed gap between occurrences:
	// habits may not repeat more often than once per week.
	MinFrequencyDays = 7
	MaxNameLength    = 100
	MaxRewardLength  = 200
)

type Habit struct {
	ID             int64     `db:"id"`
	UserID         int64     `db:"user_id"`
	Name           string    `db:"name"`
	Description    *string   `db:"description"`
	ExecutionTime  int       `db:"execution_time"`
	Frequency      int       `db:"frequency"`
	HabitType      HabitType `db:"habit_type"`
	Reward         *string   `db:"reward"`
	RelatedHabitID *int64    `db:"related_habit_id"`
	CategoryID     *int64    `db:"category_id"`
	IsArchived     bool      `db:"is_archived"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (h *Habit) IsPleasant() bool {
	return h.HabitType == TypePleasant
}

func (h *Habit) IsUseful() bool {
	return h.HabitType == TypeUseful
}

func (h *Habit) HasReward() bool {
	return h.Reward != nil && strings.TrimSpace(*h.Reward) != ""
}

func (h *Habit) HasRelatedHabit() bool {
	return h.RelatedHabitID != nil
}

// ValidateBusinessRules checks the entity-level invariants and returns every
// violation found. An empty slice means the habit is well-formed.
func (h *Habit) ValidateBusinessRules() []string {
	var violations []string

	if h.IsPleasant() && h.HasReward() {
		violations = append(violations,
			"a pleasant habit cannot have a reward")
	}

	if h.IsPleasant() && h.HasRelatedHabit() {
		violations = append(violations,
			"a pleasant habit cannot be linked to a related habit")
	}

	if h.IsUseful() && h.HasReward() && h.HasRelatedHabit() {
		violations = append(violations,
			"a useful habit can have either a reward or a related habit, but not both")
	}

	if h.ExecutionTime <= 0 {
		violations = append(violations,
			"execution time must be a positive number of seconds")
	} else if h.ExecutionTime > MaxExecutionTime {
		violations = append(violations, fmt.Sprintf(
			"execution time cannot exceed %d seconds", MaxExecutionTime))
	}

	if h.Frequency <= 0 {
		violations = append(violations,
			"frequency must be a positive number of days")
	} else if h.Frequency < MinFrequencyDays {
		violations = append(violations, fmt.Sprintf(
			"frequency cannot be more often than once every %d days",
			MinFrequencyDays))
	}

	if strings.TrimSpace(h.Name) == "" {
		violations = append(violations, "habit name cannot be empty")
	}

	if h.Reward != nil && len(strings.TrimSpace(*h.Reward)) > MaxRewardLength {
		violations = append(violations, fmt.Sprintf(
			"reward cannot exceed %d characters", MaxRewardLength))
	}

	return violations
}

// Patch is a partial habit update. A nil field leaves the current value
// untouched; an empty string for Reward or Description, or a zero
// RelatedHabitID or CategoryID, clears the stored value.
type Patch struct {
	Name           *string
	Description    *string
	ExecutionTime  *int
	Frequency      *int
	HabitType      *HabitType
	Reward         *string
	RelatedHabitID *int64
	CategoryID     *int64
}

// Apply returns a copy of the habit with the patch applied. The receiver is
// never mutated, so callers validate the result and only then swap it in;
// there is no partially-applied state to revert on failure.
func (h Habit) Apply(p Patch) Habit {
	if p.Name != nil {
		h.Name = *p.Name
	}
	if p.Description != nil {
		h.Description = normalizeOptional(*p.Description)
	}
	if p.ExecutionTime != nil {
		h.ExecutionTime = *p.ExecutionTime
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.HabitType != nil {
		h.HabitType = *p.HabitType
	}
	if p.Reward != nil {
		h.Reward = normalizeOptional(*p.Reward)
	}
	if p.RelatedHabitID != nil {
		if *p.RelatedHabitID == 0 {
			h.RelatedHabitID = nil
		} else {
			related := *p.RelatedHabitID
			h.RelatedHabitID = &related
		}
	}
	if p.CategoryID != nil {
		if *p.CategoryID == 0 {
			h.CategoryID = nil
		} else {
			categoryID := *p.CategoryID
			h.CategoryID = &categoryID
		}
	}
	return h
}

func normalizeOptional(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
