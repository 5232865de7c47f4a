// AngelaMos | 2026
// dto.go

package analytics

type HabitStatistics struct {
	HabitID           int64   `json:"habit_id"`
	HabitName         string  `json:"habit_name"`
	HabitType         string  `json:"habit_type"`
	TrackingDays      int     `json:"tracking_days"`
	CompletedCount    int     `json:"completed_count"`
	CompletionPercent float64 `json:"completion_percent"`
	CurrentStreak     int     `json:"current_streak"`
	BestStreak        int     `json:"best_streak"`
	TotalCompletions  int     `json:"total_completions"`
	LastCompletedDate *string `json:"last_completed_date,omitempty"`
}

type UserSummary struct {
	UserID         int64             `json:"user_id"`
	TrackingDays   int               `json:"tracking_days"`
	TotalHabits    int               `json:"total_habits"`
	ActiveHabits   int               `json:"active_habits"`
	UsefulHabits   int               `json:"useful_habits"`
	PleasantHabits int               `json:"pleasant_habits"`
	Habits         []HabitStatistics `json:"habits"`
}
