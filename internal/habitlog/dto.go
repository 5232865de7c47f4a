// AngelaMos | 2026
// dto.go

package habitlog

import (
	"time"
)

type ToggleRequest struct {
	Date     string  `json:"date"`
	Notes    *string `json:"notes,omitempty"`
	Duration *int    `json:"duration,omitempty"`
}

type LogResponse struct {
	ID        int64     `json:"id"`
	HabitID   int64     `json:"habit_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	Notes     *string   `json:"notes,omitempty"`
	Duration  *int      `json:"duration,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToLogResponse(l *HabitLog) LogResponse {
	return LogResponse{
		ID:        l.ID,
		HabitID:   l.HabitID,
		Date:      l.DateString(),
		Completed: l.Completed,
		Notes:     l.Notes,
		Duration:  l.Duration,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func ToLogResponseList(logs []HabitLog) []LogResponse {
	responses := make([]LogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, ToLogResponse(&logs[i]))
	}
	return responses
}
