// AngelaMos | 2026
// dto.go

package tag

import (
	"time"
)

type AssignTagsRequest struct {
	Tags []string `json:"tags"`
}

type TagResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	HabitsCount int64     `json:"habits_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToTagResponse(t *Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Name:        t.Name,
		HabitsCount: t.HabitsCount,
		CreatedAt:   t.CreatedAt,
	}
}

func ToTagResponseList(tags []Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for i := range tags {
		responses = append(responses, ToTagResponse(&tags[i]))
	}
	return responses
}
