// AngelaMos | 2026
// dto.go

package comment

import "time"

// CommentRequest carries the body for both create and update.
type CommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	HabitID    int64     `json:"habit_id"`
	HabitLogID int64     `json:"habit_log_id"`
	Text       string    `json:"text"`
	IsEdited   bool      `json:"is_edited"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func ToCommentResponse(c *Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		HabitID:    c.HabitID,
		HabitLogID: c.HabitLogID,
		Text:       c.Text,
		IsEdited:   c.IsEdited(),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func ToCommentResponseList(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, ToCommentResponse(&comments[i]))
	}
	return out
}
