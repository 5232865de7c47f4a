// AngelaMos | 2026
// entity.go

package comment

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// MaxTextLength caps a comment body.
const MaxTextLength = 500

// Comment is a free-text note attached to one day of tracking. It points at
// both the log and the log's habit so habit-wide listings never need a join
// through habit_logs.
type Comment struct {
	ID         int64     `db:"id"`
	HabitID    int64     `db:"habit_id"`
	HabitLogID int64     `db:"habit_log_id"`
	Text       string    `db:"text"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// IsEdited reports whether the text changed after the comment was created.
func (c *Comment) IsEdited() bool {
	return c.UpdatedAt.After(c.CreatedAt)
}

// SanitizeText trims the body and escapes HTML so stored comments are safe
// to render verbatim.
func SanitizeText(text string) string {
	return html.EscapeString(strings.TrimSpace(text))
}

// ValidateText checks a raw comment body and returns the violations found.
func ValidateText(text string) []string {
	var violations []string

	if strings.TrimSpace(text) == "" {
		violations = append(violations, "comment text cannot be empty")
	}
	if len(text) > MaxTextLength {
		violations = append(violations, fmt.Sprintf(
			"comment text cannot exceed %d characters", MaxTextLength))
	}

	return violations
}
