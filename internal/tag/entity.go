// AngelaMos | 2026
// entity.go

package tag

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxTagLength = 20
	// MaxTagsPerHabit caps how many tags one habit may carry.
	MaxTagsPerHabit = 5
	// maxSuggestions bounds the autocomplete result size.
	maxSuggestions = 10
)

// Tag is a free-form label scoped to one user. Names are stored normalized
// (lower case, trimmed) and unique per user; habits reference tags through
// the habit_tags join table.
type Tag struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`

	// HabitsCount is populated by list queries, not stored.
	HabitsCount int64 `db:"habits_count"`
}

// Normalize lower-cases and trims tag names, dropping empties and
// duplicates while keeping first-seen order.
func Normalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))

	for _, name := range names {
		cleaned := strings.ToLower(strings.TrimSpace(name))
		if cleaned == "" {
			continue
		}
		if _, dup := seen[cleaned]; dup {
			continue
		}
		seen[cleaned] = struct{}{}
		normalized = append(normalized, cleaned)
	}

	return normalized
}

// ValidateNames checks a raw tag list before normalization and returns
// every violation found.
func ValidateNames(names []string) []string {
	var violations []string

	if len(names) > MaxTagsPerHabit {
		violations = append(violations, fmt.Sprintf(
			"a habit can carry at most %d tags", MaxTagsPerHabit))
	}

	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			violations = append(violations, "a tag cannot be empty")
			continue
		}
		if len(trimmed) > MaxTagLength {
			violations = append(violations, fmt.Sprintf(
				"a tag cannot exceed %d characters", MaxTagLength))
		}
	}

	return violations
}
