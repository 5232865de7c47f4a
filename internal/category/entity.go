// AngelaMos | 2026
// entity.go

package category

import (
	"time"
)

const (
	MaxNameLength = 50
	MaxIconLength = 50

	// defaultColor is applied when a category is created without one.
	defaultColor = "#6366f1"
)

// PredefinedNames are the starter categories offered to new users. They are
// suggestions only; nothing stops a user from naming their own.
var PredefinedNames = []string{
	"Health",
	"Study",
	"Work",
	"Sport",
	"Hobby",
	"Finance",
	"Relationships",
	"Growth",
	"Home",
	"Other",
}

// Category groups a user's habits. Names are unique per user; the habit
// link is optional, and deleting a category releases its habits instead of
// deleting them.
type Category struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	Name      string    `db:"name"`
	Color     string    `db:"color"`
	Icon      *string   `db:"icon"`
	CreatedAt time.Time `db:"created_at"`

	// HabitsCount is populated by list queries, not stored.
	HabitsCount int64 `db:"habits_count"`
}
