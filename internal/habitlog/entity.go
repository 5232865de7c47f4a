// AngelaMos | 2026
// entity.go

package habitlog

import (
	"time"
)

// dateLayout is the wire format for log dates. Logs track whole days,
// never times.
const dateLayout = "2006-01-02"

// HabitLog is one calendar day of tracking for a habit. The
// (habit_id, log_date) pair is unique; toggling the same day flips the
// existing row instead of inserting a second one.
type HabitLog struct {
	ID        int64     `db:"id"`
	HabitID   int64     `db:"habit_id"`
	LogDate   time.Time `db:"log_date"`
	Completed bool      `db:"completed"`
	Notes     *string   `db:"notes"`
	Duration  *int      `db:"duration"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DateString renders the log date in the wire format.
func (l *HabitLog) DateString() string {
	return l.LogDate.Format(dateLayout)
}

// normalizeDate truncates a timestamp to midnight UTC so that equal
// calendar days always compare equal.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a wire-format date. The zero time and an error come
// back for anything that is not a bare calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return normalizeDate(t), nil
}
