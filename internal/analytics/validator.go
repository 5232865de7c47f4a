// AngelaMos | 2026
// validator.go

package analytics

import (
	"fmt"

	"github.com/angelamos/habitflow/internal/core"
)

const (
	// MinTrackingDays and MaxTrackingDays bound the analytics window.
	MinTrackingDays = 1
	MaxTrackingDays = 30

	// DefaultTrackingDays is used when neither the request nor the user
	// profile specifies a window.
	DefaultTrackingDays = 7
)

// ValidateTrackingDays checks that the requested analytics window falls
// inside the allowed range.
func ValidateTrackingDays(days int) error {
	if days < MinTrackingDays || days > MaxTrackingDays {
		return core.NewValidationError(fmt.Sprintf(
			"tracking days must be between %d and %d",
			MinTrackingDays, MaxTrackingDays))
	}
	return nil
}
