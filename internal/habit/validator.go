// AngelaMos | 2026
// validator.go

package habit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationResult is the outcome of a payload validation pass: a flag plus
// every field-level error found, never just the first one.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// PayloadValidator performs field-level checks on an untyped JSON payload
// before an entity is ever constructed: required fields, type coercion, and
// range bounds. Entity-level business rules run separately on the built
// habit.
type PayloadValidator struct{}

func NewPayloadValidator() *PayloadValidator {
	return &PayloadValidator{}
}

func (v *PayloadValidator) Validate(data map[string]any) ValidationResult {
	var errs []string

	errs = append(errs, v.checkName(data)...)
	errs = append(errs, v.checkExecutionTime(data)...)
	errs = append(errs, v.checkFrequency(data)...)
	errs = append(errs, v.checkType(data)...)
	errs = append(errs, v.checkReward(data)...)
	errs = append(errs, v.checkRelatedHabit(data)...)
	errs = append(errs, v.checkCategory(data)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// ValidatePartial runs the same checks but does not require any field to be
// present; update payloads only carry the fields being changed.
func (v *PayloadValidator) ValidatePartial(
	data map[string]any,
) ValidationResult {
	var errs []string

	if _, ok := data["name"]; ok {
		errs = append(errs, v.checkName(data)...)
	}
	errs = append(errs, v.checkExecutionTime(data)...)
	errs = append(errs, v.checkFrequency(data)...)
	errs = append(errs, v.checkType(data)...)
	errs = append(errs, v.checkReward(data)...)
	errs = append(errs, v.checkRelatedHabit(data)...)
	errs = append(errs, v.checkCategory(data)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func (v *PayloadValidator) checkName(data map[string]any) []string {
	raw, ok := data["name"]
	if !ok || raw == nil {
		return []string{"habit name is required"}
	}

	name, ok := raw.(string)
	if !ok {
		return []string{"habit name must be a string"}
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return []string{"habit name cannot be empty"}
	}
	if len(trimmed) > MaxNameLength {
		return []string{fmt.Sprintf(
			"habit name cannot exceed %d characters", MaxNameLength)}
	}

	return nil
}

func (v *PayloadValidator) checkExecutionTime(data map[string]any) []string {
	raw, ok := data["execution_time"]
	if !ok || raw == nil {
		return nil
	}

	seconds, ok := coerceInt(raw)
	if !ok {
		return []string{"execution time must be an integer"}
	}

	switch {
	case seconds <= 0:
		return []string{"execution time must be a positive number of seconds"}
	case seconds > MaxExecutionTime:
		return []string{fmt.Sprintf(
			"execution time cannot exceed %d seconds", MaxExecutionTime)}
	}

	return nil
}

func (v *PayloadValidator) checkFrequency(data map[string]any) []string {
	raw, ok := data["frequency"]
	if !ok || raw == nil {
		return nil
	}

	days, ok := coerceInt(raw)
	if !ok {
		return []string{"frequency must be an integer"}
	}

	switch {
	case days <= 0:
		return []string{"frequency must be a positive number of days"}
	case days < MinFrequencyDays:
		return []string{fmt.Sprintf(
			"frequency cannot be more often than once every %d days",
			MinFrequencyDays)}
	}

	return nil
}

func (v *PayloadValidator) checkType(data map[string]any) []string {
	raw, ok := data["habit_type"]
	if !ok || raw == nil {
		return nil
	}

	typeStr, ok := raw.(string)
	if !ok {
		return []string{"habit type must be a string"}
	}

	if !HabitType(typeStr).Valid() {
		return []string{fmt.Sprintf("invalid habit type: %s", typeStr)}
	}

	return nil
}

func (v *PayloadValidator) checkReward(data map[string]any) []string {
	raw, ok := data["reward"]
	if !ok || raw == nil {
		return nil
	}

	reward, ok := raw.(string)
	if !ok {
		return []string{"reward must be a string"}
	}

	if len(strings.TrimSpace(reward)) > MaxRewardLength {
		return []string{fmt.Sprintf(
			"reward cannot exceed %d characters", MaxRewardLength)}
	}

	return nil
}

func (v *PayloadValidator) checkRelatedHabit(data map[string]any) []string {
	raw, ok := data["related_habit_id"]
	if !ok || raw == nil {
		return nil
	}

	id, ok := coerceInt(raw)
	if !ok {
		return []string{"related habit id must be an integer"}
	}
	if id < 0 {
		return []string{"related habit id must be a positive integer"}
	}

	return nil
}

func (v *PayloadValidator) checkCategory(data map[string]any) []string {
	raw, ok := data["category_id"]
	if !ok || raw == nil {
		return nil
	}

	id, ok := coerceInt(raw)
	if !ok {
		return []string{"category id must be an integer"}
	}
	if id < 0 {
		return []string{"category id must be a positive integer"}
	}

	return nil
}

// coerceInt accepts the integer shapes a decoded JSON payload can carry.
// Fractional floats are rejected rather than truncated.
func coerceInt(raw any) (int, bool) {
	switch n := raw.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
