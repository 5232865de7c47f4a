// AngelaMos | 2026
// dto.go

package habit

import (
	"time"
)

const (
	defaultExecutionTime = 60
	defaultFrequency     = MinFrequencyDays
)

// habitFromPayload builds a new entity from a validated create payload.
// Missing optional fields get their defaults; the payload validator has
// already guaranteed the types.
func habitFromPayload(userID int64, data map[string]any) Habit {
	h := Habit{
		UserID:        userID,
		ExecutionTime: defaultExecutionTime,
		Frequency:     defaultFrequency,
		HabitType:     TypeUseful,
	}

	if name, ok := data["name"].(string); ok {
		h.Name = name
	}
	if desc, ok := data["description"].(string); ok {
		h.Description = normalizeOptional(desc)
	}
	if seconds, ok := coerceInt(data["execution_time"]); ok {
		h.ExecutionTime = seconds
	}
	if days, ok := coerceInt(data["frequency"]); ok {
		h.Frequency = days
	}
	if typeStr, ok := data["habit_type"].(string); ok {
		h.HabitType = HabitType(typeStr)
	}
	if reward, ok := data["reward"].(string); ok {
		h.Reward = normalizeOptional(reward)
	}
	if id, ok := coerceInt(data["related_habit_id"]); ok && id > 0 {
		related := int64(id)
		h.RelatedHabitID = &related
	}
	if id, ok := coerceInt(data["category_id"]); ok && id > 0 {
		categoryID := int64(id)
		h.CategoryID = &categoryID
	}

	return h
}

// patchFromPayload converts an update payload into a Patch: only keys present
// in the payload become non-nil fields. An explicit JSON null clears the
// optional fields the same way an empty string or zero ID does.
func patchFromPayload(data map[string]any) Patch {
	var p Patch

	if name, ok := data["name"].(string); ok {
		p.Name = &name
	}
	if desc, present := optionalString(data, "description"); present {
		p.Description = &desc
	}
	if seconds, ok := coerceInt(data["execution_time"]); ok {
		p.ExecutionTime = &seconds
	}
	if days, ok := coerceInt(data["frequency"]); ok {
		p.Frequency = &days
	}
	if typeStr, ok := data["habit_type"].(string); ok {
		habitType := HabitType(typeStr)
		p.HabitType = &habitType
	}
	if reward, present := optionalString(data, "reward"); present {
		p.Reward = &reward
	}
	if id, present := optionalID(data, "related_habit_id"); present {
		p.RelatedHabitID = &id
	}
	if id, present := optionalID(data, "category_id"); present {
		p.CategoryID = &id
	}

	return p
}

// optionalString reads a clearable string field: an explicit null comes back
// as the empty string, which Apply normalizes away.
func optionalString(data map[string]any, key string) (string, bool) {
	raw, present := data[key]
	if !present {
		return "", false
	}
	if raw == nil {
		return "", true
	}
	s, ok := raw.(string)
	return s, ok
}

// optionalID reads a clearable reference field: an explicit null comes back
// as zero, which Apply treats as unset.
func optionalID(data map[string]any, key string) (int64, bool) {
	raw, present := data[key]
	if !present {
		return 0, false
	}
	if raw == nil {
		return 0, true
	}
	id, ok := coerceInt(raw)
	if !ok {
		return 0, false
	}
	return int64(id), true
}

type HabitResponse struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	ExecutionTime  int       `json:"execution_time"`
	Frequency      int       `json:"frequency"`
	HabitType      string    `json:"habit_type"`
	Reward         *string   `json:"reward,omitempty"`
	RelatedHabitID *int64    `json:"related_habit_id,omitempty"`
	CategoryID     *int64    `json:"category_id,omitempty"`
	IsArchived     bool      `json:"is_archived"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToHabitResponse(h *Habit) HabitResponse {
	return HabitResponse{
		ID:             h.ID,
		UserID:         h.UserID,
		Name:           h.Name,
		Description:    h.Description,
		ExecutionTime:  h.ExecutionTime,
		Frequency:      h.Frequency,
		HabitType:      string(h.HabitType),
		Reward:         h.Reward,
		RelatedHabitID: h.RelatedHabitID,
		CategoryID:     h.CategoryID,
		IsArchived:     h.IsArchived,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}

func ToHabitResponseList(habits []Habit) []HabitResponse {
	responses := make([]HabitResponse, 0, len(habits))
	for i := range habits {
		responses = append(responses, ToHabitResponse(&habits[i]))
	}
	return responses
}
