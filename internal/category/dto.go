// AngelaMos | 2026
// dto.go

package category

import (
	"time"
)

type CreateCategoryRequest struct {
	Name  string  `json:"name"            validate:"required,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,len=7,hexcolor"`
	Icon  *string `json:"icon,omitempty"  validate:"omitempty,max=50"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,len=7,hexcolor"`
	Icon  *string `json:"icon,omitempty"  validate:"omitempty,max=50"`
}

type CategoryResponse struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Icon        *string   `json:"icon,omitempty"`
	HabitsCount int64     `json:"habits_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToCategoryResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		UserID:      c.UserID,
		Name:        c.Name,
		Color:       c.Color,
		Icon:        c.Icon,
		HabitsCount: c.HabitsCount,
		CreatedAt:   c.CreatedAt,
	}
}

func ToCategoryResponseList(categories []Category) []CategoryResponse {
	responses := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		responses = append(responses, ToCategoryResponse(&categories[i]))
	}
	return responses
}
