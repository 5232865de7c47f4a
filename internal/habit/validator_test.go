// AngelaMos | 2026
// validator_test.go

package habit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadValidator_ValidPayload(t *testing.T) {
	v := NewPayloadValidator()

	result := v.Validate(map[string]any{
		"name":           "morning run",
		"execution_time": float64(60),
		"frequency":      float64(7),
		"habit_type":     "useful",
	})

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestPayloadValidator_NameRequired(t *testing.T) {
	v := NewPayloadValidator()

	result := v.Validate(map[string]any{
		"execution_time": float64(60),
	})

	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "habit name is required")
}

func TestPayloadValidator_FieldErrors(t *testing.T) {
	v := NewPayloadValidator()

	tests := []struct {
		name    string
		payload map[string]any
		message string
	}{
		{
			name:    "blank name",
			payload: map[string]any{"name": "   "},
			message: "habit name cannot be empty",
		},
		{
			name: "name too long",
			payload: map[string]any{
				"name": strings.Repeat("x", MaxNameLength+1),
			},
			message: "habit name cannot exceed 100 characters",
		},
		{
			name: "name wrong type",
			payload: map[string]any{
				"name": 42,
			},
			message: "habit name must be a string",
		},
		{
			name: "execution time over limit",
			payload: map[string]any{
				"name":           "run",
				"execution_time": float64(MaxExecutionTime + 1),
			},
			message: "execution time cannot exceed 120 seconds",
		},
		{
			name: "execution time negative",
			payload: map[string]any{
				"name":           "run",
				"execution_time": float64(-5),
			},
			message: "execution time must be a positive number of seconds",
		},
		{
			name: "execution time fractional",
			payload: map[string]any{
				"name":           "run",
				"execution_time": 30.5,
			},
			message: "execution time must be an integer",
		},
		{
			name: "frequency below weekly minimum",
			payload: map[string]any{
				"name":      "run",
				"frequency": float64(6),
			},
			message: "frequency cannot be more often than once every 7 days",
		},
		{
			name: "frequency zero",
			payload: map[string]any{
				"name":      "run",
				"frequency": float64(0),
			},
			message: "frequency must be a positive number of days",
		},
		{
			name: "unknown habit type",
			payload: map[string]any{
				"name":       "run",
				"habit_type": "neutral",
			},
			message: "invalid habit type: neutral",
		},
		{
			name: "reward too long",
			payload: map[string]any{
				"name":   "run",
				"reward": strings.Repeat("x", MaxRewardLength+1),
			},
			message: "reward cannot exceed 200 characters",
		},
		{
			name: "related habit id not an integer",
			payload: map[string]any{
				"name":             "run",
				"related_habit_id": "five",
			},
			message: "related habit id must be an integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.payload)
			require.False(t, result.Valid)
			assert.Contains(t, result.Errors, tt.message)
		})
	}
}

func TestPayloadValidator_BoundaryValues(t *testing.T) {
	v := NewPayloadValidator()

	result := v.Validate(map[string]any{
		"name":           "run",
		"execution_time": float64(MaxExecutionTime),
		"frequency":      float64(MinFrequencyDays),
	})

	assert.True(t, result.Valid)
}

func TestPayloadValidator_CollectsAllErrors(t *testing.T) {
	v := NewPayloadValidator()

	result := v.Validate(map[string]any{
		"name":           "",
		"execution_time": float64(200),
		"frequency":      float64(1),
		"habit_type":     "bogus",
	})

	require.False(t, result.Valid)
	assert.Len(t, result.Errors, 4)
}

func TestValidatePartial_NameOptional(t *testing.T) {
	v := NewPayloadValidator()

	result := v.ValidatePartial(map[string]any{
		"execution_time": float64(90),
	})

	assert.True(t, result.Valid)
}

func TestValidatePartial_PresentFieldsChecked(t *testing.T) {
	v := NewPayloadValidator()

	result := v.ValidatePartial(map[string]any{
		"execution_time": float64(300),
	})

	require.False(t, result.Valid)
	assert.Contains(
		t,
		result.Errors,
		"execution time cannot exceed 120 seconds",
	)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		want  int
		valid bool
	}{
		{"int", 42, 42, true},
		{"int64", int64(7), 7, true},
		{"whole float", float64(30), 30, true},
		{"fractional float", 30.7, 0, false},
		{"string", "42", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerceInt(tt.raw)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
