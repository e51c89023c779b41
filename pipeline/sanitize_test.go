package pipeline

import (
	"math"
	"reflect"
	"testing"
)

// TestSanitize tests JSON-safe conversion of scalar values
func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected any
	}{
		{name: "nil passes through", input: nil, expected: nil},
		{name: "NaN becomes nil", input: math.NaN(), expected: nil},
		{name: "positive infinity becomes nil", input: math.Inf(1), expected: nil},
		{name: "negative infinity becomes nil", input: math.Inf(-1), expected: nil},
		{name: "blank string becomes nil", input: "", expected: nil},
		{name: "whitespace string becomes nil", input: "   ", expected: nil},
		{name: "string passes through", input: "john", expected: "john"},
		{name: "integral float narrows to integer", input: float64(3), expected: int64(3)},
		{name: "fractional float stays float", input: 3.5, expected: 3.5},
		{name: "float32 NaN becomes nil", input: float32(math.NaN()), expected: nil},
		{name: "int passes through", input: 42, expected: 42},
		{name: "bool passes through", input: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sanitize(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Sanitize(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

// TestSanitizeNested tests totality over nested structures: NaN and Inf at
// arbitrary depth are replaced with nil, nothing panics.
func TestSanitizeNested(t *testing.T) {
	input := map[string]any{
		"amount": math.NaN(),
		"rate":   math.Inf(1),
		"name":   "john",
		"tags":   []any{math.Inf(-1), "a", "", float64(7)},
		"meta": map[string]any{
			"depth": []any{
				map[string]any{"bad": math.NaN()},
			},
		},
	}

	expected := map[string]any{
		"amount": nil,
		"rate":   nil,
		"name":   "john",
		"tags":   []any{nil, "a", nil, int64(7)},
		"meta": map[string]any{
			"depth": []any{
				map[string]any{"bad": nil},
			},
		},
	}

	got := Sanitize(input)
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Sanitize() = %#v, want %#v", got, expected)
	}
}
