package source

import (
	"reflect"
	"testing"
)

// TestCellString tests coercion of API cell values to strings
func TestCellString(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "nil cell is empty", input: nil, expected: ""},
		{name: "string passes through", input: "john", expected: "john"},
		{name: "integral number drops the fraction", input: float64(1200), expected: "1200"},
		{name: "decimal number keeps the fraction", input: 1200.5, expected: "1200.5"},
		{name: "bool renders lowercase", input: true, expected: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cellString(tt.input); got != tt.expected {
				t.Errorf("cellString(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// TestStringGrid tests grid flattening with ragged rows
func TestStringGrid(t *testing.T) {
	input := [][]interface{}{
		{"ID", "AMOUNT"},
		{"dep-1", float64(100)},
		{"dep-2"},
	}
	expected := [][]string{
		{"ID", "AMOUNT"},
		{"dep-1", "100"},
		{"dep-2"},
	}

	if got := stringGrid(input); !reflect.DeepEqual(got, expected) {
		t.Errorf("stringGrid() = %v, want %v", got, expected)
	}
}
