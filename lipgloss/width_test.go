package lipgloss_test

import (
	"testing"

	"github.com/fwojciec/hunkstage/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDisplayWidth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty string", input: "", expected: 0},
		{name: "simple text", input: "hello", expected: 5},
		{name: "single tab at start", input: "\t", expected: 8},
		{name: "tab after seven chars", input: "1234567\t", expected: 8},
		{name: "tab after eight chars", input: "12345678\t", expected: 16},
		{name: "mixed content with tabs", input: "abc\tdef", expected: 11},
		{name: "go style indentation", input: "\t\treturn nil", expected: 26},
		{name: "unicode with tabs", input: "日本\t語", expected: 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, lipgloss.DisplayWidth(tt.input))
		})
	}
}

func TestExpandTabs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "no tabs", input: "x := 1", expected: "x := 1"},
		{name: "leading tab", input: "\tx", expected: "        x"},
		{name: "tab after text", input: "ab\tc", expected: "ab      c"},
		{name: "wide runes", input: "日本\t語", expected: "日本    語"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := lipgloss.ExpandTabs(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, lipgloss.DisplayWidth(tt.input), lipgloss.DisplayWidth(got))
		})
	}
}
