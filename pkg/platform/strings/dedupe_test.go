package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "trims whitespace",
			input:    []string{"  Retry validation  ", "Contact technical support  "},
			expected: []string{"Retry validation", "Contact technical support"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"a", "b", "a", "c", "b"},
			expected: []string{"a", "b", "c"},
		},
		{
			name:     "drops blank entries",
			input:    []string{"", "   ", "kept"},
			expected: []string{"kept"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}

func TestUnion(t *testing.T) {
	t.Run("no lists yields empty non-nil slice", func(t *testing.T) {
		got := Union()
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("merges and deduplicates across lists", func(t *testing.T) {
		got := Union(
			[]string{"Maintain detailed collection records", "Apply for permits well in advance"},
			nil,
			[]string{"Apply for permits well in advance", "Document actual quantity collected"},
		)
		assert.ElementsMatch(t, []string{
			"Maintain detailed collection records",
			"Apply for permits well in advance",
			"Document actual quantity collected",
		}, got)
	})
}

func TestContainsFold(t *testing.T) {
	issues := []string{
		"Compliance violation: Harvesting not allowed during winter",
		"Obtain PERMIT before collection",
	}

	assert.True(t, AnyContainsFold(issues, "permit"))
	assert.True(t, AnyContainsFold(issues, "VIOLATION"))
	assert.False(t, AnyContainsFold(issues, "quantity"))
	assert.False(t, AnyContainsFold(nil, "permit"))

	assert.Equal(t, 1, CountContainsFold(issues, "violation"))
	assert.Equal(t, 0, CountContainsFold(issues, "season"))
}
