package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{"30.5", 30.5, true},
		{"1,250", 1250, true},
		{"1,234.5", 1234.5, true},
		{"30,5", 30.5, true},
		{"(12)", -12, true},
		{"-3", -3, true},
		{"1 234", 1234, true},
		{" 44 ", 44, true},
		{"", 0, false},
		{"n/a", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseQuantity(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}
