package services

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Register and Login both run addresses through normalizeEmail before any
// lookup, so a user who signs up as "John@Example.com" can log in with the
// same mixed-case string they registered with.
func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already normalized", "john@example.com", "john@example.com"},
		{"mixed case", "John@Example.com", "john@example.com"},
		{"upper case domain", "john@EXAMPLE.COM", "john@example.com"},
		{"surrounding whitespace", "  john@example.com \t", "john@example.com"},
		{"mixed case and whitespace", " John.Doe+learn@Example.COM ", "john.doe+learn@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, normalizeEmail(tt.input))
		})
	}
}

func TestNormalizeEmail_RoundTrip(t *testing.T) {
	// The stored form of an address must be a fixed point: normalizing it
	// again yields the same string the registration path persisted.
	stored := normalizeEmail("John@Example.com")
	require.Equal(t, stored, normalizeEmail(stored))
}
