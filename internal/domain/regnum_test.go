package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRegistrationNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase with dash", "abc-123", "ABC123"},
		{"spaces stripped", "ab c 123", "ABC123"},
		{"already normalized", "ABC123", "ABC123"},
		{"mixed separators", "a-b c-1 23", "ABC123"},
		{"empty string", "", ""},
		{"finnish plate", "zlh-482", "ZLH482"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRegistrationNumber(tt.input))
		})
	}
}

func TestNormalizeRegistrationNumber_Idempotent(t *testing.T) {
	inputs := []string{"abc-123", "AB C12", "x", ""}
	for _, input := range inputs {
		once := NormalizeRegistrationNumber(input)
		assert.Equal(t, once, NormalizeRegistrationNumber(once))
	}
}
