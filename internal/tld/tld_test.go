package tld

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		label string
		want  bool
	}{
		{"com", true},
		{"COM", true},
		{"Org", true},
		{"io", true},
		{"dev", true},
		{"uk", true},
		{" net ", true},
		{"notatld", false},
		{"", false},
		{"#", false},
		{"1", false},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.label))
		})
	}
}

func TestRegistryLoaded(t *testing.T) {
	assert.Greater(t, Count(), 500)
}
