package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClimateFactor(t *testing.T) {
	tests := []struct {
		location string
		want     float64
	}{
		{"stockholm", 0.85},
		{"Stockholm", 0.85},
		{"DUBAI", 1.25},
		{"", DefaultClimateFactor},
		{"atlantis", DefaultClimateFactor},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ClimateFactor(tt.location), 1e-12, "location=%q", tt.location)
	}
}

func TestGridCarbonIntensity(t *testing.T) {
	assert.InDelta(t, 0.04, GridCarbonIntensity("stockholm", 0.35), 1e-12)
	assert.InDelta(t, 0.71, GridCarbonIntensity("Mumbai", 0.35), 1e-12)
	// Unlisted sites use the configured default.
	assert.InDelta(t, 0.35, GridCarbonIntensity("atlantis", 0.35), 1e-12)
	assert.InDelta(t, 0.35, GridCarbonIntensity("", 0.35), 1e-12)
}
