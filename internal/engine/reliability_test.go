package engine

import (
	"testing"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/stretchr/testify/assert"
)

func TestAssessReliabilityDefaults(t *testing.T) {
	p := params.Defaults()

	got := AssessReliability(false, p)

	assert.Equal(t, params.RedundancyN1, got.RedundancyMode)
	assert.InDelta(t, 250000.0/250004.0, got.UPSAvailability, 1e-12)
	assert.InDelta(t, 200000.0/200008.0, got.CoolingAvailability, 1e-12)
	assert.Zero(t, got.GeneratorAvailability)
	assert.Equal(t, got.UPSAvailability, got.PowerAvailability)

	want := got.UPSAvailability * got.CoolingAvailability * 0.995
	assert.InDelta(t, want, got.SystemAvailability, 1e-12)
	assert.InDelta(t, (1-want)*365*24*60, got.AnnualDowntimeMin, 1e-6)
}

func TestAssessReliabilityGeneratorImprovesPowerPath(t *testing.T) {
	p := params.Defaults()

	without := AssessReliability(false, p)
	with := AssessReliability(true, p)

	assert.Greater(t, with.PowerAvailability, without.PowerAvailability)
	assert.Greater(t, with.SystemAvailability, without.SystemAvailability)
	assert.Positive(t, with.GeneratorAvailability)
}

func TestAssessReliabilityRedundancyOrdering(t *testing.T) {
	base := params.Defaults()

	// More redundancy never lowers availability.
	modes := []params.RedundancyMode{
		params.RedundancyN, params.RedundancyN1, params.Redundancy2N,
		params.Redundancy2N1, params.Redundancy3N,
	}
	prev := 0.0
	for _, mode := range modes {
		got := AssessReliability(false, base.WithRedundancy(mode))
		assert.Greater(t, got.SystemAvailability, prev, "mode=%s", mode)
		prev = got.SystemAvailability
	}
}

func TestAssessReliabilityUnknownModeUsesBaseline(t *testing.T) {
	p := params.Defaults().WithRedundancy("5N")

	got := AssessReliability(false, p)
	baseline := AssessReliability(false, params.Defaults().WithRedundancy(params.RedundancyN))

	assert.InDelta(t, baseline.SystemAvailability, got.SystemAvailability, 1e-12)
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		availability float64
		want         string
	}{
		{0.99995, TierIV},
		{0.9999, TierIII},
		{0.9995, TierIII},
		{0.999, TierII},
		{0.995, TierII},
		{0.99, TierI},
		{0.95, TierI},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyTier(tt.availability), "availability=%v", tt.availability)
	}
}

func TestComponentAvailabilityDegenerate(t *testing.T) {
	assert.Zero(t, componentAvailability(params.ComponentReliability{}))
	assert.Equal(t, 1.0, componentAvailability(params.ComponentReliability{MTBFHours: 100, MTTRHours: -1}))
	assert.InDelta(t, 0.5, componentAvailability(params.ComponentReliability{MTBFHours: 4, MTTRHours: 4}), 1e-12)
}
