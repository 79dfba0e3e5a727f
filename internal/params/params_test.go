package params

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, Defaults().Validate())
}

func TestRedundancyCapacityFactor(t *testing.T) {
	tests := []struct {
		mode RedundancyMode
		want float64
	}{
		{RedundancyN, 1.0},
		{RedundancyN1, 1.2},
		{Redundancy2N, 2.0},
		{Redundancy2N1, 2.2},
		{Redundancy3N, 3.0},
		{"5N", 1.5},
		{"", 1.5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RedundancyCapacityFactor(tt.mode), 1e-12, "mode=%q", tt.mode)
	}
}

func TestIsKnownRedundancyMode(t *testing.T) {
	for _, mode := range KnownRedundancyModes {
		assert.True(t, IsKnownRedundancyMode(mode))
	}
	assert.False(t, IsKnownRedundancyMode("5N"))
	assert.False(t, IsKnownRedundancyMode(""))
}

func TestWithOverridesCopyNotMutate(t *testing.T) {
	base := Defaults()

	modified := base.WithRedundancy(Redundancy2N).WithBatteryRuntime(30).WithHybridRatio(0.5)

	assert.Equal(t, Redundancy2N, modified.Electrical.Redundancy)
	assert.InDelta(t, 30.0, modified.Power.BatteryRuntime, 1e-12)
	assert.InDelta(t, 0.5, modified.Cooling.HybridCoolingRatio, 1e-12)

	// The receiver is untouched.
	assert.Equal(t, RedundancyN1, base.Electrical.Redundancy)
	assert.InDelta(t, 10.0, base.Power.BatteryRuntime, 1e-12)
	assert.InDelta(t, 0.7, base.Cooling.HybridCoolingRatio, 1e-12)
}

func TestWithOverridesRejectOutOfRange(t *testing.T) {
	base := Defaults()

	assert.InDelta(t, 10.0, base.WithBatteryRuntime(0).Power.BatteryRuntime, 1e-12)
	assert.InDelta(t, 10.0, base.WithBatteryRuntime(-5).Power.BatteryRuntime, 1e-12)
	assert.InDelta(t, 0.7, base.WithHybridRatio(0).Cooling.HybridCoolingRatio, 1e-12)
	assert.InDelta(t, 0.7, base.WithHybridRatio(1.5).Cooling.HybridCoolingRatio, 1e-12)
}

func TestValidateCatchesBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero voltage", func(p *Params) { p.Electrical.VoltageFactor = 0 }},
		{"power factor above 1", func(p *Params) { p.Electrical.PowerFactor = 1.2 }},
		{"unknown redundancy", func(p *Params) { p.Electrical.Redundancy = "5N" }},
		{"negative residual fraction", func(p *Params) { p.Cooling.DLCResidualHeatFraction = -0.1 }},
		{"zero ups module", func(p *Params) { p.Power.UPSModuleSize = 0 }},
		{"installation above 1", func(p *Params) { p.CostFactors.InstallationPercentage = 1.5 }},
		{"zero horizon", func(p *Params) { p.Sustainability.HorizonYears = 0 }},
		{"zero ups mtbf", func(p *Params) { p.Reliability.UPS.MTBFHours = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
power:
  batteryRuntime: 20
electrical:
  redundancyMode: 2N
`), 0o600))

	p, err := Load(path)
	require.NoError(t, err)

	assert.InDelta(t, 20.0, p.Power.BatteryRuntime, 1e-12)
	assert.Equal(t, Redundancy2N, p.Electrical.Redundancy)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 400.0, p.Electrical.VoltageFactor, 1e-12)
	assert.InDelta(t, 0.15, p.CostFactors.InstallationPercentage, 1e-12)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("electrical:\n  voltageFactor: -400\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
