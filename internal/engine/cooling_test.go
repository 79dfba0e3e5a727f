package engine

import (
	"testing"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSizeCoolingAir(t *testing.T) {
	p := params.Defaults()

	got := SizeCooling(10, 28, CoolingAir, "", p)

	assert.InDelta(t, 308.0, got.Cooling.TotalCapacityKW, 1e-9)
	assert.Equal(t, 3, got.Cooling.RDHXUnits)
	assert.Equal(t, rdhxModelBasic, got.Cooling.RDHXModel)
	assert.InDelta(t, 1.40, got.Cooling.PUE, 1e-9)
	assert.Zero(t, got.Cooling.DLCCoolingCapacityKW)
	assert.InDelta(t, 1.0, got.Thermal.AirFraction, 1e-9)
}

func TestSizeCoolingAirModelSelection(t *testing.T) {
	p := params.Defaults()

	tests := []struct {
		kwPerRack float64
		want      string
	}{
		{10, rdhxModelBasic},
		{15, rdhxModelBasic},
		{20, rdhxModelStandard},
		{30, rdhxModelStandard},
		{40, rdhxModelHighDensity},
	}
	for _, tt := range tests {
		got := SizeCooling(tt.kwPerRack, 28, CoolingAir, "", p)
		assert.Equal(t, tt.want, got.Cooling.RDHXModel, "kwPerRack=%g", tt.kwPerRack)
	}
}

func TestSizeCoolingDLC(t *testing.T) {
	p := params.Defaults()

	got := SizeCooling(10, 28, CoolingDLC, "", p)

	assert.InDelta(t, 210.0, got.Cooling.DLCCoolingCapacityKW, 1e-9)
	assert.InDelta(t, 70.0, got.Cooling.ResidualCoolingCapacityKW, 1e-9)
	assert.Equal(t, 1, got.Cooling.RDHXUnits)
	assert.Equal(t, "dn110", got.Cooling.PipingSize)
	assert.InDelta(t, 504.0, got.Cooling.FlowRateLPM, 1e-9)
	assert.InDelta(t, 0.75, got.Thermal.LiquidFraction, 1e-9)
	assert.InDelta(t, 0.25, got.Thermal.AirFraction, 1e-9)

	// 504 l/min stays under the 2.5 m/s ceiling in dn75 pipe.
	assert.Equal(t, "dn75", got.Pipes.NominalDiameter)
	assert.LessOrEqual(t, got.Pipes.VelocityMS, TargetPipeVelocityMS)
	assert.Empty(t, got.Pipes.Warning)
}

func TestSizeCoolingDLCMainLoopSteps(t *testing.T) {
	p := params.Defaults()

	// 75 kW x 28 racks puts 1575 kW on the liquid loop, past the dn110
	// threshold.
	got := SizeCooling(75, 28, CoolingDLC, "", p)
	assert.Equal(t, "dn160", got.Cooling.PipingSize)
}

func TestSizeCoolingHybrid(t *testing.T) {
	p := params.Defaults()

	got := SizeCooling(10, 28, CoolingHybrid, "", p)

	assert.InDelta(t, 196.0, got.Cooling.DLCCoolingCapacityKW, 1e-9)
	assert.InDelta(t, 92.4, got.Cooling.ResidualCoolingCapacityKW, 1e-9)
	assert.Equal(t, 1, got.Cooling.RDHXUnits)
	assert.Equal(t, rdhxModelStandard, got.Cooling.RDHXModel)
}

func TestSizeCoolingImmersion(t *testing.T) {
	p := params.Defaults()

	got := SizeCooling(10, 28, CoolingImmersion, "", p)

	assert.InDelta(t, 294.0, got.Cooling.TotalCapacityKW, 1e-9)
	assert.Equal(t, 7, got.Cooling.ImmersionTanks)
	assert.Zero(t, got.Cooling.RDHXUnits)
	assert.InDelta(t, 564.48, got.Cooling.FlowRateLPM, 1e-9)
}

func TestFlowRateFactorDerivesFromDeltaT(t *testing.T) {
	p := params.Defaults()
	assert.InDelta(t, 2.4, flowRateFactor(p), 1e-12)

	p.Cooling.FlowRateFactor = 0
	p.Cooling.DeltaT = 6
	assert.InDelta(t, 60/(4.186*6), flowRateFactor(p), 1e-12)

	p.Cooling.DeltaT = 10
	assert.InDelta(t, 60/(4.186*10), flowRateFactor(p), 1e-12)
}

func TestPUEOrderingAcrossTechnologies(t *testing.T) {
	p := params.Defaults()

	for _, location := range []string{"", "stockholm", "dubai", "frankfurt"} {
		var pues []float64
		for _, ct := range []CoolingType{CoolingImmersion, CoolingDLC, CoolingHybrid, CoolingAir} {
			got := SizeCooling(30, 28, ct, location, p)
			pues = append(pues, got.Cooling.PUE)
		}
		// immersion < dlc < hybrid < air holds at every site.
		for i := 1; i < len(pues); i++ {
			assert.Less(t, pues[i-1], pues[i], "location=%q", location)
		}
	}
}

func TestAdjustedPUEClimate(t *testing.T) {
	// Cool climates scale only the overhead portion down; PUE never
	// drops below 1.
	cold := adjustedPUE(CoolingAir, "stockholm")
	hot := adjustedPUE(CoolingAir, "dubai")
	neutral := adjustedPUE(CoolingAir, "nowhere-listed")

	assert.InDelta(t, 1.34, cold, 1e-9)
	assert.InDelta(t, 1.50, hot, 1e-9)
	assert.InDelta(t, 1.40, neutral, 1e-9)
	assert.Greater(t, cold, 1.0)
}

func TestSizePipesVelocityCeiling(t *testing.T) {
	// A flow no standard pipe can carry under 3 m/s must come back with
	// the largest size and a warning, never an error.
	huge := sizePipes(100000)
	require.Equal(t, "dn200", huge.NominalDiameter)
	assert.Greater(t, huge.VelocityMS, MaxPipeVelocityMS)
	assert.NotEmpty(t, huge.Warning)

	none := sizePipes(0)
	assert.Empty(t, none.NominalDiameter)
	assert.Empty(t, none.Warning)
}
