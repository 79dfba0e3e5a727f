package engine

import (
	"testing"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/stretchr/testify/assert"
)

func TestAssessSustainabilityBaseline(t *testing.T) {
	p := params.Defaults()

	sus, carbon := AssessSustainability(280, CoolingAir, 1.40,
		GeneratorSizing{}, SustainabilityOptions{}, "", p)

	assert.InDelta(t, 2452800.0, sus.AnnualITEnergyKWh, 1e-6)
	assert.InDelta(t, 3433920.0, sus.AnnualTotalEnergyKWh, 1e-6)
	assert.Zero(t, sus.RecoveredHeatKWh)
	// 1.8 l/kWh of IT energy for air cooling.
	assert.InDelta(t, 4415.04, sus.AnnualWaterUsageM3, 1e-6)

	assert.InDelta(t, 0.35, carbon.GridIntensityKgPerKWh, 1e-12)
	assert.InDelta(t, 3433920.0*0.35, carbon.GridEmissionsKg, 1e-3)
	assert.Zero(t, carbon.GeneratorEmissionsKg)
	assert.Equal(t, carbon.GridEmissionsKg, carbon.TotalEmissionsKg)
}

func TestAssessSustainabilityOptions(t *testing.T) {
	p := params.Defaults()

	sus, carbon := AssessSustainability(280, CoolingAir, 1.40, GeneratorSizing{},
		SustainabilityOptions{
			EnableWasteHeatRecovery:   true,
			EnableWaterRecycling:      true,
			RenewableEnergyPercentage: 50,
		}, "", p)

	// 15% of the cooling overhead comes back as recovered heat.
	overhead := sus.AnnualTotalEnergyKWh - sus.AnnualITEnergyKWh
	assert.InDelta(t, overhead*0.15, sus.RecoveredHeatKWh, 1e-6)

	// Recycling drops water usage by 60%.
	assert.InDelta(t, 4415.04*0.4, sus.AnnualWaterUsageM3, 1e-6)

	// Half the remaining grid energy is renewable.
	gridEnergy := sus.AnnualTotalEnergyKWh - sus.RecoveredHeatKWh
	assert.InDelta(t, gridEnergy*0.5*0.35, carbon.GridEmissionsKg, 1e-3)
	assert.InDelta(t, carbon.GridEmissionsKg, carbon.RenewableOffsetKg, 1e-3)
}

func TestAssessSustainabilityRenewableClamped(t *testing.T) {
	p := params.Defaults()

	sus, carbon := AssessSustainability(280, CoolingAir, 1.40, GeneratorSizing{},
		SustainabilityOptions{RenewableEnergyPercentage: 250}, "", p)

	assert.InDelta(t, 100.0, sus.RenewablePercentage, 1e-12)
	assert.Zero(t, carbon.GridEmissionsKg)
}

func TestAssessSustainabilityGeneratorEmissions(t *testing.T) {
	p := params.Defaults()

	_, carbon := AssessSustainability(280, CoolingAir, 1.40,
		GeneratorSizing{Included: true, CapacityKVA: 500},
		SustainabilityOptions{}, "", p)

	// 24 test hours at nameplate, 0.8 kg/kWh diesel.
	assert.InDelta(t, 500*24*0.8, carbon.GeneratorEmissionsKg, 1e-6)
	assert.InDelta(t, carbon.GridEmissionsKg+carbon.GeneratorEmissionsKg, carbon.TotalEmissionsKg, 1e-6)
}

func TestAssessSustainabilityLocationIntensity(t *testing.T) {
	p := params.Defaults()

	_, stockholm := AssessSustainability(280, CoolingAir, 1.40, GeneratorSizing{}, SustainabilityOptions{}, "Stockholm", p)
	_, mumbai := AssessSustainability(280, CoolingAir, 1.40, GeneratorSizing{}, SustainabilityOptions{}, "mumbai", p)

	assert.InDelta(t, 0.04, stockholm.GridIntensityKgPerKWh, 1e-12)
	assert.InDelta(t, 0.71, mumbai.GridIntensityKgPerKWh, 1e-12)
	assert.Less(t, stockholm.TotalEmissionsKg, mumbai.TotalEmissionsKg)
}

func TestAssessTCO(t *testing.T) {
	p := params.Defaults()

	got := AssessTCO(1_000_000, 3_433_920, p)

	energy := 3_433_920 * 0.12
	maintenance := 1_000_000 * 0.02
	operational := 1_000_000 * 0.01
	opex := energy + maintenance + operational

	assert.InDelta(t, energy, got.AnnualEnergyCost, 1e-6)
	assert.InDelta(t, maintenance, got.AnnualMaintenanceCost, 1e-6)
	assert.InDelta(t, operational, got.AnnualOperationalCost, 1e-6)
	assert.Equal(t, 10, got.HorizonYears)
	assert.InDelta(t, 1_000_000+5*opex, got.Flat5Year, 1e-6)
	assert.InDelta(t, 1_000_000+10*opex, got.Flat10Year, 1e-6)

	// Discount rate exceeds inflation, so NPV sits between capital cost
	// and the flat 10-year total.
	assert.Greater(t, got.NPV, got.CapitalCost)
	assert.Less(t, got.NPV, got.Flat10Year)
}

func TestAssessTCOZeroCapital(t *testing.T) {
	got := AssessTCO(0, 0, params.Defaults())
	assert.Zero(t, got.NPV)
	assert.Zero(t, got.Flat10Year)
}
