package engine

import (
	"math"

	"github.com/rackforge/dcsizer/internal/params"
)

// AssessSustainability computes annual energy, water and carbon figures
// for the sized configuration. Single-pass arithmetic, deterministic
// given inputs.
func AssessSustainability(totalITLoadKW float64, coolingType CoolingType, pue float64,
	generator GeneratorSizing, opts SustainabilityOptions, location string,
	p params.Params) (SustainabilitySummary, CarbonFootprint) {

	if pue < 1 {
		pue = basePUE[CoolingAir]
	}

	annualIT := totalITLoadKW * HoursPerYear
	annualTotal := annualIT * pue

	// Waste heat recovery offsets a share of the cooling overhead
	// against grid demand; it never touches the IT energy itself.
	var recovered float64
	if opts.EnableWasteHeatRecovery {
		recovered = (annualTotal - annualIT) * p.Sustainability.WasteHeatRecoveryRate
	}
	gridEnergy := annualTotal - recovered

	water := annualWaterUsage(totalITLoadKW, coolingType)
	if opts.EnableWaterRecycling {
		water *= 1 - p.Sustainability.WaterRecyclingRate
	}

	renewable := clampPercent(opts.RenewableEnergyPercentage)
	if renewable == 0 {
		renewable = clampPercent(p.Sustainability.RenewableEnergyDefault)
	}
	renewableFrac := renewable / 100

	intensity := GridCarbonIntensity(location, p.Sustainability.CarbonIntensity)
	gridEmissions := gridEnergy * (1 - renewableFrac) * intensity
	renewableOffset := gridEnergy * renewableFrac * intensity

	var generatorEmissions float64
	if generator.Included {
		// Annual test runs burn diesel at nameplate; kVA treated as kW
		// for the test-load assumption.
		testEnergy := generator.CapacityKVA * p.Generator.TestHoursPerYear
		generatorEmissions = testEnergy * p.Sustainability.DieselCarbonIntensity
	}

	sustainability := SustainabilitySummary{
		PUE:                  pue,
		AnnualITEnergyKWh:    annualIT,
		AnnualTotalEnergyKWh: annualTotal,
		RecoveredHeatKWh:     recovered,
		AnnualWaterUsageM3:   water,
		WaterRecycling:       opts.EnableWaterRecycling,
		WasteHeatRecovery:    opts.EnableWasteHeatRecovery,
		RenewablePercentage:  renewable,
	}
	carbon := CarbonFootprint{
		GridIntensityKgPerKWh: intensity,
		GridEmissionsKg:       gridEmissions,
		GeneratorEmissionsKg:  generatorEmissions,
		TotalEmissionsKg:      gridEmissions + generatorEmissions,
		RenewableOffsetKg:     renewableOffset,
	}
	return sustainability, carbon
}

// annualWaterUsage converts the per-technology water usage effectiveness
// into cubic meters per year.
func annualWaterUsage(totalITLoadKW float64, coolingType CoolingType) float64 {
	coeff, ok := waterUsageLPerKWh[coolingType]
	if !ok {
		coeff = waterUsageLPerKWh[CoolingAir]
	}
	return totalITLoadKW * coeff * HoursPerYear / 1000
}

func clampPercent(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AssessTCO produces the total-cost-of-ownership model: the NPV of
// capital cost plus inflation-grown, discounted operating costs over the
// configured horizon, alongside flat 5- and 10-year totals for simpler
// display.
func AssessTCO(capitalCost, annualTotalEnergyKWh float64, p params.Params) TCOSummary {
	s := p.Sustainability

	energyCost := annualTotalEnergyKWh * s.EnergyPricePerKWh
	maintenance := capitalCost * s.MaintenancePercentage
	operational := capitalCost * s.OperationalPercentage
	annualOpex := energyCost + maintenance + operational

	horizon := s.HorizonYears
	if horizon <= 0 {
		horizon = 10
	}

	npv := capitalCost
	for year := 1; year <= horizon; year++ {
		inflated := annualOpex * math.Pow(1+s.InflationRate, float64(year))
		npv += inflated / math.Pow(1+s.DiscountRate, float64(year))
	}

	return TCOSummary{
		CapitalCost:           capitalCost,
		AnnualEnergyCost:      energyCost,
		AnnualMaintenanceCost: maintenance,
		AnnualOperationalCost: operational,
		HorizonYears:          horizon,
		NPV:                   npv,
		Flat5Year:             capitalCost + 5*annualOpex,
		Flat10Year:            capitalCost + 10*annualOpex,
	}
}
