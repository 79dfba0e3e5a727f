package params

import (
	"errors"
	"fmt"
)

// ErrInvalidParams wraps all validation failures from Validate.
var ErrInvalidParams = errors.New("invalid calculation params")

// Validate checks the structural invariants of a parameter set: every
// percentage or fraction field sits in [0,1], physical quantities are
// positive, and the redundancy mode is one the factor tables define.
func (p Params) Validate() error {
	var problems []string

	fraction := func(name string, v float64) {
		if v < 0 || v > 1 {
			problems = append(problems, fmt.Sprintf("%s must be in [0,1], got %g", name, v))
		}
	}
	positive := func(name string, v float64) {
		if v <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be positive, got %g", name, v))
		}
	}

	positive("electrical.voltageFactor", p.Electrical.VoltageFactor)
	fraction("electrical.powerFactor", p.Electrical.PowerFactor)
	if p.Electrical.PowerFactor == 0 {
		problems = append(problems, "electrical.powerFactor must be non-zero")
	}
	if !IsKnownRedundancyMode(p.Electrical.Redundancy) {
		problems = append(problems, fmt.Sprintf("electrical.redundancyMode %q is not a known mode", p.Electrical.Redundancy))
	}

	positive("cooling.deltaT", p.Cooling.DeltaT)
	positive("cooling.flowRateFactor", p.Cooling.FlowRateFactor)
	fraction("cooling.dlcResidualHeatFraction", p.Cooling.DLCResidualHeatFraction)
	fraction("cooling.chillerEfficiencyFactor", p.Cooling.ChillerEfficiencyFactor)
	fraction("cooling.hybridCoolingRatio", p.Cooling.HybridCoolingRatio)

	positive("power.upsModuleSize", p.Power.UPSModuleSize)
	if p.Power.UPSFrameMaxModules <= 0 {
		problems = append(problems, fmt.Sprintf("power.upsFrameMaxModules must be positive, got %d", p.Power.UPSFrameMaxModules))
	}
	positive("power.batteryRuntime", p.Power.BatteryRuntime)
	fraction("power.batteryEfficiency", p.Power.BatteryEfficiency)
	if p.Power.BatteryEfficiency == 0 {
		problems = append(problems, "power.batteryEfficiency must be non-zero")
	}

	fraction("costFactors.installationPercentage", p.CostFactors.InstallationPercentage)
	fraction("costFactors.engineeringPercentage", p.CostFactors.EngineeringPercentage)
	fraction("costFactors.contingencyPercentage", p.CostFactors.ContingencyPercentage)

	positive("generator.headroomFactor", p.Generator.HeadroomFactor)
	positive("generator.roundingKVA", p.Generator.RoundingKVA)

	fraction("sustainability.waterRecyclingRate", p.Sustainability.WaterRecyclingRate)
	fraction("sustainability.wasteHeatRecoveryRate", p.Sustainability.WasteHeatRecoveryRate)
	fraction("sustainability.inflationRate", p.Sustainability.InflationRate)
	fraction("sustainability.discountRate", p.Sustainability.DiscountRate)
	if p.Sustainability.HorizonYears <= 0 {
		problems = append(problems, fmt.Sprintf("sustainability.horizonYears must be positive, got %d", p.Sustainability.HorizonYears))
	}

	positive("reliability.ups.mtbfHours", p.Reliability.UPS.MTBFHours)
	positive("reliability.cooling.mtbfHours", p.Reliability.Cooling.MTBFHours)

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidParams, problems[0])
}
