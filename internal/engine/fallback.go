package engine

import (
	"math"

	"github.com/rackforge/dcsizer/internal/params"
)

// fallbackEquipmentPerKW is the constant-factor equipment cost used by
// the reduced-fidelity path, per cooling technology.
var fallbackEquipmentPerKW = map[CoolingType]float64{
	CoolingAir:       6500,
	CoolingHybrid:    7200,
	CoolingDLC:       7000,
	CoolingImmersion: 7600,
}

// Fallback recomputes the full result shape from simplified
// constant-factor formulas. It touches no pricing data and no stage that
// can fail, guaranteeing callers a structurally valid Result when the
// primary path is unusable. The cost identity and the busbar/PUE/
// availability ordering properties of the primary path still hold.
func Fallback(cfg Config, p params.Params) Result {
	cfg, warnings := normalizeConfig(cfg)
	warnings = append(warnings, "fallback calculator engaged; figures are reduced-fidelity estimates")

	rack := summarizeRack(cfg)
	loadKW := rack.TotalITLoadKW

	// Component selection tables are total pure lookups; reuse them so
	// fallback results stay consistent with the primary path.
	electrical := SizeElectrical(cfg.KWPerRack, p)
	power := SizePower(loadKW, cfg.Options.IncludeGenerator, p)
	reliability := AssessReliability(cfg.Options.IncludeGenerator, p)

	pue := adjustedPUE(cfg.CoolingType, cfg.Options.Location)
	cooling := CoolingSizing{
		Type:            cfg.CoolingType,
		TotalCapacityKW: loadKW * AirCoolingMargin,
		RDHXUnits:       int(math.Ceil(loadKW * AirCoolingMargin / RDHXUnitCapacityKW)),
		PUE:             pue,
	}

	sustainability, carbon := AssessSustainability(loadKW, cfg.CoolingType, pue,
		power.Generator, cfg.Options.Sustainability, cfg.Options.Location, p)

	perKW, ok := fallbackEquipmentPerKW[cfg.CoolingType]
	if !ok {
		perKW = fallbackEquipmentPerKW[CoolingAir]
	}
	equipment := loadKW * perKW
	installation := equipment * p.CostFactors.InstallationPercentage
	engineering := equipment * p.CostFactors.EngineeringPercentage
	contingency := equipment * p.CostFactors.ContingencyPercentage
	total := equipment + installation + engineering + contingency

	racks := float64(rack.TotalRacks)
	if racks <= 0 {
		racks = 1
	}
	kw := loadKW
	if kw <= 0 {
		kw = 1
	}
	cost := CostBreakdown{
		Currency:         "USD",
		EquipmentTotal:   equipment,
		Installation:     installation,
		Engineering:      engineering,
		Contingency:      contingency,
		TotalProjectCost: total,
		CostPerRack:      total / racks,
		CostPerKW:        total / kw,
	}

	return Result{
		Source:         SourceFallback,
		Rack:           rack,
		Electrical:     electrical,
		Cooling:        cooling,
		Thermal:        thermalSplit(cooling),
		Pipes:          PipeSizing{TargetVelocityMS: TargetPipeVelocityMS},
		Power:          power,
		Reliability:    reliability,
		Sustainability: sustainability,
		Carbon:         carbon,
		Cost:           cost,
		TCO:            AssessTCO(total, sustainability.AnnualTotalEnergyKWh, p),
		Warnings:       warnings,
	}
}
