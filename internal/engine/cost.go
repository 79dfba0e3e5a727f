package engine

import (
	"math"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rackforge/dcsizer/internal/pricing"
)

// RollupCost converges every stage's component selections against the
// pricing matrix. Missing pricing selectors price as zero rather than
// failing, and partially populated stage output from a soft-failed stage
// contributes zero for the parts it lacks.
func RollupCost(rack RackSummary, electrical ElectricalSizing, cooling CoolingOutput,
	power PowerSizing, opts SustainabilityOptions, matrix pricing.Matrix, p params.Params) CostBreakdown {

	if matrix == nil {
		matrix = unpriced{}
	}

	electricalCost := electricalEquipmentCost(rack, electrical, matrix)
	coolingCost := coolingEquipmentCost(rack, cooling.Cooling, matrix)
	pipingCost := pipingEquipmentCost(rack, cooling, matrix)
	powerCost := powerEquipmentCost(power, matrix)
	eHouseCost := eHouseEquipmentCost(power, matrix)
	sustainabilityCost := sustainabilityEquipmentCost(opts, matrix)

	equipment := electricalCost + coolingCost + pipingCost + powerCost + eHouseCost + sustainabilityCost
	installation := equipment * p.CostFactors.InstallationPercentage
	engineering := equipment * p.CostFactors.EngineeringPercentage
	contingency := equipment * p.CostFactors.ContingencyPercentage
	total := equipment + installation + engineering + contingency

	racks := float64(rack.TotalRacks)
	if racks <= 0 {
		racks = 1
	}
	kw := rack.TotalITLoadKW
	if kw <= 0 {
		kw = 1
	}

	return CostBreakdown{
		Currency:           matrix.Currency(),
		ElectricalCost:     electricalCost,
		CoolingCost:        coolingCost,
		PipingCost:         pipingCost,
		PowerCost:          powerCost,
		EHouseCost:         eHouseCost,
		SustainabilityCost: sustainabilityCost,
		EquipmentTotal:     equipment,
		Installation:       installation,
		Engineering:        engineering,
		Contingency:        contingency,
		TotalProjectCost:   total,
		CostPerRack:        total / racks,
		CostPerKW:          total / kw,
	}
}

// priceOr resolves a lookup to its price or a safe default on a miss.
func priceOr(price float64, found bool) float64 {
	if !found {
		return 0
	}
	return price
}

func electricalEquipmentCost(rack RackSummary, e ElectricalSizing, m pricing.Matrix) float64 {
	if e.BusbarRating == 0 && e.TapOffBox == "" && e.RPDU == "" {
		return 0
	}

	rows := rack.Rows
	if rows <= 0 && rack.TotalRacks > 0 {
		rows = int(math.Ceil(float64(rack.TotalRacks) / RacksPerRow))
	}
	busbarsPerRow := e.BusbarsPerRow
	if busbarsPerRow < 1 {
		busbarsPerRow = 1
	}

	busbars := float64(rows*busbarsPerRow) * priceOr(m.BusbarUnitCost(e.BusbarRating))
	tapOffs := float64(rack.TotalRacks) * priceOr(m.TapOffBoxCost(e.TapOffBox))
	rpdus := float64(rack.TotalRacks) * priceOr(m.RPDUCost(e.RPDU))
	return busbars + tapOffs + rpdus
}

func coolingEquipmentCost(rack RackSummary, c CoolingSizing, m pricing.Matrix) float64 {
	var cost float64

	if c.RDHXUnits > 0 && c.RDHXModel != "" {
		cost += float64(c.RDHXUnits) * priceOr(m.CoolerUnitCost(c.RDHXModel))
	}
	if c.ImmersionTanks > 0 {
		cost += float64(c.ImmersionTanks) * priceOr(m.CoolerUnitCost("immersionTank"))
	}
	if c.DLCCoolingCapacityKW > 0 && c.Type != CoolingImmersion {
		// One cold-plate manifold per liquid-cooled rack.
		liquidRacks := rack.TotalRacks
		if c.TotalCapacityKW > 0 {
			frac := c.DLCCoolingCapacityKW / c.TotalCapacityKW
			liquidRacks = int(math.Ceil(float64(rack.TotalRacks) * frac))
		}
		cost += float64(liquidRacks) * priceOr(m.CoolerUnitCost("dlcManifold"))
	}
	return cost
}

func pipingEquipmentCost(rack RackSummary, c CoolingOutput, m pricing.Matrix) float64 {
	dn := c.Pipes.NominalDiameter
	if dn == "" {
		dn = c.Cooling.PipingSize
	}
	if dn == "" || c.Cooling.FlowRateLPM <= 0 {
		return 0
	}
	meters := PipingBaseMeters + float64(rack.TotalRacks)*PipingMetersPerRack
	return meters * priceOr(m.PipingCostPerMeter(dn))
}

func powerEquipmentCost(power PowerSizing, m pricing.Matrix) float64 {
	var cost float64

	if power.UPS.ModulesNeeded > 0 {
		cost += float64(power.UPS.ModulesNeeded) * priceOr(m.UPSModuleCost())
		cost += float64(power.UPS.FramesNeeded) * priceOr(m.UPSFrameCost(power.UPS.FrameSize))
	}
	if power.Battery.CabinetsNeeded > 0 {
		cost += float64(power.Battery.CabinetsNeeded) * priceOr(m.BatteryCabinetCost())
	}
	if power.Generator.Included && power.Generator.Model != "" {
		units := power.Generator.Units
		if units < 1 {
			units = 1
		}
		cost += float64(units) * priceOr(m.GeneratorCost(power.Generator.Model))
	}
	return cost
}

func eHouseEquipmentCost(power PowerSizing, m pricing.Matrix) float64 {
	if power.EHouseAreaSqm <= 0 {
		return 0
	}
	return power.EHouseAreaSqm * priceOr(m.EHouseCostPerSqm())
}

func sustainabilityEquipmentCost(opts SustainabilityOptions, m pricing.Matrix) float64 {
	var cost float64
	if opts.EnableWasteHeatRecovery {
		cost += priceOr(m.SustainabilityOptionCost("wasteHeatRecovery"))
	}
	if opts.EnableWaterRecycling {
		cost += priceOr(m.SustainabilityOptionCost("waterRecycling"))
	}
	return cost
}

// unpriced is the nil-matrix stand-in: every lookup misses, so the
// rollup still produces a structurally valid breakdown of zeros.
type unpriced struct{}

func (unpriced) Version() string                                 { return "" }
func (unpriced) Currency() string                                { return "USD" }
func (unpriced) BusbarUnitCost(int) (float64, bool)              { return 0, false }
func (unpriced) TapOffBoxCost(string) (float64, bool)            { return 0, false }
func (unpriced) RPDUCost(string) (float64, bool)                 { return 0, false }
func (unpriced) CoolerUnitCost(string) (float64, bool)           { return 0, false }
func (unpriced) PipingCostPerMeter(string) (float64, bool)       { return 0, false }
func (unpriced) UPSModuleCost() (float64, bool)                  { return 0, false }
func (unpriced) UPSFrameCost(string) (float64, bool)             { return 0, false }
func (unpriced) BatteryCabinetCost() (float64, bool)             { return 0, false }
func (unpriced) GeneratorCost(string) (float64, bool)            { return 0, false }
func (unpriced) EHouseCostPerSqm() (float64, bool)               { return 0, false }
func (unpriced) SustainabilityOptionCost(string) (float64, bool) { return 0, false }
