package engine

import (
	"math"

	"github.com/rackforge/dcsizer/internal/params"
)

// SizePower sizes the UPS plant, battery autonomy and optional standby
// generator for the IT load under the configured redundancy mode, and
// derives the e-house footprint. Each sub-sizing is independently
// computable from the UPS required capacity.
func SizePower(totalITLoadKW float64, includeGenerator bool, p params.Params) PowerSizing {
	ups := sizeUPS(totalITLoadKW, p)
	battery := sizeBattery(totalITLoadKW, p)

	var generator GeneratorSizing
	if includeGenerator {
		capacity := ups.RequiredCapacityKW
		if capacity <= 0 {
			// Upstream UPS sizing produced nothing; fall back to raw
			// load with headroom so the generator is never sized from
			// an undefined capacity.
			capacity = totalITLoadKW * GeneratorFallbackHeadroom
		}
		generator = sizeGenerator(capacity, p)
	}

	return PowerSizing{
		UPS:           ups,
		Battery:       battery,
		Generator:     generator,
		EHouseAreaSqm: p.Power.EHouseBaseSqm + float64(battery.CabinetsNeeded)*p.Power.EHouseBatterySqm,
	}
}

func sizeUPS(totalITLoadKW float64, p params.Params) UPSSizing {
	mode := p.Electrical.Redundancy
	factor := params.RedundancyCapacityFactor(mode)
	required := totalITLoadKW * factor

	moduleSize := p.Power.UPSModuleSize
	if moduleSize <= 0 {
		moduleSize = 250
	}
	maxPerFrame := p.Power.UPSFrameMaxModules
	if maxPerFrame <= 0 {
		maxPerFrame = 6
	}

	modules := int(math.Ceil(required / moduleSize))
	if modules < 1 {
		modules = 1
	}
	frames := int(math.Ceil(float64(modules) / float64(maxPerFrame)))

	frameSize := "frame6"
	switch {
	case modules <= 2:
		frameSize = "frame2"
	case modules <= 4:
		frameSize = "frame4"
	}

	return UPSSizing{
		RedundancyMode:     mode,
		RedundancyFactor:   factor,
		RequiredCapacityKW: required,
		ModuleSizeKW:       moduleSize,
		ModulesNeeded:      modules,
		FramesNeeded:       frames,
		FrameSize:          frameSize,
	}
}

func sizeBattery(totalITLoadKW float64, p params.Params) BatterySizing {
	runtime := p.Power.BatteryRuntime
	if runtime <= 0 {
		runtime = 10
	}
	efficiency := p.Power.BatteryEfficiency
	if efficiency <= 0 || efficiency > 1 {
		efficiency = 0.95
	}

	energy := totalITLoadKW * runtime / (60 * efficiency)
	cabinets := int(math.Ceil(energy / BatteryCabinetKWh))
	if cabinets < 1 && totalITLoadKW > 0 {
		cabinets = 1
	}

	return BatterySizing{
		RuntimeMinutes:  runtime,
		EnergyNeededKWh: energy,
		CabinetsNeeded:  cabinets,
		TotalWeightKg:   float64(cabinets) * BatteryCabinetWeightKg,
	}
}

// sizeGenerator rounds the required capacity (with headroom) up to the
// configured kVA bracket and buckets the genset model.
func sizeGenerator(requiredCapacityKW float64, p params.Params) GeneratorSizing {
	headroom := p.Generator.HeadroomFactor
	if headroom <= 0 {
		headroom = 1.25
	}
	rounding := p.Generator.RoundingKVA
	if rounding <= 0 {
		rounding = 500
	}

	capacity := math.Ceil(requiredCapacityKW*headroom/rounding) * rounding

	model := generatorModel3000
	units := 1
	switch {
	case capacity <= 1000:
		model = generatorModel1000
	case capacity <= 2000:
		model = generatorModel2000
	default:
		units = int(math.Ceil(capacity / generatorModel3000KVA))
	}

	fuelRate := p.Generator.FuelRatePerKVA
	if fuelRate <= 0 {
		fuelRate = 0.2
	}
	tankHours := p.Generator.TankRuntimeHours
	if tankHours <= 0 {
		tankHours = 8
	}

	fuelLPH := capacity * fuelRate
	return GeneratorSizing{
		Included:           true,
		CapacityKVA:        capacity,
		Units:              units,
		Model:              model,
		FuelConsumptionLPH: fuelLPH,
		TankSizeLiters:     fuelLPH * tankHours,
	}
}
