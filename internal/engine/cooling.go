package engine

import (
	"fmt"
	"math"

	"github.com/rackforge/dcsizer/internal/params"
)

// CoolingOutput bundles the three cooling-stage records.
type CoolingOutput struct {
	Cooling CoolingSizing
	Thermal ThermalDistribution
	Pipes   PipeSizing
}

// SizeCooling splits the IT load across air and liquid rejection paths
// for the requested technology, sizes units and flow, and derives the
// climate-adjusted PUE. Unknown cooling types are sized as air; the
// caller validates and warns beforehand.
func SizeCooling(kwPerRack float64, totalRacks int, coolingType CoolingType, location string, p params.Params) CoolingOutput {
	loadKW := kwPerRack * float64(totalRacks)

	var out CoolingOutput
	switch coolingType {
	case CoolingDLC:
		out = sizeDLC(loadKW, p)
	case CoolingHybrid:
		out = sizeHybrid(loadKW, p)
	case CoolingImmersion:
		out = sizeImmersion(loadKW, totalRacks, p)
	case CoolingAir:
		out = sizeAir(loadKW, kwPerRack, p)
	default:
		out = sizeAir(loadKW, kwPerRack, p)
		coolingType = CoolingAir
	}

	out.Cooling.Type = coolingType
	out.Cooling.PUE = adjustedPUE(coolingType, location)
	out.Cooling.ChillerPowerKW = chillerPower(out.Cooling.TotalCapacityKW, p)
	out.Thermal = thermalSplit(out.Cooling)
	return out
}

// adjustedPUE applies the site climate factor to the cooling overhead
// portion of the technology's base PUE.
func adjustedPUE(coolingType CoolingType, location string) float64 {
	base, ok := basePUE[coolingType]
	if !ok {
		base = basePUE[CoolingAir]
	}
	return 1 + (base-1)*ClimateFactor(location)
}

// chillerPower estimates chiller plant draw from capacity, COP and the
// configured chiller efficiency factor.
func chillerPower(capacityKW float64, p params.Params) float64 {
	eff := p.Cooling.ChillerEfficiencyFactor
	if eff <= 0 || eff > 1 {
		eff = 0.85
	}
	return capacityKW / (ChillerCOP * eff)
}

// flowRateFactor is the loop flow in l/min per cooling kW. The configured
// factor wins; absent one it derives from the design delta-T via
// Q = m·c·ΔT with water's 4.186 kJ/(kg·K).
func flowRateFactor(p params.Params) float64 {
	if p.Cooling.FlowRateFactor > 0 {
		return p.Cooling.FlowRateFactor
	}
	deltaT := p.Cooling.DeltaT
	if deltaT <= 0 {
		deltaT = 6
	}
	return 60 / (4.186 * deltaT)
}

func sizeAir(loadKW, kwPerRack float64, p params.Params) CoolingOutput {
	capacity := loadKW * AirCoolingMargin
	units := int(math.Ceil(capacity / RDHXUnitCapacityKW))

	model := rdhxModelHighDensity
	switch {
	case kwPerRack <= p.CoolingThresholds.BasicAirMax:
		model = rdhxModelBasic
	case kwPerRack <= p.CoolingThresholds.StandardAirMax:
		model = rdhxModelStandard
	}

	return CoolingOutput{
		Cooling: CoolingSizing{
			TotalCapacityKW:           capacity,
			ResidualCoolingCapacityKW: capacity,
			RDHXUnits:                 units,
			RDHXModel:                 model,
		},
	}
}

func sizeDLC(loadKW float64, p params.Params) CoolingOutput {
	residual := p.Cooling.DLCResidualHeatFraction
	liquidKW := loadKW * (1 - residual)
	airKW := loadKW * residual

	flow := liquidKW * flowRateFactor(p)

	piping := "dn110"
	if liquidKW > DLCPipeSizeThresholdKW {
		piping = "dn160"
	}

	return CoolingOutput{
		Cooling: CoolingSizing{
			TotalCapacityKW:           loadKW,
			DLCCoolingCapacityKW:      liquidKW,
			ResidualCoolingCapacityKW: airKW,
			RDHXUnits:                 int(math.Ceil(airKW / RDHXUnitCapacityKW)),
			RDHXModel:                 rdhxModelBasic,
			FlowRateLPM:               flow,
			PipingSize:                piping,
		},
		Pipes: sizePipes(flow),
	}
}

func sizeHybrid(loadKW float64, p params.Params) CoolingOutput {
	ratio := p.Cooling.HybridCoolingRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.7
	}
	liquidKW := loadKW * ratio
	airKW := loadKW * (1 - ratio)

	flow := liquidKW * flowRateFactor(p)

	piping := "dn110"
	if liquidKW > DLCPipeSizeThresholdKW {
		piping = "dn160"
	}

	return CoolingOutput{
		Cooling: CoolingSizing{
			TotalCapacityKW:           loadKW,
			DLCCoolingCapacityKW:      liquidKW,
			ResidualCoolingCapacityKW: airKW * AirCoolingMargin,
			RDHXUnits:                 int(math.Ceil(airKW * AirCoolingMargin / RDHXUnitCapacityKW)),
			RDHXModel:                 rdhxModelStandard,
			FlowRateLPM:               flow,
			PipingSize:                piping,
		},
		Pipes: sizePipes(flow),
	}
}

func sizeImmersion(loadKW float64, totalRacks int, p params.Params) CoolingOutput {
	capacity := loadKW * ImmersionCoolingMargin
	tanks := int(math.Ceil(float64(totalRacks) / RacksPerImmersionTank))
	flow := capacity * flowRateFactor(p) * ImmersionFluidHeatFraction

	return CoolingOutput{
		Cooling: CoolingSizing{
			TotalCapacityKW:      capacity,
			DLCCoolingCapacityKW: capacity * ImmersionFluidHeatFraction,
			ResidualCoolingCapacityKW: capacity *
				(1 - ImmersionFluidHeatFraction),
			ImmersionTanks: tanks,
			FlowRateLPM:    flow,
		},
		Pipes: sizePipes(flow),
	}
}

// thermalSplit derives the air/liquid heat distribution from the sized
// capacities.
func thermalSplit(c CoolingSizing) ThermalDistribution {
	total := c.DLCCoolingCapacityKW + c.ResidualCoolingCapacityKW
	if total <= 0 {
		total = c.TotalCapacityKW
	}
	if total <= 0 {
		return ThermalDistribution{}
	}
	return ThermalDistribution{
		AirKW:          c.ResidualCoolingCapacityKW,
		LiquidKW:       c.DLCCoolingCapacityKW,
		AirFraction:    c.ResidualCoolingCapacityKW / total,
		LiquidFraction: c.DLCCoolingCapacityKW / total,
	}
}

// sizePipes selects the smallest standard nominal diameter whose
// cross-section keeps loop velocity under the target ceiling, and warns
// when even the largest pipe exceeds the hard ceiling.
func sizePipes(flowLPM float64) PipeSizing {
	ps := PipeSizing{
		FlowRateLPM:      flowLPM,
		TargetVelocityMS: TargetPipeVelocityMS,
	}
	if flowLPM <= 0 {
		return ps
	}

	flowM3s := flowLPM / 60000.0
	for _, spec := range standardPipeSizes {
		v := pipeVelocity(flowM3s, spec.InnerDM)
		if v <= TargetPipeVelocityMS {
			ps.NominalDiameter = spec.DN
			ps.VelocityMS = v
			return ps
		}
	}

	largest := standardPipeSizes[len(standardPipeSizes)-1]
	ps.NominalDiameter = largest.DN
	ps.VelocityMS = pipeVelocity(flowM3s, largest.InnerDM)
	if ps.VelocityMS > MaxPipeVelocityMS {
		ps.Warning = fmt.Sprintf("loop velocity %.1f m/s exceeds %.0f m/s in %s; split the loop or increase pipe size",
			ps.VelocityMS, MaxPipeVelocityMS, largest.DN)
	}
	return ps
}

func pipeVelocity(flowM3s, innerDiameterM float64) float64 {
	area := math.Pi * innerDiameterM * innerDiameterM / 4
	return flowM3s / area
}
