// Package params models the tunable coefficients behind every sizing
// calculation. Callers obtain a complete set via Defaults and overlay
// site-specific values from YAML or per-call options; the engine never
// mutates a Params value it was handed.
package params

// RedundancyMode is the capacity-overprovisioning scheme for power and
// cooling fault tolerance.
type RedundancyMode string

const (
	RedundancyN   RedundancyMode = "N"
	RedundancyN1  RedundancyMode = "N+1"
	Redundancy2N  RedundancyMode = "2N"
	Redundancy2N1 RedundancyMode = "2N+1"
	Redundancy3N  RedundancyMode = "3N"
)

// KnownRedundancyModes lists the modes with defined capacity and
// reliability factors.
var KnownRedundancyModes = []RedundancyMode{
	RedundancyN, RedundancyN1, Redundancy2N, Redundancy2N1, Redundancy3N,
}

// Electrical holds distribution-level coefficients.
type Electrical struct {
	// VoltageFactor is the three-phase line voltage in volts.
	VoltageFactor float64 `yaml:"voltageFactor"`
	// PowerFactor is the assumed load power factor (0..1].
	PowerFactor   float64        `yaml:"powerFactor"`
	BusbarsPerRow int            `yaml:"busbarsPerRow"`
	Redundancy    RedundancyMode `yaml:"redundancyMode"`
}

// Cooling holds hydraulic and thermal coefficients.
type Cooling struct {
	// DeltaT is the design loop temperature rise in kelvin.
	DeltaT float64 `yaml:"deltaT"`
	// FlowRateFactor converts cooling kW to loop flow in l/min per kW.
	FlowRateFactor float64 `yaml:"flowRateFactor"`
	// DLCResidualHeatFraction is the share of DLC rack heat still
	// rejected to air (0..1).
	DLCResidualHeatFraction float64 `yaml:"dlcResidualHeatFraction"`
	ChillerEfficiencyFactor float64 `yaml:"chillerEfficiencyFactor"`
	// HybridCoolingRatio is the liquid share of a hybrid split (0..1).
	HybridCoolingRatio float64 `yaml:"hybridCoolingRatio"`
}

// Power holds UPS, battery and e-house coefficients.
type Power struct {
	// UPSModuleSize is the kW rating of one UPS power module.
	UPSModuleSize      float64 `yaml:"upsModuleSize"`
	UPSFrameMaxModules int     `yaml:"upsFrameMaxModules"`
	// BatteryRuntime is the autonomy target in minutes.
	BatteryRuntime    float64 `yaml:"batteryRuntime"`
	BatteryEfficiency float64 `yaml:"batteryEfficiency"`
	EHouseBaseSqm     float64 `yaml:"eHouseBaseSqm"`
	EHouseBatterySqm  float64 `yaml:"eHouseBatterySqm"`
}

// CostFactors holds the percentage add-ons applied to the equipment
// subtotal. All three are fractions in [0,1].
type CostFactors struct {
	InstallationPercentage float64 `yaml:"installationPercentage"`
	EngineeringPercentage  float64 `yaml:"engineeringPercentage"`
	ContingencyPercentage  float64 `yaml:"contingencyPercentage"`
}

// CoolingThresholds holds the kW-per-rack breakpoints used for cooler
// model selection and technology recommendations.
type CoolingThresholds struct {
	BasicAirMax    float64 `yaml:"basicAirMax"`
	StandardAirMax float64 `yaml:"standardAirMax"`
	DLCRecommended float64 `yaml:"dlcRecommended"`
}

// Generator holds standby generator sizing coefficients. Headroom and
// rounding practice vary by site; one canonical pair is configured here,
// so changing site behavior is a parameter override, not a code change.
type Generator struct {
	HeadroomFactor float64 `yaml:"headroomFactor"`
	// RoundingKVA is the bracket step generator capacity rounds up to.
	RoundingKVA float64 `yaml:"roundingKVA"`
	// FuelRatePerKVA is diesel burn in litres per hour per kVA at load.
	FuelRatePerKVA   float64 `yaml:"fuelRatePerKVA"`
	TankRuntimeHours float64 `yaml:"tankRuntimeHours"`
	// TestHoursPerYear is the assumed annual test-run duration.
	TestHoursPerYear float64 `yaml:"testHoursPerYear"`
}

// Sustainability holds energy, water, carbon and TCO coefficients.
type Sustainability struct {
	// CarbonIntensity is grid carbon in kg CO2e per kWh when the
	// location has no table entry.
	CarbonIntensity float64 `yaml:"carbonIntensity"`
	// DieselCarbonIntensity is generator-test carbon in kg CO2e per kWh.
	DieselCarbonIntensity float64 `yaml:"dieselCarbonIntensity"`
	EnergyPricePerKWh     float64 `yaml:"energyPricePerKWh"`
	// MaintenancePercentage and OperationalPercentage are annual opex
	// fractions of capital cost.
	MaintenancePercentage  float64 `yaml:"maintenancePercentage"`
	OperationalPercentage  float64 `yaml:"operationalPercentage"`
	InflationRate          float64 `yaml:"inflationRate"`
	DiscountRate           float64 `yaml:"discountRate"`
	HorizonYears           int     `yaml:"horizonYears"`
	WaterRecyclingRate     float64 `yaml:"waterRecyclingRate"`
	WasteHeatRecoveryRate  float64 `yaml:"wasteHeatRecoveryRate"`
	RenewableEnergyDefault float64 `yaml:"renewableEnergyDefault"`
}

// ComponentReliability is an MTBF/MTTR pair in hours.
type ComponentReliability struct {
	MTBFHours float64 `yaml:"mtbfHours"`
	MTTRHours float64 `yaml:"mttrHours"`
}

// Reliability holds the availability model inputs.
type Reliability struct {
	UPS       ComponentReliability `yaml:"ups"`
	Generator ComponentReliability `yaml:"generator"`
	Cooling   ComponentReliability `yaml:"cooling"`
	// RedundancyFactors scales system availability per redundancy mode.
	RedundancyFactors map[RedundancyMode]float64 `yaml:"redundancyFactors"`
}

// Params is the full coefficient record consumed by the calculation
// engine. Zero values are never used directly; construct via Defaults and
// overlay from there.
type Params struct {
	Electrical        Electrical        `yaml:"electrical"`
	Cooling           Cooling           `yaml:"cooling"`
	Power             Power             `yaml:"power"`
	CostFactors       CostFactors       `yaml:"costFactors"`
	CoolingThresholds CoolingThresholds `yaml:"coolingThresholds"`
	Generator         Generator         `yaml:"generator"`
	Sustainability    Sustainability    `yaml:"sustainability"`
	Reliability       Reliability       `yaml:"reliability"`
}

// Defaults returns the complete built-in parameter set. Every calculation
// is well-defined against these values alone.
func Defaults() Params {
	return Params{
		Electrical: Electrical{
			VoltageFactor: 400,
			PowerFactor:   0.9,
			BusbarsPerRow: 1,
			Redundancy:    RedundancyN1,
		},
		Cooling: Cooling{
			DeltaT:                  6,
			FlowRateFactor:          2.4,
			DLCResidualHeatFraction: 0.25,
			ChillerEfficiencyFactor: 0.85,
			HybridCoolingRatio:      0.7,
		},
		Power: Power{
			UPSModuleSize:      250,
			UPSFrameMaxModules: 6,
			BatteryRuntime:     10,
			BatteryEfficiency:  0.95,
			EHouseBaseSqm:      60,
			EHouseBatterySqm:   3.5,
		},
		CostFactors: CostFactors{
			InstallationPercentage: 0.15,
			EngineeringPercentage:  0.10,
			ContingencyPercentage:  0.10,
		},
		CoolingThresholds: CoolingThresholds{
			BasicAirMax:    15,
			StandardAirMax: 30,
			DLCRecommended: 50,
		},
		Generator: Generator{
			HeadroomFactor:   1.25,
			RoundingKVA:      500,
			FuelRatePerKVA:   0.2,
			TankRuntimeHours: 8,
			TestHoursPerYear: 24,
		},
		Sustainability: Sustainability{
			CarbonIntensity:        0.35,
			DieselCarbonIntensity:  0.8,
			EnergyPricePerKWh:      0.12,
			MaintenancePercentage:  0.02,
			OperationalPercentage:  0.01,
			InflationRate:          0.02,
			DiscountRate:           0.05,
			HorizonYears:           10,
			WaterRecyclingRate:     0.6,
			WasteHeatRecoveryRate:  0.15,
			RenewableEnergyDefault: 0,
		},
		Reliability: Reliability{
			UPS:       ComponentReliability{MTBFHours: 250000, MTTRHours: 4},
			Generator: ComponentReliability{MTBFHours: 175000, MTTRHours: 6},
			Cooling:   ComponentReliability{MTBFHours: 200000, MTTRHours: 8},
			RedundancyFactors: map[RedundancyMode]float64{
				RedundancyN:   0.98,
				RedundancyN1:  0.995,
				Redundancy2N:  0.9998,
				Redundancy2N1: 0.9999,
				Redundancy3N:  0.99995,
			},
		},
	}
}

// RedundancyCapacityFactor returns the capacity overprovisioning multiple
// for a redundancy mode. Unknown modes fall back to a generic 1.5;
// callers that care should validate the mode first.
func RedundancyCapacityFactor(mode RedundancyMode) float64 {
	switch mode {
	case RedundancyN:
		return 1.0
	case RedundancyN1:
		return 1.2
	case Redundancy2N:
		return 2.0
	case Redundancy2N1:
		return 2.2
	case Redundancy3N:
		return 3.0
	default:
		return 1.5
	}
}

// IsKnownRedundancyMode reports whether mode has defined capacity and
// reliability factors.
func IsKnownRedundancyMode(mode RedundancyMode) bool {
	for _, m := range KnownRedundancyModes {
		if m == mode {
			return true
		}
	}
	return false
}

// WithRedundancy returns a copy of p with the electrical redundancy mode
// replaced.
func (p Params) WithRedundancy(mode RedundancyMode) Params {
	p.Electrical.Redundancy = mode
	return p
}

// WithBatteryRuntime returns a copy of p with the battery autonomy target
// replaced. Non-positive values leave the default untouched.
func (p Params) WithBatteryRuntime(minutes float64) Params {
	if minutes > 0 {
		p.Power.BatteryRuntime = minutes
	}
	return p
}

// WithHybridRatio returns a copy of p with the hybrid liquid share
// replaced. Values outside (0,1) leave the default untouched.
func (p Params) WithHybridRatio(ratio float64) Params {
	if ratio > 0 && ratio < 1 {
		p.Cooling.HybridCoolingRatio = ratio
	}
	return p
}
