// Package engine implements the data-center sizing pipeline: electrical,
// cooling and power sizing computed from the request, reliability and
// sustainability models layered on top, and a cost rollup that converges
// every stage's component selections against the pricing matrix. All
// stages are pure functions of (inputs, params, pricing) and degrade
// gracefully instead of failing.
package engine

const (
	// EngineVersion tags every result record.
	EngineVersion = "1.2.0"

	// RacksPerRow is the standard row layout assumption.
	RacksPerRow = 14

	// HoursPerYear is used for annual energy figures.
	HoursPerYear = 8760.0

	// Sqrt3 is √3 for three-phase current math.
	Sqrt3 = 1.7320508075688772

	// AirCoolingMargin oversizes air cooling capacity by 10%.
	AirCoolingMargin = 1.10

	// ImmersionCoolingMargin oversizes immersion capacity by 5%.
	ImmersionCoolingMargin = 1.05

	// ImmersionFluidHeatFraction is the share of immersion heat removed
	// by the dielectric fluid loop; the rest leaves through the room.
	ImmersionFluidHeatFraction = 0.8

	// RacksPerImmersionTank is the tank packing assumption.
	RacksPerImmersionTank = 4

	// RDHXUnitCapacityKW is the capacity of one rear-door heat
	// exchanger.
	RDHXUnitCapacityKW = 150.0

	// DLCPipeSizeThresholdKW switches the DLC main loop from dn110 to
	// dn160 piping.
	DLCPipeSizeThresholdKW = 1000.0

	// TargetPipeVelocityMS is the design ceiling for loop velocity.
	TargetPipeVelocityMS = 2.5

	// MaxPipeVelocityMS is the hard ceiling; exceeding it raises a
	// warning on the result.
	MaxPipeVelocityMS = 3.0

	// ChillerCOP is the assumed chiller coefficient of performance used
	// for the plant power estimate.
	ChillerCOP = 4.0

	// BatteryCabinetKWh is the usable energy of one battery cabinet.
	BatteryCabinetKWh = 40.0

	// BatteryCabinetWeightKg is the shipping weight of one cabinet.
	BatteryCabinetWeightKg = 1200.0

	// GeneratorFallbackHeadroom sizes the generator when upstream UPS
	// sizing produced no capacity figure.
	GeneratorFallbackHeadroom = 1.2

	// PipingBaseMeters and PipingMetersPerRack estimate the installed
	// loop length for liquid-cooled configurations.
	PipingBaseMeters    = 40.0
	PipingMetersPerRack = 1.5

	// DefaultKWPerRack and DefaultTotalRacks are the documented
	// coercion targets for invalid numeric inputs.
	DefaultKWPerRack  = 10.0
	DefaultTotalRacks = 28
)

// busbarRatings is the ordered catalog of single-busbar amperages.
// Selection is smallest-fit; currents beyond the last entry select it and
// flag multiplicity.
var busbarRatings = []int{250, 400, 600, 800, 1000, 1250, 1600, 2000}

// tapOffBracket maps the smallest-fit tap-off box amperage to its
// catalog selector.
var tapOffBrackets = []struct {
	MaxAmps  int
	Selector string
}{
	{63, "63A"},
	{100, "100A"},
	{150, "150A"},
	{200, "200A"},
	{250, "250A"},
}

// rpduBrackets maps the smallest-fit rack PDU amperage to its catalog
// selector.
var rpduBrackets = []struct {
	MaxAmps  int
	Selector string
}{
	{80, "80A"},
	{112, "112A"},
}

// basePUE is the facility PUE per cooling technology before climate
// adjustment. The ordering immersion < dlc < hybrid < air is a product
// invariant.
var basePUE = map[CoolingType]float64{
	CoolingAir:       1.40,
	CoolingHybrid:    1.25,
	CoolingDLC:       1.15,
	CoolingImmersion: 1.08,
}

// waterUsageLPerKWh is the water usage effectiveness per cooling
// technology in litres per kWh of IT energy.
var waterUsageLPerKWh = map[CoolingType]float64{
	CoolingAir:       1.8,
	CoolingHybrid:    1.2,
	CoolingDLC:       0.7,
	CoolingImmersion: 0.3,
}

// pipeSpec couples a nominal diameter selector with its inner diameter.
// Inner diameters approximate PE100 SDR17 pipe in meters.
type pipeSpec struct {
	DN      string
	InnerDM float64
}

// standardPipeSizes is ordered smallest to largest for smallest-fit
// selection against the velocity ceiling.
var standardPipeSizes = []pipeSpec{
	{"dn50", 0.0441},
	{"dn63", 0.0556},
	{"dn75", 0.0662},
	{"dn90", 0.0794},
	{"dn110", 0.0970},
	{"dn125", 0.1102},
	{"dn160", 0.1412},
	{"dn200", 0.1764},
}

// RDHX model selectors by rack power density.
const (
	rdhxModelBasic       = "rdhxBasic"
	rdhxModelStandard    = "rdhxStandard"
	rdhxModelHighDensity = "rdhxHighDensity"
)

// Generator model selectors by bucketed capacity.
const (
	generatorModel1000 = "1000kVA"
	generatorModel2000 = "2000kVA"
	generatorModel3000 = "3000kVA"

	generatorModel3000KVA = 3000.0
)

// Tier labels per the availability classification thresholds.
const (
	TierI   = "Tier I"
	TierII  = "Tier II"
	TierIII = "Tier III"
	TierIV  = "Tier IV"
)
