package engine

import (
	"time"

	"github.com/rackforge/dcsizer/internal/params"
)

// CoolingType selects the heat-rejection technology for a configuration.
type CoolingType string

const (
	CoolingAir       CoolingType = "air"
	CoolingDLC       CoolingType = "dlc"
	CoolingHybrid    CoolingType = "hybrid"
	CoolingImmersion CoolingType = "immersion"
)

// CoolingTypes lists every supported technology in comparison order.
var CoolingTypes = []CoolingType{CoolingAir, CoolingDLC, CoolingHybrid, CoolingImmersion}

// IsValidCoolingType reports whether t names a supported technology.
func IsValidCoolingType(t CoolingType) bool {
	for _, ct := range CoolingTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// SustainabilityOptions toggles the optional green add-ons for one
// calculation. RenewableEnergyPercentage is expressed 0..100.
type SustainabilityOptions struct {
	EnableWasteHeatRecovery   bool    `json:"enableWasteHeatRecovery" yaml:"enableWasteHeatRecovery"`
	EnableWaterRecycling      bool    `json:"enableWaterRecycling" yaml:"enableWaterRecycling"`
	RenewableEnergyPercentage float64 `json:"renewableEnergyPercentage" yaml:"renewableEnergyPercentage"`
}

// Options carries the per-call knobs layered over the parameter defaults.
type Options struct {
	Redundancy            params.RedundancyMode `json:"redundancyMode" yaml:"redundancyMode"`
	IncludeGenerator      bool                  `json:"includeGenerator" yaml:"includeGenerator"`
	BatteryRuntimeMinutes float64               `json:"batteryRuntime" yaml:"batteryRuntime"`
	Sustainability        SustainabilityOptions `json:"sustainabilityOptions" yaml:"sustainabilityOptions"`
	Location              string                `json:"location" yaml:"location"`
}

// Config is the user-facing sizing request: power density, cooling
// technology, rack count, plus options. It is immutable for the duration
// of one calculation run.
type Config struct {
	KWPerRack   float64     `json:"kwPerRack" yaml:"kwPerRack"`
	CoolingType CoolingType `json:"coolingType" yaml:"coolingType"`
	TotalRacks  int         `json:"totalRacks" yaml:"totalRacks"`
	Options     Options     `json:"options" yaml:"options"`
}

// RackSummary restates the normalized load the pipeline sized against.
type RackSummary struct {
	KWPerRack     float64 `json:"kwPerRack"`
	TotalRacks    int     `json:"totalRacks"`
	RacksPerRow   int     `json:"racksPerRow"`
	Rows          int     `json:"rows"`
	TotalITLoadKW float64 `json:"totalITLoad"`
}

// ElectricalSizing is the electrical stage output: current draw and the
// selected distribution components.
type ElectricalSizing struct {
	CurrentPerRowAmps  int    `json:"currentPerRow"`
	CurrentPerRackAmps int    `json:"currentPerRack"`
	BusbarRating       int    `json:"busbarSize"`
	BusbarsPerRow      int    `json:"busbarsPerRow"`
	TapOffBox          string `json:"tapOffBox"`
	RPDU               string `json:"rpdu"`
	// MultipleBusbarsRequired is set when row current exceeds the
	// largest single busbar rating.
	MultipleBusbarsRequired bool `json:"multipleBusbarsRequired"`
}

// CoolingSizing is the cooling stage output.
type CoolingSizing struct {
	Type            CoolingType `json:"type"`
	TotalCapacityKW float64     `json:"totalCapacity"`
	// DLCCoolingCapacityKW / ResidualCoolingCapacityKW split liquid and
	// air duty for dlc and hybrid configurations.
	DLCCoolingCapacityKW      float64 `json:"dlcCoolingCapacity"`
	ResidualCoolingCapacityKW float64 `json:"residualCoolingCapacity"`
	RDHXUnits                 int     `json:"rdhxUnits"`
	RDHXModel                 string  `json:"rdhxModel,omitempty"`
	ImmersionTanks            int     `json:"immersionTanks,omitempty"`
	FlowRateLPM               float64 `json:"flowRate"`
	PipingSize                string  `json:"pipingSize,omitempty"`
	ChillerPowerKW            float64 `json:"chillerPower"`
	PUE                       float64 `json:"pue"`
}

// ThermalDistribution reports how the IT heat splits between air and
// liquid rejection paths.
type ThermalDistribution struct {
	AirKW          float64 `json:"airCoolingKw"`
	LiquidKW       float64 `json:"liquidCoolingKw"`
	AirFraction    float64 `json:"airFraction"`
	LiquidFraction float64 `json:"liquidFraction"`
}

// PipeSizing is the velocity-based nominal diameter selection for liquid
// loops.
type PipeSizing struct {
	FlowRateLPM      float64 `json:"flowRate"`
	TargetVelocityMS float64 `json:"targetVelocity"`
	NominalDiameter  string  `json:"nominalDiameter,omitempty"`
	VelocityMS       float64 `json:"velocity"`
	Warning          string  `json:"warning,omitempty"`
}

// UPSSizing is the UPS portion of the power stage.
type UPSSizing struct {
	RedundancyMode     params.RedundancyMode `json:"redundancyMode"`
	RedundancyFactor   float64               `json:"redundancyFactor"`
	RequiredCapacityKW float64               `json:"requiredCapacity"`
	ModuleSizeKW       float64               `json:"moduleSize"`
	ModulesNeeded      int                   `json:"modulesNeeded"`
	FramesNeeded       int                   `json:"framesNeeded"`
	FrameSize          string                `json:"frameSize"`
}

// BatterySizing is the battery portion of the power stage.
type BatterySizing struct {
	RuntimeMinutes  float64 `json:"runtimeMinutes"`
	EnergyNeededKWh float64 `json:"energyNeeded"`
	CabinetsNeeded  int     `json:"cabinetsNeeded"`
	TotalWeightKg   float64 `json:"totalWeight"`
}

// GeneratorSizing is the optional standby generator portion of the power
// stage. Zero-valued with Included=false when no generator is requested.
type GeneratorSizing struct {
	Included           bool    `json:"included"`
	CapacityKVA        float64 `json:"capacity"`
	Units              int     `json:"units"`
	Model              string  `json:"model,omitempty"`
	FuelConsumptionLPH float64 `json:"fuelConsumption"`
	TankSizeLiters     float64 `json:"fuelTankCapacity"`
}

// PowerSizing aggregates the power stage output.
type PowerSizing struct {
	UPS           UPSSizing       `json:"ups"`
	Battery       BatterySizing   `json:"battery"`
	Generator     GeneratorSizing `json:"generator"`
	EHouseAreaSqm float64         `json:"eHouseArea"`
}

// ReliabilitySummary is the availability model output.
type ReliabilitySummary struct {
	RedundancyMode        params.RedundancyMode `json:"redundancyMode"`
	UPSAvailability       float64               `json:"upsAvailability"`
	GeneratorAvailability float64               `json:"generatorAvailability,omitempty"`
	CoolingAvailability   float64               `json:"coolingAvailability"`
	PowerAvailability     float64               `json:"powerAvailability"`
	SystemAvailability    float64               `json:"systemAvailability"`
	Tier                  string                `json:"tier"`
	AnnualDowntimeMin     float64               `json:"annualDowntimeMinutes"`
}

// SustainabilitySummary is the energy and water model output.
type SustainabilitySummary struct {
	PUE                  float64 `json:"pue"`
	AnnualITEnergyKWh    float64 `json:"annualITEnergy"`
	AnnualTotalEnergyKWh float64 `json:"annualTotalEnergy"`
	RecoveredHeatKWh     float64 `json:"recoveredHeat"`
	AnnualWaterUsageM3   float64 `json:"annualWaterUsage"`
	WaterRecycling       bool    `json:"waterRecycling"`
	WasteHeatRecovery    bool    `json:"wasteHeatRecovery"`
	RenewablePercentage  float64 `json:"renewablePercentage"`
}

// CarbonFootprint is the emissions model output, in kg CO2e per year.
type CarbonFootprint struct {
	GridIntensityKgPerKWh float64 `json:"gridCarbonIntensity"`
	GridEmissionsKg       float64 `json:"gridEmissions"`
	GeneratorEmissionsKg  float64 `json:"generatorEmissions"`
	TotalEmissionsKg      float64 `json:"totalEmissions"`
	RenewableOffsetKg     float64 `json:"renewableOffset"`
}

// CostBreakdown is the cost rollup output. The identity
// TotalProjectCost = EquipmentTotal + Installation + Engineering +
// Contingency holds exactly.
type CostBreakdown struct {
	Currency           string  `json:"currency"`
	ElectricalCost     float64 `json:"electricalCost"`
	CoolingCost        float64 `json:"coolingCost"`
	PipingCost         float64 `json:"pipingCost"`
	PowerCost          float64 `json:"powerCost"`
	EHouseCost         float64 `json:"eHouseCost"`
	SustainabilityCost float64 `json:"sustainabilityCost"`
	EquipmentTotal     float64 `json:"equipmentTotal"`
	Installation       float64 `json:"installation"`
	Engineering        float64 `json:"engineering"`
	Contingency        float64 `json:"contingency"`
	TotalProjectCost   float64 `json:"totalProjectCost"`
	CostPerRack        float64 `json:"costPerRack"`
	CostPerKW          float64 `json:"costPerKw"`
}

// TCOSummary is the total-cost-of-ownership model output.
type TCOSummary struct {
	CapitalCost           float64 `json:"capitalCost"`
	AnnualEnergyCost      float64 `json:"annualEnergyCost"`
	AnnualMaintenanceCost float64 `json:"annualMaintenanceCost"`
	AnnualOperationalCost float64 `json:"annualOperationalCost"`
	HorizonYears          int     `json:"horizonYears"`
	NPV                   float64 `json:"npv"`
	Flat5Year             float64 `json:"flat5Year"`
	Flat10Year            float64 `json:"flat10Year"`
}

// Source labels which path produced a result.
const (
	SourceEngine   = "engine"
	SourceFallback = "fallback"
)

// Result is the full output record for one sizing run. It is produced
// fresh per distinct input and never mutated after return.
type Result struct {
	ID            string    `json:"id"`
	GeneratedAt   time.Time `json:"generatedAt"`
	EngineVersion string    `json:"engineVersion"`
	Source        string    `json:"source"`

	Rack           RackSummary           `json:"rack"`
	Electrical     ElectricalSizing      `json:"electrical"`
	Cooling        CoolingSizing         `json:"cooling"`
	Thermal        ThermalDistribution   `json:"thermalDistribution"`
	Pipes          PipeSizing            `json:"pipeSizing"`
	Power          PowerSizing           `json:"power"`
	Reliability    ReliabilitySummary    `json:"reliability"`
	Sustainability SustainabilitySummary `json:"sustainability"`
	Carbon         CarbonFootprint       `json:"carbonFootprint"`
	Cost           CostBreakdown         `json:"cost"`
	TCO            TCOSummary            `json:"tco"`

	Warnings []string `json:"warnings,omitempty"`
}
