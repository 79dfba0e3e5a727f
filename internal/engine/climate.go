package engine

import "strings"

// climateFactors scales the cooling overhead portion of PUE by site
// climate. Values below 1 reflect free-cooling friendly climates, above 1
// hot or humid ones. Adjusted PUE = 1 + (basePUE − 1) × factor, which
// preserves the per-technology PUE ordering.
var climateFactors = map[string]float64{
	"stockholm": 0.85,
	"oslo":      0.85,
	"helsinki":  0.86,
	"dublin":    0.90,
	"london":    0.95,
	"amsterdam": 0.95,
	"frankfurt": 1.00,
	"paris":     1.00,
	"madrid":    1.10,
	"phoenix":   1.15,
	"singapore": 1.20,
	"mumbai":    1.22,
	"dubai":     1.25,
}

// DefaultClimateFactor applies when the location has no table entry.
const DefaultClimateFactor = 1.0

// gridCarbonIntensity maps site locations to grid carbon in kg CO2e per
// kWh. Unlisted locations use the configured default intensity.
var gridCarbonIntensity = map[string]float64{
	"stockholm": 0.04,
	"oslo":      0.03,
	"helsinki":  0.08,
	"dublin":    0.30,
	"london":    0.23,
	"amsterdam": 0.33,
	"frankfurt": 0.35,
	"paris":     0.06,
	"madrid":    0.17,
	"phoenix":   0.42,
	"singapore": 0.40,
	"mumbai":    0.71,
	"dubai":     0.45,
}

// ClimateFactor returns the cooling climate factor for a location,
// falling back to DefaultClimateFactor when unlisted. Lookup is
// case-insensitive.
func ClimateFactor(location string) float64 {
	if f, ok := climateFactors[strings.ToLower(strings.TrimSpace(location))]; ok {
		return f
	}
	return DefaultClimateFactor
}

// GridCarbonIntensity returns grid carbon in kg CO2e per kWh for a
// location, or defaultIntensity when unlisted.
func GridCarbonIntensity(location string, defaultIntensity float64) float64 {
	if f, ok := gridCarbonIntensity[strings.ToLower(strings.TrimSpace(location))]; ok {
		return f
	}
	return defaultIntensity
}
