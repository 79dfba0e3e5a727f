// Command dcsizer sizes data-center configurations from the terminal.
// It reads a YAML scenario file (or flags), runs the same engine the
// service exposes, and prints the result as JSON.
//
// Usage:
//
//	dcsizer -scenario scenario.yaml
//	dcsizer -kw-per-rack 50 -cooling dlc -racks 28
//	dcsizer -mode optimize -max-budget 5000000 -objective cost
//	dcsizer -mode compare-cooling -kw-per-rack 100
//	dcsizer -mode compare-redundancy -cooling dlc
package main

import (
	"flag"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/rackforge/dcsizer/internal/engine"
	"github.com/rackforge/dcsizer/internal/optimize"
	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rackforge/dcsizer/internal/pricing"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

func main() {
	var (
		mode         = flag.String("mode", "calculate", "calculate, optimize, compare-cooling or compare-redundancy")
		scenarioPath = flag.String("scenario", "", "YAML scenario file; flags override its values when set")
		paramsPath   = flag.String("params", "", "YAML parameter overrides file")
		pricingPath  = flag.String("pricing", "", "JSON pricing catalog file (default: embedded catalog)")
		kwPerRack    = flag.Float64("kw-per-rack", 0, "power density in kW per rack")
		cooling      = flag.String("cooling", "", "cooling technology: air, dlc, hybrid or immersion")
		racks        = flag.Int("racks", 0, "total rack count")
		location     = flag.String("location", "", "site location for climate and grid-carbon lookups")
		redundancy   = flag.String("redundancy", "", "redundancy mode: N, N+1, 2N, 2N+1 or 3N")
		generator    = flag.Bool("generator", false, "include backup generator sizing")
		objective    = flag.String("objective", "cost", "optimization objective: cost, efficiency, reliability or sustainability")
		maxBudget    = flag.Float64("max-budget", 0, "optimization budget cap, 0 for none")
		verbose      = flag.Bool("v", false, "verbose logging to stderr")
	)
	flag.Parse()

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	cfg, err := buildScenario(*scenarioPath, *kwPerRack, *cooling, *racks, *location, *redundancy, *generator)
	if err != nil {
		fatal(err)
	}

	provider, err := buildProvider(*pricingPath, *paramsPath, logger)
	if err != nil {
		fatal(err)
	}
	calc := engine.NewCalculator(provider, logger)
	opt := optimize.New(calc, logger, nil)

	var out any
	switch *mode {
	case "calculate":
		out = calc.Calculate(cfg)
	case "optimize":
		out = opt.FindOptimalConfiguration(optimize.Constraints{
			MinKWPerRack: *kwPerRack,
			MaxKWPerRack: *kwPerRack,
			MaxBudget:    *maxBudget,
			Options:      cfg.Options,
		}, optimize.Objective(*objective))
	case "compare-cooling":
		out = opt.CompareCoolingTechnologies(orDefault(cfg.KWPerRack, engine.DefaultKWPerRack), orDefaultInt(cfg.TotalRacks, engine.DefaultTotalRacks))
	case "compare-redundancy":
		ct := cfg.CoolingType
		if !engine.IsValidCoolingType(ct) {
			ct = engine.CoolingAir
		}
		out = opt.CompareRedundancyOptions(orDefault(cfg.KWPerRack, engine.DefaultKWPerRack), ct, orDefaultInt(cfg.TotalRacks, engine.DefaultTotalRacks))
	default:
		fatal(fmt.Errorf("unknown mode %q", *mode))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fatal(err)
	}
}

// buildScenario merges the optional YAML scenario file with flag
// overrides. Flags win when both are present.
func buildScenario(path string, kwPerRack float64, cooling string, racks int, location, redundancy string, generator bool) (engine.Config, error) {
	var cfg engine.Config
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading scenario: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing scenario: %w", err)
		}
	}
	if kwPerRack > 0 {
		cfg.KWPerRack = kwPerRack
	}
	if cooling != "" {
		cfg.CoolingType = engine.CoolingType(cooling)
	}
	if racks > 0 {
		cfg.TotalRacks = racks
	}
	if location != "" {
		cfg.Options.Location = location
	}
	if redundancy != "" {
		cfg.Options.Redundancy = params.RedundancyMode(redundancy)
	}
	if generator {
		cfg.Options.IncludeGenerator = true
	}
	return cfg, nil
}

func buildProvider(pricingPath, paramsPath string, logger zerolog.Logger) (*pricing.Provider, error) {
	pset := params.Defaults()
	if paramsPath != "" {
		loaded, err := params.Load(paramsPath)
		if err != nil {
			return nil, fmt.Errorf("loading parameters: %w", err)
		}
		pset = loaded
	}

	load := func() (pricing.Matrix, params.Params, error) {
		if pricingPath != "" {
			matrix, err := pricing.NewClientFromFile(pricingPath, logger)
			return matrix, pset, err
		}
		matrix, err := pricing.NewClient(logger)
		return matrix, pset, err
	}
	return pricing.NewProvider(load, pricing.DefaultTTL, logger), nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "dcsizer:", err)
	os.Exit(1)
}
