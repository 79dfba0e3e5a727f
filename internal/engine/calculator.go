package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rackforge/dcsizer/internal/pricing"
	"github.com/rs/zerolog"
)

// Calculator runs the full sizing pipeline. It owns a bounded result
// cache and shares the pricing/params provider; concurrent Calculate
// calls with different inputs are independent.
type Calculator struct {
	provider *pricing.Provider
	logger   zerolog.Logger
	cache    *resultCache
	metrics  *Metrics
	now      func() time.Time
}

// CalculatorOption customizes Calculator construction.
type CalculatorOption func(*Calculator)

// WithCache overrides the result cache TTL and capacity.
func WithCache(ttl time.Duration, capacity int) CalculatorOption {
	return func(c *Calculator) {
		c.cache = newResultCache(ttl, capacity)
	}
}

// WithMetrics attaches Prometheus instrumentation to the calculator.
func WithMetrics(m *Metrics) CalculatorOption {
	return func(c *Calculator) {
		c.metrics = m
	}
}

// NewCalculator creates a Calculator over the given provider.
func NewCalculator(provider *pricing.Provider, logger zerolog.Logger, opts ...CalculatorOption) *Calculator {
	c := &Calculator{
		provider: provider,
		logger:   logger,
		cache:    newResultCache(5*time.Minute, 128),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate runs the pipeline for one configuration. It never returns an
// error: invalid inputs are coerced to documented defaults, failed stages
// contribute default partial output, and a total pipeline failure routes
// through the fallback calculator. The caller always receives a
// structurally valid Result; degradation is reported via Warnings.
func (c *Calculator) Calculate(cfg Config) Result {
	start := c.now()

	cfg, warnings := normalizeConfig(cfg)

	key := cacheKey(cfg)
	if cached, ok := c.cache.get(key); ok {
		return cached
	}

	matrix, pset := c.provider.Get()
	effective := applyOptions(pset, cfg.Options)

	result := c.runGuarded(cfg, effective, matrix, warnings)
	result.ID = uuid.New().String()
	result.GeneratedAt = c.now().UTC()
	result.EngineVersion = EngineVersion

	c.cache.put(key, result)

	if c.metrics != nil {
		c.metrics.ObserveCalculation(string(cfg.CoolingType), result.Source)
	}
	c.logger.Info().
		Str("operation", "calculate").
		Str("result_id", result.ID).
		Str("cooling_type", string(cfg.CoolingType)).
		Float64("kw_per_rack", cfg.KWPerRack).
		Int("total_racks", cfg.TotalRacks).
		Str("source", result.Source).
		Float64("total_cost", result.Cost.TotalProjectCost).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("configuration sized")

	return result
}

// runGuarded executes the primary pipeline and swaps in the fallback
// calculator if the primary fails despite the per-stage guards.
func (c *Calculator) runGuarded(cfg Config, p params.Params, matrix pricing.Matrix, warnings []string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error().
				Interface("panic", r).
				Msg("primary calculator failed, engaging fallback")
			if c.metrics != nil {
				c.metrics.ObserveFallback()
			}
			result = Fallback(cfg, p)
			result.Warnings = append(warnings, result.Warnings...)
		}
	}()
	return c.runPipeline(cfg, p, matrix, warnings)
}

// runPipeline is the primary path: every sizing stage with per-stage
// soft-failure. A stage that panics yields its zero-valued output plus a
// warning instead of aborting the run.
func (c *Calculator) runPipeline(cfg Config, p params.Params, matrix pricing.Matrix, warnings []string) Result {
	rack := summarizeRack(cfg)

	electrical, w := runStage("electrical", func() ElectricalSizing {
		return SizeElectrical(cfg.KWPerRack, p)
	})
	warnings = appendWarning(warnings, w)
	if electrical.MultipleBusbarsRequired {
		warnings = append(warnings, fmt.Sprintf(
			"row current %dA exceeds the largest busbar rating; %d busbars per row required",
			electrical.CurrentPerRowAmps, electrical.BusbarsPerRow))
	}

	cooling, w := runStage("cooling", func() CoolingOutput {
		return SizeCooling(cfg.KWPerRack, cfg.TotalRacks, cfg.CoolingType, cfg.Options.Location, p)
	})
	warnings = appendWarning(warnings, w)
	if cooling.Pipes.Warning != "" {
		warnings = append(warnings, cooling.Pipes.Warning)
	}
	if cfg.CoolingType == CoolingAir && p.CoolingThresholds.DLCRecommended > 0 &&
		cfg.KWPerRack > p.CoolingThresholds.DLCRecommended {
		warnings = append(warnings, fmt.Sprintf(
			"air cooling at %g kW/rack exceeds the %g kW/rack threshold; direct liquid cooling recommended",
			cfg.KWPerRack, p.CoolingThresholds.DLCRecommended))
	}

	power, w := runStage("power", func() PowerSizing {
		return SizePower(rack.TotalITLoadKW, cfg.Options.IncludeGenerator, p)
	})
	warnings = appendWarning(warnings, w)

	reliability, w := runStage("reliability", func() ReliabilitySummary {
		return AssessReliability(cfg.Options.IncludeGenerator, p)
	})
	warnings = appendWarning(warnings, w)

	sustainability, carbon := AssessSustainability(rack.TotalITLoadKW, cfg.CoolingType,
		cooling.Cooling.PUE, power.Generator, cfg.Options.Sustainability, cfg.Options.Location, p)

	cost, w := runStage("cost", func() CostBreakdown {
		return RollupCost(rack, electrical, cooling, power, cfg.Options.Sustainability, matrix, p)
	})
	warnings = appendWarning(warnings, w)

	tco := AssessTCO(cost.TotalProjectCost, sustainability.AnnualTotalEnergyKWh, p)

	return Result{
		Source:         SourceEngine,
		Rack:           rack,
		Electrical:     electrical,
		Cooling:        cooling.Cooling,
		Thermal:        cooling.Thermal,
		Pipes:          cooling.Pipes,
		Power:          power,
		Reliability:    reliability,
		Sustainability: sustainability,
		Carbon:         carbon,
		Cost:           cost,
		TCO:            tco,
		Warnings:       warnings,
	}
}

// runStage executes one sizing stage, converting a panic into the
// stage's zero output plus a warning string.
func runStage[T any](name string, fn func() T) (out T, warning string) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			out = zero
			warning = fmt.Sprintf("%s stage failed (%v); defaults substituted", name, r)
		}
	}()
	return fn(), ""
}

func appendWarning(warnings []string, w string) []string {
	if w == "" {
		return warnings
	}
	return append(warnings, w)
}

// summarizeRack restates the normalized load.
func summarizeRack(cfg Config) RackSummary {
	rows := int(math.Ceil(float64(cfg.TotalRacks) / RacksPerRow))
	return RackSummary{
		KWPerRack:     cfg.KWPerRack,
		TotalRacks:    cfg.TotalRacks,
		RacksPerRow:   RacksPerRow,
		Rows:          rows,
		TotalITLoadKW: cfg.KWPerRack * float64(cfg.TotalRacks),
	}
}

// normalizeConfig coerces invalid inputs to their documented defaults
// and records what changed. Calculation never rejects a request.
func normalizeConfig(cfg Config) (Config, []string) {
	var warnings []string

	if cfg.KWPerRack <= 0 || math.IsNaN(cfg.KWPerRack) || math.IsInf(cfg.KWPerRack, 0) {
		warnings = append(warnings, fmt.Sprintf("kwPerRack %g is invalid; defaulted to %g", cfg.KWPerRack, DefaultKWPerRack))
		cfg.KWPerRack = DefaultKWPerRack
	}
	if cfg.TotalRacks <= 0 {
		warnings = append(warnings, fmt.Sprintf("totalRacks %d is invalid; defaulted to %d", cfg.TotalRacks, DefaultTotalRacks))
		cfg.TotalRacks = DefaultTotalRacks
	}
	if !IsValidCoolingType(cfg.CoolingType) {
		warnings = append(warnings, fmt.Sprintf("coolingType %q is unknown; defaulted to %s", cfg.CoolingType, CoolingAir))
		cfg.CoolingType = CoolingAir
	}
	if cfg.Options.Redundancy != "" && !params.IsKnownRedundancyMode(cfg.Options.Redundancy) {
		warnings = append(warnings, fmt.Sprintf(
			"redundancyMode %q has no defined factors; generic 1.5x capacity factor applies", cfg.Options.Redundancy))
	}
	if cfg.Options.BatteryRuntimeMinutes < 0 {
		warnings = append(warnings, "batteryRuntime is negative; parameter default applies")
		cfg.Options.BatteryRuntimeMinutes = 0
	}
	return cfg, warnings
}

// applyOptions overlays per-call options onto a copy of the shared
// parameter set. The shared set itself is never mutated.
func applyOptions(p params.Params, o Options) params.Params {
	if o.Redundancy != "" {
		p = p.WithRedundancy(o.Redundancy)
	}
	p = p.WithBatteryRuntime(o.BatteryRuntimeMinutes)
	return p
}
