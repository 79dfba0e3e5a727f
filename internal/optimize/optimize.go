// Package optimize evaluates the sizing pipeline over candidate
// configuration grids and ranks the results: best-configuration search
// under constraints, plus cooling-technology and redundancy-mode
// comparisons that hold all other dimensions fixed. All evaluations are
// read-only; repeated candidates are served from the calculator's
// memoization cache.
package optimize

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rackforge/dcsizer/internal/engine"
	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rs/zerolog"
)

// Objective selects the scoring formula for configuration search.
type Objective string

const (
	ObjectiveCost           Objective = "cost"
	ObjectiveEfficiency     Objective = "efficiency"
	ObjectiveReliability    Objective = "reliability"
	ObjectiveSustainability Objective = "sustainability"
)

// IsValidObjective reports whether o names a supported scoring formula.
func IsValidObjective(o Objective) bool {
	switch o {
	case ObjectiveCost, ObjectiveEfficiency, ObjectiveReliability, ObjectiveSustainability:
		return true
	}
	return false
}

// powerDensityGrid is the fixed candidate grid of kW-per-rack values.
var powerDensityGrid = []float64{50, 75, 100, 150, 200}

// topConfigurationCount is how many ranked candidates a search returns.
const topConfigurationCount = 3

// Constraints bounds the configuration search space. Zero values mean
// unconstrained (all grid densities, all cooling types, default rack
// count, no budget cap).
type Constraints struct {
	MinKWPerRack float64              `json:"minKwPerRack"`
	MaxKWPerRack float64              `json:"maxKwPerRack"`
	CoolingTypes []engine.CoolingType `json:"coolingTypes,omitempty"`
	MinRacks     int                  `json:"minRacks"`
	MaxRacks     int                  `json:"maxRacks"`
	MaxBudget    float64              `json:"maxBudget"`
	Options      engine.Options       `json:"options"`
}

// Candidate pairs an evaluated configuration with its objective score.
type Candidate struct {
	Config engine.Config `json:"config"`
	Result engine.Result `json:"result"`
	Score  float64       `json:"score"`
}

// Report is the outcome of a configuration search.
type Report struct {
	Objective         Objective   `json:"objective"`
	Evaluated         int         `json:"evaluated"`
	TopConfigurations []Candidate `json:"topConfigurations"`
	Recommended       *Candidate  `json:"recommendedConfiguration,omitempty"`
	Summary           string      `json:"summary"`
}

// Optimizer runs pipeline evaluations for searches and comparisons.
type Optimizer struct {
	calc    *engine.Calculator
	logger  zerolog.Logger
	metrics *engine.Metrics
}

// New creates an Optimizer over the shared calculator. metrics may be
// nil.
func New(calc *engine.Calculator, logger zerolog.Logger, metrics *engine.Metrics) *Optimizer {
	return &Optimizer{calc: calc, logger: logger, metrics: metrics}
}

// FindOptimalConfiguration enumerates the candidate grid allowed by the
// constraints, evaluates the full pipeline per combination concurrently,
// and returns the top configurations by the goal's score. Candidates
// whose evaluation fails are dropped, not retried.
func (o *Optimizer) FindOptimalConfiguration(constraints Constraints, goal Objective) Report {
	if !IsValidObjective(goal) {
		goal = ObjectiveCost
	}

	configs := enumerateCandidates(constraints)

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []Candidate
	)
	for _, cfg := range configs {
		wg.Add(1)
		go func(cfg engine.Config) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					o.logger.Warn().
						Interface("panic", r).
						Float64("kw_per_rack", cfg.KWPerRack).
						Str("cooling_type", string(cfg.CoolingType)).
						Msg("candidate evaluation failed, dropping")
				}
			}()

			result := o.calc.Calculate(cfg)
			o.metrics.ObserveCandidate()

			if constraints.MaxBudget > 0 && result.Cost.TotalProjectCost > constraints.MaxBudget {
				return
			}

			mu.Lock()
			candidates = append(candidates, Candidate{
				Config: cfg,
				Result: result,
				Score:  score(goal, result),
			})
			mu.Unlock()
		}(cfg)
	}
	wg.Wait()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		// Deterministic tie-break: cheaper first, then denser.
		if candidates[i].Result.Cost.TotalProjectCost != candidates[j].Result.Cost.TotalProjectCost {
			return candidates[i].Result.Cost.TotalProjectCost < candidates[j].Result.Cost.TotalProjectCost
		}
		return candidates[i].Config.KWPerRack < candidates[j].Config.KWPerRack
	})

	top := candidates
	if len(top) > topConfigurationCount {
		top = top[:topConfigurationCount]
	}

	report := Report{
		Objective:         goal,
		Evaluated:         len(configs),
		TopConfigurations: top,
	}
	if len(top) > 0 {
		best := top[0]
		report.Recommended = &best
		report.Summary = fmt.Sprintf(
			"Evaluated %d configurations for %s: best is %g kW/rack, %s cooling, %d racks at %s %.0f total (PUE %.2f, %s).",
			len(configs), goal,
			best.Config.KWPerRack, best.Config.CoolingType, best.Config.TotalRacks,
			best.Result.Cost.Currency, best.Result.Cost.TotalProjectCost,
			best.Result.Cooling.PUE, best.Result.Reliability.Tier)
	} else {
		report.Summary = fmt.Sprintf("Evaluated %d configurations for %s: none satisfied the constraints.", len(configs), goal)
	}

	o.logger.Info().
		Str("operation", "findOptimalConfiguration").
		Str("objective", string(goal)).
		Int("evaluated", len(configs)).
		Int("qualified", len(candidates)).
		Msg("configuration search complete")

	return report
}

// enumerateCandidates builds the Cartesian product of the constrained
// density grid, cooling types and rack counts.
func enumerateCandidates(c Constraints) []engine.Config {
	densities := make([]float64, 0, len(powerDensityGrid))
	for _, d := range powerDensityGrid {
		if c.MinKWPerRack > 0 && d < c.MinKWPerRack {
			continue
		}
		if c.MaxKWPerRack > 0 && d > c.MaxKWPerRack {
			continue
		}
		densities = append(densities, d)
	}
	if len(densities) == 0 {
		// The range excludes the whole grid; size the range bounds
		// themselves so the search still answers.
		if c.MinKWPerRack > 0 {
			densities = append(densities, c.MinKWPerRack)
		}
		if c.MaxKWPerRack > c.MinKWPerRack {
			densities = append(densities, c.MaxKWPerRack)
		}
		if len(densities) == 0 {
			densities = powerDensityGrid
		}
	}

	coolingTypes := c.CoolingTypes
	if len(coolingTypes) == 0 {
		coolingTypes = engine.CoolingTypes
	}

	racks := rackCandidates(c.MinRacks, c.MaxRacks)

	configs := make([]engine.Config, 0, len(densities)*len(coolingTypes)*len(racks))
	for _, kw := range densities {
		for _, ct := range coolingTypes {
			for _, r := range racks {
				configs = append(configs, engine.Config{
					KWPerRack:   kw,
					CoolingType: ct,
					TotalRacks:  r,
					Options:     c.Options,
				})
			}
		}
	}
	return configs
}

// rackCandidates returns {min, mid, max} of the rack range, deduplicated.
func rackCandidates(minRacks, maxRacks int) []int {
	if minRacks <= 0 && maxRacks <= 0 {
		return []int{engine.DefaultTotalRacks}
	}
	if minRacks <= 0 {
		minRacks = 1
	}
	if maxRacks < minRacks {
		maxRacks = minRacks
	}
	mid := (minRacks + maxRacks) / 2

	out := []int{minRacks}
	if mid != minRacks {
		out = append(out, mid)
	}
	if maxRacks != mid && maxRacks != minRacks {
		out = append(out, maxRacks)
	}
	return out
}

// score applies the objective-specific formula. Higher is better.
func score(goal Objective, r engine.Result) float64 {
	switch goal {
	case ObjectiveEfficiency:
		return 1 / nonZero(r.Cooling.PUE)
	case ObjectiveReliability:
		return r.Reliability.SystemAvailability * 100
	case ObjectiveSustainability:
		carbonTons := r.Carbon.TotalEmissionsKg / 1000
		return 0.6*(1/nonZero(r.Cooling.PUE)) + 0.4*(1/(1+carbonTons/1000))
	default: // ObjectiveCost
		return 1_000_000 / nonZero(r.Cost.TotalProjectCost)
	}
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

// redundancyModesForComparison is the fixed candidate set compared by
// CompareRedundancyOptions.
var redundancyModesForComparison = []params.RedundancyMode{
	params.RedundancyN, params.RedundancyN1, params.Redundancy2N,
}
