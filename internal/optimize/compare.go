package optimize

import (
	"fmt"
	"math"
	"sort"

	"github.com/rackforge/dcsizer/internal/engine"
	"github.com/rackforge/dcsizer/internal/params"
)

// CoolingComparisonEntry summarizes one cooling technology evaluated at
// a fixed load.
type CoolingComparisonEntry struct {
	Type               engine.CoolingType `json:"type"`
	PUE                float64            `json:"pue"`
	CapitalCost        float64            `json:"capitalCost"`
	AnnualEnergyCost   float64            `json:"annualEnergyCost"`
	AnnualWaterUsageM3 float64            `json:"annualWaterUsage"`
	// PaybackYears is the time for energy savings over air cooling to
	// repay the extra capital. Zero for the air baseline; +Inf when the
	// technology never pays back.
	PaybackYears float64 `json:"paybackYears"`
	RankSum      int     `json:"rankSum"`
}

// CoolingComparison ranks the four cooling technologies at a fixed load.
type CoolingComparison struct {
	Entries        []CoolingComparisonEntry `json:"entries"`
	Recommended    engine.CoolingType       `json:"recommended"`
	Recommendation string                   `json:"recommendation"`
}

// CompareCoolingTechnologies evaluates every cooling technology at the
// given load and ranks them by rank-sum across efficiency, capital cost
// and payback. Lower rank-sum wins.
func (o *Optimizer) CompareCoolingTechnologies(kwPerRack float64, totalRacks int) CoolingComparison {
	entries := make([]CoolingComparisonEntry, 0, len(engine.CoolingTypes))

	var airCapex, airEnergyCost float64
	for _, ct := range engine.CoolingTypes {
		result := o.calc.Calculate(engine.Config{
			KWPerRack:   kwPerRack,
			CoolingType: ct,
			TotalRacks:  totalRacks,
		})
		o.metrics.ObserveCandidate()

		entry := CoolingComparisonEntry{
			Type:               ct,
			PUE:                result.Cooling.PUE,
			CapitalCost:        result.Cost.TotalProjectCost,
			AnnualEnergyCost:   result.TCO.AnnualEnergyCost,
			AnnualWaterUsageM3: result.Sustainability.AnnualWaterUsageM3,
		}
		if ct == engine.CoolingAir {
			airCapex = entry.CapitalCost
			airEnergyCost = entry.AnnualEnergyCost
		}
		entries = append(entries, entry)
	}

	for i := range entries {
		if entries[i].Type == engine.CoolingAir {
			continue
		}
		extraCapex := entries[i].CapitalCost - airCapex
		savings := airEnergyCost - entries[i].AnnualEnergyCost
		switch {
		case extraCapex <= 0:
			// Cheaper than air up front and (presumably) to run.
			entries[i].PaybackYears = 0
		case savings <= 0:
			entries[i].PaybackYears = math.Inf(1)
		default:
			entries[i].PaybackYears = extraCapex / savings
		}
	}

	rankBy(entries, func(e CoolingComparisonEntry) float64 { return e.PUE })
	rankBy(entries, func(e CoolingComparisonEntry) float64 { return e.CapitalCost })
	rankBy(entries, func(e CoolingComparisonEntry) float64 { return e.PaybackYears })

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RankSum != entries[j].RankSum {
			return entries[i].RankSum < entries[j].RankSum
		}
		return entries[i].PUE < entries[j].PUE
	})

	best := entries[0]
	return CoolingComparison{
		Entries:     entries,
		Recommended: best.Type,
		Recommendation: fmt.Sprintf(
			"%s cooling ranks best at %g kW/rack across %d racks: PUE %.2f, capital %.0f, annual energy %.0f.",
			best.Type, kwPerRack, totalRacks, best.PUE, best.CapitalCost, best.AnnualEnergyCost),
	}
}

// rankBy adds each entry's 1-based rank under the criterion to its
// rank-sum. Ties share the better rank.
func rankBy(entries []CoolingComparisonEntry, criterion func(CoolingComparisonEntry) float64) {
	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return criterion(entries[idx[a]]) < criterion(entries[idx[b]])
	})
	rank := 1
	for pos, i := range idx {
		if pos > 0 && criterion(entries[i]) > criterion(entries[idx[pos-1]]) {
			rank = pos + 1
		}
		entries[i].RankSum += rank
	}
}

// RedundancyComparisonEntry summarizes one redundancy mode at a fixed
// configuration.
type RedundancyComparisonEntry struct {
	Mode               params.RedundancyMode `json:"mode"`
	SystemAvailability float64               `json:"systemAvailability"`
	AnnualDowntimeMin  float64               `json:"annualDowntimeMinutes"`
	CapitalCost        float64               `json:"capitalCost"`
	// CostPerAvailabilityPoint is the extra capital per percentage
	// point of availability gained over the N baseline. Zero for N.
	CostPerAvailabilityPoint float64 `json:"costPerAvailabilityPoint"`
}

// RedundancyComparison ranks redundancy modes at a fixed configuration.
type RedundancyComparison struct {
	Entries        []RedundancyComparisonEntry `json:"entries"`
	Recommended    params.RedundancyMode       `json:"recommended"`
	Recommendation string                      `json:"recommendation"`
}

// CompareRedundancyOptions evaluates N, N+1 and 2N at a fixed
// configuration and recommends the mode with the best capital cost per
// availability point gained over N.
func (o *Optimizer) CompareRedundancyOptions(kwPerRack float64, coolingType engine.CoolingType, totalRacks int) RedundancyComparison {
	entries := make([]RedundancyComparisonEntry, 0, len(redundancyModesForComparison))

	var baseline RedundancyComparisonEntry
	for _, mode := range redundancyModesForComparison {
		result := o.calc.Calculate(engine.Config{
			KWPerRack:   kwPerRack,
			CoolingType: coolingType,
			TotalRacks:  totalRacks,
			Options:     engine.Options{Redundancy: mode},
		})
		o.metrics.ObserveCandidate()

		entry := RedundancyComparisonEntry{
			Mode:               mode,
			SystemAvailability: result.Reliability.SystemAvailability,
			AnnualDowntimeMin:  result.Reliability.AnnualDowntimeMin,
			CapitalCost:        result.Cost.TotalProjectCost,
		}
		if mode == params.RedundancyN {
			baseline = entry
		}
		entries = append(entries, entry)
	}

	for i := range entries {
		if entries[i].Mode == params.RedundancyN {
			continue
		}
		gainedPoints := (entries[i].SystemAvailability - baseline.SystemAvailability) * 100
		extraCost := entries[i].CapitalCost - baseline.CapitalCost
		if gainedPoints > 0 && extraCost > 0 {
			entries[i].CostPerAvailabilityPoint = extraCost / gainedPoints
		}
	}

	recommended := entries[0]
	bestValue := math.Inf(1)
	for _, e := range entries {
		if e.Mode == params.RedundancyN {
			continue
		}
		if e.CostPerAvailabilityPoint > 0 && e.CostPerAvailabilityPoint < bestValue {
			bestValue = e.CostPerAvailabilityPoint
			recommended = e
		}
	}

	return RedundancyComparison{
		Entries:     entries,
		Recommended: recommended.Mode,
		Recommendation: fmt.Sprintf(
			"%s offers the best availability value for %s cooling at %g kW/rack: %.4f%% available, %.0f min/yr downtime, capital %.0f.",
			recommended.Mode, coolingType, kwPerRack,
			recommended.SystemAvailability*100, recommended.AnnualDowntimeMin, recommended.CapitalCost),
	}
}
