package engine

import "github.com/rackforge/dcsizer/internal/params"

// AssessReliability derives system availability from component MTBF/MTTR
// figures, the redundancy mode and whether a standby generator backs the
// UPS plant. Purely a lookup and formula chain; there are no failure
// states.
func AssessReliability(includeGenerator bool, p params.Params) ReliabilitySummary {
	mode := p.Electrical.Redundancy

	upsAvail := componentAvailability(p.Reliability.UPS)
	coolingAvail := componentAvailability(p.Reliability.Cooling)

	powerAvail := upsAvail
	var genAvail float64
	if includeGenerator {
		genAvail = componentAvailability(p.Reliability.Generator)
		// Generator is an independent backup path: power fails only
		// when both paths fail.
		powerAvail = 1 - (1-upsAvail)*(1-genAvail)
	}

	factor, ok := p.Reliability.RedundancyFactors[mode]
	if !ok {
		// Undefined product behavior for unknown modes; the calculator
		// warns and we use the non-redundant factor.
		factor = p.Reliability.RedundancyFactors[params.RedundancyN]
		if factor == 0 {
			factor = 0.98
		}
	}

	system := powerAvail * coolingAvail * factor

	return ReliabilitySummary{
		RedundancyMode:        mode,
		UPSAvailability:       upsAvail,
		GeneratorAvailability: genAvail,
		CoolingAvailability:   coolingAvail,
		PowerAvailability:     powerAvail,
		SystemAvailability:    system,
		Tier:                  classifyTier(system),
		AnnualDowntimeMin:     (1 - system) * 365 * 24 * 60,
	}
}

// componentAvailability is MTBF/(MTBF+MTTR), total for degenerate
// inputs.
func componentAvailability(c params.ComponentReliability) float64 {
	if c.MTBFHours <= 0 {
		return 0
	}
	if c.MTTRHours < 0 {
		return 1
	}
	return c.MTBFHours / (c.MTBFHours + c.MTTRHours)
}

// classifyTier maps system availability onto the uptime tier ladder.
func classifyTier(availability float64) string {
	switch {
	case availability > 0.9999:
		return TierIV
	case availability > 0.999:
		return TierIII
	case availability > 0.99:
		return TierII
	default:
		return TierI
	}
}
