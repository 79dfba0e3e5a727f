package engine

import (
	"math"

	"github.com/rackforge/dcsizer/internal/params"
)

// SizeElectrical computes per-row and per-rack current draw and selects
// the busbar, tap-off box and rack PDU for the configuration. All
// branches are total: currents beyond the largest bracket select the
// largest component and, for busbars, flag that the row needs more than
// one run.
func SizeElectrical(kwPerRack float64, p params.Params) ElectricalSizing {
	denom := p.Electrical.VoltageFactor * Sqrt3 * p.Electrical.PowerFactor
	if denom <= 0 {
		// Guarded by params validation; kept total regardless.
		denom = 400 * Sqrt3 * 0.9
	}

	// Row current is sized for a full 14-rack row regardless of fill.
	currentPerRow := int(math.Round(kwPerRack * float64(RacksPerRow) * 1000 / denom))
	currentPerRack := int(math.Round(kwPerRack * 1000 / denom))

	rating, multiple := selectBusbar(currentPerRow)
	busbarsPerRow := p.Electrical.BusbarsPerRow
	if busbarsPerRow < 1 {
		busbarsPerRow = 1
	}
	if multiple {
		needed := int(math.Ceil(float64(currentPerRow) / float64(rating)))
		if needed > busbarsPerRow {
			busbarsPerRow = needed
		}
	}

	return ElectricalSizing{
		CurrentPerRowAmps:       currentPerRow,
		CurrentPerRackAmps:      currentPerRack,
		BusbarRating:            rating,
		BusbarsPerRow:           busbarsPerRow,
		TapOffBox:               selectTapOffBox(currentPerRack),
		RPDU:                    selectRPDU(currentPerRack),
		MultipleBusbarsRequired: multiple,
	}
}

// selectBusbar returns the smallest catalog rating that carries the row
// current, or the largest rating plus a multiplicity flag when none do.
func selectBusbar(currentPerRow int) (rating int, multiple bool) {
	for _, r := range busbarRatings {
		if currentPerRow <= r {
			return r, false
		}
	}
	return busbarRatings[len(busbarRatings)-1], true
}

// selectTapOffBox returns the smallest-fit tap-off box selector for the
// rack current, defaulting to the largest bracket.
func selectTapOffBox(currentPerRack int) string {
	for _, b := range tapOffBrackets {
		if currentPerRack <= b.MaxAmps {
			return b.Selector
		}
	}
	return tapOffBrackets[len(tapOffBrackets)-1].Selector
}

// selectRPDU returns the smallest-fit rack PDU selector for the rack
// current, defaulting to the largest bracket.
func selectRPDU(currentPerRack int) string {
	for _, b := range rpduBrackets {
		if currentPerRack <= b.MaxAmps {
			return b.Selector
		}
	}
	return rpduBrackets[len(rpduBrackets)-1].Selector
}
