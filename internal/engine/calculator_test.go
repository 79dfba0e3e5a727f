package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rackforge/dcsizer/internal/pricing"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCalculator(t *testing.T, opts ...CalculatorOption) *Calculator {
	t.Helper()
	return NewCalculator(pricing.NewDefaultProvider(zerolog.Nop()), zerolog.Nop(), opts...)
}

func TestCalculateReferenceConfiguration(t *testing.T) {
	calc := testCalculator(t)

	got := calc.Calculate(Config{KWPerRack: 10, CoolingType: CoolingAir, TotalRacks: 28})

	require.Equal(t, SourceEngine, got.Source)
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.GeneratedAt.IsZero())
	assert.Equal(t, EngineVersion, got.EngineVersion)
	assert.Empty(t, got.Warnings)

	assert.InDelta(t, 280.0, got.Rack.TotalITLoadKW, 1e-9)
	assert.Equal(t, 2, got.Rack.Rows)
	assert.Equal(t, 3, got.Cooling.RDHXUnits)
	assert.Equal(t, 2, got.Power.Battery.CabinetsNeeded)
	assert.InDelta(t, 1.40, got.Cooling.PUE, 1e-9)
	assert.Positive(t, got.Cost.TotalProjectCost)
	assert.Positive(t, got.TCO.NPV)
}

func TestCalculateCoercesInvalidInputs(t *testing.T) {
	calc := testCalculator(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero density", Config{CoolingType: CoolingAir, TotalRacks: 28}},
		{"negative density", Config{KWPerRack: -5, CoolingType: CoolingAir, TotalRacks: 28}},
		{"zero racks", Config{KWPerRack: 10, CoolingType: CoolingAir}},
		{"unknown cooling", Config{KWPerRack: 10, CoolingType: "cryogenic", TotalRacks: 28}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Calculate(tt.cfg)

			require.NotEmpty(t, got.Warnings)
			assert.Equal(t, SourceEngine, got.Source)
			assert.Positive(t, got.Rack.KWPerRack)
			assert.Positive(t, got.Rack.TotalRacks)
			assert.True(t, IsValidCoolingType(got.Cooling.Type))
			assert.Positive(t, got.Cost.TotalProjectCost)
		})
	}
}

func TestCalculateUnknownRedundancyWarns(t *testing.T) {
	calc := testCalculator(t)

	got := calc.Calculate(Config{
		KWPerRack: 10, CoolingType: CoolingAir, TotalRacks: 28,
		Options: Options{Redundancy: "5N"},
	})

	require.NotEmpty(t, got.Warnings)
	assert.Contains(t, got.Warnings[0], "5N")
	// The generic 1.5x factor applies to UPS capacity.
	assert.InDelta(t, 1.5, got.Power.UPS.RedundancyFactor, 1e-9)
}

func TestCalculateRecommendsLiquidAtHighDensity(t *testing.T) {
	calc := testCalculator(t)

	got := calc.Calculate(Config{KWPerRack: 75, CoolingType: CoolingAir, TotalRacks: 28})

	require.NotEmpty(t, got.Warnings)
	found := false
	for _, w := range got.Warnings {
		if strings.Contains(w, "liquid cooling recommended") {
			found = true
		}
	}
	assert.True(t, found)

	dlc := calc.Calculate(Config{KWPerRack: 75, CoolingType: CoolingDLC, TotalRacks: 28})
	for _, w := range dlc.Warnings {
		assert.NotContains(t, w, "liquid cooling recommended")
	}
}

func TestCalculateIdempotent(t *testing.T) {
	calc := testCalculator(t)
	cfg := Config{KWPerRack: 50, CoolingType: CoolingDLC, TotalRacks: 28}

	first := calc.Calculate(cfg)
	second := calc.Calculate(cfg)

	// Identical inputs inside the cache window return the identical
	// record, ID and timestamp included.
	assert.Equal(t, first, second)

	distinct := calc.Calculate(Config{KWPerRack: 50, CoolingType: CoolingDLC, TotalRacks: 29})
	assert.NotEqual(t, first.ID, distinct.ID)
}

func TestCalculateOptionsChangeResults(t *testing.T) {
	calc := testCalculator(t)
	base := Config{KWPerRack: 10, CoolingType: CoolingAir, TotalRacks: 28}

	plain := calc.Calculate(base)

	redundant := base
	redundant.Options.Redundancy = params.Redundancy2N
	doubled := calc.Calculate(redundant)

	assert.NotEqual(t, plain.ID, doubled.ID)
	assert.Greater(t, doubled.Power.UPS.RequiredCapacityKW, plain.Power.UPS.RequiredCapacityKW)
	assert.Greater(t, doubled.Reliability.SystemAvailability, plain.Reliability.SystemAvailability)

	withGen := base
	withGen.Options.IncludeGenerator = true
	gen := calc.Calculate(withGen)
	assert.True(t, gen.Power.Generator.Included)
	assert.Greater(t, gen.Cost.TotalProjectCost, plain.Cost.TotalProjectCost)
}

func TestCalculateBatteryRuntimeOption(t *testing.T) {
	calc := testCalculator(t)

	got := calc.Calculate(Config{
		KWPerRack: 10, CoolingType: CoolingAir, TotalRacks: 28,
		Options: Options{BatteryRuntimeMinutes: 30},
	})

	assert.InDelta(t, 30.0, got.Power.Battery.RuntimeMinutes, 1e-9)
	assert.Equal(t, 4, got.Power.Battery.CabinetsNeeded)
}

func TestCalculateConcurrentAccess(t *testing.T) {
	calc := testCalculator(t, WithCache(time.Minute, 256))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				cfg := Config{
					KWPerRack:   float64(10 + i*10),
					CoolingType: CoolingTypes[j%len(CoolingTypes)],
					TotalRacks:  28,
				}
				got := calc.Calculate(cfg)
				assert.NotEmpty(t, got.ID)
				assert.Positive(t, got.Cost.TotalProjectCost)
			}
		}(i)
	}
	wg.Wait()
}

func TestNormalizeConfigWarnings(t *testing.T) {
	cfg, warnings := normalizeConfig(Config{})

	assert.InDelta(t, DefaultKWPerRack, cfg.KWPerRack, 1e-9)
	assert.Equal(t, DefaultTotalRacks, cfg.TotalRacks)
	assert.Equal(t, CoolingAir, cfg.CoolingType)
	assert.Len(t, warnings, 3)
}

func TestRunStageRecovers(t *testing.T) {
	out, warning := runStage("boom", func() int { panic("stage exploded") })

	assert.Zero(t, out)
	assert.Contains(t, warning, "boom")
	assert.Contains(t, warning, "stage exploded")
}

func TestSummarizeRackRows(t *testing.T) {
	tests := []struct {
		racks    int
		wantRows int
	}{
		{1, 1},
		{14, 1},
		{15, 2},
		{28, 2},
		{29, 3},
	}
	for _, tt := range tests {
		got := summarizeRack(Config{KWPerRack: 10, TotalRacks: tt.racks})
		assert.Equal(t, tt.wantRows, got.Rows, "racks=%d", tt.racks)
	}
}
