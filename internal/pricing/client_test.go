package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientEmbeddedCatalog(t *testing.T) {
	c, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	assert.NotEmpty(t, c.Version())
	assert.Equal(t, "USD", c.Currency())
}

func TestClientLookups(t *testing.T) {
	c, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	tests := []struct {
		name   string
		lookup func() (float64, bool)
	}{
		{"smallest busbar", func() (float64, bool) { return c.BusbarUnitCost(250) }},
		{"largest busbar", func() (float64, bool) { return c.BusbarUnitCost(2000) }},
		{"tap-off 63A", func() (float64, bool) { return c.TapOffBoxCost("63A") }},
		{"rpdu 112A", func() (float64, bool) { return c.RPDUCost("112A") }},
		{"rdhx standard", func() (float64, bool) { return c.CoolerUnitCost("rdhxStandard") }},
		{"immersion tank", func() (float64, bool) { return c.CoolerUnitCost("immersionTank") }},
		{"dlc manifold", func() (float64, bool) { return c.CoolerUnitCost("dlcManifold") }},
		{"dn110 piping", func() (float64, bool) { return c.PipingCostPerMeter("dn110") }},
		{"ups module", func() (float64, bool) { return c.UPSModuleCost() }},
		{"ups frame2", func() (float64, bool) { return c.UPSFrameCost("frame2") }},
		{"battery cabinet", func() (float64, bool) { return c.BatteryCabinetCost() }},
		{"generator 1000kVA", func() (float64, bool) { return c.GeneratorCost("1000kVA") }},
		{"ehouse per sqm", func() (float64, bool) { return c.EHouseCostPerSqm() }},
		{"waste heat recovery", func() (float64, bool) { return c.SustainabilityOptionCost("wasteHeatRecovery") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, found := tt.lookup()
			assert.True(t, found)
			assert.Positive(t, price)
		})
	}
}

func TestClientBusbarPricesIncreaseWithRating(t *testing.T) {
	c, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	prev := 0.0
	for _, rating := range []int{250, 400, 600, 800, 1000, 1250, 1600, 2000} {
		price, found := c.BusbarUnitCost(rating)
		require.True(t, found, "rating=%d", rating)
		assert.Greater(t, price, prev, "rating=%d", rating)
		prev = price
	}
}

func TestClientUnknownSelectorMisses(t *testing.T) {
	c, err := NewClient(zerolog.Nop())
	require.NoError(t, err)

	price, found := c.BusbarUnitCost(9999)
	assert.False(t, found)
	assert.Zero(t, price)

	price, found = c.CoolerUnitCost("cryoChamber")
	assert.False(t, found)
	assert.Zero(t, price)
}

func TestNewClientFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"version": "site-1",
		"currency": "EUR",
		"busbar": {"250": 111}
	}`), 0o600))

	c, err := NewClientFromFile(path, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "site-1", c.Version())
	assert.Equal(t, "EUR", c.Currency())
	price, found := c.BusbarUnitCost(250)
	assert.True(t, found)
	assert.InDelta(t, 111.0, price, 1e-12)

	// Families absent from the site file simply miss.
	_, found = c.UPSModuleCost()
	assert.False(t, found)
}

func TestNewClientFromFileErrors(t *testing.T) {
	_, err := NewClientFromFile(filepath.Join(t.TempDir(), "absent.json"), zerolog.Nop())
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o600))
	_, err = NewClientFromFile(bad, zerolog.Nop())
	require.Error(t, err)
}
