// Package pricing provides component unit-cost lookups for the sizing
// engine. The catalog ships embedded in the binary and is indexed once on
// first use; every lookup returns (price, found) and never fails hard, so
// the cost rollup can substitute a safe default for unknown selectors.
package pricing

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

// Matrix provides unit-cost lookups per component family.
// Implementations return (price, true) when the selector is priced and
// (0, false) otherwise.
type Matrix interface {
	// Version returns the catalog version string.
	Version() string

	// Currency returns the catalog currency code (always "USD" for v1).
	Currency() string

	// BusbarUnitCost returns the cost of one busbar run at the given
	// amperage rating (e.g. 250, 400, ... 2000).
	BusbarUnitCost(rating int) (float64, bool)

	// TapOffBoxCost returns the cost of one tap-off box for a selector
	// such as "63A" or "250A".
	TapOffBoxCost(selector string) (float64, bool)

	// RPDUCost returns the cost of one rack PDU for a selector such as
	// "80A" or "112A".
	RPDUCost(selector string) (float64, bool)

	// CoolerUnitCost returns the cost of one cooling unit for a model
	// selector such as "rdhxStandard" or "immersionTank".
	CoolerUnitCost(model string) (float64, bool)

	// PipingCostPerMeter returns the installed cost per meter for a
	// nominal diameter selector such as "dn110".
	PipingCostPerMeter(dn string) (float64, bool)

	// UPSModuleCost returns the cost of one UPS power module.
	UPSModuleCost() (float64, bool)

	// UPSFrameCost returns the cost of one UPS frame for a frame
	// selector such as "frame2", "frame4" or "frame6".
	UPSFrameCost(frame string) (float64, bool)

	// BatteryCabinetCost returns the cost of one battery cabinet.
	BatteryCabinetCost() (float64, bool)

	// GeneratorCost returns the cost of a generator set for a model
	// selector such as "1000kVA".
	GeneratorCost(model string) (float64, bool)

	// EHouseCostPerSqm returns the e-house build cost per square meter.
	EHouseCostPerSqm() (float64, bool)

	// SustainabilityOptionCost returns the add-on cost for an option
	// selector such as "wasteHeatRecovery".
	SustainabilityOptionCost(option string) (float64, bool)
}

// Client implements Matrix over the embedded JSON catalog.
type Client struct {
	logger zerolog.Logger

	raw []byte

	once sync.Once
	err  error
	data matrixData
}

// NewClient creates a Client backed by the embedded default catalog.
// The logger is used for missing-selector warnings and parse diagnostics.
func NewClient(logger zerolog.Logger) (*Client, error) {
	c := &Client{logger: logger, raw: rawPricingJSON}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewClientFromFile creates a Client from a site-specific catalog file.
// The file must be a complete catalog in the same JSON shape as the
// embedded default.
func NewClientFromFile(path string, logger zerolog.Logger) (*Client, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pricing file: %w", err)
	}
	c := &Client{logger: logger, raw: raw}
	if err := c.init(); err != nil {
		return nil, err
	}
	return c, nil
}

// init parses the catalog exactly once.
func (c *Client) init() error {
	c.once.Do(func() {
		if err := json.Unmarshal(c.raw, &c.data); err != nil {
			c.err = fmt.Errorf("failed to parse pricing catalog: %w", err)
			return
		}
		if c.data.Currency == "" {
			c.data.Currency = "USD"
		}
	})
	return c.err
}

// lookup resolves a selector within one family, logging a warning on a
// miss. Misses are expected to be rare and are priced as zero upstream.
func (c *Client) lookup(family Family, table map[string]float64, selector string) (float64, bool) {
	if err := c.init(); err != nil {
		return 0, false
	}
	price, found := table[selector]
	if !found {
		c.logger.Warn().
			Str("family", string(family)).
			Str("selector", selector).
			Msg("pricing selector not found in catalog")
		return 0, false
	}
	return price, true
}

// Version returns the catalog version string.
func (c *Client) Version() string {
	_ = c.init()
	return c.data.Version
}

// Currency returns the catalog currency code.
func (c *Client) Currency() string {
	_ = c.init()
	return c.data.Currency
}

// BusbarUnitCost returns the cost of one busbar run at the given rating.
func (c *Client) BusbarUnitCost(rating int) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyBusbar, c.data.Busbar, strconv.Itoa(rating))
}

// TapOffBoxCost returns the cost of one tap-off box.
func (c *Client) TapOffBoxCost(selector string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyTapOffBox, c.data.TapOffBox, selector)
}

// RPDUCost returns the cost of one rack PDU.
func (c *Client) RPDUCost(selector string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyRPDU, c.data.RPDU, selector)
}

// CoolerUnitCost returns the cost of one cooling unit.
func (c *Client) CoolerUnitCost(model string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyCooler, c.data.Cooler, model)
}

// PipingCostPerMeter returns the installed cost per meter of loop piping.
func (c *Client) PipingCostPerMeter(dn string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyPiping, c.data.Piping, dn)
}

// UPSModuleCost returns the cost of one UPS power module.
func (c *Client) UPSModuleCost() (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyUPS, c.data.UPS, "module")
}

// UPSFrameCost returns the cost of one UPS frame.
func (c *Client) UPSFrameCost(frame string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyUPS, c.data.UPS, frame)
}

// BatteryCabinetCost returns the cost of one battery cabinet.
func (c *Client) BatteryCabinetCost() (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyBattery, c.data.Battery, "cabinet")
}

// GeneratorCost returns the cost of a generator set.
func (c *Client) GeneratorCost(model string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyGenerator, c.data.Generator, model)
}

// EHouseCostPerSqm returns the e-house build cost per square meter.
func (c *Client) EHouseCostPerSqm() (float64, bool) {
	_ = c.init()
	return c.lookup(FamilyEHouse, c.data.EHouse, "perSqm")
}

// SustainabilityOptionCost returns the add-on cost for an option.
func (c *Client) SustainabilityOptionCost(option string) (float64, bool) {
	_ = c.init()
	return c.lookup(FamilySustainability, c.data.Sustainability, option)
}
