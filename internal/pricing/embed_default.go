package pricing

import _ "embed"

// rawPricingJSON is the built-in component catalog. Sites with negotiated
// rates override it at load time; the embedded copy guarantees the engine
// always has a complete matrix to price against.
//
//go:embed data/pricing_default.json
var rawPricingJSON []byte
