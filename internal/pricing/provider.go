package pricing

import (
	"sync"
	"time"

	"github.com/rackforge/dcsizer/internal/params"
	"github.com/rs/zerolog"
)

// DefaultTTL is how long a loaded catalog and parameter set stay fresh
// before the next access reloads them.
const DefaultTTL = 5 * time.Minute

// LoadFunc fetches a pricing matrix and parameter set from wherever the
// deployment keeps them. It must return complete structures; loaders that
// front a partial store overlay onto the built-in defaults themselves.
type LoadFunc func() (Matrix, params.Params, error)

// Provider hands out the shared pricing matrix and calculation parameters
// behind a TTL. It is an explicit, injectable object rather than a hidden
// module-level cache, so tests and callers control its lifetime.
type Provider struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	load     LoadFunc
	logger   zerolog.Logger
	loadedAt time.Time
	matrix   Matrix
	pset     params.Params
	haveSet  bool
}

// NewProvider creates a Provider with the given loader and TTL. A zero or
// negative ttl falls back to DefaultTTL.
func NewProvider(load LoadFunc, ttl time.Duration, logger zerolog.Logger) *Provider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{
		ttl:    ttl,
		now:    time.Now,
		load:   load,
		logger: logger,
	}
}

// NewDefaultProvider creates a Provider over the embedded catalog and
// built-in parameter defaults. This is the zero-configuration path.
func NewDefaultProvider(logger zerolog.Logger) *Provider {
	return NewProvider(func() (Matrix, params.Params, error) {
		client, err := NewClient(logger)
		if err != nil {
			return nil, params.Defaults(), err
		}
		return client, params.Defaults(), nil
	}, DefaultTTL, logger)
}

// Get returns the current pricing matrix and parameters, reloading them
// when the TTL has lapsed. A failed reload keeps serving the previous
// values when there are any, and falls back to the embedded catalog plus
// parameter defaults otherwise, so callers always receive usable data.
func (p *Provider) Get() (Matrix, params.Params) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.haveSet && p.now().Sub(p.loadedAt) < p.ttl {
		return p.matrix, p.pset
	}

	matrix, pset, err := p.load()
	if err != nil {
		p.logger.Warn().Err(err).Msg("pricing/params reload failed")
		if p.haveSet {
			return p.matrix, p.pset
		}
		// The embedded catalog is compile-time data; if it were
		// unparsable the client degrades to (0, false) lookups rather
		// than panicking.
		matrix, pset = &Client{logger: p.logger, raw: rawPricingJSON}, params.Defaults()
	}

	p.matrix = matrix
	p.pset = pset
	p.loadedAt = p.now()
	p.haveSet = true
	return p.matrix, p.pset
}

// Invalidate drops the cached values so the next Get reloads.
func (p *Provider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.haveSet = false
}
