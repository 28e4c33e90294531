// Package cache wraps a ConfigSource with a short-TTL in-memory cache.
// Config fetches are the only externally sourced state near the compute
// engine; the engine itself stays pure and receives whichever values
// the cache serves.
package cache

import (
	"context"
	"sync"
	"time"

	"route-economics-service/internal/domain"
	"route-economics-service/internal/ports"
	"route-economics-service/internal/tiers"
)

const DefaultTTL = 60 * time.Second

type cachedRateCard struct {
	value     domain.RateCard
	fetchedAt time.Time
}

type cachedTiers struct {
	value     []domain.DensityTier
	fetchedAt time.Time
}

// ConfigCache serves rate cards and the density tier table from an
// underlying source, holding each value for a TTL. The clock is
// injected so expiry is testable. Fetch failures fall back to the last
// good value, then to the built-in defaults, so callers always get a
// usable configuration and never an error.
type ConfigCache struct {
	source ports.ConfigSource
	ttl    time.Duration
	now    func() time.Time

	mu        sync.Mutex
	rateCards map[domain.VehicleType]cachedRateCard
	tiers     *cachedTiers
}

func NewConfigCache(source ports.ConfigSource, ttl time.Duration, now func() time.Time) *ConfigCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ConfigCache{
		source:    source,
		ttl:       ttl,
		now:       now,
		rateCards: map[domain.VehicleType]cachedRateCard{},
	}
}

// RateCard returns the cached or freshly fetched card for the vehicle
// type, falling back to the built-in default card.
func (c *ConfigCache) RateCard(ctx context.Context, vehicleType domain.VehicleType) domain.RateCard {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.rateCards[vehicleType]
	if ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		return entry.value
	}

	if c.source != nil {
		card, err := c.source.RateCard(ctx, vehicleType)
		if err == nil {
			c.rateCards[vehicleType] = cachedRateCard{value: card, fetchedAt: c.now()}
			return card
		}
	}

	// Serve the stale value past its TTL rather than flapping to the
	// default while the source is down.
	if ok {
		return entry.value
	}
	return domain.DefaultRateCard(vehicleType)
}

// DensityTiers returns the cached or freshly fetched tier table. A
// fetched table that fails validation is replaced by the default table
// before caching, so an invalid configuration can never reach the
// engine.
func (c *ConfigCache) DensityTiers(ctx context.Context) []domain.DensityTier {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tiers != nil && c.now().Sub(c.tiers.fetchedAt) < c.ttl {
		return c.tiers.value
	}

	if c.source != nil {
		table, err := c.source.DensityTiers(ctx)
		if err == nil {
			table = tiers.Sanitize(table)
			c.tiers = &cachedTiers{value: table, fetchedAt: c.now()}
			return table
		}
	}

	if c.tiers != nil {
		return c.tiers.value
	}
	return tiers.Default()
}
