package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-economics-service/internal/domain"
	"route-economics-service/internal/tiers"
)

// fakeSource counts fetches and can be switched into a failing mode.
type fakeSource struct {
	card      domain.RateCard
	tiers     []domain.DensityTier
	err       error
	cardCalls int
	tierCalls int
}

func (f *fakeSource) RateCard(_ context.Context, _ domain.VehicleType) (domain.RateCard, error) {
	f.cardCalls++
	if f.err != nil {
		return domain.RateCard{}, f.err
	}
	return f.card, nil
}

func (f *fakeSource) DensityTiers(_ context.Context) ([]domain.DensityTier, error) {
	f.tierCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tiers, nil
}

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestConfigCacheServesWithinTTL(t *testing.T) {
	src := &fakeSource{card: domain.RateCard{ID: "rc-1", VehicleType: domain.VehicleCargoVan, BaseFee: 80}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewConfigCache(src, 60*time.Second, clock.now)

	ctx := context.Background()

	got := c.RateCard(ctx, domain.VehicleCargoVan)
	if got.ID != "rc-1" {
		t.Fatalf("card = %+v", got)
	}

	// A second read inside the TTL must not hit the source.
	clock.advance(59 * time.Second)
	c.RateCard(ctx, domain.VehicleCargoVan)
	if src.cardCalls != 1 {
		t.Errorf("source calls = %d, want 1", src.cardCalls)
	}

	// Crossing the TTL refetches.
	clock.advance(2 * time.Second)
	c.RateCard(ctx, domain.VehicleCargoVan)
	if src.cardCalls != 2 {
		t.Errorf("source calls = %d, want 2 after expiry", src.cardCalls)
	}
}

func TestConfigCacheFallsBackToDefaults(t *testing.T) {
	src := &fakeSource{err: errors.New("connection refused")}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewConfigCache(src, 60*time.Second, clock.now)

	ctx := context.Background()

	card := c.RateCard(ctx, domain.VehicleCargoVan)
	want := domain.DefaultRateCard(domain.VehicleCargoVan)
	if card != want {
		t.Errorf("card = %+v, want default %+v", card, want)
	}

	table := c.DensityTiers(ctx)
	if len(table) != len(tiers.Default()) {
		t.Errorf("tiers = %d, want default table", len(table))
	}
}

func TestConfigCacheServesStaleOnSourceFailure(t *testing.T) {
	src := &fakeSource{card: domain.RateCard{ID: "rc-good", VehicleType: domain.VehicleCargoVan, BaseFee: 80}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewConfigCache(src, 60*time.Second, clock.now)

	ctx := context.Background()
	c.RateCard(ctx, domain.VehicleCargoVan)

	// Source goes down past the TTL: the last good card is better than
	// flapping to the default.
	src.err = errors.New("connection refused")
	clock.advance(2 * time.Minute)

	got := c.RateCard(ctx, domain.VehicleCargoVan)
	if got.ID != "rc-good" {
		t.Errorf("card = %+v, want the stale rc-good", got)
	}
}

func TestConfigCacheSanitizesInvalidTiers(t *testing.T) {
	src := &fakeSource{tiers: []domain.DensityTier{
		{SortOrder: 1, MinMiles: -4, MaxMiles: nil, DiscountPct: 0.9, Label: "garbage"},
	}}
	clock := &fakeClock{t: time.Unix(1000, 0)}
	c := NewConfigCache(src, 60*time.Second, clock.now)

	table := c.DensityTiers(context.Background())

	if err := tiers.Validate(table); err != nil {
		t.Fatalf("cache must never serve an invalid table: %v", err)
	}
	if table[0].DiscountPct != 0.20 {
		t.Errorf("tier 1 discount = %v, want default 0.20", table[0].DiscountPct)
	}
	if src.tierCalls != 1 {
		t.Errorf("source calls = %d, want 1", src.tierCalls)
	}
}

func TestConfigCacheNilSource(t *testing.T) {
	c := NewConfigCache(nil, 0, nil)

	card := c.RateCard(context.Background(), domain.VehicleBoxTruck)
	if card != domain.DefaultRateCard(domain.VehicleBoxTruck) {
		t.Errorf("card = %+v, want default", card)
	}
	if len(c.DensityTiers(context.Background())) == 0 {
		t.Error("tiers should fall back to the default table")
	}
}
