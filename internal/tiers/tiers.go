// Package tiers holds the distance-tier discount model: tier table
// validation, half-open tier lookup, and the weighted capped discount
// aggregation over a group's satellites.
package tiers

import (
	"fmt"
	"math"
	"sort"

	"route-economics-service/internal/domain"
)

// Discounts above 50% are treated as configuration mistakes.
const maxTierDiscountPct = 0.5

// Default returns the built-in four-band tier table, used whenever an
// externally supplied table is absent or fails validation.
func Default() []domain.DensityTier {
	max10, max20, max30 := 10.0, 20.0, 30.0
	return []domain.DensityTier{
		{SortOrder: 1, MinMiles: 0, MaxMiles: &max10, DiscountPct: 0.20, Label: "0-10 mi"},
		{SortOrder: 2, MinMiles: 10, MaxMiles: &max20, DiscountPct: 0.12, Label: "10-20 mi"},
		{SortOrder: 3, MinMiles: 20, MaxMiles: &max30, DiscountPct: 0.06, Label: "20-30 mi"},
		{SortOrder: 4, MinMiles: 30, MaxMiles: nil, DiscountPct: 0, Label: "30+ mi"},
	}
}

// Validate checks a tier table against the band invariants. It returns
// a reason as an error value; it never panics on bad configuration.
func Validate(table []domain.DensityTier) error {
	if len(table) == 0 {
		return fmt.Errorf("validate tiers: table is empty")
	}

	sorted := sortedByOrder(table)

	for i, t := range sorted {
		if t.MinMiles < 0 || math.IsNaN(t.MinMiles) {
			return fmt.Errorf("validate tiers: tier %q has negative minMiles %v", t.Label, t.MinMiles)
		}
		if t.MaxMiles != nil && *t.MaxMiles <= t.MinMiles {
			return fmt.Errorf("validate tiers: tier %q has maxMiles %v <= minMiles %v", t.Label, *t.MaxMiles, t.MinMiles)
		}
		if t.DiscountPct < 0 || t.DiscountPct > maxTierDiscountPct {
			return fmt.Errorf("validate tiers: tier %q discount %v outside [0, %v]", t.Label, t.DiscountPct, maxTierDiscountPct)
		}
		if t.MaxMiles == nil && i != len(sorted)-1 {
			return fmt.Errorf("validate tiers: tier %q is open-ended but not last", t.Label)
		}
		if i > 0 {
			prev := sorted[i-1]
			if prev.MaxMiles == nil || *prev.MaxMiles != t.MinMiles {
				return fmt.Errorf("validate tiers: gap or overlap between %q and %q", prev.Label, t.Label)
			}
		}
	}

	return nil
}

// Sanitize returns the table if it validates, otherwise the default
// table. Configuration problems never propagate past this point.
func Sanitize(table []domain.DensityTier) []domain.DensityTier {
	if err := Validate(table); err != nil {
		return Default()
	}
	return sortedByOrder(table)
}

// ForDistance resolves the tier whose half-open band [min, max) holds
// the distance. The table is sanitized first and out-of-range and
// invalid distances fall back to the last tier, so a lookup always
// succeeds even on an empty or broken table.
func ForDistance(distance float64, table []domain.DensityTier) domain.DensityTier {
	sorted := Sanitize(table)

	if !math.IsNaN(distance) && !math.IsInf(distance, 0) {
		for _, t := range sorted {
			if t.Contains(distance) {
				return t
			}
		}
	}

	return sorted[len(sorted)-1]
}

func sortedByOrder(table []domain.DensityTier) []domain.DensityTier {
	sorted := make([]domain.DensityTier, len(table))
	copy(sorted, table)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SortOrder < sorted[j].SortOrder })
	return sorted
}
