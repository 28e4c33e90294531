package tiers

import (
	"math"

	"route-economics-service/internal/domain"
)

// The blended discount can never exceed 20% of the base charge, no
// matter what the tier table says.
const DiscountCapPct = 0.20

// SatelliteVolume is the package volume of one satellite at its
// resolved distance from the anchor.
type SatelliteVolume struct {
	Packages      float64
	DistanceMiles float64
}

// DiscountResult carries the capped weighted discount and the per-tier
// breakdown behind it.
type DiscountResult struct {
	DiscountPct float64
	CapPct      float64
	Breakdown   []domain.TierShare
}

// ComputeDensityDiscount buckets satellite packages into their distance
// tiers and returns the package-share-weighted discount, clamped to
// [0, min(0.20, max tier discount)]. With no satellite volume every
// share is zero and so is the discount. Empty or invalid tables are
// replaced by the default table, so the call always succeeds.
func ComputeDensityDiscount(satellites []SatelliteVolume, table []domain.DensityTier) DiscountResult {
	sorted := Sanitize(table)

	bucketPackages := make([]float64, len(sorted))
	total := 0.0
	for _, s := range satellites {
		if s.Packages <= 0 || math.IsNaN(s.Packages) {
			continue
		}
		tier := ForDistance(s.DistanceMiles, sorted)
		for i, t := range sorted {
			if t.SortOrder == tier.SortOrder {
				bucketPackages[i] += s.Packages
				break
			}
		}
		total += s.Packages
	}

	maxTierDiscount := 0.0
	for _, t := range sorted {
		if t.DiscountPct > maxTierDiscount {
			maxTierDiscount = t.DiscountPct
		}
	}
	capPct := math.Min(DiscountCapPct, maxTierDiscount)

	breakdown := make([]domain.TierShare, len(sorted))
	raw := 0.0
	for i, t := range sorted {
		share := 0.0
		if total > 0 {
			share = bucketPackages[i] / total
		}
		contribution := share * t.DiscountPct
		raw += contribution

		breakdown[i] = domain.TierShare{
			Label:             t.Label,
			DiscountPct:       t.DiscountPct,
			SatellitePackages: bucketPackages[i],
			SatelliteShare:    share,
			Contribution:      contribution,
		}
	}

	discount := raw
	if discount < 0 {
		discount = 0
	}
	if discount > capPct {
		discount = capPct
	}

	return DiscountResult{DiscountPct: discount, CapPct: capPct, Breakdown: breakdown}
}
