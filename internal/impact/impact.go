// Package impact attributes a group's density savings to individual
// satellite stops by leave-one-out recomputation: the compute engine is
// rerun once per satellite with that stop removed, and the cost delta
// is the satellite's incremental savings. The loop is O(n^2) in the
// group size, which is fine at the tens of stops a group actually has.
package impact

import (
	"math"

	"route-economics-service/internal/domain"
	"route-economics-service/internal/economics"
	"route-economics-service/internal/tiers"
)

// Savings below half a cent are noise, not a density benefit.
const savingsEpsilon = 0.005

// DistributionRow is one tier of the explanatory report: how much of
// the satellite volume sits in the tier and what it contributed to the
// weighted discount, in percentage points.
type DistributionRow struct {
	Label                 string
	DiscountPct           float64
	SatellitePackages     float64
	SatelliteShare        float64
	StoreCount            int
	ContributionPctPoints float64
}

// Summary is the caller-facing rollup for one anchor group.
type Summary struct {
	RegularBlendedCost    float64
	RegularBlendedCPP     float64
	DiscountedBlendedCost float64
	DiscountedBlendedCPP  float64
	SavingsDollars        float64
	SavingsPct            float64
	WeightedDiscountPct   float64
	TierDistribution      []DistributionRow
	Impacts               []domain.SatelliteImpact
}

type Analysis struct {
	FullResult domain.AnchorResult
	Summary    Summary
}

// ComputeSatelliteImpacts runs the economics engine for the full group,
// then once more per satellite with that satellite removed.
func ComputeSatelliteImpacts(
	in economics.Inputs,
	anchorID string,
	stops []domain.Stop,
	card domain.RateCard,
	tierTable []domain.DensityTier,
) Analysis {
	table := tiers.Sanitize(tierTable)

	group := make([]domain.Stop, 0, len(stops))
	for _, s := range stops {
		if s.AnchorID == anchorID {
			group = append(group, s)
		}
	}

	full := computeOne(in, anchorID, group, card, table)

	var impacts []domain.SatelliteImpact
	for i, s := range group {
		if !s.IsSatellite() {
			continue
		}

		without := make([]domain.Stop, 0, len(group)-1)
		without = append(without, group[:i]...)
		without = append(without, group[i+1:]...)
		costWithout := computeOne(in, anchorID, without, card, table).BlendedCost

		incremental := math.Max(0, costWithout-full.BlendedCost)
		classification := domain.ImpactRegularCost
		if incremental > savingsEpsilon {
			classification = domain.ImpactDensityBenefit
		}

		distance := economics.ResolveSatelliteDistance(s, domain.DistanceAssumptions{})
		impacts = append(impacts, domain.SatelliteImpact{
			StoreName:          s.StoreName,
			StoreID:            s.StoreID,
			DistanceMiles:      distance,
			TierLabel:          tiers.ForDistance(distance, table).Label,
			Packages:           s.Packages,
			IncrementalSavings: incremental,
			Classification:     classification,
		})
	}

	// Baseline with no density discount but satellite stop fees kept.
	regular := full.BaseBeforeDiscount + full.StopFeesTotal
	savings := math.Max(0, regular-full.BlendedCost)

	summary := Summary{
		RegularBlendedCost:    regular,
		DiscountedBlendedCost: full.BlendedCost,
		DiscountedBlendedCPP:  full.BlendedCPP,
		SavingsDollars:        savings,
		WeightedDiscountPct:   full.DensityDiscountPct,
		TierDistribution:      distribution(full, group, table),
		Impacts:               impacts,
	}
	if full.TotalPackages > 0 {
		summary.RegularBlendedCPP = regular / full.TotalPackages
	}
	if regular > 0 {
		summary.SavingsPct = savings / regular
	}

	return Analysis{FullResult: full, Summary: summary}
}

func computeOne(in economics.Inputs, anchorID string, group []domain.Stop, card domain.RateCard, table []domain.DensityTier) domain.AnchorResult {
	results := economics.ComputeAnchorEconomics(in, group, card, economics.Options{Tiers: table})
	for _, r := range results {
		if r.AnchorID == anchorID {
			return r
		}
	}
	// Group had no stops at all; an empty result keeps callers total.
	return domain.AnchorResult{AnchorID: anchorID}
}

func distribution(full domain.AnchorResult, group []domain.Stop, table []domain.DensityTier) []DistributionRow {
	storeCounts := map[string]int{}
	for _, s := range group {
		if !s.IsSatellite() {
			continue
		}
		d := economics.ResolveSatelliteDistance(s, domain.DistanceAssumptions{})
		storeCounts[tiers.ForDistance(d, table).Label]++
	}

	rows := make([]DistributionRow, 0, len(full.DiscountBreakdown))
	for _, share := range full.DiscountBreakdown {
		rows = append(rows, DistributionRow{
			Label:                 share.Label,
			DiscountPct:           share.DiscountPct,
			SatellitePackages:     share.SatellitePackages,
			SatelliteShare:        share.SatelliteShare,
			StoreCount:            storeCounts[share.Label],
			ContributionPctPoints: share.Contribution * 100,
		})
	}
	return rows
}
