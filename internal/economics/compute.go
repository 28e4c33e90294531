// Package economics derives per-anchor cost, cost-per-package, and
// feasibility numbers from validated stops and a rate card. Every
// function is pure and synchronous; malformed groups still produce a
// best-effort result with Issues attached, never an error.
package economics

import (
	"fmt"
	"math"

	"route-economics-service/internal/domain"
	"route-economics-service/internal/tiers"
)

// ComputeAnchorEconomics computes one AnchorResult per distinct
// anchor_id in stops, in first-seen order.
func ComputeAnchorEconomics(in Inputs, stops []domain.Stop, card domain.RateCard, opts Options) []domain.AnchorResult {
	tierTable := tiers.Sanitize(opts.Tiers)

	groups := map[string][]domain.Stop{}
	var order []string
	for _, s := range stops {
		if _, seen := groups[s.AnchorID]; !seen {
			order = append(order, s.AnchorID)
		}
		groups[s.AnchorID] = append(groups[s.AnchorID], s)
	}

	results := make([]domain.AnchorResult, 0, len(order))
	for _, anchorID := range order {
		results = append(results, computeGroup(in, anchorID, groups[anchorID], card, tierTable, opts.Assumptions))
	}
	return results
}

func computeGroup(
	in Inputs,
	anchorID string,
	group []domain.Stop,
	card domain.RateCard,
	tierTable []domain.DensityTier,
	assumptions domain.DistanceAssumptions,
) domain.AnchorResult {
	result := domain.AnchorResult{AnchorID: anchorID}

	anchorCount := 0
	for _, s := range group {
		switch {
		case s.IsAnchor():
			anchorCount++
			result.AnchorPackages += s.Packages
		case s.IsSatellite():
			result.SatellitePackages += s.Packages
			result.SatelliteStops++
		}
	}
	if anchorCount != 1 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("anchor group %q has %d Anchor stops, expected exactly 1", anchorID, anchorCount))
	}

	result.TotalPackages = result.AnchorPackages + result.SatellitePackages
	result.TotalStops = len(group)

	// Vehicle capacity.
	for _, s := range group {
		cubePerPackage := in.DefaultCubicInchesPerPackage
		if s.AvgCubicInchesPerPackage != nil {
			cubePerPackage = *s.AvgCubicInchesPerPackage
		}
		result.TotalCubeCubicInches += s.Packages * cubePerPackage
	}
	result.VehiclesByCube = ceilAtLeastOne(result.TotalCubeCubicInches, card.VehicleType.CubeCapacity())

	// Pickup window feasibility.
	latestStart, earliestEnd := 0, 0
	for i, s := range group {
		if i == 0 || s.PickupWindowStartMinutes > latestStart {
			latestStart = s.PickupWindowStartMinutes
		}
		if i == 0 || s.PickupWindowEndMinutes < earliestEnd {
			earliestEnd = s.PickupWindowEndMinutes
		}
	}
	result.LatestStartMinutes = latestStart
	result.EarliestEndMinutes = earliestEnd
	result.WindowOverlapMinutes = math.Max(0, float64(earliestEnd-latestStart))

	for _, s := range group {
		serviceMinutes := in.DefaultServiceTimeMinutes
		if s.ServiceTimeMinutes != nil {
			serviceMinutes = *s.ServiceTimeMinutes
		}
		result.PickupMinutesRequired += serviceMinutes
	}
	result.PickupMinutesRequired += float64(result.TotalStops) * in.AvgRoutingTimePerStopMinutes
	result.WindowFeasible = result.WindowOverlapMinutes >= result.PickupMinutesRequired

	// Driver time.
	if in.AvgSpeedMPH > 0 {
		result.HubTravelMinutes = in.MilesToHubOrSpoke / in.AvgSpeedMPH * 60
	}
	result.DriversByTime = ceilAtLeastOne(result.PickupMinutesRequired+result.HubTravelMinutes, in.MaxDriverTimeMinutes)
	result.DriversRequired = result.VehiclesByCube
	if result.DriversByTime > result.DriversRequired {
		result.DriversRequired = result.DriversByTime
	}

	// Discount and cost. The discount applies to the base charge only;
	// satellite stop fees are never discounted.
	discount := tiers.ComputeDensityDiscount(satelliteVolumes(group, assumptions), tierTable)
	result.DensityDiscountPct = discount.DiscountPct
	result.DiscountCapPct = discount.CapPct
	result.DiscountBreakdown = discount.Breakdown

	result.BaseBeforeDiscount = card.BaseFee + card.PerMileRate*in.MilesToHubOrSpoke
	result.BaseAfterDiscount = result.BaseBeforeDiscount * (1 - discount.DiscountPct)
	result.StopFeesTotal = card.PerStopRate * float64(result.SatelliteStops)
	result.AnchorRouteCost = result.BaseAfterDiscount
	result.BlendedCost = result.AnchorRouteCost + result.StopFeesTotal

	result.AnchorCPP = safeDiv(result.AnchorRouteCost, result.AnchorPackages)
	result.BlendedCPP = safeDiv(result.BlendedCost, result.TotalPackages)
	if result.AnchorCPP > 0 {
		result.EffectiveDensitySavingsPct = math.Max(0, (result.AnchorCPP-result.BlendedCPP)/result.AnchorCPP)
	}

	return result
}

// ceilAtLeastOne is the shared "how many vehicles/drivers" shape:
// ceil(amount/capacity), floored at one unit, guarded against a
// non-positive capacity.
func ceilAtLeastOne(amount, capacity float64) int {
	if capacity <= 0 || amount <= 0 {
		return 1
	}
	n := int(math.Ceil(amount / capacity))
	if n < 1 {
		return 1
	}
	return n
}

// safeDiv yields 0 instead of NaN/Inf for a zero denominator.
func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
