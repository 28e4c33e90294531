package economics

import (
	"math"

	"route-economics-service/internal/domain"
	"route-economics-service/internal/tiers"
)

// ResolveSatelliteDistance resolves the distance used for one satellite
// row: an explicit finite non-negative row value wins, then the average
// assumption's constant. Everything else resolves to 0 — including
// tier_mix rows without an explicit value, whose group discount comes
// from synthetic records instead, but whose row-level distance is still
// inspected by some paths.
func ResolveSatelliteDistance(s domain.Stop, a domain.DistanceAssumptions) float64 {
	if s.DistanceMiles != nil {
		d := *s.DistanceMiles
		if !math.IsNaN(d) && !math.IsInf(d, 0) && d >= 0 {
			return d
		}
	}
	if a.Mode == domain.DistanceModeAverage {
		return a.AverageMiles
	}
	return 0
}

// satelliteVolumes converts a group's satellite stops into the volume
// records the discount aggregation consumes. In tier_mix mode the whole
// group's volume is redistributed onto synthetic satellites at the band
// midpoints; otherwise each satellite contributes at its resolved
// distance.
func satelliteVolumes(group []domain.Stop, a domain.DistanceAssumptions) []tiers.SatelliteVolume {
	if a.Mode == domain.DistanceModeTierMix {
		total := 0.0
		for _, s := range group {
			if s.IsSatellite() {
				total += s.Packages
			}
		}
		if total <= 0 {
			return nil
		}

		shares := a.TierMix.Shares()
		vols := make([]tiers.SatelliteVolume, 0, len(shares))
		for i, share := range shares {
			if share <= 0 {
				continue
			}
			vols = append(vols, tiers.SatelliteVolume{
				Packages:      share * total,
				DistanceMiles: domain.TierMixMidpoints[i],
			})
		}
		return vols
	}

	var vols []tiers.SatelliteVolume
	for _, s := range group {
		if !s.IsSatellite() {
			continue
		}
		vols = append(vols, tiers.SatelliteVolume{
			Packages:      s.Packages,
			DistanceMiles: ResolveSatelliteDistance(s, a),
		})
	}
	return vols
}
