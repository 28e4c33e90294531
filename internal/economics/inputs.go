package economics

import "route-economics-service/internal/domain"

// Inputs are the scenario-level knobs for one compute run. They are
// supplied by the caller; DefaultInputs gives the operational defaults
// used when a caller has nothing better.
type Inputs struct {
	MilesToHubOrSpoke float64

	// Fallbacks for optional per-row columns.
	DefaultCubicInchesPerPackage float64
	DefaultServiceTimeMinutes    float64

	AvgRoutingTimePerStopMinutes float64
	AvgSpeedMPH                  float64
	MaxDriverTimeMinutes         float64
}

func DefaultInputs() Inputs {
	return Inputs{
		MilesToHubOrSpoke:            10,
		DefaultCubicInchesPerPackage: 650,
		DefaultServiceTimeMinutes:    5,
		AvgRoutingTimePerStopMinutes: 4,
		AvgSpeedMPH:                  35,
		MaxDriverTimeMinutes:         480,
	}
}

// Options carries the optional configuration of a compute run. A nil or
// invalid tier table is replaced by the default table; the zero-value
// assumptions mean per-store distances.
type Options struct {
	Tiers       []domain.DensityTier
	Assumptions domain.DistanceAssumptions
}
