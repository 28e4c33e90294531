package domain

// DistanceMode tags how satellite distances are resolved when computing
// the density discount for a group.
type DistanceMode string

const (
	// Each satellite row carries its own distance_miles value.
	DistanceModePerStore DistanceMode = "per_store"
	// One constant distance for every satellite lacking an explicit value.
	DistanceModeAverage DistanceMode = "average"
	// A normalized share of satellite volume across the four standard
	// bands; the group discount is computed from synthetic satellites
	// placed at the band midpoints.
	DistanceModeTierMix DistanceMode = "tier_mix"
)

// TierMixShares distributes satellite package volume across the four
// standard distance bands. Shares are expected to sum to 1.
type TierMixShares struct {
	Band0To10  float64
	Band10To20 float64
	Band20To30 float64
	BandOver30 float64
}

// Midpoint distances for the four standard bands, miles.
var TierMixMidpoints = [4]float64{5, 15, 25, 40}

func (m TierMixShares) Shares() [4]float64 {
	return [4]float64{m.Band0To10, m.Band10To20, m.Band20To30, m.BandOver30}
}

// DistanceAssumptions is a tagged variant: exactly the fields for the
// active Mode are meaningful. The zero value means per-store distances.
type DistanceAssumptions struct {
	Mode         DistanceMode
	AverageMiles float64
	TierMix      TierMixShares
}
