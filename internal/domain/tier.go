package domain

// DensityTier is one contiguous distance band of the discount table.
// Tiers sorted by SortOrder partition [0, +inf): each tier's MinMiles
// equals the previous tier's MaxMiles, and only the last tier may leave
// MaxMiles nil (open-ended).
type DensityTier struct {
	SortOrder   int
	MinMiles    float64
	MaxMiles    *float64
	DiscountPct float64
	Label       string
}

// Contains reports whether distance falls inside the tier's half-open
// band [MinMiles, MaxMiles).
func (t DensityTier) Contains(distance float64) bool {
	if distance < t.MinMiles {
		return false
	}
	return t.MaxMiles == nil || distance < *t.MaxMiles
}
