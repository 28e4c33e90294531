package domain

// TierShare is one row of the discount breakdown: how much one tier
// contributed to the group's weighted discount.
type TierShare struct {
	Label             string
	DiscountPct       float64
	SatellitePackages float64
	SatelliteShare    float64
	Contribution      float64
}

// AnchorResult is the computed economics snapshot for one anchor group.
// Produced fresh on every compute call and never mutated afterwards.
type AnchorResult struct {
	AnchorID string

	AnchorPackages    float64
	SatellitePackages float64
	TotalPackages     float64
	TotalStops        int
	SatelliteStops    int

	TotalCubeCubicInches float64
	VehiclesByCube       int

	LatestStartMinutes    int
	EarliestEndMinutes    int
	WindowOverlapMinutes  float64
	PickupMinutesRequired float64
	WindowFeasible        bool
	HubTravelMinutes      float64
	DriversByTime         int
	DriversRequired       int

	BaseBeforeDiscount float64
	DensityDiscountPct float64
	DiscountCapPct     float64
	DiscountBreakdown  []TierShare
	BaseAfterDiscount  float64
	StopFeesTotal      float64
	AnchorRouteCost    float64
	BlendedCost        float64

	AnchorCPP                  float64
	BlendedCPP                 float64
	EffectiveDensitySavingsPct float64

	// Non-fatal group problems, e.g. a wrong anchor-row count. The
	// result above is still a best-effort computation.
	Issues []string
}

// ImpactClass labels whether removing a satellite would make the group
// more expensive (the satellite earns its discount) or not.
type ImpactClass string

const (
	ImpactDensityBenefit ImpactClass = "density benefit"
	ImpactRegularCost    ImpactClass = "regular cost"
)

// SatelliteImpact is the counterfactual record for one satellite stop:
// what the group saves by having it on the route.
type SatelliteImpact struct {
	StoreName          string
	StoreID            string
	DistanceMiles      float64
	TierLabel          string
	Packages           float64
	IncrementalSavings float64
	Classification     ImpactClass
}
