package ports

import (
	"context"

	"route-economics-service/internal/domain"
)

// Port: a boundary for retrieving pricing configuration (rate cards and
// the density tier table) from an external source. The compute engine
// never calls this itself; the composition layer fetches, caches, and
// hands the values in.
type ConfigSource interface {
	// Return the rate card for one vehicle type.
	RateCard(ctx context.Context, vehicleType domain.VehicleType) (domain.RateCard, error)
	// Return the full density tier table.
	DensityTiers(ctx context.Context) ([]domain.DensityTier, error)
}
