package domain

// VehicleType selects a rate card and a fixed load-volume capacity.
type VehicleType string

const (
	VehicleCargoVan VehicleType = "cargo_van"
	VehicleBoxTruck VehicleType = "box_truck"
)

// Usable load volume per vehicle, cubic inches.
const (
	cargoVanCubeCapacity = 245_000
	boxTruckCubeCapacity = 1_150_000
)

// CubeCapacity returns the usable load volume for the vehicle type.
// Unknown types get the cargo van capacity, the smallest vehicle, so a
// misspelled type over-provisions rather than under-provisions.
func (v VehicleType) CubeCapacity() float64 {
	switch v {
	case VehicleBoxTruck:
		return boxTruckCubeCapacity
	default:
		return cargoVanCubeCapacity
	}
}

// Immutable pricing reference data for one vehicle type.
// Supplied by the caller; the engine never fetches or mutates it.
type RateCard struct {
	ID          string
	VehicleType VehicleType
	BaseFee     float64
	PerMileRate float64
	PerStopRate float64
}

// DefaultRateCard is the built-in fallback used when no externally
// sourced card is available for the vehicle type.
func DefaultRateCard(v VehicleType) RateCard {
	card := RateCard{
		ID:          "default-" + string(v),
		VehicleType: v,
		BaseFee:     95,
		PerMileRate: 1.5,
		PerStopRate: 20,
	}
	if v == VehicleBoxTruck {
		card.BaseFee = 145
		card.PerMileRate = 2.1
	}
	return card
}
