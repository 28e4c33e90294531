package domain

import "testing"

func TestCubeCapacityUnknownTypeUsesSmallestVehicle(t *testing.T) {
	if VehicleType("hovercraft").CubeCapacity() != VehicleCargoVan.CubeCapacity() {
		t.Error("unknown vehicle types should get the cargo van capacity")
	}

	if VehicleBoxTruck.CubeCapacity() <= VehicleCargoVan.CubeCapacity() {
		t.Error("box truck capacity should exceed cargo van capacity")
	}
}

func TestDefaultRateCard(t *testing.T) {
	card := DefaultRateCard(VehicleCargoVan)

	if card.VehicleType != VehicleCargoVan {
		t.Errorf("vehicle type = %q", card.VehicleType)
	}
	if card.BaseFee != 95 || card.PerMileRate != 1.5 || card.PerStopRate != 20 {
		t.Errorf("unexpected default rates: %+v", card)
	}
}
