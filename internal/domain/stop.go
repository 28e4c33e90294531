package domain

// StopType discriminates the single primary location of a route group
// from the secondary pickup locations attached to it.
type StopType string

const (
	StopTypeAnchor    StopType = "Anchor"
	StopTypeSatellite StopType = "Satellite"
)

// Represents one pickup location parsed from a single input row.
// A Stop is immutable after creation; optional numeric columns that were
// absent or unparseable are carried as nil, never as sentinel values.
type Stop struct {
	RouteID   string
	AnchorID  string
	Type      StopType
	StoreName string
	StoreID   string

	Packages float64

	// Pickup window, minutes since midnight. End is always >= Start
	// for stops that survived validation.
	PickupWindowStartMinutes int
	PickupWindowEndMinutes   int

	AvgCubicInchesPerPackage *float64
	ServiceTimeMinutes       *float64
	DistanceMiles            *float64
}

func (s Stop) IsAnchor() bool { return s.Type == StopTypeAnchor }

func (s Stop) IsSatellite() bool { return s.Type == StopTypeSatellite }

// UploadError describes one validation failure against the input table.
// Row numbers are 1-based and include the header row. Field is empty for
// structural and dataset-level errors.
type UploadError struct {
	Row     int
	Field   string
	Message string
}
