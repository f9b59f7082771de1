package place

// Place represents a place that belongs to a district.
type Place struct {
	ID         string // ID is the store-specific identifier in string form
	Name       string // Name is the display name of the place
	DistrictID string // DistrictID references the owning district
}

// View is a place with its district name attached for read responses.
// DistrictName is empty when the referenced district no longer exists.
type View struct {
	ID           string
	Name         string
	DistrictID   string
	DistrictName string
}
