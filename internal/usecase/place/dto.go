package place

// CreatePlaceRequest represents the request payload for creating a place.
type CreatePlaceRequest struct {
	Name       string `validate:"max=100"`
	DistrictID string `validate:"required"`
}

// UpdatePlaceRequest represents the request payload for updating a place.
type UpdatePlaceRequest struct {
	ID         string `validate:"required"`
	Name       string `validate:"max=100"`
	DistrictID string `validate:"required"`
}

// DeletePlaceRequest represents the request payload for deleting a place.
type DeletePlaceRequest struct {
	ID string
}

// ListPlacesRequest filters the place listing. An empty DistrictID lists every place.
type ListPlacesRequest struct {
	DistrictID string
}

// Place represents a place DTO for API responses.
type Place struct {
	ID         string
	Name       string
	DistrictID string
}

// PlaceView represents a place with its district name attached.
type PlaceView struct {
	ID           string
	Name         string
	DistrictID   string
	DistrictName string
}
