package district

// CreateDistrictRequest represents the request payload for creating a district.
// An empty name is accepted.
type CreateDistrictRequest struct {
	Name string `validate:"max=100"`
}

// UpdateDistrictRequest represents the request payload for renaming a district.
type UpdateDistrictRequest struct {
	ID   string `validate:"required"`
	Name string `validate:"max=100"`
}

// DeleteDistrictRequest represents the request payload for deleting a district.
type DeleteDistrictRequest struct {
	ID string
}

// District represents a district DTO for API responses.
type District struct {
	ID   string
	Name string
}
