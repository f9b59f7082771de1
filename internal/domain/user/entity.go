package user

// StatusActive is the status given to newly registered users.
const StatusActive = "active"

// User represents a registered user of the directory.
type User struct {
	ID       string // ID is the store-specific identifier in string form
	FullName string // FullName is the user's display name
	Email    string // Email is unique across all users
	Password string // Password is stored in clear text
	Photo    string // Photo is the stored path of the uploaded photo, if any
	PlaceID  string // PlaceID references the place the user belongs to
	Status   string // Status is the account status
}

// View is a user with place and district names attached for read responses.
// The password is never part of a view.
type View struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Photo        string `json:"photo"`
	PlaceID      string `json:"place_id"`
	PlaceName    string `json:"place_name"`
	DistrictID   string `json:"district_id"`
	DistrictName string `json:"district_name"`
	Status       string `json:"status"`
}

// Changes lists the fields of a partial update. Nil fields are left untouched.
type Changes struct {
	FullName *string
	Email    *string
	PlaceID  *string
}

// IsEmpty reports whether no field is set.
func (c Changes) IsEmpty() bool {
	return c.FullName == nil && c.Email == nil && c.PlaceID == nil
}
