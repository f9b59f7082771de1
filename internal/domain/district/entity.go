package district

// District represents the top level of the directory hierarchy.
type District struct {
	ID   string // ID is the store-specific identifier in string form
	Name string // Name is the display name of the district
}
