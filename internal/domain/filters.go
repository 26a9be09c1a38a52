package domain

// SearchFilters is the URL-serializable set of property search criteria.
// A zero field means "no constraint applied".
type SearchFilters struct {
	Search    string   `json:"search,omitempty"`
	MinPrice  *float64 `json:"min_price,omitempty"`
	MaxPrice  *float64 `json:"max_price,omitempty"`
	Bedrooms  *int     `json:"bedrooms,omitempty"`
	Bathrooms *int     `json:"bathrooms,omitempty"`
	// PropertyTypes holds at most one element; the UI is single-select.
	PropertyTypes []string `json:"property_types,omitempty"`
	City          string   `json:"city,omitempty"`
}

func (f SearchFilters) IsEmpty() bool {
	return f.Search == "" && f.MinPrice == nil && f.MaxPrice == nil &&
		f.Bedrooms == nil && f.Bathrooms == nil && len(f.PropertyTypes) == 0 && f.City == ""
}

// PropertyType returns the selected type or "".
func (f SearchFilters) PropertyType() string {
	if len(f.PropertyTypes) == 0 {
		return ""
	}
	return f.PropertyTypes[0]
}
