package domain

type PropertyStatus string

const (
	StatusForSale  PropertyStatus = "for-sale"
	StatusForRent  PropertyStatus = "for-rent"
	StatusSold     PropertyStatus = "sold"
	StatusReserved PropertyStatus = "reserved"
	StatusUnknown  PropertyStatus = "unknown"
)

// PropertyRecord is the canonical listing shape; every accepted wire shape is
// mapped into it at the listing client boundary.
type PropertyRecord struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Status       PropertyStatus `json:"status"`
	PropertyType string         `json:"property_type,omitempty"`
	Bedrooms     *int           `json:"bedrooms,omitempty"`
	Bathrooms    *float64       `json:"bathrooms,omitempty"`
	BuiltArea    *float64       `json:"built_area,omitempty"` // m²
	Price        *float64       `json:"price,omitempty"`
	Currency     string         `json:"currency,omitempty"`
	CoverImage   string         `json:"cover_image,omitempty"`
	Gallery      []string       `json:"gallery,omitempty"`
	Location     Location       `json:"location"`
	Agent        *Agent         `json:"agent,omitempty"`
	Legal        *Legal         `json:"legal,omitempty"`
	Analytics    *Analytics     `json:"analytics,omitempty"`
}

type Location struct {
	Neighborhood string  `json:"neighborhood,omitempty"`
	City         string  `json:"city,omitempty"`
	Province     string  `json:"province,omitempty"`
	Address      string  `json:"address,omitempty"`
	Coords       *Coords `json:"coords,omitempty"`
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Agent struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type Legal struct {
	OwnershipType string `json:"ownership_type,omitempty"` // titled, rights-of-possession, ...
	TitleNumber   string `json:"title_number,omitempty"`
	Zoning        string `json:"zoning,omitempty"`
}

type Analytics struct {
	Views     int `json:"views"`
	Favorites int `json:"favorites"`
	Inquiries int `json:"inquiries"`
}

// SearchPage is one page of the listing API's paginated envelope.
type SearchPage struct {
	Count    int              `json:"count"`
	Next     *string          `json:"next,omitempty"`
	Previous *string          `json:"previous,omitempty"`
	Results  []PropertyRecord `json:"results"`
}
