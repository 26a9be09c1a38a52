// Package search holds the property filter state and its URL query mapping.
package search

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

// Query parameter names shared by the browser URL and the listing API.
const (
	ParamSearch       = "search"
	ParamMinPrice     = "min_price"
	ParamMaxPrice     = "max_price"
	ParamBedrooms     = "bedrooms"
	ParamBathrooms    = "bathrooms"
	ParamPropertyType = "property_type"
	ParamCity         = "city"
)

// Parse maps URL query parameters to filters. Unknown parameters are
// ignored; empty or unparsable values mean "unconstrained".
func Parse(q url.Values) domain.SearchFilters {
	f := domain.SearchFilters{
		Search:        q.Get(ParamSearch),
		MinPrice:      parseFloat(q, ParamMinPrice),
		MaxPrice:      parseFloat(q, ParamMaxPrice),
		Bedrooms:      parseInt(q, ParamBedrooms),
		Bathrooms:     parseInt(q, ParamBathrooms),
		City:          q.Get(ParamCity),
		PropertyTypes: q[ParamPropertyType],
	}
	return Normalize(f)
}

// ParseQuery is Parse over a raw query string (with or without leading '?').
func ParseQuery(raw string) (domain.SearchFilters, error) {
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return domain.SearchFilters{}, err
	}
	return Parse(q), nil
}

// Values returns the non-empty fields of f as query parameters.
func Values(f domain.SearchFilters) url.Values {
	f = Normalize(f)
	v := url.Values{}
	if f.Search != "" {
		v.Set(ParamSearch, f.Search)
	}
	if f.MinPrice != nil {
		v.Set(ParamMinPrice, strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set(ParamMaxPrice, strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.Bedrooms != nil {
		v.Set(ParamBedrooms, strconv.Itoa(*f.Bedrooms))
	}
	if f.Bathrooms != nil {
		v.Set(ParamBathrooms, strconv.Itoa(*f.Bathrooms))
	}
	if t := f.PropertyType(); t != "" {
		v.Set(ParamPropertyType, t)
	}
	if f.City != "" {
		v.Set(ParamCity, f.City)
	}
	return v
}

// Encode returns the canonical query string: keys sorted, spaces as '+'.
// The empty filter encodes to "".
func Encode(f domain.SearchFilters) string {
	return Values(f).Encode()
}

// Normalize trims text, drops empty values, orders the price bounds and
// keeps at most one property type.
func Normalize(f domain.SearchFilters) domain.SearchFilters {
	out := domain.SearchFilters{
		Search:    strings.TrimSpace(f.Search),
		City:      strings.TrimSpace(f.City),
		MinPrice:  nonNegFloat(f.MinPrice),
		MaxPrice:  nonNegFloat(f.MaxPrice),
		Bedrooms:  nonNegInt(f.Bedrooms),
		Bathrooms: nonNegInt(f.Bathrooms),
	}
	if out.MinPrice != nil && out.MaxPrice != nil && *out.MinPrice > *out.MaxPrice {
		out.MinPrice, out.MaxPrice = out.MaxPrice, out.MinPrice
	}
	for _, t := range f.PropertyTypes {
		if t = strings.TrimSpace(t); t != "" {
			out.PropertyTypes = []string{t}
			break
		}
	}
	return out
}

func parseFloat(q url.Values, k string) *float64 {
	s := strings.TrimSpace(q.Get(k))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func parseInt(q url.Values, k string) *int {
	s := strings.TrimSpace(q.Get(k))
	if s == "" {
		return nil
	}
	// "3+" is how the UI labels minimums
	n, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
	if err != nil {
		return nil
	}
	return &n
}

func nonNegFloat(p *float64) *float64 {
	if p == nil || *p < 0 {
		return nil
	}
	v := *p
	return &v
}

func nonNegInt(p *int) *int {
	if p == nil || *p < 0 {
		return nil
	}
	v := *p
	return &v
}

// URLState is an in-memory stand-in for the browser location.
type URLState struct {
	mu    sync.Mutex
	query string
	n     int
}

func NewURLState(initial string) *URLState {
	return &URLState{query: strings.TrimPrefix(initial, "?")}
}

func (u *URLState) Replace(query string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.query = query
	u.n++
}

func (u *URLState) Query() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.query
}

// Replacements reports how many times Replace was called.
func (u *URLState) Replacements() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.n
}
