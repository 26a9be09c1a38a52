package listing

import (
	"strconv"
	"strings"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Current payloads nest price under financials and media/location under
// their own objects; legacy payloads are flat. Current paths come first.
var propertyAliases = map[string][]string{
	"id":            {"id", "uuid", "property_id", "slug"},
	"title":         {"title", "name", "headline"},
	"description":   {"description", "summary", "details.description"},
	"status":        {"status", "listing_status", "operation"},
	"property_type": {"property_type", "type", "category", "details.property_type"},
	"bedrooms":      {"bedrooms", "specs.bedrooms", "details.bedrooms", "beds"},
	"bathrooms":     {"bathrooms", "specs.bathrooms", "details.bathrooms", "baths"},
	"built_area":    {"built_area", "specs.built_area", "details.built_area", "area_m2", "area", "size"},
	"price": {
		"financials.price", "financials.sale_price", "financials.rent_price", "financials.amount",
		"price", "sale_price", "rent_price",
	},
	"currency": {"financials.currency", "currency"},
	"cover": {
		"media.cover_image", "media.cover", "media.main_image",
		"cover_image", "main_image", "image", "thumbnail",
	},
	"gallery":      {"media.gallery", "media.images", "media.photos", "gallery", "images", "photos"},
	"neighborhood": {"location.neighborhood", "location.sector", "neighborhood", "sector"},
	"city":         {"location.city", "city"},
	"province":     {"location.province", "location.state", "province", "state"},
	"address": {
		"location.full_address", "location.address", "location.formatted_address",
		"full_address", "address", "formatted_address",
	},
	"lat": {
		"location.coordinates.lat", "location.coordinates.latitude",
		"location.lat", "location.latitude", "latitude", "lat",
	},
	"lon": {
		"location.coordinates.lng", "location.coordinates.lon", "location.coordinates.longitude",
		"location.lng", "location.lon", "location.longitude", "longitude", "lng", "lon",
	},
	"agent_name":  {"agent.name", "agent.full_name", "agent_name"},
	"agent_email": {"agent.email", "agent_email"},
	"agent_phone": {"agent.phone", "agent.phone_number", "agent_phone"},
	"agent_photo": {"agent.photo", "agent.avatar", "agent_photo"},
	"ownership":   {"legal.ownership_type", "legal.title_type", "ownership_type"},
	"title_no":    {"legal.title_number", "legal.finca", "title_number"},
	"zoning":      {"legal.zoning", "zoning"},
	"views":       {"analytics.views", "analytics.view_count", "views", "views_count"},
	"favorites":   {"analytics.favorites", "analytics.favorite_count", "favorites", "favorites_count"},
	"inquiries":   {"analytics.inquiries", "analytics.leads", "inquiries", "inquiries_count"},
}

// statusSpellings maps every accepted status spelling to its canonical value.
var statusSpellings = map[string]domain.PropertyStatus{
	"for-sale":    domain.StatusForSale,
	"sale":        domain.StatusForSale,
	"available":   domain.StatusForSale,
	"active":      domain.StatusForSale,
	"en-venta":    domain.StatusForSale,
	"venta":       domain.StatusForSale,
	"for-rent":    domain.StatusForRent,
	"rent":        domain.StatusForRent,
	"rental":      domain.StatusForRent,
	"en-alquiler": domain.StatusForRent,
	"alquiler":    domain.StatusForRent,
	"sold":        domain.StatusSold,
	"vendido":     domain.StatusSold,
	"reserved":    domain.StatusReserved,
	"pending":     domain.StatusReserved,
	"reservado":   domain.StatusReserved,
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, key string) string {
	for _, p := range propertyAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstIDAlias accepts string or numeric identifiers.
func firstIDAlias(m map[string]any, key string) string {
	for _, p := range propertyAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// floatAlias: number from several paths (float64/int/string like "250,000" or "8,5").
func floatAlias(m map[string]any, key string) *float64 {
	for _, k := range propertyAliases[key] {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			if f, ok := parseLooseFloat(v); ok {
				return &f
			}
		}
	}
	return nil
}

func intAlias(m map[string]any, key string) *int {
	if f := floatAlias(m, key); f != nil {
		n := int(*f)
		return &n
	}
	return nil
}

func countAlias(m map[string]any, key string) int {
	if n := intAlias(m, key); n != nil {
		return *n
	}
	return 0
}

// parseLooseFloat accepts "$250,000", "250000.00", "1.250.000" and decimal
// commas ("8,5", "1.250,50"). When both separators appear the last one is
// the decimal mark.
func parseLooseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, false
	}
	comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
	switch {
	case comma >= 0 && dot >= 0:
		if comma > dot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		if strings.Count(s, ",") > 1 || len(s)-comma-1 == 3 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dot >= 0 && strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// sliceAlias: accept []any with either strings or {url/src/image}.
func sliceAlias(m map[string]any, key string) []string {
	for _, k := range propertyAliases[key] {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if t != "" {
					out = append(out, t)
				}
			case map[string]any:
				for _, f := range []string{"url", "src", "image", "href"} {
					if u, ok := t[f].(string); ok && u != "" {
						out = append(out, u)
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func normalizeStatus(s string) domain.PropertyStatus {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("_", "-", " ", "-").Replace(k)
	if st, ok := statusSpellings[k]; ok {
		return st
	}
	return domain.StatusUnknown
}

/********** property mapper **********/

// MapProperty converts any accepted wire shape into a PropertyRecord.
// Missing nested objects stay nil; nothing here fails.
func MapProperty(p map[string]any) domain.PropertyRecord {
	rec := domain.PropertyRecord{
		ID:           firstIDAlias(p, "id"),
		Title:        firstAlias(p, "title"),
		Description:  firstAlias(p, "description"),
		Status:       normalizeStatus(firstAlias(p, "status")),
		PropertyType: firstAlias(p, "property_type"),
		Bedrooms:     intAlias(p, "bedrooms"),
		Bathrooms:    floatAlias(p, "bathrooms"),
		BuiltArea:    floatAlias(p, "built_area"),
		Price:        floatAlias(p, "price"),
		Currency:     strings.ToUpper(firstAlias(p, "currency")),
		CoverImage:   firstAlias(p, "cover"),
		Gallery:      sliceAlias(p, "gallery"),
		Location: domain.Location{
			Neighborhood: firstAlias(p, "neighborhood"),
			City:         firstAlias(p, "city"),
			Province:     firstAlias(p, "province"),
			Address:      firstAlias(p, "address"),
		},
	}
	if rec.Currency == "" && rec.Price != nil {
		rec.Currency = "USD"
	}
	if rec.CoverImage == "" && len(rec.Gallery) > 0 {
		rec.CoverImage = rec.Gallery[0]
	}
	if lat, lon := floatAlias(p, "lat"), floatAlias(p, "lon"); lat != nil && lon != nil {
		rec.Location.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
	}

	if a := (domain.Agent{
		Name:  firstAlias(p, "agent_name"),
		Email: firstAlias(p, "agent_email"),
		Phone: firstAlias(p, "agent_phone"),
		Photo: firstAlias(p, "agent_photo"),
	}); a != (domain.Agent{}) {
		rec.Agent = &a
	}
	if l := (domain.Legal{
		OwnershipType: firstAlias(p, "ownership"),
		TitleNumber:   firstIDAlias(p, "title_no"),
		Zoning:        firstAlias(p, "zoning"),
	}); l != (domain.Legal{}) {
		rec.Legal = &l
	}
	if _, ok := p["analytics"].(map[string]any); ok || lookupAny(p, "views") != nil {
		rec.Analytics = &domain.Analytics{
			Views:     countAlias(p, "views"),
			Favorites: countAlias(p, "favorites"),
			Inquiries: countAlias(p, "inquiries"),
		}
	}
	return rec
}

/********** page mapper **********/

// MapSearchPage reads the paginated envelope. A missing or malformed results
// field means zero results; a bare JSON array is accepted as the results.
func MapSearchPage(payload any) domain.SearchPage {
	var (
		env  map[string]any
		raw  []any
		page domain.SearchPage
	)
	switch t := payload.(type) {
	case map[string]any:
		env = t
		raw, _ = t["results"].([]any)
	case []any:
		raw = t
	}

	page.Results = make([]domain.PropertyRecord, 0, len(raw))
	for _, it := range raw {
		if m, ok := it.(map[string]any); ok {
			page.Results = append(page.Results, MapProperty(m))
		}
	}

	page.Count = len(page.Results)
	if env != nil {
		if c, ok := env["count"].(float64); ok && int(c) >= page.Count {
			page.Count = int(c)
		}
		if s, ok := env["next"].(string); ok && s != "" {
			page.Next = &s
		}
		if s, ok := env["previous"].(string); ok && s != "" {
			page.Previous = &s
		}
	}
	return page
}
