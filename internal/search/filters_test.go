package search_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		f    domain.SearchFilters
	}{
		{"search only", domain.SearchFilters{Search: "ocean view"}},
		{"price bounds", domain.SearchFilters{MinPrice: pfloat(150000), MaxPrice: pfloat(425000.5)}},
		{"zero min", domain.SearchFilters{MinPrice: pfloat(0)}},
		{"counts", domain.SearchFilters{Bedrooms: pint(3), Bathrooms: pint(2)}},
		{"type", domain.SearchFilters{PropertyTypes: []string{"apartment"}}},
		{"city with space", domain.SearchFilters{City: "Panama City"}},
		{"everything", domain.SearchFilters{
			Search: "casco & viejo", MinPrice: pfloat(1), MaxPrice: pfloat(2),
			Bedrooms: pint(1), Bathrooms: pint(1), PropertyTypes: []string{"house"}, City: "Boquete",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.Parse(search.Values(tt.f))
			if diff := cmp.Diff(tt.f, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
			fromRaw, err := search.ParseQuery("?" + search.Encode(tt.f))
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			if diff := cmp.Diff(tt.f, fromRaw); diff != "" {
				t.Fatalf("raw round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_ExactParams(t *testing.T) {
	got := search.Encode(domain.SearchFilters{Bedrooms: pint(3), City: "Panama City"})
	if got != "bedrooms=3&city=Panama+City" {
		t.Fatalf("Encode = %q", got)
	}
}

func TestEncode_EmptyFilters(t *testing.T) {
	if got := search.Encode(domain.SearchFilters{}); got != "" {
		t.Fatalf("empty filters should encode to empty query, got %q", got)
	}
	if got := search.Encode(domain.SearchFilters{Search: "   ", City: ""}); got != "" {
		t.Fatalf("blank strings should be dropped, got %q", got)
	}
}

func TestParse_IgnoresUnknownAndInvalid(t *testing.T) {
	q := url.Values{
		"utm_source":    {"newsletter"},
		"bedrooms":      {"three"},
		"bathrooms":     {"2+"},
		"min_price":     {"NaN"},
		"max_price":     {""},
		"city":          {"  David "},
		"locale":        {"es"},
		"property_type": {"", "condo", "house"},
	}
	want := domain.SearchFilters{Bathrooms: pint(2), City: "David", PropertyTypes: []string{"condo"}}
	if diff := cmp.Diff(want, search.Parse(q)); diff != "" {
		t.Fatalf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	got := search.Normalize(domain.SearchFilters{
		MinPrice:      pfloat(500000),
		MaxPrice:      pfloat(100000),
		Bedrooms:      pint(-1),
		PropertyTypes: []string{" land ", "house"},
	})
	want := domain.SearchFilters{
		MinPrice:      pfloat(100000),
		MaxPrice:      pfloat(500000),
		PropertyTypes: []string{"land"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize mismatch (-want +got):\n%s", diff)
	}
	if len(got.PropertyTypes) > 1 {
		t.Fatalf("single-select invariant violated: %v", got.PropertyTypes)
	}
}

func TestURLState(t *testing.T) {
	u := search.NewURLState("?city=David")
	if u.Query() != "city=David" {
		t.Fatalf("initial query = %q", u.Query())
	}
	u.Replace("bedrooms=2")
	if u.Query() != "bedrooms=2" || u.Replacements() != 1 {
		t.Fatalf("after replace: %q (%d)", u.Query(), u.Replacements())
	}
}
