package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/render"
)

func pf(f float64) *float64 { return &f }
func pi(i int) *int         { return &i }

func sample() []domain.PropertyRecord {
	return []domain.PropertyRecord{
		{
			ID: "1", Title: "Ocean View", Status: domain.StatusForSale,
			Price: pf(1250000), Currency: "USD", Bedrooms: pi(3), Bathrooms: pf(2.5),
			Location: domain.Location{Neighborhood: "Punta Pacifica", City: "Panama City",
				Coords: &domain.Coords{Lat: 8.9775, Lon: -79.5148}},
		},
		{
			ID: "2", Title: "Canal Loft", Status: domain.StatusForRent,
			Location: domain.Location{City: "Panama City", Province: "Panama City",
				Coords: &domain.Coords{Lat: 8.9780, Lon: -79.5150}},
		},
		{
			ID: "3", Title: "Highland Cabin", Status: domain.StatusUnknown,
			Location: domain.Location{City: "Boquete", Coords: &domain.Coords{Lat: 8.7800, Lon: -82.4410}},
		},
		{ID: "4", Title: "No coords", Status: domain.StatusSold, Location: domain.Location{Address: "Calle 50"}},
	}
}

func TestList(t *testing.T) {
	rows := render.List(sample(), i18n.MustLoad(), "en")
	want := []render.Row{
		{ID: "1", Title: "Ocean View", Price: "USD 1,250,000", Rooms: "3 bd · 2.5 ba", Location: "Punta Pacifica, Panama City", Status: "For sale"},
		{ID: "2", Title: "Canal Loft", Price: "Price on request", Location: "Panama City", Status: "For rent"},
		{ID: "3", Title: "Highland Cabin", Price: "Price on request", Location: "Boquete", Status: "Contact us"},
		{ID: "4", Title: "No coords", Price: "Price on request", Location: "Calle 50", Status: "Sold"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_Chunks(t *testing.T) {
	g := render.Grid(sample(), 3, i18n.MustLoad(), "es")
	if len(g) != 2 || len(g[0]) != 3 || len(g[1]) != 1 {
		t.Fatalf("shape: %d rows", len(g))
	}
	if g[0][1].Status != "En alquiler" {
		t.Fatalf("status = %q", g[0][1].Status)
	}
	if len(render.Grid(nil, 3, i18n.MustLoad(), "en")) != 0 {
		t.Fatal("empty input should give no rows")
	}
}

func TestMap_ClustersByPrefix(t *testing.T) {
	cs := render.Map(sample(), 5)
	if len(cs) != 2 {
		t.Fatalf("clusters: %+v", cs)
	}
	var city render.Cluster
	for _, c := range cs {
		if c.Count == 2 {
			city = c
		}
	}
	if city.Count != 2 || len(city.Geohash) != 5 {
		t.Fatalf("city cluster: %+v", city)
	}
	if city.Lat < 8.9775 || city.Lat > 8.9780 {
		t.Fatalf("centroid lat %v", city.Lat)
	}
}

func TestMap_PrecisionClamped(t *testing.T) {
	cs := render.Map(sample(), 0)
	for _, c := range cs {
		if len(c.Geohash) != 1 {
			t.Fatalf("geohash %q", c.Geohash)
		}
	}
}
