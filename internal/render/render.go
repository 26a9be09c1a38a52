// Package render turns property records into list rows, grid cards and
// map clusters. It only formats; nothing here filters or sorts.
package render

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/message"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
)

type Row struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Rooms    string `json:"rooms,omitempty"`
	Location string `json:"location,omitempty"`
	Status   string `json:"status"`
}

type Card struct {
	Row
	Image string `json:"image,omitempty"`
}

type Cluster struct {
	Geohash string   `json:"geohash"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Count   int      `json:"count"`
	IDs     []string `json:"ids"`
}

// List renders one row per record, in input order.
func List(recs []domain.PropertyRecord, tr domain.Translator, lang string) []Row {
	p := i18n.Printer(lang)
	out := make([]Row, 0, len(recs))
	for _, r := range recs {
		out = append(out, row(r, p, tr, lang))
	}
	return out
}

// Grid chunks cards into rows of cols; the last row may be short.
func Grid(recs []domain.PropertyRecord, cols int, tr domain.Translator, lang string) [][]Card {
	if cols < 1 {
		cols = 1
	}
	p := i18n.Printer(lang)
	var out [][]Card
	for i := 0; i < len(recs); i += cols {
		end := min(i+cols, len(recs))
		line := make([]Card, 0, end-i)
		for _, r := range recs[i:end] {
			line = append(line, Card{Row: row(r, p, tr, lang), Image: r.CoverImage})
		}
		out = append(out, line)
	}
	return out
}

// Map groups records with coordinates by geohash prefix of the given
// precision (1..12). Clusters are ordered by geohash.
func Map(recs []domain.PropertyRecord, precision uint) []Cluster {
	precision = max(1, min(precision, 12))
	type acc struct {
		lat, lon float64
		ids      []string
	}
	groups := map[string]*acc{}
	for _, r := range recs {
		c := r.Location.Coords
		if c == nil || !validCoord(c.Lat, c.Lon) {
			continue
		}
		h := geohash.EncodeWithPrecision(c.Lat, c.Lon, precision)
		g, ok := groups[h]
		if !ok {
			g = &acc{}
			groups[h] = g
		}
		g.lat += c.Lat
		g.lon += c.Lon
		g.ids = append(g.ids, r.ID)
	}

	out := make([]Cluster, 0, len(groups))
	for h, g := range groups {
		n := float64(len(g.ids))
		out = append(out, Cluster{Geohash: h, Lat: g.lat / n, Lon: g.lon / n, Count: len(g.ids), IDs: g.ids})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Geohash < out[j].Geohash })
	return out
}

func validCoord(lat, lon float64) bool {
	return !math.IsNaN(lat) && !math.IsNaN(lon) && lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func row(r domain.PropertyRecord, p *message.Printer, tr domain.Translator, lang string) Row {
	return Row{
		ID:       r.ID,
		Title:    r.Title,
		Price:    Price(r, p, tr, lang),
		Rooms:    rooms(r, p, tr, lang),
		Location: location(r.Location),
		Status:   tr.T(lang, "properties.status."+string(r.Status)),
	}
}

// Price formats the asking price with locale grouping, e.g. "USD 1,250,000".
func Price(r domain.PropertyRecord, p *message.Printer, tr domain.Translator, lang string) string {
	if r.Price == nil {
		return tr.T(lang, "properties.priceOnRequest")
	}
	cur := r.Currency
	if cur == "" {
		cur = "USD"
	}
	return cur + " " + p.Sprintf("%d", int64(math.Round(*r.Price)))
}

func rooms(r domain.PropertyRecord, p *message.Printer, tr domain.Translator, lang string) string {
	var parts []string
	if r.Bedrooms != nil {
		parts = append(parts, p.Sprintf("%d %s", *r.Bedrooms, tr.T(lang, "properties.beds")))
	}
	if r.Bathrooms != nil {
		parts = append(parts, strconv.FormatFloat(*r.Bathrooms, 'f', -1, 64)+" "+tr.T(lang, "properties.baths"))
	}
	return strings.Join(parts, " · ")
}

func location(l domain.Location) string {
	var parts []string
	for _, s := range []string{l.Neighborhood, l.City, l.Province} {
		if s != "" && (len(parts) == 0 || parts[len(parts)-1] != s) {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return l.Address
	}
	return strings.Join(parts, ", ")
}
