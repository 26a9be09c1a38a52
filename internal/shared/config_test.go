package shared

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	c := FromEnv(func(string) string { return "" })
	if c.HTTPAddr != ":8080" || c.ListingRPS != 10 || c.CacheTTL != 5*time.Minute {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if len(c.WarmCities) != 5 || c.WarmCities[0] != "Panama City" {
		t.Fatalf("warm cities: %v", c.WarmCities)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	vals := map[string]string{
		"APP_ENV":           "dev",
		"LISTING_RPS":       "notanumber",
		"CACHE_TTL_SECONDS": "60",
		"CORS_ORIGINS":      " https://a.example , ,https://b.example",
		"SITE_URL":          "https://staging.example/",
	}
	c := FromEnv(func(k string) string { return vals[k] })
	if c.AppEnv != "dev" || c.ListingRPS != 10 || c.CacheTTL != time.Minute {
		t.Fatalf("unexpected config: %+v", c)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("cors origins: %v", c.CORSOrigins)
	}
	if c.SiteURL != "https://staging.example" {
		t.Fatalf("site url: %q", c.SiteURL)
	}
}
