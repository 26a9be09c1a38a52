package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeBFF(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestSearchCommand(t *testing.T) {
	isolate(t)
	var gotQuery string
	base := fakeBFF(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/properties" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"count":1,"results":[{"id":"p1","title":"Highland Cabin","status":"for-sale","price":250000,"location":{"city":"Boquete"}}]}`))
	})

	out, err := executeCommand("search", "--server", base, "--city", "Boquete", "--bedrooms", "3")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotQuery != "bedrooms=3&city=Boquete" {
		t.Errorf("query = %q", gotQuery)
	}
	for _, want := range []string{"Highland Cabin", "USD 250,000", "For sale", "https://panamagoldenkey.com/properties?bedrooms=3&city=Boquete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchCommandFromSharedURL(t *testing.T) {
	isolate(t)
	var gotQuery string
	base := fakeBFF(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
	})

	out, err := executeCommand("search", "--server", base, "--format", "json", "--max-price", "100000",
		"https://panamagoldenkey.com/properties?max_price=300000&min_price=500000&utm_source=x")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// flag overrides the URL, then the bounds are reordered
	if gotQuery != "max_price=500000&min_price=100000" {
		t.Errorf("query = %q", gotQuery)
	}
	var body struct {
		URL        string `json:"url"`
		Properties []any  `json:"properties"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if !strings.HasSuffix(body.URL, "/properties?max_price=500000&min_price=100000") || body.Properties == nil {
		t.Errorf("body = %+v", body)
	}
}

func TestSearchCommandUpstreamError(t *testing.T) {
	isolate(t)
	base := fakeBFF(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"title":"Listing service unavailable","status":502}`))
	})
	_, err := executeCommand("search", "--server", base)
	if err == nil || !strings.Contains(err.Error(), "Listing service unavailable") {
		t.Fatalf("err = %v", err)
	}
}

func TestQueryFromArg(t *testing.T) {
	for _, in := range []string{"https://x.test/properties?city=Coronado", "?city=Coronado", "city=Coronado"} {
		q, err := queryFromArg(in)
		if err != nil || q.Get("city") != "Coronado" {
			t.Errorf("queryFromArg(%q) = %v, %v", in, q, err)
		}
	}
}
