package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/render"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"Pedasí beach house", 9, "Pedasí..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.input, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
		}
	}
}

func TestPrintPropertyTable(t *testing.T) {
	var buf bytes.Buffer
	rows := []render.Row{{ID: "p1", Title: "Ocean View", Price: "USD 450,000", Status: "For sale"}}
	if err := printPropertyTable(&buf, rows, "en"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "TITLE") || !strings.Contains(out, "Ocean View") || !strings.Contains(out, "USD 450,000") {
		t.Errorf("table = %q", out)
	}
}

func TestPrintPropertyTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printPropertyTable(&buf, nil, "es"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != catalog.T("es", "properties.noResults") {
		t.Errorf("out = %q", buf.String())
	}
}
