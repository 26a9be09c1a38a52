package i18n_test

import (
	"testing"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
)

func TestCatalog_T(t *testing.T) {
	c := i18n.MustLoad()

	tests := []struct {
		lang, key, want string
	}{
		{"en", "booking.errors.nameRequired", "Name is required"},
		{"es", "booking.errors.nameRequired", "El nombre es obligatorio"},
		{"es-PA", "properties.status.for-rent", "En alquiler"},
		{"fr", "booking.errors.submitFailed", "Nous n'avons pas pu réserver votre consultation. Veuillez réessayer."},
		{"de", "errors.notFound", "Not found"},
		{"en", "no.such.key", "no.such.key"},
	}
	for _, tt := range tests {
		if got := c.T(tt.lang, tt.key); got != tt.want {
			t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
		}
	}
}

func TestCatalog_Negotiate(t *testing.T) {
	c := i18n.MustLoad()
	tests := map[string]string{
		"":                        "en",
		"es-PA,es;q=0.9,en;q=0.8": "es",
		"fr-CA":                   "fr",
		"de-DE,de;q=0.9":          "en",
		"zh-CN":                   "en",
	}
	for in, want := range tests {
		if got := c.Negotiate(in); got != want {
			t.Errorf("Negotiate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCatalog_Format(t *testing.T) {
	c := i18n.MustLoad()
	got := c.Format("en", "booking.submitted", map[string]string{"reference": "GK-1"})
	if got != "Your consultation is booked. Reference: GK-1" {
		t.Fatalf("Format = %q", got)
	}
}

func TestLanguages_DefaultFirst(t *testing.T) {
	ls := i18n.MustLoad().Languages()
	if len(ls) != 3 || ls[0] != "en" {
		t.Fatalf("languages: %v", ls)
	}
}

func TestPrinter_GroupsThousands(t *testing.T) {
	if got := i18n.Printer("en").Sprintf("%d", 1250000); got != "1,250,000" {
		t.Fatalf("en printer = %q", got)
	}
}
