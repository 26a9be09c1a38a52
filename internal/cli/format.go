package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/render"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPropertyTable prints rendered rows as a formatted table.
func printPropertyTable(out io.Writer, rows []render.Row, lang string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(out, catalog.T(lang, "properties.noResults"))
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tTITLE\tPRICE\tROOMS\tLOCATION\tSTATUS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-----\t-----\t-----\t--------\t------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, truncate(r.Title, 40), r.Price, dash(r.Rooms), truncate(dash(r.Location), 32), r.Status); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

// printProperty prints a single property in text format.
func printProperty(w io.Writer, p domain.PropertyRecord, lang string) {
	row := render.List([]domain.PropertyRecord{p}, catalog, lang)[0]
	fmt.Fprintf(w, "Property %s\n", p.ID)
	fmt.Fprintf(w, "  Title:     %s\n", p.Title)
	fmt.Fprintf(w, "  Price:     %s\n", row.Price)
	fmt.Fprintf(w, "  Status:    %s\n", row.Status)
	if row.Rooms != "" {
		fmt.Fprintf(w, "  Rooms:     %s\n", row.Rooms)
	}
	if p.PropertyType != "" {
		fmt.Fprintf(w, "  Type:      %s\n", p.PropertyType)
	}
	if p.BuiltArea != nil {
		fmt.Fprintf(w, "  Area:      %s m²\n", i18n.Printer(lang).Sprintf("%d", int64(*p.BuiltArea)))
	}
	if row.Location != "" {
		fmt.Fprintf(w, "  Location:  %s\n", row.Location)
	}
	if p.Agent != nil && p.Agent.Name != "" {
		fmt.Fprintf(w, "  Agent:     %s %s\n", p.Agent.Name, p.Agent.Email)
	}
	if p.Description != "" {
		fmt.Fprintf(w, "\n%s\n", p.Description)
	}
}

// printFieldErrors prints validation messages in a stable order.
func printFieldErrors(w io.Writer, fields map[string]string, order []string) {
	for _, k := range order {
		if msg, ok := fields[k]; ok {
			fmt.Fprintf(w, "  %s: %s\n", k, msg)
		}
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncate shortens s to max runes, adding "..." if truncated.
func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
