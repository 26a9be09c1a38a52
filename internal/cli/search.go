package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/app"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/render"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

type searchOutput struct {
	URL string `json:"url"`
	app.SearchState
}

func newSearchCmd() *cobra.Command {
	var (
		text, city, ptype   string
		minPrice, maxPrice  float64
		bedrooms, bathrooms int
	)

	cmd := &cobra.Command{
		Use:   "search [shared-url-or-query]",
		Short: "Search property listings",
		Long: `Search property listings. Filters may come from flags or from a shared
results URL (or its query string); flags win over the URL.`,
		Example: `  gk search --city "Panama City" --bedrooms 3
  gk search "https://panamagoldenkey.com/properties?city=Boquete&max_price=300000"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			initial := url.Values{}
			if len(args) == 1 {
				q, err := queryFromArg(args[0])
				if err != nil {
					return err
				}
				initial = q
			}
			fl := cmd.Flags()
			set := func(name, param, v string) {
				if fl.Changed(name) {
					initial.Set(param, v)
				}
			}
			set("q", search.ParamSearch, text)
			set("city", search.ParamCity, city)
			set("type", search.ParamPropertyType, ptype)
			set("min-price", search.ParamMinPrice, strconv.FormatFloat(minPrice, 'f', -1, 64))
			set("max-price", search.ParamMaxPrice, strconv.FormatFloat(maxPrice, 'f', -1, 64))
			set("bedrooms", search.ParamBedrooms, strconv.Itoa(bedrooms))
			set("bathrooms", search.ParamBathrooms, strconv.Itoa(bathrooms))

			c, err := newAPIClient()
			if err != nil {
				return err
			}
			lang := getLocale()
			loc := search.NewURLState(initial.Encode())
			o := app.NewSearchOrchestrator(c, loc, observability.NewConsoleLogger(cmd.ErrOrStderr(), "error"), initial)
			st := o.Refresh(cmd.Context())
			if st.Error != "" {
				return fmt.Errorf("search failed: %s", st.Error)
			}

			share := getSiteURL() + "/properties"
			if st.Query != "" {
				share += "?" + st.Query
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), searchOutput{URL: share, SearchState: st})
			}
			if err := printPropertyTable(cmd.OutOrStdout(), render.List(st.Properties, catalog, lang), lang); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d total  %s\n", st.Total, share)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "q", "", "free-text search")
	cmd.Flags().StringVar(&city, "city", "", "city")
	cmd.Flags().StringVar(&ptype, "type", "", "property type")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "maximum price")
	cmd.Flags().IntVar(&bedrooms, "bedrooms", 0, "minimum bedrooms")
	cmd.Flags().IntVar(&bathrooms, "bathrooms", 0, "minimum bathrooms")

	return cmd
}

// queryFromArg accepts a full results URL, "?a=b" or "a=b".
func queryFromArg(s string) (url.Values, error) {
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", s, err)
		}
		return u.Query(), nil
	}
	q, err := url.ParseQuery(strings.TrimPrefix(s, "?"))
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", s, err)
	}
	return q, nil
}
