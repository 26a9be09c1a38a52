// Package cli defines the cobra command tree for gk, the Golden Key
// command-line client.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/client"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
)

var (
	flagFormat string
	flagServer string
	flagLang   string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gk",
		Short:         "Browse Golden Key listings and book consultations",
		Long:          "A command-line client for the Golden Key API. Search property listings, share result URLs and book a consultation with an advisor.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "API server URL (default: config or http://localhost:8080)")
	root.PersistentFlags().StringVar(&flagLang, "lang", "", "language for labels and messages (en|es|fr)")

	root.AddCommand(
		newSearchCmd(),
		newShowCmd(),
		newSlotsCmd(),
		newBookCmd(),
		newBookingCmd(),
		newConfigCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the Golden Key API.
func newAPIClient() (*client.Client, error) {
	return client.New(getServerURL(), client.WithLanguage(getLocale()))
}

var catalog = i18n.MustLoad()

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}
