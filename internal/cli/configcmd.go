package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change CLI settings",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				eff := CLIConfig{ServerURL: getServerURL(), Locale: getLocale(), SiteURL: getSiteURL()}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), eff)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "server: %s\nlocale: %s\nsite:   %s\n", eff.ServerURL, eff.Locale, eff.SiteURL)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-server <url>",
			Short: "Set the API server URL",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				u, err := url.ParseRequestURI(args[0])
				if err != nil || u.Host == "" {
					return fmt.Errorf("invalid server URL %q", args[0])
				}
				return updateConfig(func(c *CLIConfig) { c.ServerURL = strings.TrimRight(args[0], "/") })
			},
		},
		&cobra.Command{
			Use:   "set-locale <lang>",
			Short: "Set the default language (" + strings.Join(catalog.Languages(), "|") + ")",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				lang := catalog.Match(args[0])
				if !strings.HasPrefix(strings.ToLower(args[0]), lang) {
					return fmt.Errorf("unsupported locale %q", args[0])
				}
				return updateConfig(func(c *CLIConfig) { c.Locale = lang })
			},
		},
	)
	return cmd
}

func updateConfig(fn func(*CLIConfig)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fn(&cfg)
	return saveConfig(cfg)
}
