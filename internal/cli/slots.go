package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots",
		Short: "List consultation types, dates and time slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient()
			if err != nil {
				return err
			}
			o, err := c.BookingOptions(cmd.Context())
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(cmd.OutOrStdout(), o)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TYPE\tLABEL")
			for _, t := range o.Types {
				fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Label)
			}
			fmt.Fprintln(w, "\nDATE\tDAY")
			for _, d := range o.Dates {
				fmt.Fprintf(w, "%s\t%s\n", d.Value, d.Weekday)
			}
			fmt.Fprintln(w, "\nSLOT\tTIME\tAVAILABLE")
			for _, s := range o.Slots {
				avail := "yes"
				if !s.Available {
					avail = "no"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Label, avail)
			}
			fmt.Fprintln(w, "\nTIMEZONE")
			for _, tz := range o.Timezones {
				fmt.Fprintln(w, tz)
			}
			return w.Flush()
		},
	}
}
