package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBookingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "booking",
		Short: "Look up or cancel a booking by reference",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <reference>",
			Short: "Show a booking",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newAPIClient()
				if err != nil {
					return err
				}
				b, err := c.GetBooking(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), b)
				}
				lang := getLocale()
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Booking %s (%s)\n", b.Reference, b.Status)
				fmt.Fprintf(out, "  Type:   %s\n", catalog.T(lang, "booking.types."+b.Request.ConsultationType))
				fmt.Fprintf(out, "  When:   %s %s %s\n", b.Request.Date, b.Request.TimeSlot, b.Request.Timezone)
				fmt.Fprintf(out, "  Name:   %s <%s>\n", b.Request.Name, b.Request.Email)
				return nil
			},
		},
		&cobra.Command{
			Use:   "cancel <reference>",
			Short: "Cancel a booking",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := newAPIClient()
				if err != nil {
					return err
				}
				if err := c.CancelBooking(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Booking %s cancelled.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
