package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/booking"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

var fieldOrder = []string{
	booking.FieldConsultationType,
	booking.FieldName, booking.FieldEmail, booking.FieldPhone,
	booking.FieldDate, booking.FieldTimeSlot, booking.FieldTimezone,
	booking.FieldConsent,
}

const dryRunDelay = 500 * time.Millisecond

type bookOptions struct {
	kind, name, email, phone string
	date, slot, timezone     string
	notes                    string
	consent, dryRun          bool
}

func newBookCmd() *cobra.Command {
	var o bookOptions

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a consultation",
		Long: `Book a consultation with an advisor. The booking runs through the same
four steps as the website (type, details, date & time, confirmation) and stops
at the first step whose fields are incomplete.

Run "gk slots" to list the accepted types, dates, slots and timezones.`,
		Example: `  gk book --type investment --name "Ana Ruiz" --email ana@example.com \
    --phone "+507 6000-0000" --date 2026-06-03 --slot 10:00 \
    --timezone America/Panama --consent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var svc domain.BookingService
			if o.dryRun {
				svc = booking.SimulatedSubmitter{Delay: dryRunDelay}
			} else {
				c, err := newAPIClient()
				if err != nil {
					return err
				}
				svc = c
			}
			lang := getLocale()
			w := booking.NewWizard(svc,
				booking.WithTranslator(catalog, lang),
				booking.WithLogger(observability.NewConsoleLogger(cmd.ErrOrStderr(), "error")),
			)
			if err := fill(w, o); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for w.Status() != booking.StatusSubmitted {
				step := w.Step()
				err := w.Next(cmd.Context())
				if err == nil {
					continue
				}
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintf(out, "%s (%d/4):\n", catalog.T(lang, step.Key()), int(step)+1)
					printFieldErrors(out, verr.Fields, fieldOrder)
					return fmt.Errorf("booking incomplete at step %q", step)
				}
				if msg := w.SubmitError(); msg != "" {
					fmt.Fprintln(out, msg)
				}
				return err
			}

			conf := w.Confirmation()
			if isJSON() {
				return printJSON(out, conf)
			}
			fmt.Fprintln(out, catalog.Format(lang, "booking.submitted", map[string]string{"reference": conf.Reference}))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.kind, "type", "", "consultation type")
	f.StringVar(&o.name, "name", "", "your full name")
	f.StringVar(&o.email, "email", "", "email address")
	f.StringVar(&o.phone, "phone", "", "phone number")
	f.StringVar(&o.date, "date", "", "date (YYYY-MM-DD), within the next 14 days")
	f.StringVar(&o.slot, "slot", "", "time slot (HH:MM)")
	f.StringVar(&o.timezone, "timezone", "", "IANA timezone")
	f.StringVar(&o.notes, "notes", "", "anything the advisor should know")
	f.BoolVar(&o.consent, "consent", false, "accept the privacy policy")
	f.BoolVar(&o.dryRun, "dry-run", false, "run every step locally without contacting the server")

	return cmd
}

// fill copies flag values into the wizard. Empty values are left for the
// step guards to report.
func fill(w *booking.Wizard, o bookOptions) error {
	choice := func(flag, v string, set func(string) error) error {
		if v == "" {
			return nil
		}
		err := set(v)
		switch {
		case errors.Is(err, booking.ErrSlotUnavailable):
			return fmt.Errorf("--%s %s: slot is not available", flag, v)
		case errors.Is(err, booking.ErrUnknownOption):
			return fmt.Errorf("--%s %q is not a valid choice (see gk slots)", flag, v)
		}
		return err
	}
	if err := choice("type", strings.TrimSpace(o.kind), w.SelectType); err != nil {
		return err
	}
	if err := choice("date", strings.TrimSpace(o.date), w.SelectDate); err != nil {
		return err
	}
	if err := choice("slot", strings.TrimSpace(o.slot), w.SelectTimeSlot); err != nil {
		return err
	}
	if err := choice("timezone", strings.TrimSpace(o.timezone), w.SelectTimezone); err != nil {
		return err
	}
	for _, set := range []func() error{
		func() error { return w.SetName(o.name) },
		func() error { return w.SetEmail(o.email) },
		func() error { return w.SetPhone(o.phone) },
		func() error { return w.SetNotes(o.notes) },
		func() error { return w.SetConsent(o.consent) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}
