package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Field names used as keys of the errors map.
const (
	FieldConsultationType = "consultationType"
	FieldName             = "name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldDate             = "date"
	FieldTimeSlot         = "timeSlot"
	FieldTimezone         = "timezone"
	FieldConsent          = "consent"
)

type keyTranslator struct{}

func (keyTranslator) T(_, key string) string { return key }

// checkStep evaluates the guard of one step.
func checkStep(step Step, f domain.BookingRequest, tr domain.Translator, lang string) map[string]string {
	errs := map[string]string{}
	fail := func(field, key string) { errs[field] = tr.T(lang, "booking.errors."+key) }

	switch step {
	case StepType:
		if !isConsultationType(f.ConsultationType) {
			fail(FieldConsultationType, "consultationTypeRequired")
		}
	case StepPersonal:
		if strings.TrimSpace(f.Name) == "" {
			fail(FieldName, "nameRequired")
		}
		if !emailRe.MatchString(strings.TrimSpace(f.Email)) {
			fail(FieldEmail, "emailInvalid")
		}
		if strings.TrimSpace(f.Phone) == "" {
			fail(FieldPhone, "phoneRequired")
		}
	case StepDateTime:
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			fail(FieldDate, "dateRequired")
		}
		if s, ok := findSlot(f.TimeSlot); !ok || !s.Available {
			fail(FieldTimeSlot, "timeSlotRequired")
		}
		if !isTimezone(f.Timezone) {
			fail(FieldTimezone, "timezoneRequired")
		}
	case StepConfirmation:
		if !f.Consent {
			fail(FieldConsent, "consentRequired")
		}
	}
	return errs
}

// Validate runs every step guard over a complete request, plus the date
// window check. An empty map means the request can be submitted.
func Validate(f domain.BookingRequest, now time.Time, tr domain.Translator, lang string) map[string]string {
	if tr == nil {
		tr = keyTranslator{}
	}
	errs := map[string]string{}
	for s := StepType; s <= StepConfirmation; s++ {
		for k, v := range checkStep(s, f, tr, lang) {
			errs[k] = v
		}
	}
	if _, bad := errs[FieldDate]; !bad && !inDateWindow(f.Date, now) {
		errs[FieldDate] = tr.T(lang, "booking.errors.dateRequired")
	}
	return errs
}
