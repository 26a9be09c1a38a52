// Package booking implements the consultation booking wizard.
package booking

import "time"

// ConsultationTypes is the fixed list offered on the first step.
var ConsultationTypes = []string{
	"property-purchase",
	"property-rental",
	"residency-visa",
	"investment",
	"accounting-tax",
	"relocation",
}

type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// TimeSlots is static; a few slots are always shown as taken.
var TimeSlots = []TimeSlot{
	{ID: "09:00", Label: "9:00 AM", Available: true},
	{ID: "10:00", Label: "10:00 AM", Available: true},
	{ID: "11:00", Label: "11:00 AM", Available: false},
	{ID: "12:00", Label: "12:00 PM", Available: true},
	{ID: "14:00", Label: "2:00 PM", Available: true},
	{ID: "15:00", Label: "3:00 PM", Available: false},
	{ID: "16:00", Label: "4:00 PM", Available: true},
	{ID: "17:00", Label: "5:00 PM", Available: true},
}

var Timezones = []string{
	"America/Panama",
	"America/New_York",
	"America/Chicago",
	"America/Los_Angeles",
	"America/Bogota",
	"America/Toronto",
	"Europe/Madrid",
	"Europe/London",
	"Europe/Paris",
}

// DateWindow is how many calendar days ahead a consultation can be booked.
const DateWindow = 14

const dateLayout = "2006-01-02"

type DateOption struct {
	Value   string       `json:"value"` // YYYY-MM-DD
	Weekday time.Weekday `json:"weekday"`
}

// DateOptions returns the next DateWindow calendar days after now's date.
// Nothing is cached; every call recomputes "today".
func DateOptions(now time.Time) []DateOption {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	out := make([]DateOption, 0, DateWindow)
	for i := 1; i <= DateWindow; i++ {
		day := today.AddDate(0, 0, i)
		out = append(out, DateOption{Value: day.Format(dateLayout), Weekday: day.Weekday()})
	}
	return out
}

func isConsultationType(s string) bool {
	for _, t := range ConsultationTypes {
		if t == s {
			return true
		}
	}
	return false
}

func findSlot(id string) (TimeSlot, bool) {
	for _, s := range TimeSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

func isTimezone(s string) bool {
	for _, tz := range Timezones {
		if tz == s {
			return true
		}
	}
	return false
}

func inDateWindow(date string, now time.Time) bool {
	for _, o := range DateOptions(now) {
		if o.Value == date {
			return true
		}
	}
	return false
}
