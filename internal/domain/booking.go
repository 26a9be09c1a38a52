package domain

import "time"

// BookingRequest is the data collected by the booking wizard.
type BookingRequest struct {
	ConsultationType string `json:"consultation_type"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Date             string `json:"date"` // YYYY-MM-DD
	TimeSlot         string `json:"time_slot"`
	Timezone         string `json:"timezone"`
	Notes            string `json:"notes,omitempty"`
	Consent          bool   `json:"consent"`
	Locale           string `json:"locale,omitempty"`
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a persisted consultation request.
type Booking struct {
	Reference string         `json:"reference"`
	Request   BookingRequest `json:"request"`
	Status    BookingStatus  `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

// BookingConfirmation is what a BookingService returns on success.
type BookingConfirmation struct {
	Reference string        `json:"reference"`
	Status    BookingStatus `json:"status"`
}
