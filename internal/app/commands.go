package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/booking"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

// BookingService validates a complete booking request and persists it.
type BookingService struct {
	repo domain.BookingRepository
	tr   domain.Translator
	now  func() time.Time
	log  zerolog.Logger
}

func NewBookingService(r domain.BookingRepository, tr domain.Translator, log zerolog.Logger) *BookingService {
	return &BookingService{repo: r, tr: tr, now: time.Now, log: log}
}

// WithClock is used by tests to pin the date window.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

func (s *BookingService) Submit(ctx context.Context, req domain.BookingRequest) (domain.BookingConfirmation, error) {
	if errs := booking.Validate(req, s.now(), s.tr, req.Locale); len(errs) > 0 {
		return domain.BookingConfirmation{}, &domain.ValidationError{Fields: errs}
	}

	b := domain.Booking{
		Reference: booking.NewReference(),
		Request:   req,
		Status:    domain.BookingPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.InsertBooking(ctx, b); err != nil {
		return domain.BookingConfirmation{}, fmt.Errorf("insert booking: %w", err)
	}
	s.log.Info().
		Str("reference", b.Reference).
		Str("type", req.ConsultationType).
		Str("date", req.Date).
		Str("slot", req.TimeSlot).
		Msg("booking stored")
	return domain.BookingConfirmation{Reference: b.Reference, Status: b.Status}, nil
}

// Lookup returns a stored booking by its reference.
func (s *BookingService) Lookup(ctx context.Context, reference string) (domain.Booking, error) {
	return s.repo.GetBooking(ctx, reference)
}

// ListForDate returns the consultations booked on one day.
func (s *BookingService) ListForDate(ctx context.Context, date string, limit int) ([]domain.Booking, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("date %q: %w", date, domain.ErrInvalid)
	}
	return s.repo.ListBookings(ctx, date, limit)
}

// Cancel marks a booking cancelled. Cancelling twice is not an error.
func (s *BookingService) Cancel(ctx context.Context, reference string) error {
	b, err := s.repo.GetBooking(ctx, reference)
	if err != nil {
		return err
	}
	if b.Status == domain.BookingCancelled {
		return nil
	}
	if err := s.repo.UpdateStatus(ctx, reference, domain.BookingCancelled); err != nil {
		return err
	}
	s.log.Info().Str("reference", reference).Str("from", string(b.Status)).Msg("booking cancelled")
	return nil
}
