package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid request")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

type ListingAPI interface {
	Search(ctx context.Context, f SearchFilters) (SearchPage, error)
	GetProperty(ctx context.Context, id string) (PropertyRecord, error)
}

// URLReplacer is the browser location seen by the search flow. Replace
// overwrites the current query without adding a history entry.
type URLReplacer interface {
	Replace(query string)
}

type BookingService interface {
	Submit(ctx context.Context, req BookingRequest) (BookingConfirmation, error)
}

type BookingRepository interface {
	InsertBooking(ctx context.Context, b Booking) error
	GetBooking(ctx context.Context, reference string) (Booking, error)
	ListBookings(ctx context.Context, date string, limit int) ([]Booking, error)
	UpdateStatus(ctx context.Context, reference string, s BookingStatus) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Translator resolves "namespace.key" message ids for a locale.
type Translator interface {
	T(lang, key string) string
}

type langKey struct{}

// WithLanguage scopes a request to a locale; outbound clients read it back
// with LanguageFrom.
func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func LanguageFrom(ctx context.Context) string {
	l, _ := ctx.Value(langKey{}).(string)
	return l
}
