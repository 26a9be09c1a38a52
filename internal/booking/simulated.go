package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

var ErrSimulatedFailure = errors.New("booking: simulated failure")

// SimulatedSubmitter stands in for a booking backend: it waits Delay and
// then either fails or returns a fresh reference.
type SimulatedSubmitter struct {
	Delay time.Duration
	Fail  bool
}

func (s SimulatedSubmitter) Submit(ctx context.Context, _ domain.BookingRequest) (domain.BookingConfirmation, error) {
	if s.Delay > 0 {
		t := time.NewTimer(s.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return domain.BookingConfirmation{}, ctx.Err()
		case <-t.C:
		}
	}
	if s.Fail {
		return domain.BookingConfirmation{}, ErrSimulatedFailure
	}
	return domain.BookingConfirmation{Reference: NewReference(), Status: domain.BookingPending}, nil
}

// NewReference returns a short human-friendly booking reference.
func NewReference() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "GK-" + strings.ToUpper(id[:10])
}
