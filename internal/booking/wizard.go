package booking

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

type Step int

const (
	StepType Step = iota
	StepPersonal
	StepDateTime
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepType:
		return "type"
	case StepPersonal:
		return "personal"
	case StepDateTime:
		return "datetime"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

// Key returns the catalog id of the step title.
func (s Step) Key() string { return "booking.steps." + s.String() }

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
	StatusFailed     Status = "failed"
)

var (
	ErrSubmitting      = errors.New("booking: submission in progress")
	ErrSubmitted       = errors.New("booking: already submitted")
	ErrSlotUnavailable = errors.New("booking: time slot unavailable")
	ErrUnknownOption   = errors.New("booking: unknown option")
)

type Option func(*Wizard)

// WithClock overrides time.Now, used for date options and validation.
func WithClock(now func() time.Time) Option { return func(w *Wizard) { w.now = now } }

func WithTranslator(tr domain.Translator, lang string) Option {
	return func(w *Wizard) { w.tr, w.lang = tr, lang }
}

func WithLogger(l zerolog.Logger) Option { return func(w *Wizard) { w.log = l } }

// Wizard is the four-step consultation booking flow. It is safe for
// concurrent use; Next releases the lock while the submitter runs.
type Wizard struct {
	mu sync.Mutex

	svc  domain.BookingService
	tr   domain.Translator
	lang string
	now  func() time.Time
	log  zerolog.Logger

	step      Step
	form      domain.BookingRequest
	errs      map[string]string
	status    Status
	submitErr string
	conf      *domain.BookingConfirmation
	epoch     uint64 // bumped by Reset; stale submissions are dropped
}

func NewWizard(svc domain.BookingService, opts ...Option) *Wizard {
	w := &Wizard{
		svc:    svc,
		tr:     keyTranslator{},
		lang:   "en",
		now:    time.Now,
		log:    zerolog.Nop(),
		errs:   map[string]string{},
		status: StatusIdle,
	}
	for _, o := range opts {
		o(w)
	}
	w.form.Locale = w.lang
	return w
}

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

func (w *Wizard) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Form returns a copy of the collected data.
func (w *Wizard) Form() domain.BookingRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// Errors returns a copy of the current field errors.
func (w *Wizard) Errors() map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return copyFields(w.errs)
}

func (w *Wizard) SubmitError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitErr
}

// Confirmation is non-nil once the booking went through.
func (w *Wizard) Confirmation() *domain.BookingConfirmation {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.conf == nil {
		return nil
	}
	c := *w.conf
	return &c
}

// DateOptions are the selectable dates as of the wizard's clock.
func (w *Wizard) DateOptions() []DateOption { return DateOptions(w.now()) }

// edit applies fn to the form unless a submission is running or done,
// and clears the error of the edited field.
func (w *Wizard) edit(field string, fn func(f *domain.BookingRequest) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.status {
	case StatusSubmitting:
		return ErrSubmitting
	case StatusSubmitted:
		return ErrSubmitted
	}
	if err := fn(&w.form); err != nil {
		return err
	}
	delete(w.errs, field)
	return nil
}

func (w *Wizard) SelectType(t string) error {
	return w.edit(FieldConsultationType, func(f *domain.BookingRequest) error {
		if !isConsultationType(t) {
			return ErrUnknownOption
		}
		f.ConsultationType = t
		return nil
	})
}

func (w *Wizard) SetName(s string) error {
	return w.edit(FieldName, func(f *domain.BookingRequest) error { f.Name = s; return nil })
}

func (w *Wizard) SetEmail(s string) error {
	return w.edit(FieldEmail, func(f *domain.BookingRequest) error { f.Email = strings.TrimSpace(s); return nil })
}

func (w *Wizard) SetPhone(s string) error {
	return w.edit(FieldPhone, func(f *domain.BookingRequest) error { f.Phone = s; return nil })
}

func (w *Wizard) SetNotes(s string) error {
	return w.edit("notes", func(f *domain.BookingRequest) error { f.Notes = s; return nil })
}

// SelectDate accepts only dates offered by DateOptions at call time.
func (w *Wizard) SelectDate(date string) error {
	now := w.now()
	return w.edit(FieldDate, func(f *domain.BookingRequest) error {
		if !inDateWindow(date, now) {
			return ErrUnknownOption
		}
		f.Date = date
		return nil
	})
}

// SelectTimeSlot rejects unavailable slots and leaves the selection unchanged.
func (w *Wizard) SelectTimeSlot(id string) error {
	return w.edit(FieldTimeSlot, func(f *domain.BookingRequest) error {
		s, ok := findSlot(id)
		if !ok {
			return ErrUnknownOption
		}
		if !s.Available {
			return ErrSlotUnavailable
		}
		f.TimeSlot = id
		return nil
	})
}

func (w *Wizard) SelectTimezone(tz string) error {
	return w.edit(FieldTimezone, func(f *domain.BookingRequest) error {
		if !isTimezone(tz) {
			return ErrUnknownOption
		}
		f.Timezone = tz
		return nil
	})
}

func (w *Wizard) SetConsent(v bool) error {
	return w.edit(FieldConsent, func(f *domain.BookingRequest) error { f.Consent = v; return nil })
}

// Next validates the current step. On success it advances, or on the
// last step submits the booking. Guard failures are stored in Errors and
// returned as *domain.ValidationError; the step does not change.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	switch w.status {
	case StatusSubmitting:
		w.mu.Unlock()
		return ErrSubmitting
	case StatusSubmitted:
		w.mu.Unlock()
		return ErrSubmitted
	}

	errs := checkStep(w.step, w.form, w.tr, w.lang)
	w.errs = errs
	if len(errs) > 0 {
		w.mu.Unlock()
		return &domain.ValidationError{Fields: copyFields(errs)}
	}

	if w.step < StepConfirmation {
		from := w.step
		w.step++
		to := w.step
		w.mu.Unlock()
		w.transition(from.String(), to.String())
		return nil
	}

	w.setStatus(StatusSubmitting)
	w.submitErr = ""
	req, epoch := w.form, w.epoch
	w.mu.Unlock()

	conf, err := w.svc.Submit(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.epoch != epoch {
		w.log.Debug().Msg("booking: dropping result of a reset wizard")
		return nil
	}
	if err != nil {
		w.setStatus(StatusFailed)
		w.submitErr = w.tr.T(w.lang, "booking.errors.submitFailed")
		w.log.Warn().Err(err).Str("type", req.ConsultationType).Msg("booking submission failed")
		return err
	}
	w.setStatus(StatusSubmitted)
	w.conf = &conf
	w.log.Info().Str("reference", conf.Reference).Msg("booking submitted")
	return nil
}

// Previous moves back one step without validating. It is a no-op on the
// first step and while a submission is running.
func (w *Wizard) Previous() {
	w.mu.Lock()
	if w.step == StepType || w.status == StatusSubmitting || w.status == StatusSubmitted {
		w.mu.Unlock()
		return
	}
	from := w.step
	w.step--
	to := w.step
	w.errs = map[string]string{}
	w.mu.Unlock()
	w.transition(from.String(), to.String())
}

// Reset discards all input and returns to the first step.
func (w *Wizard) Reset() {
	w.mu.Lock()
	from := w.step.String()
	w.epoch++
	w.step = StepType
	w.form = domain.BookingRequest{Locale: w.lang}
	w.errs = map[string]string{}
	w.status = StatusIdle
	w.submitErr = ""
	w.conf = nil
	w.mu.Unlock()
	w.transition(from, StepType.String())
}

// setStatus must be called with mu held.
func (w *Wizard) setStatus(s Status) {
	observability.ObserveBookingTransition(string(w.status), string(s))
	w.status = s
}

func (w *Wizard) transition(from, to string) {
	observability.ObserveBookingTransition(from, to)
	w.log.Debug().Str("from", from).Str("to", to).Msg("booking step")
}

func copyFields(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
