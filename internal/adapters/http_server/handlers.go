package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/booking"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/render"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

// PropertyQueries is the read side used by the property routes.
type PropertyQueries interface {
	Search(ctx context.Context, f domain.SearchFilters, lang string) (domain.SearchPage, error)
	GetProperty(ctx context.Context, id, lang string) (domain.PropertyRecord, error)
}

// BookingCommands is the booking side.
type BookingCommands interface {
	domain.BookingService
	Lookup(ctx context.Context, reference string) (domain.Booking, error)
	ListForDate(ctx context.Context, date string, limit int) ([]domain.Booking, error)
	Cancel(ctx context.Context, reference string) error
}

type Handlers struct {
	Q        PropertyQueries
	Bookings BookingCommands
	Lang     Languages
	Now      func() time.Time
	// SiteURL is the public site; when set, search responses carry a
	// shareable results link.
	SiteURL string
}

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

const maxBody = 64 << 10

func (s *Server) MountHandlers(h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1", func(r chi.Router) {
		r.Use(Language(h.Lang))
		r.Get("/properties", h.listProperties)
		r.Get("/properties/map", h.mapProperties)
		r.Get("/properties/{id}", h.getProperty)
		r.Get("/booking/options", h.bookingOptions)
		r.Post("/bookings", h.createBooking)
		r.Get("/bookings", h.listBookings)
		r.Get("/bookings/{reference}", h.getBooking)
		r.Delete("/bookings/{reference}", h.cancelBooking)
	})
}

func langOf(r *http.Request) string {
	if l := domain.LanguageFrom(r.Context()); l != "" {
		return l
	}
	return "en"
}

func (h *Handlers) writeProblem(w http.ResponseWriter, r *http.Request, status int, key, detail string) {
	h.writeProblemFields(w, r, status, key, detail, nil)
}

func (h *Handlers) writeProblemFields(w http.ResponseWriter, r *http.Request, status int, key, detail string, fields map[string]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: h.Lang.T(langOf(r), key), Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses. upstream tells
// whether a non-domain error came from the Listing API (502) or from us (500).
func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error, upstream bool) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeProblemFields(w, r, http.StatusUnprocessableEntity, "errors.validation", "", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		h.writeProblem(w, r, http.StatusNotFound, "errors.notFound", "")
	case errors.Is(err, domain.ErrInvalid):
		h.writeProblem(w, r, http.StatusBadRequest, "errors.badRequest", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.writeProblem(w, r, http.StatusGatewayTimeout, "errors.upstream", "")
	case upstream:
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("listing api error")
		h.writeProblem(w, r, http.StatusBadGateway, "errors.upstream", "")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		h.writeProblem(w, r, http.StatusInternalServerError, "errors.internal", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeCached writes v as JSON with a weak ETag, or 304 when it matches.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

type searchResponse struct {
	Query   string `json:"query"`
	URL     string `json:"url,omitempty"`
	Count   int    `json:"count"`
	Next    string `json:"next,omitempty"`
	Results any    `json:"results"`
}

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	f := search.Parse(r.URL.Query())
	lang := langOf(r)
	page, err := h.Q.Search(r.Context(), f, lang)
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}

	resp := searchResponse{Query: search.Encode(f), Count: page.Count, Results: page.Results}
	if h.SiteURL != "" {
		resp.URL = shareURL(h.SiteURL, resp.Query)
	}
	if page.Next != nil {
		resp.Next = *page.Next
	}
	switch r.URL.Query().Get("view") {
	case "list":
		resp.Results = render.List(page.Results, h.Lang, lang)
	case "grid":
		cols, _ := strconv.Atoi(r.URL.Query().Get("cols"))
		if cols <= 0 {
			cols = 3
		}
		resp.Results = render.Grid(page.Results, cols, h.Lang, lang)
	}
	writeCached(w, r, resp)
}

// shareURL is the public results page for an encoded query.
func shareURL(site, query string) string {
	u := strings.TrimRight(site, "/") + "/properties"
	if query != "" {
		u += "?" + query
	}
	return u
}

func (h *Handlers) mapProperties(w http.ResponseWriter, r *http.Request) {
	precision := 5
	if ps := r.URL.Query().Get("precision"); ps != "" {
		p, err := strconv.Atoi(ps)
		if err != nil || p < 1 || p > 12 {
			h.writeProblem(w, r, http.StatusBadRequest, "errors.badRequest", "precision must be an integer between 1 and 12")
			return
		}
		precision = p
	}
	f := search.Parse(r.URL.Query())
	page, err := h.Q.Search(r.Context(), f, langOf(r))
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}
	writeCached(w, r, map[string]any{
		"query":    search.Encode(f),
		"clusters": render.Map(page.Results, uint(precision)),
	})
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		h.writeProblem(w, r, http.StatusBadRequest, "errors.badRequest", "missing property id")
		return
	}
	rec, err := h.Q.GetProperty(r.Context(), id, langOf(r))
	if err != nil {
		h.writeError(w, r, err, true)
		return
	}
	writeCached(w, r, rec)
}

type option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

func (h *Handlers) bookingOptions(w http.ResponseWriter, r *http.Request) {
	lang := langOf(r)
	types := make([]option, 0, len(booking.ConsultationTypes))
	for _, t := range booking.ConsultationTypes {
		types = append(types, option{ID: t, Label: h.Lang.T(lang, "booking.types."+t)})
	}
	steps := make([]option, 0, 4)
	for s := booking.StepType; s <= booking.StepConfirmation; s++ {
		steps = append(steps, option{ID: s.String(), Label: h.Lang.T(lang, s.Key())})
	}
	writeCached(w, r, map[string]any{
		"steps":     steps,
		"types":     types,
		"slots":     booking.TimeSlots,
		"timezones": booking.Timezones,
		"dates":     booking.DateOptions(h.Now()),
	})
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
	if err != nil {
		h.writeProblem(w, r, http.StatusRequestEntityTooLarge, "errors.badRequest", "body too large")
		return
	}
	var req domain.BookingRequest
	if err := decodeValidated(bookingSchema, body, &req); err != nil {
		h.writeProblem(w, r, http.StatusBadRequest, "errors.badRequest", err.Error())
		return
	}
	if req.Locale == "" {
		req.Locale = langOf(r)
	}

	conf, err := h.Bookings.Submit(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err, false)
		return
	}
	out, _ := json.Marshal(map[string]any{
		"reference": conf.Reference,
		"status":    conf.Status,
		"message":   h.Lang.Format(req.Locale, "booking.submitted", map[string]string{"reference": conf.Reference}),
	})
	w.Header().Set("Location", "/v1/bookings/"+conf.Reference)
	writeJSON(w, http.StatusCreated, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.Bookings.Lookup(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		h.writeError(w, r, err, false)
		return
	}
	writeCached(w, r, b)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 500 {
			h.writeProblem(w, r, http.StatusBadRequest, "errors.badRequest", "limit must be an integer between 1 and 500")
			return
		}
		limit = l
	}
	list, err := h.Bookings.ListForDate(r.Context(), r.URL.Query().Get("date"), limit)
	if err != nil {
		h.writeError(w, r, err, false)
		return
	}
	writeCached(w, r, map[string]any{"count": len(list), "results": list})
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	if err := h.Bookings.Cancel(r.Context(), chi.URLParam(r, "reference")); err != nil {
		h.writeError(w, r, err, false)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
