package app

import (
	"context"
	"net/url"
	"sync"

	"github.com/rs/zerolog"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

// SearchState is what the results page renders.
type SearchState struct {
	Filters    domain.SearchFilters    `json:"filters"`
	Query      string                  `json:"query"`
	Properties []domain.PropertyRecord `json:"properties"`
	Total      int                     `json:"total"`
	Loading    bool                    `json:"loading"`
	Error      string                  `json:"error,omitempty"`
	Generation uint64                  `json:"generation"`
}

// SearchOrchestrator keeps filters, the URL and the result list in sync.
// Only the response of the most recent request may update the state.
type SearchOrchestrator struct {
	api domain.ListingAPI
	url domain.URLReplacer
	log zerolog.Logger

	mu     sync.Mutex
	state  SearchState
	cancel context.CancelFunc
}

func NewSearchOrchestrator(api domain.ListingAPI, u domain.URLReplacer, log zerolog.Logger, initial url.Values) *SearchOrchestrator {
	f := search.Parse(initial)
	return &SearchOrchestrator{
		api: api,
		url: u,
		log: log,
		state: SearchState{
			Filters:    f,
			Query:      search.Encode(f),
			Properties: []domain.PropertyRecord{},
		},
	}
}

// State returns a snapshot; the Properties slice is copied.
func (o *SearchOrchestrator) State() SearchState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

func (o *SearchOrchestrator) snapshot() SearchState {
	s := o.state
	s.Properties = make([]domain.PropertyRecord, len(o.state.Properties))
	copy(s.Properties, o.state.Properties)
	return s
}

// Apply replaces the filters, syncs the URL and runs a search.
func (o *SearchOrchestrator) Apply(ctx context.Context, f domain.SearchFilters) SearchState {
	return o.run(ctx, search.Normalize(f))
}

// Clear resets every filter and searches without parameters.
func (o *SearchOrchestrator) Clear(ctx context.Context) SearchState {
	return o.run(ctx, domain.SearchFilters{})
}

// Refresh re-runs the current filters.
func (o *SearchOrchestrator) Refresh(ctx context.Context) SearchState {
	o.mu.Lock()
	f := o.state.Filters
	o.mu.Unlock()
	return o.run(ctx, f)
}

func (o *SearchOrchestrator) run(ctx context.Context, f domain.SearchFilters) SearchState {
	q := search.Encode(f)

	o.mu.Lock()
	if q != o.state.Query {
		o.url.Replace(q)
	}
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.state.Generation++
	gen := o.state.Generation
	o.state.Filters = f
	o.state.Query = q
	o.state.Loading = true
	o.state.Error = ""
	o.mu.Unlock()

	page, err := o.api.Search(ctx, f)

	o.mu.Lock()
	defer o.mu.Unlock()
	cancel()
	if gen != o.state.Generation {
		observability.ObserveSearch("stale")
		o.log.Debug().Uint64("gen", gen).Uint64("current", o.state.Generation).Msg("search: discarding stale response")
		return o.snapshot()
	}
	o.cancel = nil
	o.state.Loading = false
	if err != nil {
		observability.ObserveSearch("error")
		o.log.Warn().Err(err).Str("query", q).Msg("search failed")
		o.state.Error = err.Error()
		return o.snapshot()
	}
	observability.ObserveSearch("ok")
	if page.Results == nil {
		page.Results = []domain.PropertyRecord{}
	}
	o.state.Properties = page.Results
	o.state.Total = page.Count
	return o.snapshot()
}

// Fetch loads one property for the detail view.
func (o *SearchOrchestrator) Fetch(ctx context.Context, id string) (domain.PropertyRecord, error) {
	p, err := o.api.GetProperty(ctx, id)
	if err != nil {
		o.log.Warn().Err(err).Str("id", id).Msg("property fetch failed")
		return domain.PropertyRecord{}, err
	}
	return p, nil
}
