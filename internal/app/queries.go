package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/search"
)

// sharedFetchTimeout bounds an upstream fetch shared by concurrent callers.
const sharedFetchTimeout = 15 * time.Second

// QueryService is a read-through cache in front of the Listing API.
type QueryService struct {
	api      domain.ListingAPI
	cache    domain.Cache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewQueryService(api domain.ListingAPI, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{api: api, cache: c, cacheTTL: ttl}
}

// SearchKey is the cache key of one filtered search in one locale.
func SearchKey(lang string, f domain.SearchFilters) string {
	return fmt.Sprintf("search:%s:%s", strings.ToLower(lang), search.Encode(f))
}

func PropertyKey(lang, id string) string {
	return fmt.Sprintf("property:%s:%s", strings.ToLower(lang), id)
}

func (s *QueryService) Search(ctx context.Context, f domain.SearchFilters, lang string) (domain.SearchPage, error) {
	f = search.Normalize(f)
	key := SearchKey(lang, f)

	var page domain.SearchPage
	if ok, _ := s.cache.Get(ctx, key, &page); ok {
		return page, nil
	}
	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		p, err := s.api.Search(domain.WithLanguage(ctx, lang), f)
		if err != nil {
			return domain.SearchPage{}, err
		}
		if p.Results == nil {
			p.Results = []domain.PropertyRecord{}
		}
		// large pages are not worth a round trip through redis
		if b, _ := json.Marshal(p); len(b) < 1_000_000 {
			_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
		}
		return p, nil
	})
	if err != nil {
		return domain.SearchPage{}, err
	}
	return copyPage(v.(domain.SearchPage)), nil
}

func (s *QueryService) GetProperty(ctx context.Context, id, lang string) (domain.PropertyRecord, error) {
	key := PropertyKey(lang, id)
	var rec domain.PropertyRecord
	if ok, _ := s.cache.Get(ctx, key, &rec); ok {
		return rec, nil
	}
	v, err := s.shared(ctx, key, func(ctx context.Context) (any, error) {
		r, err := s.api.GetProperty(domain.WithLanguage(ctx, lang), id)
		if err != nil {
			return domain.PropertyRecord{}, err
		}
		_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
		return r, nil
	})
	if err != nil {
		return domain.PropertyRecord{}, err
	}
	return v.(domain.PropertyRecord), nil
}

// shared runs fn once per key for all concurrent callers. The fetch is
// detached from the first caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (s *QueryService) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.sf.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fn(fctx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Warm fetches and caches one search unconditionally.
func (s *QueryService) Warm(ctx context.Context, f domain.SearchFilters, lang string) (int, error) {
	f = search.Normalize(f)
	p, err := s.api.Search(domain.WithLanguage(ctx, lang), f)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, SearchKey(lang, f), p, int(s.cacheTTL.Seconds())); err != nil {
		return 0, err
	}
	return len(p.Results), nil
}

// copyPage detaches the results slice shared between singleflight callers.
func copyPage(in domain.SearchPage) domain.SearchPage {
	out := in
	out.Results = make([]domain.PropertyRecord, len(in.Results))
	copy(out.Results, in.Results)
	return out
}
