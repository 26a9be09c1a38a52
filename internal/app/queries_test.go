package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/app"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

// ---- fakes ----

type fakeAPI struct {
	mu       sync.Mutex
	page     domain.SearchPage
	prop     domain.PropertyRecord
	err      error
	searches atomic.Int32
	gets     atomic.Int32
	langs    []string
	filters  []domain.SearchFilters
}

func (f *fakeAPI) Search(ctx context.Context, sf domain.SearchFilters) (domain.SearchPage, error) {
	f.searches.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.langs = append(f.langs, domain.LanguageFrom(ctx))
	f.filters = append(f.filters, sf)
	return f.page, f.err
}

func (f *fakeAPI) GetProperty(ctx context.Context, id string) (domain.PropertyRecord, error) {
	f.gets.Add(1)
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prop, f.err
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.SearchPage:
		*d = v.(domain.SearchPage)
	case *domain.PropertyRecord:
		*d = v.(domain.PropertyRecord)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// ---- tests ----

func TestSearch_CacheMissThenHit(t *testing.T) {
	api := &fakeAPI{page: domain.SearchPage{Count: 1, Results: []domain.PropertyRecord{{ID: "p1", Title: "Casco Loft"}}}}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, 10*time.Minute)
	f := domain.SearchFilters{City: "Panama City", Bedrooms: ptr(2)}

	out, err := q.Search(context.Background(), f, "es")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Title != "Casco Loft" {
		t.Fatalf("unexpected page: %+v", out)
	}
	if api.langs[0] != "es" {
		t.Fatalf("language not propagated: %v", api.langs)
	}
	if _, ok := cache.store["search:es:bedrooms=2&city=Panama+City"]; !ok {
		t.Fatalf("cache keys: %v", cache.store)
	}

	// mutate upstream; second read must come from cache
	api.page = domain.SearchPage{Results: []domain.PropertyRecord{{ID: "p1", Title: "SHOULD NOT SEE THIS"}}}
	out2, _ := q.Search(context.Background(), f, "es")
	if out2.Results[0].Title != "Casco Loft" {
		t.Fatalf("expected cached result, got %+v", out2)
	}
	if api.searches.Load() != 1 {
		t.Fatalf("upstream calls = %d", api.searches.Load())
	}
}

func TestSearch_NormalizesBeforeKeying(t *testing.T) {
	api := &fakeAPI{}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, time.Minute)

	_, _ = q.Search(context.Background(), domain.SearchFilters{City: "  Boquete "}, "en")
	_, _ = q.Search(context.Background(), domain.SearchFilters{City: "Boquete"}, "en")
	if n := api.searches.Load(); n != 1 {
		t.Fatalf("upstream calls = %d, want 1", n)
	}
	if api.filters[0].City != "Boquete" {
		t.Fatalf("filters not normalized: %+v", api.filters[0])
	}
}

func TestSearch_ErrorNotCached(t *testing.T) {
	api := &fakeAPI{err: errors.New("upstream 503")}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, time.Minute)

	if _, err := q.Search(context.Background(), domain.SearchFilters{}, "en"); err == nil {
		t.Fatal("want error")
	}
	if len(cache.store) != 0 {
		t.Fatalf("error cached: %v", cache.store)
	}
}

func TestGetProperty_CacheMissThenHit(t *testing.T) {
	api := &fakeAPI{prop: domain.PropertyRecord{ID: "42", Title: "Villa"}}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, time.Minute)

	for i := 0; i < 3; i++ {
		p, err := q.GetProperty(context.Background(), "42", "fr")
		if err != nil || p.Title != "Villa" {
			t.Fatalf("p=%+v err=%v", p, err)
		}
	}
	if api.gets.Load() != 1 {
		t.Fatalf("upstream gets = %d", api.gets.Load())
	}
	if _, ok := cache.store[app.PropertyKey("fr", "42")]; !ok {
		t.Fatal("property not cached")
	}
}

func TestWarm_OverwritesCache(t *testing.T) {
	api := &fakeAPI{page: domain.SearchPage{Count: 2, Results: make([]domain.PropertyRecord, 2)}}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, time.Minute)
	f := domain.SearchFilters{City: "Coronado"}

	n, err := q.Warm(context.Background(), f, "en")
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if _, ok := cache.store[app.SearchKey("en", f)]; !ok {
		t.Fatal("not warmed")
	}
}

// blockingAPI holds every search until release is closed and fails if the
// fetch context was canceled meanwhile.
type blockingAPI struct {
	fakeAPI
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingAPI) Search(ctx context.Context, sf domain.SearchFilters) (domain.SearchPage, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	if err := ctx.Err(); err != nil {
		return domain.SearchPage{}, err
	}
	return b.fakeAPI.Search(ctx, sf)
}

func TestSearch_FirstCallerCancelDoesNotFailOthers(t *testing.T) {
	api := &blockingAPI{
		fakeAPI: fakeAPI{page: domain.SearchPage{Count: 1, Results: []domain.PropertyRecord{{ID: "p1"}}}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	cache := &fakeCache{}
	q := app.NewQueryService(api, cache, time.Minute)
	f := domain.SearchFilters{City: "Boquete"}

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := q.Search(ctx, f, "en")
		firstErr <- err
	}()
	<-api.started
	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("first caller err = %v", err)
	}

	second := make(chan error, 1)
	var page domain.SearchPage
	go func() {
		var err error
		page, err = q.Search(context.Background(), f, "en")
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(api.release)

	if err := <-second; err != nil {
		t.Fatalf("second caller err = %v", err)
	}
	if len(page.Results) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if n := api.searches.Load(); n != 1 {
		t.Fatalf("upstream calls = %d, want 1", n)
	}
	if _, ok := cache.store[app.SearchKey("en", f)]; !ok {
		t.Fatal("shared fetch not cached")
	}
}

func ptr[T any](v T) *T { return &v }
