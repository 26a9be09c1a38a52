package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

// presetBedrooms are the bedroom minimums warmed per city; nil is "any".
var presetBedrooms = []*int{nil, intp(2), intp(3)}

func intp(v int) *int { return &v }

// Presets returns the unfiltered search plus one search per city and
// bedroom minimum.
func Presets(cities []string) []domain.SearchFilters {
	out := []domain.SearchFilters{{}}
	for _, c := range cities {
		for _, b := range presetBedrooms {
			out = append(out, domain.SearchFilters{City: c, Bedrooms: b})
		}
	}
	return out
}

type Warmer interface {
	Warm(ctx context.Context, f domain.SearchFilters, lang string) (int, error)
}

type WarmReport struct {
	OK      int64
	Failed  int64
	Records int64
}

// WarmAll warms every preset in every language with at most workers
// requests in flight. Individual failures are logged and counted.
func WarmAll(ctx context.Context, w Warmer, presets []domain.SearchFilters, langs []string, workers int, log zerolog.Logger) (WarmReport, error) {
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg  sync.WaitGroup
		rep WarmReport
		ok  atomic.Int64
		bad atomic.Int64
		n   atomic.Int64
	)

	var err error
loop:
	for _, lang := range langs {
		for _, f := range presets {
			// Acquire succeeds on a done ctx while slots are free
			if err = ctx.Err(); err != nil {
				break loop
			}
			if err = sem.Acquire(ctx, 1); err != nil {
				break loop
			}
			wg.Add(1)
			go func(f domain.SearchFilters, lang string) {
				defer wg.Done()
				defer sem.Release(1)

				cnt, err := w.Warm(ctx, f, lang)
				if err != nil {
					bad.Add(1)
					log.Warn().Err(err).Str("lang", lang).Str("city", f.City).Msg("warm failed")
					return
				}
				ok.Add(1)
				n.Add(int64(cnt))
				log.Debug().Str("lang", lang).Str("city", f.City).Int("records", cnt).Msg("warm ok")
			}(f, lang)
		}
	}
	wg.Wait()

	rep.OK, rep.Failed, rep.Records = ok.Load(), bad.Load(), n.Load()
	return rep, err
}
