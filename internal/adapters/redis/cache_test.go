package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	redisad "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/redis"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetExpire(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var miss domain.SearchPage
	if ok, err := c.Get(ctx, "search:en:", &miss); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	in := domain.SearchPage{Count: 1, Results: []domain.PropertyRecord{{ID: "p1", Title: "Loft"}}}
	if err := c.Set(ctx, "search:en:", in, 60); err != nil {
		t.Fatal(err)
	}
	if !mr.Exists("gk:search:en:") {
		t.Fatalf("keys: %v", mr.Keys())
	}

	var out domain.SearchPage
	ok, err := c.Get(ctx, "search:en:", &out)
	if !ok || err != nil || out.Results[0].Title != "Loft" {
		t.Fatalf("ok=%v err=%v out=%+v", ok, err, out)
	}

	mr.FastForward(61 * time.Second)
	if ok, _ := c.Get(ctx, "search:en:", &out); ok {
		t.Fatal("entry survived its ttl")
	}
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("gk:property:en:1", "{not json"); err != nil {
		t.Fatal(err)
	}
	var rec domain.PropertyRecord
	if ok, err := c.Get(context.Background(), "property:en:1", &rec); ok || err != nil {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if mr.Exists("gk:property:en:1") {
		t.Fatal("corrupt entry not evicted")
	}
}

func TestCache_DelPrefix(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()
	for _, k := range []string{"search:es:a", "search:es:b", "search:en:a"} {
		_ = c.Set(ctx, k, 1, 60)
	}
	n, err := c.DelPrefix(ctx, "search:es:")
	if err != nil || n != 2 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if keys := mr.Keys(); len(keys) != 1 || keys[0] != "gk:search:en:a" {
		t.Fatalf("remaining keys: %v", keys)
	}
}
