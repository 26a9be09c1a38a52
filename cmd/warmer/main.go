package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/listing"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	redisad "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/redis"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/app"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.ListingBase).
		Int("workers", cfg.WarmWorkers).
		Strs("cities", cfg.WarmCities).
		Msg("warmer starting")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("redis ping failed")
	}
	if cfg.WarmFlush {
		n, err := cache.DelPrefix(ctx, "search:")
		if err != nil {
			log.Fatal().Err(err).Msg("flush failed")
		}
		log.Info().Int("keys", n).Msg("flushed cached searches")
	}

	client, err := listing.New(cfg.ListingBase, cfg.ListingKey, cfg.ListingRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing client")
	}
	cat, err := i18n.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load message catalogs")
	}

	q := app.NewQueryService(client, cache, cfg.CacheTTL)
	start := time.Now()
	rep, err := app.WarmAll(ctx, q, app.Presets(cfg.WarmCities), cat.Languages(), cfg.WarmWorkers, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("warming interrupted")
	}
	log.Info().
		Int64("ok", rep.OK).
		Int64("failed", rep.Failed).
		Int64("records", rep.Records).
		Dur("took", time.Since(start)).
		Msg("warming completed")
}
