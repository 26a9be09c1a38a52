package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	server "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/http_server"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/listing"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/observability"
	redisad "github.com/groundscriptdev/goldenkeypro-sub000/internal/adapters/redis"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/app"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/i18n"
	"github.com/groundscriptdev/goldenkeypro-sub000/internal/shared"
	mysqlrepo "github.com/groundscriptdev/goldenkeypro-sub000/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := mysqlrepo.Open(ctx, cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("mysql open failed")
	}
	defer db.Close()
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(ctx); err != nil {
		// reads fall through to the listing API while redis is down
		log.Warn().Err(err).Msg("redis ping failed")
	}

	lc, err := listing.New(cfg.ListingBase, cfg.ListingKey, cfg.ListingRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize listing client")
	}
	cat, err := i18n.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load message catalogs")
	}

	// deps
	q := app.NewQueryService(lc, cache, cfg.CacheTTL)
	bookings := app.NewBookingService(mysqlrepo.New(db), cat, log.Logger)

	// http
	srv := server.New(log.Logger, cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Bookings: bookings, Lang: cat, SiteURL: cfg.SiteURL})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
