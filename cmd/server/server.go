package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"fx-gateway/internal/config"
	"fx-gateway/internal/domain/auth"
	"fx-gateway/internal/domain/rates"
	"fx-gateway/internal/infrastructure/cache"
	"fx-gateway/internal/infrastructure/kvstore"
	"fx-gateway/internal/infrastructure/logger"
	"fx-gateway/internal/infrastructure/resilience"
	"fx-gateway/internal/infrastructure/upstream"
	"fx-gateway/internal/interfaces/httpserver"
)

type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kvstore.NewRedis(cfg.RedisURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("connect key-value store")
	}
	defer store.Close()

	pipeline, err := resilience.NewPipeline(resilience.Config{
		RetryCount:             cfg.RetryCount,
		BaseBackoffSeconds:     cfg.BaseBackoffSeconds,
		FailuresBeforeBreaking: cfg.FailuresBeforeBreaking,
		BreakDuration:          cfg.BreakDuration,
	}, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize resilience pipeline")
	}

	upstreamClient := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, log)
	fetcher := cache.NewFetcher(store, log, nil)
	filter := rates.NewSymbolFilter()

	frankfurter := rates.NewFrankfurter(rates.FrankfurterConfig{
		LatestTTL:     cfg.LatestCacheTTL,
		HistoricalTTL: cfg.HistoricalCacheTTL,
	}, upstreamClient, pipeline, fetcher, filter, log, nil)
	factory := rates.NewFactory(frankfurter)

	tokenStore := auth.NewTokenStore(store, log, nil)
	userRepository := auth.NewStaticUserRepository()
	authService := auth.NewService(auth.ServiceConfig{
		AccessTokenTTL:  cfg.AccessTokenTTL,
		RefreshTokenTTL: cfg.RefreshTokenTTL,
	}, userRepository, tokenStore, log, nil)

	httpServer := httpserver.New(cfg, log, authService, factory, store)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
