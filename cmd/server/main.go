package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openfreight/carrier-gateway/internal/api"
	"github.com/openfreight/carrier-gateway/internal/carriers/periship"
	"github.com/openfreight/carrier-gateway/internal/carriers/ups"
	"github.com/openfreight/carrier-gateway/internal/core/service"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/config"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/db/mongo"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/db/redis"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/queue"
	"github.com/openfreight/carrier-gateway/internal/infrastructure/transport"
	"github.com/openfreight/carrier-gateway/pkg/logger"
)

const carrierTimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic("config: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Storage ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer func() { _ = rdb.Close() }()

	// --- Carrier adapters ---
	poster := transport.NewPoster(carrierTimeout)

	upsCarrier, err := ups.New(ups.Credentials{
		AccessKey:     cfg.UPS.AccessKey,
		UserID:        cfg.UPS.UserID,
		Password:      cfg.UPS.Password,
		ShipperNumber: cfg.UPS.ShipperNumber,
	}, poster, ups.WithTestMode(cfg.UPS.TestMode))
	if err != nil {
		log.Fatal().Err(err).Msg("ups adapter init failed")
	}

	registry := service.NewRegistry()
	registry.Register(upsCarrier)

	if cfg.PeriShip.ShipperID != "" {
		perishipCarrier, err := periship.New(periship.Credentials{
			ShipperID: cfg.PeriShip.ShipperID,
			Password:  cfg.PeriShip.Password,
		}, poster)
		if err != nil {
			log.Fatal().Err(err).Msg("periship adapter init failed")
		}
		registry.Register(perishipCarrier)
	}

	// --- Services ---
	repo := mongo.NewShipmentRepository(db)
	shipping := service.NewShippingService(registry, repo, log)

	// --- Shipment-event feed poller ---
	if cfg.Feed.PollInterval > 0 {
		dedup := redis.NewFeedDedup(rdb)
		dispatcher := queue.NewDispatcher(cfg.Feed.Workers, service.NewFeedRecorder(log), log)
		dispatcher.Start(ctx)

		poller := queue.NewFeedPoller(upsCarrier, dedup, dispatcher, cfg.Feed.PollInterval, log)
		go poller.Run(ctx)
	}

	// --- HTTP server ---
	e := api.NewRouter(api.Deps{
		Registry:  registry,
		Shipping:  shipping,
		Mongo:     db,
		Redis:     rdb,
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("carrier gateway listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("carrier gateway stopped")
}
