// @title        Storefront API
// @version      1.0
// @description  Catalog, sessions and new-arrival push notifications.
// @BasePath     /
//
// @securityDefinitions.apikey  SessionCookie
// @in                          cookie
// @name                        session
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/offranel/storefront/internal/api"
	"github.com/offranel/storefront/internal/core/service"
	mongodb "github.com/offranel/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/offranel/storefront/internal/infrastructure/db/redis"
	"github.com/offranel/storefront/internal/infrastructure/http/handlers"
	"github.com/offranel/storefront/internal/infrastructure/push"
	"github.com/offranel/storefront/internal/infrastructure/queue"
	"github.com/offranel/storefront/internal/pkg/config"
	"github.com/offranel/storefront/internal/pkg/token"
	"github.com/offranel/storefront/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	if cfg.Push.VAPIDPublicKey == "" || cfg.Push.VAPIDPrivateKey == "" {
		log.Warn().Msg("VAPID keys not configured, push services will reject deliveries")
	}

	// --- Adapters ---
	users := mongodb.NewUserRepository(db)
	catalogRepo := mongodb.NewCatalogRepository(db)
	subscriptions := mongodb.NewSubscriptionRepository(db)
	announcements := redisdb.NewAnnouncementStore(rdb)
	tokens := token.New(cfg.Session.Secret)
	sender := push.NewSender(push.Config{
		VAPIDPublicKey:  cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: cfg.Push.VAPIDPrivateKey,
		Subscriber:      cfg.Push.Subscriber,
		TTLSeconds:      cfg.Push.TTLSeconds,
		Timeout:         cfg.Push.Timeout,
	})

	// --- Services ---
	broadcastSvc := service.NewBroadcastService(subscriptions, sender, announcements, service.BroadcastOptions{
		DeliveryTimeout: cfg.Push.Timeout,
		Concurrency:     cfg.Broadcast.Concurrency,
	}, logger.Component("broadcast"))

	dispatcher := queue.NewDispatcher(cfg.Broadcast.Workers, cfg.Broadcast.QueueSize, broadcastSvc, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	catalogSvc := service.NewCatalogService(catalogRepo, cfg.Catalog.CacheTTL, logger.Component("catalog"))
	publishSvc := service.NewPublishService(catalogRepo, dispatcher, catalogSvc, logger.Component("publish"))
	sessionSvc := service.NewSessionService(users, tokens, cfg.Session.TTL, logger.Component("session"))
	subscriptionSvc := service.NewSubscriptionService(subscriptions, logger.Component("subscriptions"))
	profileSvc := service.NewProfileService(users, catalogRepo, subscriptions, announcements)

	router := api.NewRouter(api.Dependencies{
		Logger:        log,
		Tokens:        tokens,
		Sessions:      sessionSvc,
		Subscriptions: subscriptionSvc,
		Catalog:       catalogSvc,
		Publish:       publishSvc,
		Profiles:      profileSvc,
		Probes: map[string]handlers.Probe{
			"mongodb": handlers.MongoProbe(db),
			"redis":   handlers.RedisProbe(rdb),
		},
		SessionTTL:    cfg.Session.TTL,
		SecureCookies: cfg.Session.Secure || cfg.IsProduction(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("storefront starting")
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	// In-flight broadcasts finish after the listener closes, within the same deadline.
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("broadcast queue not drained before deadline")
	}
	log.Info().Msg("storefront stopped")
}
