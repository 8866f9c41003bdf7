package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	_ "github.com/comitanigiacomo/equilibrio-api/docs"
	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/cache"
	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/database"
	adapterHTTP "github.com/comitanigiacomo/equilibrio-api/internal/adapters/handler/http"
	"github.com/comitanigiacomo/equilibrio-api/internal/adapters/repository"
	"github.com/comitanigiacomo/equilibrio-api/internal/config"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/domain"
	"github.com/comitanigiacomo/equilibrio-api/internal/core/services"
	"github.com/comitanigiacomo/equilibrio-api/internal/logger"
)

// @title                       Equilibrio API
// @version                     1.0
// @description                 Daily mood and habit journal with goal streaks.
// @BasePath                    /api/v1
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	healthChecks := map[string]adapterHTTP.HealthCheck{}

	var store domain.DailyEntryRepository
	var closers []func()

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		log.Info("connecting to postgres")
		db, err := database.NewPostgresDB(cfg.PostgresDSN())
		if err != nil {
			log.WithError(err).Fatal("failed to connect to postgres")
		}
		closers = append(closers, func() { db.Close() })

		pg := repository.NewPostgresEntryRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("failed to prepare schema")
		}
		store = pg
		healthChecks["postgres"] = db.PingContext

	case config.DriverMongo:
		log.Info("connecting to mongo")
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to mongo")
		}
		closers = append(closers, func() { _ = client.Disconnect(context.Background()) })

		mg := repository.NewMongoEntryRepository(client.Database(cfg.MongoDatabase))
		if err := mg.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Fatal("failed to create indexes")
		}
		store = mg
		healthChecks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

	default:
		log.Warn("using in-memory store; entries are lost on restart")
		store = repository.NewInMemoryEntryRepository()
	}

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable; running without cache and rate limiting")
			rdb = nil
		} else {
			closers = append(closers, func() { _ = rdb.Close() })
			store = repository.NewCachedEntryRepository(store, rdb, log)
			healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	engine := domain.NewStreakEngine(cfg.Goals, cfg.MissingHabitPolicy)
	submissionService := services.NewSubmissionService(store, engine, log, time.Now)

	var tokens *services.TokenService
	deps := adapterHTTP.RouterDependencies{
		EntryHandler:    adapterHTTP.NewEntryHandler(submissionService, log),
		Redis:           rdb,
		RateLimit:       cfg.RateLimit,
		RateLimitWindow: cfg.RateLimitWindow,
		HealthChecks:    healthChecks,
		Logger:          log,
		StartTime:       startTime,
	}
	if cfg.JWTSecret != "" {
		tokens = services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)
		deps.TokenValidator = tokens
	} else {
		log.Warn("JWT_SECRET not set; bearer tokens are not verified and the user comes from the request")
	}

	router := adapterHTTP.NewRouter(deps)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler.Handler(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithFields(logrus.Fields{"port": cfg.Port, "store": cfg.StoreDriver}).Info("equilibrio api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("stop signal received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}

	log.Info("server stopped gracefully")
}
