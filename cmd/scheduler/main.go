package main

import (
	"context"
	"time"

	"github.com/mcawcutt/socialspark-scheduler/internal/cache"
	"github.com/mcawcutt/socialspark-scheduler/internal/config"
	"github.com/mcawcutt/socialspark-scheduler/internal/events"
	"github.com/mcawcutt/socialspark-scheduler/internal/evergreen"
	"github.com/mcawcutt/socialspark-scheduler/internal/handlers"
	"github.com/mcawcutt/socialspark-scheduler/internal/logging"
	"github.com/mcawcutt/socialspark-scheduler/internal/monitoring"
	"github.com/mcawcutt/socialspark-scheduler/internal/scheduling"
	"github.com/mcawcutt/socialspark-scheduler/internal/server"
	"github.com/mcawcutt/socialspark-scheduler/internal/store"
)

const serviceName = "scheduler"

func main() {
	logger := logging.NewLoggerWithService(serviceName)
	config.LoadEnv(logger)

	version := config.GetEnv("SERVICE_VERSION", "dev")

	// Postgres: the authoritative post store.
	dbConfig := store.DefaultConfig()
	dbConfig.URL = config.RequireEnv("DATABASE_URL")
	db := store.MustConnect(dbConfig, logger)
	defer db.Close()

	if config.GetEnvBool("MIGRATE_ON_BOOT", true) {
		if err := store.ApplySchema(context.Background(), db); err != nil {
			logger.WithError(err).Fatal("Failed to apply database schema")
		}
	}

	postStore := store.NewPostStore(db, logger)

	// Kafka: lifecycle events and the evergreen distribution hand-off.
	brokers := config.GetEnvList("KAFKA_BROKERS")
	if len(brokers) == 0 {
		logger.Fatal("KAFKA_BROKERS is required")
	}
	producer, err := events.NewProducer(brokers, serviceName, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create event producer")
	}
	defer producer.Close()

	healthChecker := monitoring.NewHealthChecker(serviceName, version)
	metricsCollector := monitoring.NewMetricsCollector(serviceName, version, config.GetEnv("GIT_COMMIT", "unknown"))
	schedulerMetrics := handlers.NewSchedulerMetrics(metricsCollector)

	// Read-through brand cache; mutations invalidate, reads refetch.
	brandCache := cache.NewBrandPosts(
		postStore.GetByBrand,
		cache.Options{
			TTL:        config.GetEnvDuration("POST_CACHE_TTL", 30*time.Second),
			MaxEntries: config.GetEnvInt("POST_CACHE_MAX_ENTRIES", 1024),
		},
		cache.Hooks{
			OnHit:        func(string) { schedulerMetrics.IncCache("hit") },
			OnMiss:       func(string) { schedulerMetrics.IncCache("miss") },
			OnInvalidate: func(string) { schedulerMetrics.IncCache("invalidate") },
		},
	)

	// Redis fanout is optional: single-instance deployments invalidate
	// locally only.
	var postCache handlers.PostCache = brandCache
	if addrs := config.GetEnvList("REDIS_ADDRS"); len(addrs) > 0 {
		redisClient, err := cache.NewRedisClient(context.Background(), cache.RedisConfig{
			Addrs:    addrs,
			Password: config.GetEnv("REDIS_PASSWORD", ""),
			DB:       config.GetEnvInt("REDIS_DB", 0),
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer redisClient.Close()

		fanout := cache.NewFanout(redisClient, config.GetEnv("CACHE_CHANNEL", cache.DefaultChannel), brandCache, logger)
		go func() {
			if err := fanout.Listen(context.Background()); err != nil {
				logger.WithError(err).Error("Cache invalidation listener stopped")
			}
		}()
		postCache = fanout

		healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	}

	notifier := handlers.NewOperatorNotifier(logger, schedulerMetrics)
	coordinator := scheduling.NewCoordinator(postStore, postCache, notifier, logger)
	trigger := evergreen.NewTrigger(producer, notifier, logger)

	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("kafka", monitoring.ProducerHealthCheck(producer))

	router := server.SetupServiceRouter(logger, serviceName, healthChecker, metricsCollector)

	postHandlers := handlers.NewPostHandlers(postStore, postCache, producer, logger, schedulerMetrics)
	dropHandler := handlers.NewDropHandler(coordinator, trigger, producer, logger, schedulerMetrics)
	calendarHandlers := handlers.NewCalendarHandlers()

	router.GET("/content-posts", postHandlers.List)
	router.GET("/content-posts/:id", postHandlers.Get)
	router.POST("/content-posts/:id/reschedule", postHandlers.Reschedule)
	router.DELETE("/content-posts/:id", postHandlers.Delete)
	router.POST("/calendar/drop", dropHandler.Resolve)
	router.GET("/calendar/:year/:month", calendarHandlers.MonthLayout)

	serverConfig := server.DefaultConfig(serviceName, "18040")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.Fatal(err.Error())
	}
}
