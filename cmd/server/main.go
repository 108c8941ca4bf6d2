package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"basket-service/config"
	"basket-service/internal/api"
	"basket-service/internal/broker"
	"basket-service/internal/catalogue"
	"basket-service/internal/redisclient"
	"basket-service/internal/service"
	"basket-service/internal/store"
	"basket-service/internal/util"
	"basket-service/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Observ.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting basket service",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port))

	tp, err := util.InitTracer("basket-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	var (
		source service.CatalogueSource
		db     *store.Store
	)
	if cfg.Catalogue.Path != "" {
		source = catalogue.NewFileSource(cfg.Catalogue.Path)
		logger.Info("Using catalogue file", zap.String("path", cfg.Catalogue.Path))
	} else {
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		source = db
		logger.Info("Database connected")
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	logger.Info("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer, cfg.Kafka.TopicBasket, cfg.Kafka.TopicCatalogue)

	catalogueService := service.NewCatalogueService(source, redisClient, eventPublisher, cfg.Catalogue.CacheTTL())
	if db != nil {
		catalogueService.WithWriter(db)
	}
	basketService := service.NewBasketService(catalogueService, eventPublisher, service.BasketLimits{
		MaxLines:        cfg.Basket.MaxLines,
		MaxLineQuantity: cfg.Basket.MaxLineQuantity,
	})

	// warm the cache; a failure here is retried on the first request
	if _, err := catalogueService.Snapshot(context.Background()); err != nil {
		logger.Warn("Failed to warm catalogue cache", zap.Error(err))
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	catalogueConsumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicCatalogue, cfg.Kafka.ConsumerGroup)
	catalogueWorker := worker.NewCatalogueWorker(catalogueConsumer, catalogueService)
	go func() {
		if err := catalogueWorker.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Catalogue worker error", zap.Error(err))
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	handler := api.NewHandler(basketService, catalogueService, cfg.Catalogue.CurrencySymbol)
	handler.AddReadinessCheck("redis", redisClient.Ping)
	if db != nil {
		handler.AddReadinessCheck("database", db.Ping)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if err := catalogueWorker.Stop(); err != nil {
		logger.Warn("Error stopping catalogue worker", zap.Error(err))
	}

	logger.Info("Server exited")
}
