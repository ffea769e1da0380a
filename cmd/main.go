package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"envmonitor-service/internal/alerting"
	"envmonitor-service/internal/api"
	"envmonitor-service/internal/auth"
	"envmonitor-service/internal/config"
	"envmonitor-service/internal/db"
	"envmonitor-service/internal/ingest"
	"envmonitor-service/internal/logging"
	"envmonitor-service/internal/providers"
	"envmonitor-service/internal/realtime"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// Connect to database (service role)
	dbConn, err := db.New(cfg.DB.DSN)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		log.Fatalf("Database connection failed: %v", err)
	}
	defer dbConn.Close()

	// Realtime hub for dashboard clients
	hub := realtime.NewHub(logger)

	// Station telemetry ingestion
	ingestSvc := ingest.New(dbConn, hub, logger, cfg)
	var wg sync.WaitGroup
	ingestSvc.Start(&wg)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	var consumer *ingest.Consumer
	if cfg.Kafka.Broker != "" {
		consumer = ingest.NewConsumer(cfg, ingestSvc, logger)
		go consumer.Start(consumerCtx)
	} else {
		logger.Warnf("KAFKA_BROKER not set, station ingestion disabled")
	}

	// Operator alerting
	alerts := alerting.NewNotifier(cfg, logger)
	if !alerts.Enabled() {
		logger.Warnf("Telegram alerting not configured")
	}

	// Upstream providers
	weather := providers.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	imagery := providers.NewImageryClient(cfg.Imagery.BaseURL, cfg.Imagery.APIKey)
	ai := providers.NewAIClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.MaxTokens)

	// API server
	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret)
	handler := api.NewHandler(dbConn, verifier, dbConn, weather, imagery, ai, hub, alerts, logger, cfg)
	router := api.NewRouter(handler, logger, cfg.API.BasePath)
	go func() {
		logger.Infof("API started on %s", cfg.API.Port)
		if err := router.Run(cfg.API.Port); err != nil {
			logger.Errorf("API run failed: %v", err)
		}
	}()

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Infof("Shutting down...")
	stopConsumer()
	if consumer != nil {
		consumer.Close()
	}
	ingestSvc.Stop()
	wg.Wait()
	logger.Infof("Service stopped")
}
