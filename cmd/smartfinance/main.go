package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"smartfinance/internal/amqp"
	"smartfinance/internal/cache"
	"smartfinance/internal/charts"
	"smartfinance/internal/cli"
	"smartfinance/internal/core"
	apphttp "smartfinance/internal/http"
	"smartfinance/internal/insights"
	"smartfinance/internal/ledger"
	applog "smartfinance/internal/log"
	"smartfinance/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	ctx := context.Background()

	be := cli.InitBackend(ctx, logger, cfg)

	l, err := ledger.Open(ctx, be.Store)
	if err != nil {
		logger.Error("Failed to load ledger", applog.FieldError, err)
		os.Exit(1)
	}
	loaded, version := l.Snapshot()
	logger.Info("Ledger loaded", "records", len(loaded), "version", version, "backend", cfg.DataBackend)

	// Events are optional: without AMQP the insights worker is not fed.
	var (
		publisher  services.EventPublisher
		amqpClient *amqp.Client
	)
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		publisher = amqpClient
		logger.Info("AMQP publisher enabled", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	projections := cache.NewLRUCache[any](cfg.ProjectionCacheSize, cfg.ProjectionCacheTTL)
	cacheManager := cache.NewManager()
	cacheManager.Register(projections)
	cacheManager.StartCleanup(time.Minute)

	records := services.NewRecordService(l, publisher, logger)
	reports := services.NewReportService(l, cache.NewMemo(projections), logger)

	var gen insights.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := insights.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", applog.FieldError, err)
			os.Exit(1)
		}
		gen = gemini
		logger.Info("Insights enabled", "model", cfg.GeminiModel)
	} else {
		logger.Info("Insights disabled - no GEMINI_API_KEY provided")
	}

	format, err := core.NewCurrencyFormatter(cfg.CurrencyLocale, cfg.CurrencyCode)
	if err != nil {
		logger.Error("Invalid currency settings", applog.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Records:  records,
		Reports:  reports,
		Insights: insights.NewService(gen, cfg.InsightsTimeout, logger),
		Store:    be.Store,
		Charts:   charts.NewGenerator(format),
		Logger:   logger,
	}, apphttp.Options{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cacheManager.Stop()
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", applog.FieldError, err)
			}
		}
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	logger.Info("Starting smartfinance server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"cors_origins", strings.Join(cfg.CORSAllowedOrigins, ","),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
