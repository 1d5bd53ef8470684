package main

import (
	"context"
	"errors"
	"os"
	"time"

	"smartfinance/internal/amqp"
	"smartfinance/internal/cli"
	"smartfinance/internal/insights"
	applog "smartfinance/internal/log"
	"smartfinance/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg).WithComponent(applog.ComponentWorker)

	logger.Info("Starting insights-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the insights worker")
		os.Exit(1)
	}
	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required for the insights worker")
		os.Exit(1)
	}
	// The worker reads the records the server wrote; a private memory
	// store would never see them.
	if cfg.DataBackend == "memory" {
		logger.Error("insights-worker needs a shared backend (sqlite or postgres)")
		os.Exit(1)
	}

	be := cli.InitBackend(context.Background(), logger, cfg)

	gen, err := insights.NewGeminiGenerator(cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize Gemini client", applog.FieldError, err)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
		os.Exit(1)
	}

	w := worker.NewInsightsWorker(be.Store, insights.NewService(gen, cfg.InsightsTimeout, logger), logger)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Warn("AMQP close error", applog.FieldError, err)
		}
		if be.Cleanup != nil {
			if err := be.Cleanup(); err != nil {
				logger.Warn("Backend cleanup error", applog.FieldError, err)
			}
		}
	})

	// Catch up on changes made while the worker was down.
	logger.Info("Performing startup refresh...")
	if err := w.Refresh(ctx); err != nil {
		logger.Error("Startup refresh failed", applog.FieldError, err)
	}

	go func() {
		err := amqpClient.ConsumeRecordEvents(ctx, w.HandleRecordEvent)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", applog.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
