package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/ecommerce-backend/internal/config"
	"github.com/joao-fontenele/ecommerce-backend/internal/domain"
	"github.com/joao-fontenele/ecommerce-backend/internal/logger"
	"github.com/joao-fontenele/ecommerce-backend/internal/messaging"
	"github.com/joao-fontenele/ecommerce-backend/internal/telemetry"
	"github.com/joao-fontenele/ecommerce-backend/internal/worker"
)

const (
	serviceName    = "order-analytics-worker"
	serviceVersion = "0.1.0"
	consumerGroup  = "order-analytics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := cfg.RequireKafka(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, serviceName, serviceVersion)
		if err != nil {
			log.Error("failed to initialize tracer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = shutdownTracer(context.Background()) }()
	} else {
		telemetry.InitPropagators()
	}

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		log.Error("failed to initialize meter provider", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	handler, err := worker.NewAnalyticsHandler(otel.Meter("worker"), log)
	if err != nil {
		log.Error("failed to create analytics handler", "error", err)
		os.Exit(1)
	}

	consumer, err := messaging.NewConsumer(cfg.KafkaBrokers, domain.TopicOrderCreated, consumerGroup)
	if err != nil {
		log.Error("failed to create consumer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = consumer.Close() }()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metricsHandler)
	server := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting order analytics worker", "brokers", cfg.KafkaBrokers, "topic", domain.TopicOrderCreated)
		err := consumer.Consume(gctx, handler.Handle)
		if gctx.Err() != nil {
			log.Info("consumer stopped")
			return nil
		}
		return err
	})

	g.Go(func() error {
		log.Info("serving metrics", "port", cfg.MetricsPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("worker error", "error", err)
		os.Exit(1)
	}
}
