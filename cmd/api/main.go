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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/joao-fontenele/ecommerce-backend/internal/catalog"
	"github.com/joao-fontenele/ecommerce-backend/internal/config"
	"github.com/joao-fontenele/ecommerce-backend/internal/health"
	"github.com/joao-fontenele/ecommerce-backend/internal/httpx"
	"github.com/joao-fontenele/ecommerce-backend/internal/logger"
	"github.com/joao-fontenele/ecommerce-backend/internal/messaging"
	"github.com/joao-fontenele/ecommerce-backend/internal/orders"
	"github.com/joao-fontenele/ecommerce-backend/internal/telemetry"
)

const (
	serviceName    = "ecommerce-api"
	serviceVersion = "0.1.0"
)

type publisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Service: serviceName, Env: cfg.AppEnv, Level: cfg.LogLevel})

	if err := cfg.RequireMongo(); err != nil {
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

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	client, err := telemetry.ConnectMongo(connectCtx, cfg.MongoURL)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDatabase)

	var events publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := messaging.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Error("failed to create event producer", "error", err)
			os.Exit(1)
		}
		defer func() { _ = producer.Close() }()
		events = producer
	}

	catalogService, err := catalog.NewService(catalog.NewProductRepository(db), events, log)
	if err != nil {
		log.Error("failed to create catalog service", "error", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewOrderRepository(db), catalogService, events, log)
	if err != nil {
		log.Error("failed to create order service", "error", err)
		os.Exit(1)
	}

	productHandler := catalog.NewHandler(catalogService, log)
	orderHandler := orders.NewHandler(orderService, log)
	healthHandler := health.NewHandler(client, log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", telemetry.WithHTTPRoute(healthHandler.HandleRoot))
	mux.HandleFunc("GET /health", telemetry.WithHTTPRoute(healthHandler.HandleHealth))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(productHandler.HandleCreate))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders/{user_id}", telemetry.WithHTTPRoute(orderHandler.HandleListByUser))
	mux.Handle("GET /metrics", metricsHandler)

	server := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: otelhttp.NewHandler(httpx.RequestID(mux), serviceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting api service", "port", cfg.Port, "database", cfg.MongoDatabase)
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
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
