package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ccp-platform/client-gateways/internal/admin"
	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/config"
	"github.com/ccp-platform/client-gateways/internal/telemetry"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	cfg.Print()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("admin", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	httpClient := &http.Client{
		Timeout:   cfg.Backend.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client := backend.NewClient(cfg.Backend.CommerceURL, cfg.Backend.OrdersURL, httpClient, logger)

	handler := admin.NewHandler(client, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(handler.HandleListProducts))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(handler.HandleCreateProduct))
	mux.HandleFunc("GET /manufacturers", telemetry.WithHTTPRoute(handler.HandleListManufacturers))
	mux.HandleFunc("POST /manufacturers", telemetry.WithHTTPRoute(handler.HandleCreateManufacturer))
	mux.HandleFunc("GET /sellers", telemetry.WithHTTPRoute(handler.HandleListSellers))
	mux.HandleFunc("POST /sellers", telemetry.WithHTTPRoute(handler.HandleCreateSeller))
	mux.HandleFunc("GET /plans", telemetry.WithHTTPRoute(handler.HandleListPlans))
	mux.HandleFunc("POST /plans", telemetry.WithHTTPRoute(handler.HandleCreatePlan))
	mux.HandleFunc("GET /stock", telemetry.WithHTTPRoute(handler.HandleListStock))
	mux.HandleFunc("POST /stock/intake", telemetry.WithHTTPRoute(handler.HandleIngestStock))
	mux.HandleFunc("POST /warehouse/lookup", telemetry.WithHTTPRoute(handler.HandleLookupWarehouse))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, "admin",
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

	go func() {
		logger.Info("starting admin gateway", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
