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

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/config"
	"github.com/ccp-platform/client-gateways/internal/planwatch"
	"github.com/ccp-platform/client-gateways/internal/seller"
	"github.com/ccp-platform/client-gateways/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()
	cfg.Print()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "seller", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("seller", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(context.Background()) }()

	httpClient := &http.Client{
		Timeout:   cfg.Backend.HTTPTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client := backend.NewClient(cfg.Backend.CommerceURL, cfg.Backend.OrdersURL, httpClient, logger)

	watcher := planwatch.New(client.ListSalesPlans, cfg.PollInterval, logger)
	go watcher.Run(ctx)

	handler := seller.NewHandler(client, watcher, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /plans", telemetry.WithHTTPRoute(handler.HandleListPlans))
	mux.HandleFunc("POST /plans", telemetry.WithHTTPRoute(handler.HandleCreatePlan))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(handler.HandleListOrders))
	mux.HandleFunc("POST /routes", telemetry.WithHTTPRoute(handler.HandleCreateRoute))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, "seller",
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
		logger.Info("starting seller gateway", "addr", cfg.HTTPAddr, "poll_interval", cfg.PollInterval)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
