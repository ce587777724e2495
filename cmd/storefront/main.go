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
	"github.com/ccp-platform/client-gateways/internal/cart"
	"github.com/ccp-platform/client-gateways/internal/config"
	"github.com/ccp-platform/client-gateways/internal/messaging"
	"github.com/ccp-platform/client-gateways/internal/order"
	"github.com/ccp-platform/client-gateways/internal/storefront"
	"github.com/ccp-platform/client-gateways/internal/telemetry"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()
	cfg.Print()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("storefront", "0.1.0")
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

	var events *messaging.OrderEventWriter
	if len(cfg.Broker.SeedBrokers) > 0 {
		events = messaging.NewOrderEventWriter(cfg.Broker.SeedBrokers)
		defer func() { _ = events.Close() }()
	}

	handler := storefront.NewHandler(client, cart.NewRegistry(), order.NewBuilder(nil), events, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /catalog", telemetry.WithHTTPRoute(handler.HandleCatalog))
	mux.HandleFunc("POST /sessions", telemetry.WithHTTPRoute(handler.HandleCreateSession))
	mux.HandleFunc("DELETE /sessions", telemetry.WithHTTPRoute(handler.HandleCloseSession))
	mux.HandleFunc("GET /cart", telemetry.WithHTTPRoute(handler.HandleGetCart))
	mux.HandleFunc("POST /cart/items", telemetry.WithHTTPRoute(handler.HandleAddItem))
	mux.HandleFunc("PUT /cart/items/{productId}", telemetry.WithHTTPRoute(handler.HandleSetQuantity))
	mux.HandleFunc("DELETE /cart/items/{productId}", telemetry.WithHTTPRoute(handler.HandleRemoveItem))
	mux.HandleFunc("POST /checkout", telemetry.WithHTTPRoute(handler.HandleCheckout))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, "storefront",
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
		logger.Info("starting storefront gateway", "addr", cfg.HTTPAddr)
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
