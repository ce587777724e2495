//go:build integration

package test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/cart"
	"github.com/ccp-platform/client-gateways/internal/domain"
	"github.com/ccp-platform/client-gateways/internal/messaging"
	"github.com/ccp-platform/client-gateways/internal/order"
	"github.com/ccp-platform/client-gateways/internal/storefront"
)

func TestKafkaConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	if len(brokers) == 0 {
		t.Fatal("expected at least one broker")
	}

	t.Logf("kafka brokers: %v", brokers)
}

func TestOrderEventRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	writer := messaging.NewOrderEventWriter(brokers)
	defer func() { _ = writer.Close() }()

	sent := domain.OrderSubmittedEvent{
		SessionID: "session-it-1",
		Cliente:   "cliente-42",
		Vendedor:  "vendedor-7",
		Productos: []domain.OrderItem{
			{SKU: "10001", Cantidad: 2},
			{SKU: "10002", Cantidad: 1},
		},
		Total:     3250.5,
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := writer.PublishSubmitted(ctx, sent); err != nil {
		t.Fatalf("failed to publish event: %v", err)
	}

	reader := messaging.NewOrderEventReader(brokers, "integration-test", messaging.WithStartOffset(kafkago.FirstOffset))
	defer func() { _ = reader.Close() }()

	received := make(chan domain.OrderSubmittedEvent, 1)
	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		_ = reader.Consume(consumeCtx, func(ctx context.Context, event domain.OrderSubmittedEvent) error {
			received <- event
			return nil
		})
	}()

	select {
	case got := <-received:
		if got.Cliente != sent.Cliente {
			t.Fatalf("expected cliente %q, got %q", sent.Cliente, got.Cliente)
		}
		if got.Vendedor != sent.Vendedor {
			t.Fatalf("expected vendedor %q, got %q", sent.Vendedor, got.Vendedor)
		}
		if len(got.Productos) != len(sent.Productos) {
			t.Fatalf("expected %d items, got %d", len(sent.Productos), len(got.Productos))
		}
		if got.Total != sent.Total {
			t.Fatalf("expected total %v, got %v", sent.Total, got.Total)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestCheckoutPublishesEvent(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	orderService := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"msg": "pedido creado", "body": {"id": "order-1"}}`))
	}))
	defer orderService.Close()

	logger := slog.Default()
	client := backend.NewClient("http://unused.invalid", orderService.URL, orderService.Client(), logger)
	sessions := cart.NewRegistry()
	builder := order.NewBuilder(func() float64 { return 0.5 })
	writer := messaging.NewOrderEventWriter(brokers)
	defer func() { _ = writer.Close() }()

	handler := storefront.NewHandler(client, sessions, builder, writer, logger)

	rec := httptest.NewRecorder()
	handler.HandleCreateSession(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var session struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}

	addBody := `{"product": {"id": "p-1", "name": "Guantes", "price": 1500, "sku": "10001"}, "quantity": 2}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(addBody))
	req.Header.Set(storefront.SessionHeader, session.SessionID)
	rec = httptest.NewRecorder()
	handler.HandleAddItem(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	checkoutBody := `{"cliente": "cliente-42", "vendedor": "vendedor-7", "direccion": "Calle 1 # 2-3"}`
	req = httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(checkoutBody))
	req.Header.Set(storefront.SessionHeader, session.SessionID)
	rec = httptest.NewRecorder()
	handler.HandleCheckout(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	reader := messaging.NewOrderEventReader(brokers, "checkout-test", messaging.WithStartOffset(kafkago.FirstOffset))
	defer func() { _ = reader.Close() }()

	received := make(chan domain.OrderSubmittedEvent, 1)
	consumeCtx, stop := context.WithCancel(ctx)
	defer stop()

	go func() {
		_ = reader.Consume(consumeCtx, func(ctx context.Context, event domain.OrderSubmittedEvent) error {
			received <- event
			return nil
		})
	}()

	select {
	case got := <-received:
		if got.SessionID != session.SessionID {
			t.Fatalf("expected session %q, got %q", session.SessionID, got.SessionID)
		}
		if got.Cliente != "cliente-42" {
			t.Fatalf("unexpected cliente: %q", got.Cliente)
		}
		if got.Total != 3000 {
			t.Fatalf("expected total 3000, got %v", got.Total)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for checkout event")
	}
}
