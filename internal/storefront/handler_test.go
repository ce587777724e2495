package storefront

import (
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/cart"
	"github.com/ccp-platform/client-gateways/internal/domain"
	"github.com/ccp-platform/client-gateways/internal/order"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandler(commerceURL, ordersURL string) (*Handler, *cart.Registry) {
	sessions := cart.NewRegistry()
	client := backend.NewClient(commerceURL, ordersURL, http.DefaultClient, testLogger())
	builder := order.NewBuilder(func() float64 { return 0.5 })
	return NewHandler(client, sessions, builder, nil, testLogger()), sessions
}

// mux mirrors the storefront routing so path values resolve in tests.
func mux(h *Handler) *http.ServeMux {
	m := http.NewServeMux()
	m.HandleFunc("GET /catalog", h.HandleCatalog)
	m.HandleFunc("POST /sessions", h.HandleCreateSession)
	m.HandleFunc("DELETE /sessions", h.HandleCloseSession)
	m.HandleFunc("GET /cart", h.HandleGetCart)
	m.HandleFunc("POST /cart/items", h.HandleAddItem)
	m.HandleFunc("PUT /cart/items/{productId}", h.HandleSetQuantity)
	m.HandleFunc("DELETE /cart/items/{productId}", h.HandleRemoveItem)
	m.HandleFunc("POST /checkout", h.HandleCheckout)
	return m
}

func openSession(t *testing.T, m *http.ServeMux) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201 creating session, got %d", rec.Code)
	}

	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode session response: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	return resp.SessionID
}

func addItem(t *testing.T, m *http.ServeMux, session string, p domain.Product, qty int) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(addItemRequest{Product: p, Quantity: qty})
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(string(body)))
	req.Header.Set(SessionHeader, session)
	rec := httptest.NewRecorder()
	m.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Catalog(t *testing.T) {
	t.Run("serves only available stock, projected", func(t *testing.T) {
		stockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"body":[
				{"id":"p1","nombre":"alcohol","valorUnitario":1500,"cantidadDisponible":10,"sku":10001},
				{"id":"p2","nombre":"gasa","valorUnitario":200,"cantidadDisponible":0,"sku":10002}
			]}`))
		}))
		defer stockServer.Close()

		h, _ := newHandler(stockServer.URL, "http://unused")
		rec := httptest.NewRecorder()
		mux(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var products []domain.Product
		if err := json.NewDecoder(rec.Body).Decode(&products); err != nil {
			t.Fatalf("failed to decode catalog: %v", err)
		}
		if len(products) != 1 {
			t.Fatalf("expected 1 available product, got %d", len(products))
		}
		if products[0].Name != "alcohol" || products[0].SKU != "10001" {
			t.Errorf("unexpected product: %+v", products[0])
		}
	})

	t.Run("inventory outage renders as empty catalog", func(t *testing.T) {
		h, _ := newHandler("http://127.0.0.1:1", "http://unused")
		rec := httptest.NewRecorder()
		mux(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
			t.Errorf("expected empty catalog, got %s", got)
		}
	})
}

func TestHandler_Cart(t *testing.T) {
	p1 := domain.Product{ID: "p1", Name: "alcohol", Price: 1500, SKU: "10001"}

	t.Run("add, update and remove items", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		m := mux(h)
		session := openSession(t, m)

		if rec := addItem(t, m, session, p1, 2); rec.Code != http.StatusOK {
			t.Fatalf("expected status 200 adding item, got %d: %s", rec.Code, rec.Body.String())
		}
		if rec := addItem(t, m, session, p1, 1); rec.Code != http.StatusOK {
			t.Fatalf("expected status 200 adding item, got %d", rec.Code)
		}

		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, req)

		var resp cartResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode cart: %v", err)
		}
		if len(resp.Lines) != 1 || resp.Lines[0].Quantity != 3 {
			t.Fatalf("expected one merged line with quantity 3, got %+v", resp.Lines)
		}
		if resp.Total != 4500 {
			t.Errorf("expected total 4500, got %v", resp.Total)
		}

		req = httptest.NewRequest(http.MethodPut, "/cart/items/p1", strings.NewReader(`{"quantity":0}`))
		req.Header.Set(SessionHeader, session)
		rec = httptest.NewRecorder()
		m.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}

		var after cartResponse
		if err := json.NewDecoder(rec.Body).Decode(&after); err != nil {
			t.Fatalf("failed to decode cart: %v", err)
		}
		if len(after.Lines) != 0 {
			t.Errorf("expected empty cart after zero quantity, got %+v", after.Lines)
		}
	})

	t.Run("delete item answers no content", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		m := mux(h)
		session := openSession(t, m)
		_ = addItem(t, m, session, p1, 1)

		req := httptest.NewRequest(http.MethodDelete, "/cart/items/p1", nil)
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}
	})

	t.Run("invalid quantity is a bad request", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		m := mux(h)
		session := openSession(t, m)

		if rec := addItem(t, m, session, p1, 0); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("missing session header is a bad request", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		rec := httptest.NewRecorder()
		mux(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(SessionHeader, "no-such-session")
		rec := httptest.NewRecorder()
		mux(h).ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404, got %d", rec.Code)
		}
	})

	t.Run("closed session loses its cart", func(t *testing.T) {
		h, _ := newHandler("http://unused", "http://unused")
		m := mux(h)
		session := openSession(t, m)

		req := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status 204, got %d", rec.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set(SessionHeader, session)
		rec = httptest.NewRecorder()
		m.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status 404 after close, got %d", rec.Code)
		}
	})
}

func TestHandler_Checkout(t *testing.T) {
	p1 := domain.Product{ID: "p1", Name: "alcohol", Price: 1500, SKU: "10001"}

	checkout := func(m *http.ServeMux, session string) *httptest.ResponseRecorder {
		body := `{"cliente":"cliente123","vendedor":"vendedor456","direccion":"Calle 123 #45-67"}`
		req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(body))
		req.Header.Set(SessionHeader, session)
		rec := httptest.NewRecorder()
		m.ServeHTTP(rec, req)
		return rec
	}

	t.Run("submits the payload and clears the cart", func(t *testing.T) {
		orderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/pedido/crear" {
				t.Errorf("expected /pedido/crear, got %s", r.URL.Path)
			}

			var payload domain.OrderPayload
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("failed to decode payload: %v", err)
			}
			if payload.Cliente != "cliente123" || payload.Vendedor != "vendedor456" {
				t.Errorf("unexpected parties: %+v", payload)
			}
			if len(payload.Productos) != 1 || payload.Productos[0] != (domain.OrderItem{SKU: "10001", Cantidad: 2}) {
				t.Errorf("unexpected productos: %+v", payload.Productos)
			}
			if math.Abs(payload.Latitud-6.3) > 1e-9 || math.Abs(payload.Longitud-(-74.25)) > 1e-9 {
				t.Errorf("unexpected coordinates: %v, %v", payload.Latitud, payload.Longitud)
			}

			_, _ = w.Write([]byte(`{"msg":"pedido creado","body":{"id":"order-1"}}`))
		}))
		defer orderServer.Close()

		h, sessions := newHandler("http://unused", orderServer.URL)
		m := mux(h)
		session := openSession(t, m)
		_ = addItem(t, m, session, p1, 2)

		rec := checkout(m, session)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		var conf domain.OrderConfirmation
		if err := json.NewDecoder(rec.Body).Decode(&conf); err != nil {
			t.Fatalf("failed to decode confirmation: %v", err)
		}
		if conf.Msg != "pedido creado" {
			t.Errorf("expected msg 'pedido creado', got %q", conf.Msg)
		}

		store, _ := sessions.Get(session)
		if store.Len() != 0 {
			t.Errorf("expected cart cleared after success, got %d lines", store.Len())
		}
	})

	t.Run("empty cart is a bad request, nothing submitted", func(t *testing.T) {
		orderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("order service must not be called for an empty cart")
		}))
		defer orderServer.Close()

		h, _ := newHandler("http://unused", orderServer.URL)
		m := mux(h)
		session := openSession(t, m)

		if rec := checkout(m, session); rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("remote rejection keeps the cart", func(t *testing.T) {
		orderServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("inventario insuficiente"))
		}))
		defer orderServer.Close()

		h, sessions := newHandler("http://unused", orderServer.URL)
		m := mux(h)
		session := openSession(t, m)
		_ = addItem(t, m, session, p1, 2)

		rec := checkout(m, session)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "inventario insuficiente") {
			t.Errorf("expected remote body in response, got %s", rec.Body.String())
		}

		store, _ := sessions.Get(session)
		if store.Len() != 1 {
			t.Errorf("expected cart kept after failure, got %d lines", store.Len())
		}
	})

	t.Run("order service down keeps the cart", func(t *testing.T) {
		h, sessions := newHandler("http://unused", "http://127.0.0.1:1")
		m := mux(h)
		session := openSession(t, m)
		_ = addItem(t, m, session, p1, 2)

		rec := checkout(m, session)
		if rec.Code != http.StatusBadGateway {
			t.Fatalf("expected status 502, got %d", rec.Code)
		}

		store, _ := sessions.Get(session)
		if store.Len() != 1 {
			t.Errorf("expected cart kept after failure, got %d lines", store.Len())
		}
	})
}
