// Package storefront is the customer-facing gateway: catalog, session carts
// and checkout.
package storefront

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/cart"
	"github.com/ccp-platform/client-gateways/internal/catalog"
	"github.com/ccp-platform/client-gateways/internal/domain"
	"github.com/ccp-platform/client-gateways/internal/messaging"
	"github.com/ccp-platform/client-gateways/internal/order"
)

// SessionHeader selects the cart session on every cart and checkout request.
const SessionHeader = "X-Session-ID"

var meter = otel.Meter("storefront")

type Handler struct {
	client   *backend.Client
	sessions *cart.Registry
	builder  *order.Builder
	events   *messaging.OrderEventWriter
	logger   *slog.Logger

	ordersSubmitted metric.Int64Counter
	ordersFailed    metric.Int64Counter
}

// NewHandler wires the storefront surface. events may be nil; checkouts then
// go unmirrored, exactly as when no brokers are configured.
func NewHandler(client *backend.Client, sessions *cart.Registry, builder *order.Builder, events *messaging.OrderEventWriter, logger *slog.Logger) *Handler {
	submitted, err := meter.Int64Counter("storefront.orders.submitted")
	if err != nil {
		logger.Error("failed to create submitted counter", "error", err)
	}
	failed, err := meter.Int64Counter("storefront.orders.failed")
	if err != nil {
		logger.Error("failed to create failed counter", "error", err)
	}

	return &Handler{
		client:          client,
		sessions:        sessions,
		builder:         builder,
		events:          events,
		logger:          logger,
		ordersSubmitted: submitted,
		ordersFailed:    failed,
	}
}

// HandleCatalog serves the products a customer may order: the inventory
// listing filtered down to positive availability, projected onto the catalog
// shape. A failed fetch renders as an empty catalog, per the lenient listing
// contract.
func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	records := h.client.ListStock(r.Context())
	products := catalog.MapToProducts(catalog.FilterAvailable(records))

	h.logger.Info("catalog served", "records", len(records), "available", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, _ := h.sessions.Create()
	h.logger.Info("session created", "session_id", id)
	h.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id})
}

func (h *Handler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing session header")
		return
	}

	h.sessions.Close(id)
	h.logger.Info("session closed", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

type cartResponse struct {
	Lines []domain.CartLine `json:"lines"`
	Total float64           `json:"total"`
}

func (h *Handler) HandleGetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{Lines: store.Lines(), Total: store.Total()})
}

type addItemRequest struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

func (h *Handler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Product.ID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	if err := store.AddItem(req.Product, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			h.writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
			return
		}
		h.logger.Error("failed to add item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, cartResponse{Lines: store.Lines(), Total: store.Total()})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	store.SetQuantity(productID, req.Quantity)
	h.writeJSON(w, http.StatusOK, cartResponse{Lines: store.Lines(), Total: store.Total()})
}

func (h *Handler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	productID := r.PathValue("productId")
	if productID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}

	store.RemoveItem(productID)
	w.WriteHeader(http.StatusNoContent)
}

type checkoutRequest struct {
	Cliente   string `json:"cliente"`
	Vendedor  string `json:"vendedor"`
	Direccion string `json:"direccion"`
}

// HandleCheckout builds the order payload from the session cart and submits
// it. Submission is the strict path: failures surface to the customer, and
// the cart is cleared only on a confirmed success.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	store, ok := h.session(w, r)
	if !ok {
		return
	}

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := store.Lines()
	payload, err := h.builder.Build(lines, req.Cliente, req.Vendedor, req.Direccion)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conf, err := h.client.SubmitOrder(r.Context(), payload)
	if err != nil {
		if h.ordersFailed != nil {
			h.ordersFailed.Add(r.Context(), 1)
		}
		h.logger.Error("order submission failed", "error", err, "cliente", req.Cliente)

		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) {
			h.writeError(w, http.StatusBadGateway, statusErr.Error())
			return
		}
		h.writeError(w, http.StatusBadGateway, "order service unavailable")
		return
	}

	store.Clear()
	if h.ordersSubmitted != nil {
		h.ordersSubmitted.Add(r.Context(), 1)
	}

	if h.events != nil {
		event := domain.OrderSubmittedEvent{
			SessionID: r.Header.Get(SessionHeader),
			Cliente:   payload.Cliente,
			Vendedor:  payload.Vendedor,
			Productos: payload.Productos,
			Total:     totalOf(lines),
			Timestamp: time.Now().UTC(),
		}
		if err := h.events.PublishSubmitted(r.Context(), event); err != nil {
			h.logger.Error("failed to publish order submitted event", "error", err, "cliente", payload.Cliente)
		}
	}

	h.logger.Info("order submitted", "cliente", payload.Cliente, "vendedor", payload.Vendedor, "lines", len(lines))
	h.writeJSON(w, http.StatusCreated, conf)
}

func totalOf(lines []domain.CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.Subtotal()
	}
	return total
}

// session resolves the request's cart store. On failure it writes the error
// response and reports false.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing session header")
		return nil, false
	}

	store, ok := h.sessions.Get(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "unknown session")
		return nil, false
	}

	return store, true
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
