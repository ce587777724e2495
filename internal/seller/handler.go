// Package seller is the seller-app gateway: a poll-refreshed sales-plan
// snapshot, client order listings and delivery-route creation.
package seller

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/domain"
	"github.com/ccp-platform/client-gateways/internal/planwatch"
)

type Handler struct {
	client  *backend.Client
	watcher *planwatch.Watcher
	logger  *slog.Logger
}

func NewHandler(client *backend.Client, watcher *planwatch.Watcher, logger *slog.Logger) *Handler {
	return &Handler{
		client:  client,
		watcher: watcher,
		logger:  logger,
	}
}

// HandleListPlans serves the watcher's snapshot rather than fetching on every
// request; the seller app polls this screen aggressively.
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	plans := h.watcher.Snapshot()
	h.logger.Info("sales plans served", "count", len(plans))
	h.writeJSON(w, http.StatusOK, plans)
}

func (h *Handler) HandleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var plan domain.SalesPlan
	if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if plan.Nombre == "" || plan.VendedorID == "" {
		h.writeError(w, http.StatusBadRequest, "missing plan name or seller")
		return
	}

	if err := h.client.CreateSalesPlan(r.Context(), plan); err != nil {
		h.relayError(w, err, "create sales plan")
		return
	}

	h.logger.Info("sales plan created", "nombre", plan.Nombre, "vendedor_id", plan.VendedorID)
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

func (h *Handler) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	clienteID := r.URL.Query().Get("cliente_id")
	if clienteID == "" {
		h.writeError(w, http.StatusBadRequest, "missing cliente_id")
		return
	}

	pedidos := h.client.ListOrders(r.Context(), clienteID)
	h.logger.Info("orders listed", "cliente_id", clienteID, "count", len(pedidos))
	h.writeJSON(w, http.StatusOK, pedidos)
}

type createRouteRequest struct {
	PedidoID string `json:"pedido_id"`
}

func (h *Handler) HandleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req createRouteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PedidoID == "" {
		h.writeError(w, http.StatusBadRequest, "missing pedido_id")
		return
	}

	msg, err := h.client.CreateDeliveryRoute(r.Context(), req.PedidoID)
	if err != nil {
		h.relayError(w, err, "create delivery route")
		return
	}

	h.logger.Info("delivery route created", "pedido_id", req.PedidoID)
	h.writeJSON(w, http.StatusOK, map[string]json.RawMessage{"msg": msg})
}

func (h *Handler) relayError(w http.ResponseWriter, err error, op string) {
	h.logger.Error("remote call failed", "op", op, "error", err)

	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		h.writeJSON(w, statusErr.StatusCode, map[string]string{"error": statusErr.Body})
		return
	}
	h.writeError(w, http.StatusBadGateway, "service unavailable")
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
