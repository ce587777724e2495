// Package admin is the dashboard gateway: catalog, manufacturer, seller,
// sales-plan and warehouse administration over the remote services.
package admin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ccp-platform/client-gateways/internal/backend"
	"github.com/ccp-platform/client-gateways/internal/domain"
)

type Handler struct {
	client *backend.Client
	logger *slog.Logger
}

func NewHandler(client *backend.Client, logger *slog.Logger) *Handler {
	return &Handler{
		client: client,
		logger: logger,
	}
}

// List endpoints follow the lenient contract: the dashboard always gets a
// listing, possibly empty, never an error.

func (h *Handler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.client.ListProducts(r.Context())
	h.logger.Info("products listed", "count", len(products))
	h.writeJSON(w, http.StatusOK, products)
}

func (h *Handler) HandleListManufacturers(w http.ResponseWriter, r *http.Request) {
	manufacturers := h.client.ListManufacturers(r.Context())
	h.logger.Info("manufacturers listed", "count", len(manufacturers))
	h.writeJSON(w, http.StatusOK, manufacturers)
}

func (h *Handler) HandleListSellers(w http.ResponseWriter, r *http.Request) {
	sellers := h.client.ListSellers(r.Context())
	h.logger.Info("sellers listed", "count", len(sellers))
	h.writeJSON(w, http.StatusOK, sellers)
}

func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	plans := h.client.ListSalesPlans(r.Context())
	h.logger.Info("sales plans listed", "count", len(plans))
	h.writeJSON(w, http.StatusOK, plans)
}

// HandleListStock serves the unfiltered inventory listing. The
// administrative view keeps zero-stock records; only the customer catalog
// filters them out.
func (h *Handler) HandleListStock(w http.ResponseWriter, r *http.Request) {
	records := h.client.ListStock(r.Context())
	h.logger.Info("stock listed", "count", len(records))
	h.writeJSON(w, http.StatusOK, records)
}

// Create endpoints are strict: remote rejections surface to the dashboard
// with the remote's status and body.

func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var input backend.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Nombre == "" {
		h.writeError(w, http.StatusBadRequest, "missing product name")
		return
	}

	if err := h.client.CreateProduct(r.Context(), input); err != nil {
		h.relayError(w, err, "create product")
		return
	}

	h.logger.Info("product created", "nombre", input.Nombre)
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type createManufacturerRequest struct {
	Nombre string `json:"nombre"`
	Pais   string `json:"pais"`
}

func (h *Handler) HandleCreateManufacturer(w http.ResponseWriter, r *http.Request) {
	var req createManufacturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nombre == "" || req.Pais == "" {
		h.writeError(w, http.StatusBadRequest, "missing manufacturer name or country")
		return
	}

	if err := h.client.CreateManufacturer(r.Context(), req.Nombre, req.Pais); err != nil {
		h.relayError(w, err, "create manufacturer")
		return
	}

	h.logger.Info("manufacturer created", "nombre", req.Nombre, "pais", req.Pais)
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type createSellerRequest struct {
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleCreateSeller(w http.ResponseWriter, r *http.Request) {
	var req createSellerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Nombre == "" || req.Email == "" || req.Password == "" {
		h.writeError(w, http.StatusBadRequest, "missing seller fields")
		return
	}

	if err := h.client.CreateSeller(r.Context(), req.Nombre, req.Email, req.Password); err != nil {
		h.relayError(w, err, "create seller")
		return
	}

	h.logger.Info("seller created", "nombre", req.Nombre)
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
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

func (h *Handler) HandleIngestStock(w http.ResponseWriter, r *http.Request) {
	var intake domain.StockIntake
	if err := json.NewDecoder(r.Body).Decode(&intake); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if intake.ProductoID == "" {
		h.writeError(w, http.StatusBadRequest, "missing product id")
		return
	}
	if intake.Cantidad <= 0 {
		h.writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	if err := h.client.IngestStock(r.Context(), intake); err != nil {
		h.relayError(w, err, "ingest stock")
		return
	}

	h.logger.Info("stock ingested", "producto_id", intake.ProductoID, "cantidad", intake.Cantidad)
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

type warehouseLookupRequest struct {
	Clave string `json:"clave"`
}

func (h *Handler) HandleLookupWarehouse(w http.ResponseWriter, r *http.Request) {
	var req warehouseLookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Clave == "" {
		h.writeError(w, http.StatusBadRequest, "missing search key")
		return
	}

	slots, err := h.client.LookupWarehouse(r.Context(), req.Clave)
	if err != nil {
		h.relayError(w, err, "lookup warehouse")
		return
	}

	h.logger.Info("warehouse lookup", "clave", req.Clave, "hits", len(slots))
	h.writeJSON(w, http.StatusOK, slots)
}

// relayError maps a strict-path failure onto the dashboard response: remote
// rejections keep their status and body, transport failures become a 502.
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
