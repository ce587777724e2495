// Package backend is the gateway to the remote CCP microservices. Two
// failure policies coexist on purpose: list fetches are lenient (any failure
// is logged and served as an empty listing, so screens render an empty state
// rather than an error banner), while order submission and the create
// operations are strict (failures propagate and carry the remote response as
// context). Callers of lenient operations cannot distinguish "service down"
// from "nothing to show"; that is the contract, not an accident.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

// Service paths on the commerce platform.
const (
	pathListProducts       = "/api/productos/listar_productos"
	pathCreateProduct      = "/api/productos/crear_producto"
	pathListManufacturers  = "/api/productos/listar_fabricantes"
	pathCreateManufacturer = "/api/productos/crear_fabricante"
	pathListSellers        = "/api/vendedor/listar_vendedores"
	pathCreateSeller       = "/api/vendedor/crear_vendedor"
	pathListSalesPlans     = "/api/vendedor/listar_planes"
	pathCreateSalesPlan    = "/api/vendedor/crear_plan_ventas"
	pathListOrders         = "/api/gestorPedidos/pedidos"
	pathCreateRoute        = "/api/gestorPedidos/pedido/ruta_de_entrega"
	pathIngestStock        = "/api/bodega/stock_ingresar_inventario"
	pathListStock          = "/api/bodega/stock_listar_inventario"
	pathLookupWarehouse    = "/api/bodega/buscador_bodega"

	pathSubmitOrder = "/pedido/crear"
)

// Client talks to the platform services. commerceURL hosts the /api/* family;
// ordersURL hosts the mobile order-creation endpoint, which historically
// lives on its own base URL.
type Client struct {
	commerceURL string
	ordersURL   string
	httpClient  *http.Client
	logger      *slog.Logger
}

func NewClient(commerceURL, ordersURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	return &Client{
		commerceURL: strings.TrimRight(commerceURL, "/"),
		ordersURL:   strings.TrimRight(ordersURL, "/"),
		httpClient:  httpClient,
		logger:      logger,
	}
}

// --- strict path -----------------------------------------------------------

// SubmitOrder POSTs the payload to the order-creation endpoint. A transport
// failure propagates wrapped; a non-2xx response becomes a *StatusError
// carrying the response body. A single attempt, no retry: any retry policy
// belongs to the caller.
func (c *Client) SubmitOrder(ctx context.Context, payload domain.OrderPayload) (domain.OrderConfirmation, error) {
	var conf domain.OrderConfirmation
	if err := c.postJSON(ctx, c.ordersURL+pathSubmitOrder, payload, &conf); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("submit order: %w", err)
	}
	return conf, nil
}

// ProductInput is the creation shape for catalog products.
type ProductInput struct {
	Nombre        string     `json:"nombre"`
	ValorUnitario float64    `json:"valorUnitario"`
	SKU           domain.SKU `json:"sku"`
	FabricanteID  string     `json:"fabricante_id"`
}

func (c *Client) CreateProduct(ctx context.Context, p ProductInput) error {
	if err := c.postJSON(ctx, c.commerceURL+pathCreateProduct, p, nil); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (c *Client) CreateManufacturer(ctx context.Context, nombre, pais string) error {
	body := map[string]string{"nombre": nombre, "pais": pais}
	if err := c.postJSON(ctx, c.commerceURL+pathCreateManufacturer, body, nil); err != nil {
		return fmt.Errorf("create manufacturer: %w", err)
	}
	return nil
}

func (c *Client) CreateSeller(ctx context.Context, nombre, email, password string) error {
	body := map[string]string{"nombre": nombre, "email": email, "password": password}
	if err := c.postJSON(ctx, c.commerceURL+pathCreateSeller, body, nil); err != nil {
		return fmt.Errorf("create seller: %w", err)
	}
	return nil
}

func (c *Client) CreateSalesPlan(ctx context.Context, plan domain.SalesPlan) error {
	if err := c.postJSON(ctx, c.commerceURL+pathCreateSalesPlan, plan, nil); err != nil {
		return fmt.Errorf("create sales plan: %w", err)
	}
	return nil
}

func (c *Client) IngestStock(ctx context.Context, intake domain.StockIntake) error {
	if err := c.postJSON(ctx, c.commerceURL+pathIngestStock, intake, nil); err != nil {
		return fmt.Errorf("ingest stock: %w", err)
	}
	return nil
}

// LookupWarehouse locates a product across warehouses by its search key.
func (c *Client) LookupWarehouse(ctx context.Context, clave string) ([]domain.WarehouseSlot, error) {
	body := map[string]string{"clave": clave}
	var slots []domain.WarehouseSlot
	if err := c.postJSON(ctx, c.commerceURL+pathLookupWarehouse, body, &slots); err != nil {
		return nil, fmt.Errorf("lookup warehouse: %w", err)
	}
	return slots, nil
}

type routeResponse struct {
	Msg json.RawMessage `json:"msg"`
}

// CreateDeliveryRoute asks the order manager to compute a delivery route for
// a submitted order. The remote answers with the route steps under msg.
func (c *Client) CreateDeliveryRoute(ctx context.Context, pedidoID string) (json.RawMessage, error) {
	body := map[string]string{"pedido_id": pedidoID}
	var resp routeResponse
	if err := c.postJSON(ctx, c.commerceURL+pathCreateRoute, body, &resp); err != nil {
		return nil, fmt.Errorf("create delivery route: %w", err)
	}
	return resp.Msg, nil
}

// --- lenient path ----------------------------------------------------------

// productListing is the wire shape of the product service's listings.
type productListing struct {
	ID            string     `json:"id"`
	Nombre        string     `json:"nombre"`
	ValorUnitario float64    `json:"valorUnitario"`
	SKU           domain.SKU `json:"sku"`
}

// ListProducts fetches the catalog. On any failure it logs and returns an
// empty, non-nil slice.
func (c *Client) ListProducts(ctx context.Context) []domain.Product {
	listings := fetchList[productListing](ctx, c, pathListProducts, "body")
	products := make([]domain.Product, 0, len(listings))
	for _, l := range listings {
		products = append(products, domain.Product{
			ID:    l.ID,
			Name:  l.Nombre,
			Price: l.ValorUnitario,
			SKU:   l.SKU,
		})
	}
	return products
}

func (c *Client) ListManufacturers(ctx context.Context) []domain.Manufacturer {
	return fetchList[domain.Manufacturer](ctx, c, pathListManufacturers, "body")
}

func (c *Client) ListSellers(ctx context.Context) []domain.Seller {
	return fetchList[domain.Seller](ctx, c, pathListSellers, "body")
}

func (c *Client) ListSalesPlans(ctx context.Context) []domain.SalesPlan {
	return fetchList[domain.SalesPlan](ctx, c, pathListSalesPlans, "body")
}

func (c *Client) ListStock(ctx context.Context) []domain.InventoryRecord {
	return fetchList[domain.InventoryRecord](ctx, c, pathListStock, "body")
}

// ListOrders fetches the order manager's listing for one client. The
// envelope field is pedidos, not body.
func (c *Client) ListOrders(ctx context.Context, clienteID string) []domain.OrderSummary {
	path := pathListOrders + "?cliente_id=" + url.QueryEscape(clienteID)
	return fetchList[domain.OrderSummary](ctx, c, path, "pedidos")
}

// --- plumbing --------------------------------------------------------------

// fetchList GETs a listing and unwraps its envelope field. Every failure
// mode (transport, non-2xx, malformed envelope) collapses to an empty slice
// after a log line; list screens render an empty state instead of an error.
func fetchList[T any](ctx context.Context, c *Client, path, field string) []T {
	data, err := c.get(ctx, c.commerceURL+path)
	if err != nil {
		c.logger.Warn("list fetch failed, serving empty", "path", path, "error", err)
		return []T{}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		c.logger.Warn("list response is not a JSON object, serving empty", "path", path, "error", err)
		return []T{}
	}

	raw, ok := envelope[field]
	if !ok {
		c.logger.Warn("list response misses envelope field, serving empty", "path", path, "field", field)
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		c.logger.Warn("list payload is malformed, serving empty", "path", path, "field", field, "error", err)
		return []T{}
	}

	if items == nil {
		items = []T{}
	}
	return items
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}
