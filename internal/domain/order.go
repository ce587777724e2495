package domain

import "encoding/json"

// OrderItem is one (SKU, quantity) pair inside an order payload. The order
// service expects the SKU stringified regardless of how the catalog spelled
// it.
type OrderItem struct {
	SKU      string `json:"sku"`
	Cantidad int    `json:"cantidad"`
}

// OrderPayload is the wire shape of the order-creation endpoint. Built fresh
// per submission, never mutated afterwards, discarded once the remote call
// resolves.
type OrderPayload struct {
	Cliente   string      `json:"cliente"`
	Vendedor  string      `json:"vendedor"`
	Direccion string      `json:"direccion"`
	Productos []OrderItem `json:"productos"`
	Latitud   float64     `json:"latitud"`
	Longitud  float64     `json:"longitud"`
}

// OrderConfirmation is the success branch of a submission: the order service
// echoes a message and a body carrying the server-assigned identifier. There
// is no partial-success state; the failure branch is an error from the
// gateway.
type OrderConfirmation struct {
	Msg  string          `json:"msg"`
	Body json.RawMessage `json:"body"`
}

// OrderSummary is one row of the order-manager listing for a client.
type OrderSummary struct {
	ID        string  `json:"id"`
	Cliente   string  `json:"cliente"`
	Vendedor  string  `json:"vendedor"`
	Direccion string  `json:"direccion"`
	Estado    string  `json:"estado"`
	Total     float64 `json:"total"`
}
