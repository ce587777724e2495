package domain

import "time"

// OrderSubmittedEvent mirrors a confirmed checkout onto the event stream so
// downstream consumers can observe submissions without the gateway keeping
// any state.
type OrderSubmittedEvent struct {
	SessionID string      `json:"session_id"`
	Cliente   string      `json:"cliente"`
	Vendedor  string      `json:"vendedor"`
	Productos []OrderItem `json:"productos"`
	Total     float64     `json:"total"`
	Timestamp time.Time   `json:"timestamp"`
}
