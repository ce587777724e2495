// Package order assembles the wire payload the order-creation endpoint
// expects from a cart snapshot plus delivery metadata.
package order

import (
	"errors"
	"math/rand/v2"

	"github.com/ccp-platform/client-gateways/internal/domain"
)

var (
	ErrEmptyCart        = errors.New("order: cart has no lines")
	ErrMissingCliente   = errors.New("order: cliente identifier is required")
	ErrMissingVendedor  = errors.New("order: vendedor identifier is required")
	ErrMissingDireccion = errors.New("order: direccion is required")
)

// Delivery coordinates are drawn from a fixed bounding box. The values stand
// in for real geolocation until the apps provide one.
const (
	latMin = 1.6
	latMax = 11.0
	lonMin = -75.5
	lonMax = -73.0
)

// Builder converts cart snapshots into order payloads. The random source
// behind the placeholder coordinates is injected so callers can pin it.
type Builder struct {
	random func() float64
}

// NewBuilder returns a builder drawing coordinates from random, a source of
// uniform values in [0, 1). A nil source falls back to math/rand.
func NewBuilder(random func() float64) *Builder {
	if random == nil {
		random = rand.Float64
	}
	return &Builder{random: random}
}

// Build produces a fresh payload from the cart lines in their stored order.
// An empty cart or a blank identifier is a validation error; nothing is ever
// submitted as a zero-item order.
func (b *Builder) Build(lines []domain.CartLine, clienteID, vendedorID, direccion string) (domain.OrderPayload, error) {
	switch {
	case clienteID == "":
		return domain.OrderPayload{}, ErrMissingCliente
	case vendedorID == "":
		return domain.OrderPayload{}, ErrMissingVendedor
	case direccion == "":
		return domain.OrderPayload{}, ErrMissingDireccion
	case len(lines) == 0:
		return domain.OrderPayload{}, ErrEmptyCart
	}

	productos := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		productos = append(productos, domain.OrderItem{
			SKU:      line.Product.SKU.String(),
			Cantidad: line.Quantity,
		})
	}

	return domain.OrderPayload{
		Cliente:   clienteID,
		Vendedor:  vendedorID,
		Direccion: direccion,
		Productos: productos,
		Latitud:   latMin + b.random()*(latMax-latMin),
		Longitud:  lonMin + b.random()*(lonMax-lonMin),
	}, nil
}
