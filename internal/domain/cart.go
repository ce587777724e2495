package domain

// CartLine is one (product, quantity) entry of an in-progress order.
// Quantity is always a positive integer; a cart never holds two lines for the
// same product.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (l CartLine) Subtotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}
