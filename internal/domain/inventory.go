package domain

// InventoryRecord is a read-only projection of one warehouse stock row as the
// inventory service reports it. The remote side owns the data; records are
// never mutated locally. The same SKU may appear in several records, one per
// warehouse/lot/position.
type InventoryRecord struct {
	ID                 string  `json:"id"`
	Nombre             string  `json:"nombre"`
	ValorUnitario      float64 `json:"valorUnitario"`
	CantidadDisponible int     `json:"cantidadDisponible"`
	CantidadReservada  int     `json:"cantidadReservada"`
	Bodega             string  `json:"bodega"`
	Lote               string  `json:"lote"`
	Posicion           string  `json:"posicion"`
	FechaIngreso       string  `json:"fechaIngreso"`
	SKU                SKU     `json:"sku"`
}

// StockIntake is the request shape for registering incoming inventory.
type StockIntake struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

// WarehouseSlot is one hit from the warehouse locator.
type WarehouseSlot struct {
	Bodega   string `json:"bodega"`
	Lote     string `json:"lote"`
	Posicion string `json:"posicion"`
	Producto string `json:"producto"`
	Cantidad int    `json:"cantidad"`
}
