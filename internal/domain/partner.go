package domain

// Manufacturer as the product service lists it.
type Manufacturer struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Pais   string `json:"pais"`
}

// Seller as the seller service lists it. The password only travels on
// creation requests and never comes back on listings.
type Seller struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// SalesPlan describes a seller's target for a period.
type SalesPlan struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	VendedorID  string  `json:"vendedor_id"`
	MetaVentas  float64 `json:"meta_ventas"`
	FechaInicio string  `json:"fecha_inicio"`
	FechaFin    string  `json:"fecha_fin"`
	Descripcion string  `json:"descripcion"`
}
