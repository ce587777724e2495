// Package catalog turns raw inventory listings into the product catalog the
// ordering surfaces may offer.
package catalog

import "github.com/ccp-platform/client-gateways/internal/domain"

// MapToProducts projects every inventory record onto the stable product
// shape. The projection is unconditional: zero-stock records map too, input
// order is preserved and the output always has the input's length.
func MapToProducts(records []domain.InventoryRecord) []domain.Product {
	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, domain.Product{
			ID:    rec.ID,
			Name:  rec.Nombre,
			Price: rec.ValorUnitario,
			SKU:   rec.SKU,
		})
	}
	return products
}

// FilterAvailable retains only records with strictly positive available
// quantity; exactly-zero stock is excluded. Order is preserved and records
// are not deduplicated: a SKU stocked in two warehouses yields two entries.
func FilterAvailable(records []domain.InventoryRecord) []domain.InventoryRecord {
	available := make([]domain.InventoryRecord, 0, len(records))
	for _, rec := range records {
		if rec.CantidadDisponible > 0 {
			available = append(available, rec)
		}
	}
	return available
}
