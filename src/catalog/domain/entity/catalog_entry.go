package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogEntry snapshot de solo lectura de un producto vendible
// Se reemplaza en bloque en cada refresh exitoso del catálogo; nunca se
// parchea registro por registro. El stock es orientativo: offline no es
// autoritativo.
type CatalogEntry struct {
	ProductRef   uuid.UUID       `json:"product_ref"`
	DisplayCode  string          `json:"display_code"`
	Barcode      *string         `json:"barcode,omitempty"` // único cuando existe
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`        // unidad de medida
	StockCount   int             `json:"stock_count"` // orientativo
	TaxCode      string          `json:"tax_code"`
	LastModified time.Time       `json:"last_modified"`
}
