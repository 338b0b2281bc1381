package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CatalogMatchResponse producto devuelto por la búsqueda de catálogo
type CatalogMatchResponse struct {
	ProductRef   uuid.UUID       `json:"product_ref"`
	DisplayCode  string          `json:"display_code"`
	Barcode      *string         `json:"barcode,omitempty"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Unit         string          `json:"unit"`
	StockCount   int             `json:"stock_count"` // orientativo, no autoritativo offline
	TaxCode      string          `json:"tax_code"`
	LastModified time.Time       `json:"last_modified"`
}

// RefreshCatalogResponse resultado de un refresh de catálogo
type RefreshCatalogResponse struct {
	Products    int       `json:"products"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
