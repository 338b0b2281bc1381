package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleLine línea de una venta POS (Entity dentro del Aggregate)
// DisplayCode y DisplayName son el snapshot de catálogo al momento de la
// venta: el ticket se imprime igual aunque el catálogo cambie después.
type SaleLine struct {
	ProductRef  uuid.UUID       `json:"product_ref"`
	DisplayCode string          `json:"display_code"`
	DisplayName string          `json:"display_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// NewSaleLine crea una línea de venta
// Validaciones mínimas, cálculo del total de línea
func NewSaleLine(
	productRef uuid.UUID,
	displayCode string,
	displayName string,
	quantity int,
	unitPrice decimal.Decimal,
	discount decimal.Decimal,
) (*SaleLine, error) {
	if productRef == uuid.Nil {
		return nil, ErrProductRefRequired
	}
	if displayCode == "" {
		return nil, ErrDisplayCodeRequired
	}
	if displayName == "" {
		return nil, ErrDisplayNameRequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.LessThan(decimal.Zero) {
		return nil, ErrInvalidPrice
	}
	if discount.LessThan(decimal.Zero) {
		return nil, ErrInvalidDiscount
	}

	lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Sub(discount)
	if lineTotal.LessThan(decimal.Zero) {
		return nil, ErrInvalidDiscount
	}

	return &SaleLine{
		ProductRef:  productRef,
		DisplayCode: displayCode,
		DisplayName: displayName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Discount:    discount,
		LineTotal:   lineTotal,
	}, nil
}
