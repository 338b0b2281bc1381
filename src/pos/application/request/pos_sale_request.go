package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POSSaleLineRequest línea dentro de una venta POS
type POSSaleLineRequest struct {
	ProductRef  uuid.UUID       `json:"product_ref" binding:"required"`
	DisplayCode string          `json:"display_code" binding:"required"`
	DisplayName string          `json:"display_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	Discount    decimal.Decimal `json:"discount,omitempty"` // Descuento por línea (default: 0)
}

// POSSalePaymentRequest pago dentro de una venta POS
type POSSalePaymentRequest struct {
	Method    string          `json:"method" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	CardBrand string          `json:"card_brand,omitempty"` // Solo tarjeta
	AuthCode  string          `json:"auth_code,omitempty"`  // Solo tarjeta
}

// POSSaleRequest request para registrar una venta en la terminal
// La venta se encola localmente y se sincroniza cuando hay conexión.
type POSSaleRequest struct {
	Items       []POSSaleLineRequest    `json:"items" binding:"required,min=1,dive"`    // Mínimo 1 item
	Payments    []POSSalePaymentRequest `json:"payments" binding:"required,min=1,dive"` // Mínimo 1 pago
	Discount    decimal.Decimal         `json:"discount,omitempty"`                     // Descuento fijo (default: 0)
	CustomerRef *string                 `json:"customer_ref,omitempty"`                 // Opcional (NULL = consumidor final)
	OperatorRef string                  `json:"operator_ref" binding:"required"`        // Usuario que registró la venta
}
