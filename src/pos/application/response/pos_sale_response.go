package response

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// POSSaleLineResponse línea en la respuesta de venta POS
type POSSaleLineResponse struct {
	ProductRef  uuid.UUID       `json:"product_ref"`
	DisplayCode string          `json:"display_code"`
	DisplayName string          `json:"display_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// POSSalePaymentResponse pago en la respuesta de venta POS
type POSSalePaymentResponse struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CardBrand string          `json:"card_brand,omitempty"`
	AuthCode  string          `json:"auth_code,omitempty"`
}

// POSSaleResponse respuesta de venta POS, DTO listo para imprimir
// SyncState refleja el estado local: "pending" mientras la venta espera
// en la cola, "synced" cuando el servidor la confirmó.
type POSSaleResponse struct {
	LocalID      uuid.UUID                `json:"local_id"`
	ServerID     *string                  `json:"server_id,omitempty"`
	SaleNumber   string                   `json:"sale_number"` // local_id como número de venta
	Items        []POSSaleLineResponse    `json:"items"`
	TotalItems   int                      `json:"total_items"`
	Subtotal     decimal.Decimal          `json:"subtotal"`
	Discount     decimal.Decimal          `json:"discount"`
	Total        decimal.Decimal          `json:"total"`
	Payments     []POSSalePaymentResponse `json:"payments"`
	AmountPaid   decimal.Decimal          `json:"amount_paid"`
	Change       decimal.Decimal          `json:"change"` // Vuelto
	CustomerRef  *string                  `json:"customer_ref,omitempty"`
	OperatorRef  string                   `json:"operator_ref"`
	SyncState    string                   `json:"sync_state"`
	AttemptCount int                      `json:"attempt_count"`
	CreatedAt    time.Time                `json:"created_at"`
}
