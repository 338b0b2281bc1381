package entity

import (
	"github.com/shopspring/decimal"
)

// Payment pago aplicado a una venta POS
// CardBrand y AuthCode solo aplican a pagos con tarjeta.
type Payment struct {
	Method    string          `json:"method"` // cash, card, transfer...
	Amount    decimal.Decimal `json:"amount"`
	CardBrand string          `json:"card_brand,omitempty"`
	AuthCode  string          `json:"auth_code,omitempty"`
}

// NewPayment crea un pago validado
func NewPayment(method string, amount decimal.Decimal, cardBrand, authCode string) (*Payment, error) {
	if method == "" {
		return nil, ErrPaymentMethodRequired
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidPaymentAmount
	}

	return &Payment{
		Method:    method,
		Amount:    amount,
		CardBrand: cardBrand,
		AuthCode:  authCode,
	}, nil
}
