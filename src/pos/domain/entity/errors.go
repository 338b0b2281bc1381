package entity

import "errors"

var (
	ErrOperatorRequired     = errors.New("operator_ref is required")
	ErrSaleMustHaveItems    = errors.New("sale must have at least one line item")
	ErrSaleMustHavePayments = errors.New("sale must have at least one payment")
	ErrInvalidDiscount      = errors.New("discount must be greater than or equal to 0 and not exceed the amount")
	ErrInsufficientPayment  = errors.New("payments must cover the sale total")

	ErrProductRefRequired  = errors.New("product_ref is required")
	ErrDisplayCodeRequired = errors.New("display_code is required")
	ErrDisplayNameRequired = errors.New("display_name is required")
	ErrInvalidQuantity     = errors.New("quantity must be greater than 0")
	ErrInvalidPrice        = errors.New("price must be greater than or equal to 0")

	ErrPaymentMethodRequired = errors.New("payment method is required")
	ErrInvalidPaymentAmount  = errors.New("payment amount must be greater than 0")

	// ErrAlreadySynced el server_id se asigna exactamente una vez
	ErrAlreadySynced = errors.New("sale is already synced")
)
