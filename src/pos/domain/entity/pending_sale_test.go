package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, quantity int, unitPrice string) SaleLine {
	t.Helper()
	line, err := NewSaleLine(uuid.New(), "P001", "Café molido 500g", quantity, decimal.RequireFromString(unitPrice), decimal.Zero)
	require.NoError(t, err)
	return *line
}

func mustPayment(t *testing.T, amount string) Payment {
	t.Helper()
	payment, err := NewPayment("cash", decimal.RequireFromString(amount), "", "")
	require.NoError(t, err)
	return *payment
}

func TestNewPendingSaleComputesTotals(t *testing.T) {
	lines := []SaleLine{mustLine(t, 2, "10.50"), mustLine(t, 1, "4.25")}
	payments := []Payment{mustPayment(t, "30.00")}

	sale, err := NewPendingSale(lines, payments, decimal.RequireFromString("1.25"), nil, "op-1")
	require.NoError(t, err)

	assert.True(t, sale.Subtotal.Equal(decimal.RequireFromString("25.25")), "subtotal = %s", sale.Subtotal)
	assert.True(t, sale.Total.Equal(decimal.RequireFromString("24.00")), "total = %s", sale.Total)
	assert.True(t, sale.Change().Equal(decimal.RequireFromString("6.00")), "change = %s", sale.Change())
	assert.Equal(t, SyncPending, sale.SyncState)
	assert.Equal(t, 0, sale.AttemptCount)
	assert.Nil(t, sale.ServerID)
	assert.NotEqual(t, uuid.Nil, sale.LocalID)
	// TotalItems cuenta líneas del ticket, no unidades
	assert.Equal(t, 2, sale.TotalItems())
}

func TestNewPendingSaleValidations(t *testing.T) {
	lines := []SaleLine{mustLine(t, 1, "10.00")}
	payments := []Payment{mustPayment(t, "10.00")}

	tests := []struct {
		name     string
		lines    []SaleLine
		payments []Payment
		discount decimal.Decimal
		operator string
		wantErr  error
	}{
		{"sin operador", lines, payments, decimal.Zero, "", ErrOperatorRequired},
		{"sin items", nil, payments, decimal.Zero, "op-1", ErrSaleMustHaveItems},
		{"sin pagos", lines, nil, decimal.Zero, "op-1", ErrSaleMustHavePayments},
		{"descuento negativo", lines, payments, decimal.NewFromInt(-1), "op-1", ErrInvalidDiscount},
		{"descuento mayor al subtotal", lines, payments, decimal.NewFromInt(11), "op-1", ErrInvalidDiscount},
		{"pago insuficiente", lines, []Payment{mustPayment(t, "9.99")}, decimal.Zero, "op-1", ErrInsufficientPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPendingSale(tt.lines, tt.payments, tt.discount, nil, tt.operator)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMarkSyncedIsOneShot(t *testing.T) {
	sale, err := NewPendingSale(
		[]SaleLine{mustLine(t, 1, "10.00")},
		[]Payment{mustPayment(t, "10.00")},
		decimal.Zero, nil, "op-1",
	)
	require.NoError(t, err)

	require.NoError(t, sale.MarkSynced("srv-42"))
	assert.Equal(t, SyncSynced, sale.SyncState)
	require.NotNil(t, sale.ServerID)
	assert.Equal(t, "srv-42", *sale.ServerID)

	// Un segundo ack no puede reasignar el ID del servidor
	err = sale.MarkSynced("srv-99")
	assert.ErrorIs(t, err, ErrAlreadySynced)
	assert.Equal(t, "srv-42", *sale.ServerID)
}

func TestMarkAttemptFailedAbandonsAtLimit(t *testing.T) {
	sale, err := NewPendingSale(
		[]SaleLine{mustLine(t, 1, "10.00")},
		[]Payment{mustPayment(t, "10.00")},
		decimal.Zero, nil, "op-1",
	)
	require.NoError(t, err)

	for i := 1; i < MaxSyncAttempts; i++ {
		sale.MarkAttemptFailed()
		assert.Equal(t, i, sale.AttemptCount)
		assert.Equal(t, SyncPending, sale.SyncState)
		assert.True(t, sale.Retryable())
	}

	sale.MarkAttemptFailed()
	assert.Equal(t, MaxSyncAttempts, sale.AttemptCount)
	assert.Equal(t, SyncAbandoned, sale.SyncState)
	assert.False(t, sale.Retryable())
}

func TestNewSaleLineComputesLineTotal(t *testing.T) {
	line, err := NewSaleLine(uuid.New(), "P002", "Yerba 1kg", 3, decimal.RequireFromString("8.40"), decimal.RequireFromString("0.20"))
	require.NoError(t, err)
	assert.True(t, line.LineTotal.Equal(decimal.RequireFromString("25.00")), "line total = %s", line.LineTotal)

	_, err = NewSaleLine(uuid.New(), "P002", "Yerba 1kg", 0, decimal.NewFromInt(1), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewSaleLine(uuid.New(), "P002", "Yerba 1kg", 1, decimal.NewFromInt(1), decimal.NewFromInt(2))
	assert.ErrorIs(t, err, ErrInvalidDiscount)
}
