package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SyncState estado de sincronización de una venta local
type SyncState string

const (
	// SyncPending la venta todavía no fue confirmada por el servidor
	SyncPending SyncState = "pending"
	// SyncSynced el servidor confirmó la venta (estado terminal)
	SyncSynced SyncState = "synced"
	// SyncAbandoned se agotaron los reintentos; requiere intervención
	// del operador (estado terminal, nunca se reintenta solo)
	SyncAbandoned SyncState = "abandoned"
)

// MaxSyncAttempts reintentos automáticos antes de abandonar una venta
const MaxSyncAttempts = 5

// PendingSale venta registrada localmente, todavía sin confirmar (Aggregate Root)
// LocalID es la clave de idempotencia: repetir el envío de la misma venta
// no puede duplicarla del lado del servidor.
//
// Invariante: una venta es inmutable después de creada, salvo ServerID,
// SyncState y AttemptCount. Items y pagos no se editan nunca; cancelaciones
// y correcciones son un asunto del servidor, fuera de la terminal.
type PendingSale struct {
	LocalID      uuid.UUID       `json:"local_id"`
	ServerID     *string         `json:"server_id,omitempty"` // asignado una única vez al sincronizar
	LineItems    []SaleLine      `json:"line_items"`
	Payments     []Payment       `json:"payments"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"` // subtotal - discount, calculado al crear y nunca recalculado
	CustomerRef  *string         `json:"customer_ref,omitempty"` // NULL = consumidor final
	OperatorRef  string          `json:"operator_ref"`           // usuario que registró la venta
	CreatedAt    time.Time       `json:"created_at"`             // reloj del cliente
	SyncState    SyncState       `json:"sync_state"`
	AttemptCount int             `json:"attempt_count"`
}

// NewPendingSale crea una venta local lista para encolar
// Calcula subtotal y total una sola vez; el sync jamás los recalcula.
func NewPendingSale(
	lines []SaleLine,
	payments []Payment,
	discount decimal.Decimal,
	customerRef *string,
	operatorRef string,
) (*PendingSale, error) {
	if operatorRef == "" {
		return nil, ErrOperatorRequired
	}
	if len(lines) == 0 {
		return nil, ErrSaleMustHaveItems
	}
	if len(payments) == 0 {
		return nil, ErrSaleMustHavePayments
	}
	if discount.LessThan(decimal.Zero) {
		return nil, ErrInvalidDiscount
	}

	// Subtotal = suma de los totales de línea
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal)
	}

	total := subtotal.Sub(discount)
	if total.LessThan(decimal.Zero) {
		return nil, ErrInvalidDiscount // el descuento no puede superar el subtotal
	}

	// Los pagos deben cubrir el total de la venta
	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}
	if paid.LessThan(total) {
		return nil, ErrInsufficientPayment
	}

	return &PendingSale{
		LocalID:      uuid.New(),
		LineItems:    lines,
		Payments:     payments,
		Subtotal:     subtotal,
		Discount:     discount,
		Total:        total,
		CustomerRef:  customerRef,
		OperatorRef:  operatorRef,
		CreatedAt:    time.Now(),
		SyncState:    SyncPending,
		AttemptCount: 0,
	}, nil
}

// MarkSynced registra el ID asignado por el servidor.
// ServerID se asigna exactamente una vez: una venta ya sincronizada
// no admite un segundo ack.
func (s *PendingSale) MarkSynced(serverID string) error {
	if s.SyncState == SyncSynced {
		return ErrAlreadySynced
	}
	s.ServerID = &serverID
	s.SyncState = SyncSynced
	return nil
}

// MarkAttemptFailed cuenta un intento fallido; al llegar al tope la venta
// pasa a abandonada y no vuelve a seleccionarse automáticamente.
func (s *PendingSale) MarkAttemptFailed() {
	s.AttemptCount++
	if s.AttemptCount >= MaxSyncAttempts {
		s.SyncState = SyncAbandoned
	}
}

// Retryable indica si la venta sigue siendo candidata a sincronización automática
func (s *PendingSale) Retryable() bool {
	return s.SyncState == SyncPending && s.AttemptCount < MaxSyncAttempts
}

// AmountPaid suma de los pagos de la venta
func (s *PendingSale) AmountPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range s.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// Change vuelto para el cliente (pagado - total)
func (s *PendingSale) Change() decimal.Decimal {
	return s.AmountPaid().Sub(s.Total)
}

// TotalItems retorna el número total de líneas
func (s *PendingSale) TotalItems() int {
	return len(s.LineItems)
}
