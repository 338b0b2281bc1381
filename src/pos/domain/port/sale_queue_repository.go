package port

import (
	"context"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
)

// SaleQueueRepository define el contrato para la cola local de ventas
// Solo hay dos escritores posibles: el enqueue (agrega un registro) y el
// motor de sync (actualiza el registro que está procesando). Las ventas
// sincronizadas se conservan para auditoría offline, no se borran.
type SaleQueueRepository interface {
	// Save persiste una venta (alta o actualización de la misma venta)
	Save(ctx context.Context, sale *entity.PendingSale) error

	// ListPending retorna las ventas pendientes en orden de creación
	// (la más vieja primero: preserva la secuencia de caja en el servidor)
	ListPending(ctx context.Context) ([]*entity.PendingSale, error)

	// ListAll retorna todas las ventas locales, en orden de creación
	ListAll(ctx context.Context) ([]*entity.PendingSale, error)

	// CountPending cuenta las ventas todavía pendientes
	CountPending(ctx context.Context) (int, error)
}
