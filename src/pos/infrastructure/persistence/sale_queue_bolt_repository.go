package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/storage"
)

// SaleQueueBoltRepository implementa SaleQueueRepository sobre el
// almacenamiento local durable. Sin lógica de negocio: solo put y scan.
type SaleQueueBoltRepository struct {
	store *storage.Store
}

// NewSaleQueueBoltRepository crea una nueva instancia del repositorio
func NewSaleQueueBoltRepository(store *storage.Store) port.SaleQueueRepository {
	return &SaleQueueBoltRepository{
		store: store,
	}
}

// Save persiste la venta con su local_id como clave
func (r *SaleQueueBoltRepository) Save(ctx context.Context, sale *entity.PendingSale) error {
	if err := r.store.Put(storage.BucketPendingSales, sale.LocalID.String(), sale); err != nil {
		return fmt.Errorf("error saving sale %s: %w", sale.LocalID, err)
	}
	return nil
}

// ListPending retorna las ventas pendientes, la más vieja primero
func (r *SaleQueueBoltRepository) ListPending(ctx context.Context) ([]*entity.PendingSale, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]*entity.PendingSale, 0, len(all))
	for _, sale := range all {
		if sale.SyncState == entity.SyncPending {
			pending = append(pending, sale)
		}
	}
	return pending, nil
}

// ListAll retorna todas las ventas locales en orden de creación
func (r *SaleQueueBoltRepository) ListAll(ctx context.Context) ([]*entity.PendingSale, error) {
	var sales []*entity.PendingSale

	err := r.store.ForEach(storage.BucketPendingSales, func(key string, value []byte) error {
		var sale entity.PendingSale
		if err := json.Unmarshal(value, &sale); err != nil {
			return fmt.Errorf("error reading sale %s: %w", key, err)
		}
		sales = append(sales, &sale)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Orden de creación; desempate por local_id para que el orden sea estable
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].CreatedAt.Equal(sales[j].CreatedAt) {
			return sales[i].LocalID.String() < sales[j].LocalID.String()
		}
		return sales[i].CreatedAt.Before(sales[j].CreatedAt)
	})

	return sales, nil
}

// CountPending cuenta las ventas pendientes
func (r *SaleQueueBoltRepository) CountPending(ctx context.Context) (int, error) {
	pending, err := r.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	return len(pending), nil
}
