package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/storage"
)

// CatalogBoltRepository implementa CatalogRepository sobre el
// almacenamiento local durable
type CatalogBoltRepository struct {
	store *storage.Store
}

// NewCatalogBoltRepository crea una nueva instancia del repositorio
func NewCatalogBoltRepository(store *storage.Store) port.CatalogRepository {
	return &CatalogBoltRepository{
		store: store,
	}
}

// ReplaceAll reemplaza el snapshot completo en una sola transacción.
// Si algo falla, el catálogo anterior queda intacto.
func (r *CatalogBoltRepository) ReplaceAll(ctx context.Context, entries []*entity.CatalogEntry) error {
	records := make(map[string]interface{}, len(entries))
	for _, e := range entries {
		records[e.ProductRef.String()] = e
	}

	if err := r.store.ReplaceAll(storage.BucketCatalog, records); err != nil {
		return fmt.Errorf("error replacing catalog: %w", err)
	}
	return nil
}

// GetAll retorna el snapshot completo del catálogo
func (r *CatalogBoltRepository) GetAll(ctx context.Context) ([]*entity.CatalogEntry, error) {
	var entries []*entity.CatalogEntry

	err := r.store.ForEach(storage.BucketCatalog, func(key string, value []byte) error {
		var e entity.CatalogEntry
		if err := json.Unmarshal(value, &e); err != nil {
			return fmt.Errorf("error reading catalog entry %s: %w", key, err)
		}
		entries = append(entries, &e)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
