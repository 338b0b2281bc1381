package port

import (
	"context"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
)

// CatalogRepository define el contrato para el snapshot local de catálogo
// El catálogo solo se escribe en bloque: ReplaceAll es todo-o-nada.
type CatalogRepository interface {
	// ReplaceAll reemplaza el snapshot completo en una única transacción
	ReplaceAll(ctx context.Context, entries []*entity.CatalogEntry) error

	// GetAll retorna el snapshot completo
	GetAll(ctx context.Context) ([]*entity.CatalogEntry, error)
}
