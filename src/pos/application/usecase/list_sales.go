package usecase

import (
	"context"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/response"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/port"
)

// ListSalesUseCase lista las ventas locales (auditoría offline)
// Incluye las ya sincronizadas: se conservan en el dispositivo para
// consulta aunque el servidor ya las tenga.
type ListSalesUseCase struct {
	saleRepo port.SaleQueueRepository
}

// NewListSalesUseCase crea una nueva instancia del caso de uso
func NewListSalesUseCase(saleRepo port.SaleQueueRepository) *ListSalesUseCase {
	return &ListSalesUseCase{
		saleRepo: saleRepo,
	}
}

// Execute retorna todas las ventas locales en orden de creación
func (uc *ListSalesUseCase) Execute(ctx context.Context) ([]*response.POSSaleResponse, error) {
	sales, err := uc.saleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*response.POSSaleResponse, 0, len(sales))
	for _, sale := range sales {
		items = append(items, BuildPOSSaleResponse(sale))
	}
	return items, nil
}
