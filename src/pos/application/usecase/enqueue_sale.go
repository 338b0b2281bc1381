package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/request"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/response"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/connectivity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/metrics"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
)

// PendingQueueWarnThreshold tope blando de la cola local.
// El origen no define un límite: con el dispositivo offline por tiempo
// indefinido la cola crece sin cota. Decisión: avisar al operador pasado
// este umbral; nunca se descartan ventas.
const PendingQueueWarnThreshold = 200

// EnqueueSaleUseCase registra una venta en la cola local.
// La venta queda durable antes de responder; si hay conexión se dispara
// una pasada de sincronización inmediata en segundo plano.
type EnqueueSaleUseCase struct {
	saleRepo port.SaleQueueRepository
	monitor  *connectivity.Monitor
	syncUC   *SyncPassUseCase
	notifier *notification.Center
}

// NewEnqueueSaleUseCase crea una nueva instancia del caso de uso
func NewEnqueueSaleUseCase(
	saleRepo port.SaleQueueRepository,
	monitor *connectivity.Monitor,
	syncUC *SyncPassUseCase,
	notifier *notification.Center,
) *EnqueueSaleUseCase {
	return &EnqueueSaleUseCase{
		saleRepo: saleRepo,
		monitor:  monitor,
		syncUC:   syncUC,
		notifier: notifier,
	}
}

// Execute valida el request, arma el aggregate y lo persiste como pendiente
func (uc *EnqueueSaleUseCase) Execute(ctx context.Context, authToken string, req *request.POSSaleRequest) (*response.POSSaleResponse, error) {
	log.Printf("🛒 POS Sale - Items: %d, Operator: %s", len(req.Items), req.OperatorRef)

	// ========================================================================
	// PASO 1: CONSTRUIR LÍNEAS Y PAGOS (las validaciones viven en el entity)
	// ========================================================================
	var lines []entity.SaleLine
	for i, itemReq := range req.Items {
		discount := itemReq.Discount
		if discount.IsZero() {
			discount = decimal.Zero
		}

		line, err := entity.NewSaleLine(
			itemReq.ProductRef,
			itemReq.DisplayCode,
			itemReq.DisplayName,
			itemReq.Quantity,
			itemReq.UnitPrice,
			discount,
		)
		if err != nil {
			return nil, fmt.Errorf("error creating sale line %d: %w", i+1, err)
		}
		lines = append(lines, *line)
	}

	var payments []entity.Payment
	for i, payReq := range req.Payments {
		payment, err := entity.NewPayment(payReq.Method, payReq.Amount, payReq.CardBrand, payReq.AuthCode)
		if err != nil {
			return nil, fmt.Errorf("error creating payment %d: %w", i+1, err)
		}
		payments = append(payments, *payment)
	}

	discount := req.Discount
	if discount.IsZero() {
		discount = decimal.Zero
	}

	// ========================================================================
	// PASO 2: CREAR AGGREGATE (subtotal/total se calculan acá y nunca más)
	// ========================================================================
	sale, err := entity.NewPendingSale(lines, payments, discount, req.CustomerRef, req.OperatorRef)
	if err != nil {
		return nil, fmt.Errorf("error creating pending sale: %w", err)
	}

	// ========================================================================
	// PASO 3: PERSISTIR EN LA COLA LOCAL (durable antes de responder)
	// ========================================================================
	if err := uc.saleRepo.Save(ctx, sale); err != nil {
		return nil, fmt.Errorf("error queueing sale: %w", err)
	}

	pendingCount, err := uc.saleRepo.CountPending(ctx)
	if err != nil {
		log.Printf("⚠️  Could not count pending sales: %v", err)
	} else {
		metrics.PendingSales.Set(float64(pendingCount))
		if pendingCount > PendingQueueWarnThreshold && uc.notifier != nil {
			log.Printf("⚠️  Pending queue above threshold: %d sales waiting", pendingCount)
			uc.notifier.Standing(
				"Cola de ventas creciendo",
				fmt.Sprintf("%d ventas esperan sincronización; verifique la conexión de la terminal", pendingCount),
			)
		}
	}

	log.Printf("💾 Sale %s queued (pending=%d, online=%v)", sale.LocalID, pendingCount, uc.monitor.IsOnline())

	// ========================================================================
	// PASO 4: DISPARAR SYNC INMEDIATO SI HAY CONEXIÓN
	// ========================================================================
	if uc.monitor.IsOnline() && uc.syncUC != nil {
		go func() {
			if _, err := uc.syncUC.Execute(context.Background(), authToken); err != nil {
				log.Printf("⚠️  Background sync pass failed: %v", err)
			}
		}()
	}

	return BuildPOSSaleResponse(sale), nil
}

// BuildPOSSaleResponse arma el DTO listo para imprimir a partir del aggregate
func BuildPOSSaleResponse(sale *entity.PendingSale) *response.POSSaleResponse {
	var items []response.POSSaleLineResponse
	for _, line := range sale.LineItems {
		items = append(items, response.POSSaleLineResponse{
			ProductRef:  line.ProductRef,
			DisplayCode: line.DisplayCode,
			DisplayName: line.DisplayName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			LineTotal:   line.LineTotal,
		})
	}

	var pays []response.POSSalePaymentResponse
	for _, p := range sale.Payments {
		pays = append(pays, response.POSSalePaymentResponse{
			Method:    p.Method,
			Amount:    p.Amount,
			CardBrand: p.CardBrand,
			AuthCode:  p.AuthCode,
		})
	}

	return &response.POSSaleResponse{
		LocalID:      sale.LocalID,
		ServerID:     sale.ServerID,
		SaleNumber:   sale.LocalID.String(),
		Items:        items,
		TotalItems:   sale.TotalItems(),
		Subtotal:     sale.Subtotal,
		Discount:     sale.Discount,
		Total:        sale.Total,
		Payments:     pays,
		AmountPaid:   sale.AmountPaid(),
		Change:       sale.Change(),
		CustomerRef:  sale.CustomerRef,
		OperatorRef:  sale.OperatorRef,
		SyncState:    string(sale.SyncState),
		AttemptCount: sale.AttemptCount,
		CreatedAt:    sale.CreatedAt,
	}
}
