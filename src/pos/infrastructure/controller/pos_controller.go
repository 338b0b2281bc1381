package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/request"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/response"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/usecase"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
)

// POSController maneja las peticiones HTTP de la terminal POS
type POSController struct {
	enqueueSaleUC *usecase.EnqueueSaleUseCase
	listSalesUC   *usecase.ListSalesUseCase
	syncPassUC    *usecase.SyncPassUseCase
}

// NewPOSController crea una nueva instancia del controlador
func NewPOSController(
	enqueueSaleUC *usecase.EnqueueSaleUseCase,
	listSalesUC *usecase.ListSalesUseCase,
	syncPassUC *usecase.SyncPassUseCase,
) *POSController {
	return &POSController{
		enqueueSaleUC: enqueueSaleUC,
		listSalesUC:   listSalesUC,
		syncPassUC:    syncPassUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *POSController) RegisterRoutes(router *gin.RouterGroup) {
	pos := router.Group("/pos")
	{
		pos.POST("/sale", c.CreateSale)
		pos.GET("/sales", c.ListSales)
	}
	router.POST("/sync", c.SyncNow)

	log.Println("Rutas POS disponibles:")
	log.Println("  POST   /api/v1/pos/sale  ⭐ (venta offline-first)")
	log.Println("  GET    /api/v1/pos/sales")
	log.Println("  POST   /api/v1/sync")
}

// CreateSale registra una venta en la cola local y responde el DTO imprimible
func (c *POSController) CreateSale(ctx *gin.Context) {
	// Verificar que el use case esté disponible
	if c.enqueueSaleUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "offline sales not available (local storage not configured)",
		})
		return
	}

	// 1. Parsear y validar el body
	var req request.POSSaleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 2. Obtener Authorization header (se reenvía al backend al sincronizar)
	authToken := ctx.GetHeader("Authorization")

	// 3. Ejecutar use case
	sale, err := c.enqueueSaleUC.Execute(ctx.Request.Context(), authToken, &req)
	if err != nil {
		log.Printf("Error queueing POS sale: %v", err)

		// Errores de dominio → 400, el resto → 500
		switch {
		case errors.Is(err, entity.ErrOperatorRequired),
			errors.Is(err, entity.ErrSaleMustHaveItems),
			errors.Is(err, entity.ErrSaleMustHavePayments),
			errors.Is(err, entity.ErrInvalidDiscount),
			errors.Is(err, entity.ErrInsufficientPayment),
			errors.Is(err, entity.ErrInvalidQuantity),
			errors.Is(err, entity.ErrInvalidPrice),
			errors.Is(err, entity.ErrInvalidPaymentAmount),
			errors.Is(err, entity.ErrPaymentMethodRequired),
			errors.Is(err, entity.ErrProductRefRequired),
			errors.Is(err, entity.ErrDisplayCodeRequired),
			errors.Is(err, entity.ErrDisplayNameRequired):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	ctx.JSON(http.StatusCreated, sale)
}

// ListSales lista las ventas locales (pendientes, sincronizadas y abandonadas)
func (c *POSController) ListSales(ctx *gin.Context) {
	if c.listSalesUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "sales list not available (local storage not configured)",
		})
		return
	}

	items, err := c.listSalesUC.Execute(ctx.Request.Context())
	if err != nil {
		log.Printf("Error listing local sales: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total_count": len(items),
	})
}

// SyncNow dispara una pasada de sincronización a pedido del operador
func (c *POSController) SyncNow(ctx *gin.Context) {
	if c.syncPassUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "sync not available (local storage not configured)",
		})
		return
	}

	authToken := ctx.GetHeader("Authorization")

	summary, err := c.syncPassUC.Execute(ctx.Request.Context(), authToken)
	if err != nil {
		log.Printf("Error running sync pass: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Pasada ya en vuelo: no-op, no es un error
	if summary == nil {
		ctx.JSON(http.StatusAccepted, gin.H{"status": "sync already in progress"})
		return
	}

	ctx.JSON(http.StatusOK, response.SyncSummaryResponse{
		Synced:    summary.Synced,
		Failed:    summary.Failed,
		Abandoned: summary.Abandoned,
		Pending:   summary.Pending,
	})
}
