package controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/application/usecase"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
)

// CatalogController maneja las peticiones HTTP del catálogo local
type CatalogController struct {
	refreshUC *usecase.RefreshCatalogUseCase
	lookupUC  *usecase.LookupProductUseCase
}

// NewCatalogController crea una nueva instancia del controlador
func NewCatalogController(
	refreshUC *usecase.RefreshCatalogUseCase,
	lookupUC *usecase.LookupProductUseCase,
) *CatalogController {
	return &CatalogController{
		refreshUC: refreshUC,
		lookupUC:  lookupUC,
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *CatalogController) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/catalog")
	{
		catalog.GET("/lookup", c.Lookup)
		catalog.POST("/refresh", c.Refresh)
	}

	log.Println("Rutas Catalog disponibles:")
	log.Println("  GET    /api/v1/catalog/lookup?term=")
	log.Println("  POST   /api/v1/catalog/refresh")
}

// Lookup busca productos en el espejo local (funciona offline)
func (c *CatalogController) Lookup(ctx *gin.Context) {
	if c.lookupUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog lookup not available (local storage not configured)",
		})
		return
	}

	term := ctx.Query("term")
	if term == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "term query parameter is required"})
		return
	}

	matches := c.lookupUC.Execute(term)
	ctx.JSON(http.StatusOK, gin.H{
		"items":       matches,
		"total_count": len(matches),
	})
}

// Refresh descarga y reemplaza el catálogo local completo
func (c *CatalogController) Refresh(ctx *gin.Context) {
	if c.refreshUC == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog refresh not available (local storage not configured)",
		})
		return
	}

	authToken := ctx.GetHeader("Authorization")

	result, err := c.refreshUC.Execute(ctx.Request.Context(), authToken)
	if err != nil {
		log.Printf("Error refreshing catalog: %v", err)

		// Refresh fallido no es fatal: el cache viejo sigue usable
		if errors.Is(err, entity.ErrRefreshFailed) {
			ctx.JSON(http.StatusBadGateway, gin.H{
				"error":       err.Error(),
				"stale_cache": true,
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, result)
}
