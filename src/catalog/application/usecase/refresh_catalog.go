package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/application/response"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/cache"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/client"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/metrics"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/storage"
)

// ConfigKeyLastCatalogRefresh clave del timestamp del último refresh exitoso
const ConfigKeyLastCatalogRefresh = "last_catalog_refresh"

// RefreshCatalogUseCase descarga el catálogo activo completo y reemplaza el
// snapshot local en bloque. Si falla cualquier paso antes de escribir, el
// cache viejo queda intacto y usable: vender con precios de ayer es mejor
// que no vender.
type RefreshCatalogUseCase struct {
	catalogClient *client.CatalogClient
	catalogRepo   port.CatalogRepository
	mirror        *cache.CatalogCache
	store         *storage.Store
}

// NewRefreshCatalogUseCase crea una nueva instancia del caso de uso
func NewRefreshCatalogUseCase(
	catalogClient *client.CatalogClient,
	catalogRepo port.CatalogRepository,
	mirror *cache.CatalogCache,
	store *storage.Store,
) *RefreshCatalogUseCase {
	return &RefreshCatalogUseCase{
		catalogClient: catalogClient,
		catalogRepo:   catalogRepo,
		mirror:        mirror,
		store:         store,
	}
}

// Execute ejecuta un refresh completo del catálogo
func (uc *RefreshCatalogUseCase) Execute(ctx context.Context, authToken string) (*response.RefreshCatalogResponse, error) {
	log.Println("🔄 Refreshing product catalog from remote...")

	// ========================================================================
	// PASO 1: DESCARGAR EL CATÁLOGO COMPLETO (sin tocar nada local todavía)
	// ========================================================================
	entries, err := uc.catalogClient.FetchActiveCatalog(authToken)
	if err != nil {
		// Cache viejo intacto; el caller decide si avisar al operador
		return nil, fmt.Errorf("%w: %v", entity.ErrRefreshFailed, err)
	}

	// ========================================================================
	// PASO 2: REEMPLAZO ATÓMICO DEL SNAPSHOT DURABLE
	// ========================================================================
	if err := uc.catalogRepo.ReplaceAll(ctx, entries); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrRefreshFailed, err)
	}

	// ========================================================================
	// PASO 3: TIMESTAMP DEL REFRESH + RECONSTRUIR EL ESPEJO EN MEMORIA
	// ========================================================================
	refreshedAt := time.Now()
	if err := uc.store.SetConfig(ConfigKeyLastCatalogRefresh, refreshedAt.Format(time.RFC3339)); err != nil {
		log.Printf("⚠️  Could not record catalog refresh timestamp: %v", err)
	}

	uc.mirror.Replace(entries)
	metrics.CatalogEntries.Set(float64(len(entries)))

	log.Printf("✅ Catalog refreshed: %d products", len(entries))

	return &response.RefreshCatalogResponse{
		Products:    len(entries),
		RefreshedAt: refreshedAt,
	}, nil
}

// WarmMirror reconstruye el espejo en memoria desde el snapshot durable.
// Se usa al arrancar: la terminal puede vender offline con el catálogo de
// la última sesión aunque nunca llegue a conectarse.
func (uc *RefreshCatalogUseCase) WarmMirror(ctx context.Context) error {
	entries, err := uc.catalogRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("error warming catalog mirror: %w", err)
	}

	uc.mirror.Replace(entries)
	metrics.CatalogEntries.Set(float64(len(entries)))

	if stamp, ok, _ := uc.store.GetConfig(ConfigKeyLastCatalogRefresh); ok {
		log.Printf("✅ Catalog mirror warmed: %d products (last refresh %s)", len(entries), stamp)
	} else {
		log.Printf("✅ Catalog mirror warmed: %d products (never refreshed)", len(entries))
	}
	return nil
}
