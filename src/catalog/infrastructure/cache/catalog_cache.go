package cache

import (
	"log"
	"strings"
	"sync"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
)

// CatalogCache espejo en memoria del snapshot de catálogo para búsquedas
// rápidas durante la venta offline. Se reemplaza completo en cada refresh
// (nunca se parchea), así toda lectura concurrente ve SIEMPRE un snapshot
// consistente. Se invalida y reconstruye también al arrancar desde el
// almacenamiento durable.
type CatalogCache struct {
	mu        sync.RWMutex
	entries   []*entity.CatalogEntry
	byCode    map[string]*entity.CatalogEntry // display_code en minúsculas
	byBarcode map[string]*entity.CatalogEntry
}

// NewCatalogCache crea un espejo vacío
func NewCatalogCache() *CatalogCache {
	return &CatalogCache{
		byCode:    make(map[string]*entity.CatalogEntry),
		byBarcode: make(map[string]*entity.CatalogEntry),
	}
}

// Replace reemplaza el espejo completo por un nuevo snapshot
func (c *CatalogCache) Replace(entries []*entity.CatalogEntry) {
	byCode := make(map[string]*entity.CatalogEntry, len(entries))
	byBarcode := make(map[string]*entity.CatalogEntry)
	for _, e := range entries {
		byCode[strings.ToLower(e.DisplayCode)] = e
		if e.Barcode != nil && *e.Barcode != "" {
			byBarcode[*e.Barcode] = e
		}
	}

	c.mu.Lock()
	c.entries = entries
	c.byCode = byCode
	c.byBarcode = byBarcode
	c.mu.Unlock()

	log.Printf("✅ Catalog mirror replaced: %d products", len(entries))
}

// GetByCode búsqueda exacta por display_code (case-insensitive)
func (c *CatalogCache) GetByCode(code string) (*entity.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byCode[strings.ToLower(code)]
	return e, ok
}

// GetByBarcode búsqueda exacta por código de barras
func (c *CatalogCache) GetByBarcode(barcode string) (*entity.CatalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byBarcode[barcode]
	return e, ok
}

// Snapshot retorna el snapshot vigente (no modificar: es compartido)
func (c *CatalogCache) Snapshot() []*entity.CatalogEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries
}

// Size cantidad de productos en el espejo
func (c *CatalogCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
