package usecase

import (
	"sort"
	"strings"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/application/response"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/cache"
)

// LookupProductUseCase busca productos en el espejo local para la venta
// offline. Primero match exacto por display_code y por barcode; si ninguno
// pega, scan por substring (case-insensitive) sobre código, nombre y
// barcode con orden de relevancia determinístico: mismo término + mismo
// cache ⇒ siempre la misma secuencia.
type LookupProductUseCase struct {
	mirror *cache.CatalogCache
}

// NewLookupProductUseCase crea una nueva instancia del caso de uso
func NewLookupProductUseCase(mirror *cache.CatalogCache) *LookupProductUseCase {
	return &LookupProductUseCase{
		mirror: mirror,
	}
}

// candidate resultado intermedio del scan con su relevancia
type candidate struct {
	entry    *entity.CatalogEntry
	isPrefix bool // el término es prefijo exacto de algún campo
	position int  // posición mínima del substring entre los campos
}

// Execute busca el término y retorna los matches ordenados por relevancia
func (uc *LookupProductUseCase) Execute(term string) []*response.CatalogMatchResponse {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*response.CatalogMatchResponse{}
	}

	// 1. Match exacto: display_code primero, barcode después
	if e, ok := uc.mirror.GetByCode(term); ok {
		return []*response.CatalogMatchResponse{buildMatch(e)}
	}
	if e, ok := uc.mirror.GetByBarcode(term); ok {
		return []*response.CatalogMatchResponse{buildMatch(e)}
	}

	// 2. Scan por substring sobre el snapshot vigente
	lower := strings.ToLower(term)
	var candidates []candidate

	for _, e := range uc.mirror.Snapshot() {
		fields := []string{strings.ToLower(e.DisplayCode), strings.ToLower(e.Name)}
		if e.Barcode != nil {
			fields = append(fields, strings.ToLower(*e.Barcode))
		}

		position := -1
		isPrefix := false
		for _, f := range fields {
			idx := strings.Index(f, lower)
			if idx < 0 {
				continue
			}
			if position < 0 || idx < position {
				position = idx
			}
			if idx == 0 {
				isPrefix = true
			}
		}

		if position >= 0 {
			candidates = append(candidates, candidate{entry: e, isPrefix: isPrefix, position: position})
		}
	}

	// 3. Orden de relevancia: prefijos exactos primero, después posición del
	// substring ascendente, después nombre ascendente; desempate por
	// display_code ascendente para que el resultado sea determinístico.
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.isPrefix != b.isPrefix {
			return a.isPrefix
		}
		if a.position != b.position {
			return a.position < b.position
		}
		if a.entry.Name != b.entry.Name {
			return a.entry.Name < b.entry.Name
		}
		return a.entry.DisplayCode < b.entry.DisplayCode
	})

	matches := make([]*response.CatalogMatchResponse, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, buildMatch(c.entry))
	}
	return matches
}

func buildMatch(e *entity.CatalogEntry) *response.CatalogMatchResponse {
	return &response.CatalogMatchResponse{
		ProductRef:   e.ProductRef,
		DisplayCode:  e.DisplayCode,
		Barcode:      e.Barcode,
		Name:         e.Name,
		UnitPrice:    e.UnitPrice,
		Unit:         e.Unit,
		StockCount:   e.StockCount,
		TaxCode:      e.TaxCode,
		LastModified: e.LastModified,
	}
}
