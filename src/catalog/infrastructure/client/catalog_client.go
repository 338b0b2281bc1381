package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/domain/entity"
)

// CatalogProductResponse producto del catálogo remoto
type CatalogProductResponse struct {
	ProductID   string          `json:"product_id"`
	DisplayCode string          `json:"display_code"`
	Barcode     *string         `json:"barcode,omitempty"`
	Name        string          `json:"name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
	StockCount  int             `json:"stock_count"`
	TaxCode     string          `json:"tax_code"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// catalogListResponse respuesta paginada del catálogo remoto
type catalogListResponse struct {
	Items      []CatalogProductResponse `json:"items"`
	TotalCount int                      `json:"total_count"`
}

// CatalogClient cliente HTTP para el API remoto de catálogo
type CatalogClient struct {
	httpClient  *http.Client
	baseURL     string
	catalogPath string
}

// NewCatalogClient crea una nueva instancia del cliente
func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second, // el catálogo completo puede ser grande
		},
		baseURL:     baseURL,
		catalogPath: "/api/v1/catalog/products",
	}
}

// FetchActiveCatalog descarga el catálogo activo completo
func (c *CatalogClient) FetchActiveCatalog(authToken string) ([]*entity.CatalogEntry, error) {
	url := fmt.Sprintf("%s%s?status=active", c.baseURL, c.catalogPath)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Pasar Authorization si existe
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	// Ejecutar request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling catalog-api: %w", err)
	}
	defer resp.Body.Close()

	// Leer response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	// Verificar status code
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog-api returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse response
	var list catalogListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("error unmarshalling catalog response: %w", err)
	}

	entries := make([]*entity.CatalogEntry, 0, len(list.Items))
	for _, item := range list.Items {
		productRef, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product_id %q from catalog-api: %w", item.ProductID, err)
		}
		entries = append(entries, &entity.CatalogEntry{
			ProductRef:   productRef,
			DisplayCode:  item.DisplayCode,
			Barcode:      item.Barcode,
			Name:         item.Name,
			UnitPrice:    item.UnitPrice,
			Unit:         item.Unit,
			StockCount:   item.StockCount,
			TaxCode:      item.TaxCode,
			LastModified: item.UpdatedAt,
		})
	}

	return entries, nil
}
