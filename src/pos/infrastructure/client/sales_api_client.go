package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
)

// CreateSaleLineRequest línea de venta en el contrato remoto
type CreateSaleLineRequest struct {
	ProductRef  string          `json:"product_ref"`
	DisplayCode string          `json:"display_code"`
	DisplayName string          `json:"display_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// CreateSalePaymentRequest pago en el contrato remoto
type CreateSalePaymentRequest struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	CardBrand string          `json:"card_brand,omitempty"`
	AuthCode  string          `json:"auth_code,omitempty"`
}

// CreateSaleRequest request del contrato remoto "create sale"
// IdempotencyKey es el local_id de la venta: reenviar el mismo request
// tras perder la respuesta no duplica la venta en el servidor.
type CreateSaleRequest struct {
	IdempotencyKey string                     `json:"idempotency_key"`
	CustomerRef    *string                    `json:"customer_ref,omitempty"`
	OperatorRef    string                     `json:"operator_ref"`
	Subtotal       decimal.Decimal            `json:"subtotal"`
	Discount       decimal.Decimal            `json:"discount"`
	Total          decimal.Decimal            `json:"total"`
	OccurredAt     time.Time                  `json:"occurred_at"`
	LineItems      []CreateSaleLineRequest    `json:"line_items"`
	Payments       []CreateSalePaymentRequest `json:"payments"`
}

// ServerAck respuesta exitosa del contrato remoto
type ServerAck struct {
	ServerID       string `json:"server_id"`
	SequenceNumber int64  `json:"sequence_number"`
}

// SalesAPIClient cliente HTTP para el API remoto de ventas
type SalesAPIClient struct {
	httpClient *http.Client
	baseURL    string
	salesPath  string
}

// NewSalesAPIClient crea una nueva instancia del cliente
func NewSalesAPIClient(baseURL string) *SalesAPIClient {
	return &SalesAPIClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:   baseURL,
		salesPath: "/api/v1/sales",
	}
}

// CreateSale envía la venta al servidor usando local_id como clave de
// idempotencia. Seguro de repetir si la respuesta anterior se perdió.
// El motor de sync no distingue errores de validación de fallas
// transitorias: todos cuentan un intento.
func (c *SalesAPIClient) CreateSale(authToken string, sale *entity.PendingSale) (*ServerAck, error) {
	reqBody := CreateSaleRequest{
		IdempotencyKey: sale.LocalID.String(),
		CustomerRef:    sale.CustomerRef,
		OperatorRef:    sale.OperatorRef,
		Subtotal:       sale.Subtotal,
		Discount:       sale.Discount,
		Total:          sale.Total,
		OccurredAt:     sale.CreatedAt,
	}
	for _, line := range sale.LineItems {
		reqBody.LineItems = append(reqBody.LineItems, CreateSaleLineRequest{
			ProductRef:  line.ProductRef.String(),
			DisplayCode: line.DisplayCode,
			DisplayName: line.DisplayName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Discount:    line.Discount,
			LineTotal:   line.LineTotal,
		})
	}
	for _, p := range sale.Payments {
		reqBody.Payments = append(reqBody.Payments, CreateSalePaymentRequest{
			Method:    p.Method,
			Amount:    p.Amount,
			CardBrand: p.CardBrand,
			AuthCode:  p.AuthCode,
		})
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("error marshalling request: %w", err)
	}

	url := fmt.Sprintf("%s%s", c.baseURL, c.salesPath)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	// Headers obligatorios
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", sale.LocalID.String())

	// Pasar Authorization si existe
	if authToken != "" {
		req.Header.Set("Authorization", authToken)
	}

	// Ejecutar request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error calling sales-api: %w", err)
	}
	defer resp.Body.Close()

	// Leer response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	// Verificar status code (200 primera vez o replay idempotente, 201 creación)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("sales-api returned status %d: %s", resp.StatusCode, string(body))
	}

	// Parse response
	var ack ServerAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return nil, fmt.Errorf("error unmarshalling response: %w", err)
	}
	if ack.ServerID == "" {
		return nil, fmt.Errorf("sales-api returned ack without server_id")
	}

	return &ack, nil
}
