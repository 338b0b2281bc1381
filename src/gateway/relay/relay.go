package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// PushPayload payload decodificado de una notificación push entrante
type PushPayload struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Relay reenvía señales del gateway a la aplicación en primer plano.
// El gateway y la terminal no comparten memoria: toda coordinación pasa
// por el almacenamiento durable o por estos mensajes explícitos.
type Relay struct {
	httpClient  *http.Client
	terminalURL string
}

// NewRelay crea una nueva instancia del relay
func NewRelay(terminalURL string) *Relay {
	return &Relay{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		terminalURL: terminalURL,
	}
}

// ForwardSyncTrigger despierta a la terminal para que corra una pasada de sync
func (r *Relay) ForwardSyncTrigger() error {
	return r.post("/internal/events/sync", nil)
}

// ForwardPush reenvía una notificación push decodificada a la terminal
func (r *Relay) ForwardPush(payload PushPayload) error {
	return r.post("/internal/events/push", payload)
}

func (r *Relay) post(path string, payload interface{}) error {
	var reqBody io.Reader = bytes.NewReader([]byte("{}"))
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("error marshalling relay payload: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest("POST", r.terminalURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("error creating relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error relaying to terminal: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading relay response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("terminal returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
