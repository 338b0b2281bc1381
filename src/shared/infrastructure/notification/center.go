package notification

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind clase de notificación para la UI de la terminal
type Kind string

const (
	// KindToast aviso transitorio (ej. "3 ventas sincronizadas, 1 pendiente")
	KindToast Kind = "toast"
	// KindStanding aviso persistente que requiere intervención del operador
	// (ej. venta abandonada tras agotar reintentos). No desaparece solo.
	KindStanding Kind = "standing"
)

// ErrNotificationNotFound la notificación a descartar no existe
var ErrNotificationNotFound = errors.New("notification not found")

// Notification aviso visible para el operador de la terminal
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	URL       string    `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Center buzón en memoria de notificaciones para la capa de UI.
// Los errores de sync nunca llegan a la UI como errores crudos:
// se convierten acá en avisos con conteos legibles.
type Center struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Notification
}

// NewCenter crea un centro de notificaciones vacío
func NewCenter() *Center {
	return &Center{
		items: make(map[uuid.UUID]*Notification),
	}
}

// Toast publica un aviso transitorio
func (c *Center) Toast(title, body string) *Notification {
	return c.add(KindToast, title, body, "")
}

// Standing publica un aviso persistente; queda visible hasta que el
// operador lo descarte manualmente.
func (c *Center) Standing(title, body string) *Notification {
	return c.add(KindStanding, title, body, "")
}

// Push publica el contenido de una notificación push reenviada por el gateway
func (c *Center) Push(title, body, url string) *Notification {
	return c.add(KindToast, title, body, url)
}

func (c *Center) add(kind Kind, title, body, url string) *Notification {
	n := &Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     title,
		Body:      body,
		URL:       url,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.items[n.ID] = n
	c.mu.Unlock()
	return n
}

// List devuelve las notificaciones activas, más recientes primero
func (c *Center) List() []*Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	list := make([]*Notification, 0, len(c.items))
	for _, n := range c.items {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID.String() < list[j].ID.String()
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// Dismiss descarta una notificación por ID
func (c *Center) Dismiss(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[id]; !ok {
		return ErrNotificationNotFound
	}
	delete(c.items, id)
	return nil
}
