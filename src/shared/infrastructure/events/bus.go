package events

import (
	"log"
	"sync"
)

// Event tipos de eventos internos de la terminal
type Event string

const (
	// Online la conexión con el servidor volvió a estar disponible
	Online Event = "online"
	// Offline se perdió la conexión con el servidor
	Offline Event = "offline"
	// SyncRequested el gateway (u operador) pidió una pasada de sincronización
	SyncRequested Event = "sync_requested"
	// PushReceived llegó una notificación push reenviada por el gateway
	PushReceived Event = "push_received"
)

// PushPayload payload decodificado de una notificación push
type PushPayload struct {
	Title string `json:"title,omitempty"`
	Body  string `json:"body,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Handler callback registrado para un evento
type Handler func(evt Event, payload interface{})

// Bus bus de suscripción explícita para eventos de la terminal
// Un componente registra handlers para {online, offline, syncRequested,
// pushReceived}; el mecanismo de entrega es un detalle interno.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

// NewBus crea un bus de eventos vacío
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Event][]Handler),
	}
}

// Subscribe registra un handler para un evento
func (b *Bus) Subscribe(evt Event, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[evt] = append(b.handlers[evt], h)
}

// Publish despacha el evento a todos los handlers registrados.
// El despacho es secuencial: un handler que necesite trabajo largo
// (ej. una pasada de sync) debe lanzar su propia goroutine.
func (b *Bus) Publish(evt Event, payload interface{}) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[evt]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		log.Printf("⚠️  Event %s published with no subscribers", evt)
		return
	}

	for _, h := range handlers {
		h(evt, payload)
	}
}
