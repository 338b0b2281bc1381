package connectivity

import (
	"log"
	"sync/atomic"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/events"
)

// Monitor observa la señal online/offline que reporta el shell de la terminal
// y publica los eventos de transición en el bus. No hace polling: el host
// es quien avisa cada cambio de estado.
type Monitor struct {
	online atomic.Bool
	bus    *events.Bus
}

// NewMonitor crea el monitor con el estado inicial reportado por el host
func NewMonitor(bus *events.Bus, initialOnline bool) *Monitor {
	m := &Monitor{bus: bus}
	m.online.Store(initialOnline)
	return m
}

// IsOnline indica el último estado de conectividad conocido
func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

// SetOnline registra la señal del host. Solo las transiciones publican
// eventos: repetir el mismo estado no dispara trabajo.
func (m *Monitor) SetOnline(online bool) {
	previous := m.online.Swap(online)
	if previous == online {
		return
	}

	if online {
		log.Println("✅ Connectivity restored — notifying subscribers")
		m.bus.Publish(events.Online, nil)
	} else {
		log.Println("⚠️  Connectivity lost — terminal in offline mode")
		m.bus.Publish(events.Offline, nil)
	}
}
