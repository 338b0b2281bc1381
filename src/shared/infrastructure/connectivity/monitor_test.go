package connectivity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/events"
)

func TestSetOnlinePublishesOnlyTransitions(t *testing.T) {
	bus := events.NewBus()

	var published []events.Event
	record := func(evt events.Event, _ interface{}) {
		published = append(published, evt)
	}
	bus.Subscribe(events.Online, record)
	bus.Subscribe(events.Offline, record)

	monitor := NewMonitor(bus, false)
	assert.False(t, monitor.IsOnline())

	// Repetir el mismo estado no publica nada
	monitor.SetOnline(false)
	assert.Empty(t, published)

	monitor.SetOnline(true)
	assert.True(t, monitor.IsOnline())
	assert.Equal(t, []events.Event{events.Online}, published)

	monitor.SetOnline(true)
	assert.Equal(t, []events.Event{events.Online}, published)

	monitor.SetOnline(false)
	assert.Equal(t, []events.Event{events.Online, events.Offline}, published)
}

func TestMonitorInitialStateDoesNotPublish(t *testing.T) {
	bus := events.NewBus()

	fired := false
	bus.Subscribe(events.Online, func(events.Event, interface{}) { fired = true })

	monitor := NewMonitor(bus, true)
	assert.True(t, monitor.IsOnline())
	assert.False(t, fired, "el estado inicial no es una transición")
}
