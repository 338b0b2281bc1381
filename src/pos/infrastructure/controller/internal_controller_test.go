package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/connectivity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/events"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
)

type internalFixture struct {
	router   *gin.Engine
	monitor  *connectivity.Monitor
	bus      *events.Bus
	notifier *notification.Center
}

func newInternalFixture(t *testing.T) *internalFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bus := events.NewBus()
	monitor := connectivity.NewMonitor(bus, false)
	notifier := notification.NewCenter()

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewInternalController(monitor, bus, notifier).RegisterRoutes(router, v1)

	return &internalFixture{router: router, monitor: monitor, bus: bus, notifier: notifier}
}

func (fx *internalFixture) post(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fx.router.ServeHTTP(rec, req)
	return rec
}

func TestReportConnectivity(t *testing.T) {
	fx := newInternalFixture(t)

	rec := fx.post("/internal/connectivity", `{"online": true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, fx.monitor.IsOnline())

	rec = fx.post("/internal/connectivity", `{"online": false}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, fx.monitor.IsOnline())

	// El campo es obligatorio: sin booleano no hay transición que registrar
	rec = fx.post("/internal/connectivity", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSyncTriggerPublishesEvent(t *testing.T) {
	fx := newInternalFixture(t)

	fired := false
	fx.bus.Subscribe(events.SyncRequested, func(events.Event, interface{}) { fired = true })

	rec := fx.post("/internal/events/sync", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.True(t, fired)
}

func TestPushShowsNotification(t *testing.T) {
	fx := newInternalFixture(t)

	rec := fx.post("/internal/events/push", `{"title":"Promo","body":"2x1 en café","url":"/promos"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	list := fx.notifier.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Promo", list[0].Title)
	assert.Equal(t, "/promos", list[0].URL)
}

func TestPushWithoutTitleGetsDefault(t *testing.T) {
	fx := newInternalFixture(t)

	rec := fx.post("/internal/events/push", `{"body":"solo cuerpo"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	list := fx.notifier.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Notificación", list[0].Title)
}

func TestDismissNotificationEndpoint(t *testing.T) {
	fx := newInternalFixture(t)
	n := fx.notifier.Standing("Venta sin sincronizar", "Requiere intervención manual")

	rec := fx.post("/api/v1/notifications/"+n.ID.String()+"/dismiss", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, fx.notifier.List())

	rec = fx.post("/api/v1/notifications/"+n.ID.String()+"/dismiss", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = fx.post("/api/v1/notifications/no-es-uuid/dismiss", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
