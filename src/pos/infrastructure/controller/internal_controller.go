package controller

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/connectivity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/events"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
)

// connectivityRequest señal online/offline reportada por el shell del host
type connectivityRequest struct {
	Online *bool `json:"online" binding:"required"`
}

// InternalController endpoints internos de la terminal: señal de
// conectividad del host, relays del gateway (sync trigger y push) y el
// buzón de notificaciones del operador.
type InternalController struct {
	monitor  *connectivity.Monitor
	bus      *events.Bus
	notifier *notification.Center
}

// NewInternalController crea una nueva instancia del controlador
func NewInternalController(
	monitor *connectivity.Monitor,
	bus *events.Bus,
	notifier *notification.Center,
) *InternalController {
	return &InternalController{
		monitor:  monitor,
		bus:      bus,
		notifier: notifier,
	}
}

// RegisterRoutes registra rutas internas y de notificaciones
func (c *InternalController) RegisterRoutes(router *gin.Engine, v1 *gin.RouterGroup) {
	internal := router.Group("/internal")
	{
		internal.POST("/connectivity", c.ReportConnectivity)
		internal.POST("/events/sync", c.SyncTriggered)
		internal.POST("/events/push", c.PushReceived)
	}

	notifications := v1.Group("/notifications")
	{
		notifications.GET("", c.ListNotifications)
		notifications.POST("/:id/dismiss", c.DismissNotification)
	}

	log.Println("Rutas internas disponibles:")
	log.Println("  POST   /internal/connectivity")
	log.Println("  POST   /internal/events/sync")
	log.Println("  POST   /internal/events/push")
	log.Println("  GET    /api/v1/notifications")
	log.Println("  POST   /api/v1/notifications/:id/dismiss")
}

// ReportConnectivity recibe la señal online/offline del host
func (c *InternalController) ReportConnectivity(ctx *gin.Context) {
	var req connectivityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "online (boolean) is required"})
		return
	}

	c.monitor.SetOnline(*req.Online)
	ctx.JSON(http.StatusOK, gin.H{"online": c.monitor.IsOnline()})
}

// SyncTriggered el gateway reenvió un disparo de sincronización en background
func (c *InternalController) SyncTriggered(ctx *gin.Context) {
	log.Println("🔄 Background sync trigger relayed by gateway")
	c.bus.Publish(events.SyncRequested, nil)
	ctx.JSON(http.StatusAccepted, gin.H{"status": "sync scheduled"})
}

// PushReceived el gateway reenvió una notificación push decodificada
func (c *InternalController) PushReceived(ctx *gin.Context) {
	var payload events.PushPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if payload.Title == "" {
		payload.Title = "Notificación"
	}

	c.notifier.Push(payload.Title, payload.Body, payload.URL)
	c.bus.Publish(events.PushReceived, payload)
	ctx.JSON(http.StatusAccepted, gin.H{"status": "notification shown"})
}

// ListNotifications lista las notificaciones activas del operador
func (c *InternalController) ListNotifications(ctx *gin.Context) {
	items := c.notifier.List()
	ctx.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total_count": len(items),
	})
}

// DismissNotification descarta una notificación por ID
// Las ventas abandonadas permanecen visibles hasta este descarte manual.
func (c *InternalController) DismissNotification(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := c.notifier.Dismiss(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "dismissed"})
}
