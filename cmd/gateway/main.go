package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/gateway/cache"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/gateway/proxy"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/gateway/relay"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/config"
)

func main() {
	log.Println("🚀 POS Gateway - Iniciando...")

	config.Load()
	cfg := config.LoadGatewayConfig()

	// Abrir el cache de respuestas (archivo propio, separado de la terminal)
	responseCache, err := cache.Open(cfg.CachePath, cfg.Generation)
	if err != nil {
		log.Fatalf("❌ Error abriendo el cache de respuestas: %v", err)
	}
	defer responseCache.Close()

	// Activación: borrar generaciones viejas y tomar control inmediato
	if err := responseCache.Activate(); err != nil {
		log.Fatalf("❌ Error activando la generación de cache %d: %v", cfg.Generation, err)
	}
	log.Printf("✅ Cache generation %d active", cfg.Generation)

	gateway := proxy.NewGateway(cfg.UpstreamURL, responseCache)
	terminalRelay := relay.NewRelay(cfg.TerminalURL)

	// Instalación: precargar raíz, página offline y manifest
	gateway.Install()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Señales entrantes que se reenvían a la aplicación en primer plano
	router.POST("/internal/sync-trigger", func(ctx *gin.Context) {
		log.Println("🔄 Background sync trigger received")
		if err := terminalRelay.ForwardSyncTrigger(); err != nil {
			log.Printf("⚠️  Could not relay sync trigger: %v", err)
			ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusAccepted, gin.H{"status": "relayed"})
	})

	router.POST("/internal/push", func(ctx *gin.Context) {
		var payload relay.PushPayload
		if err := ctx.ShouldBindJSON(&payload); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("🔔 Push received: %q", payload.Title)
		if err := terminalRelay.ForwardPush(payload); err != nil {
			log.Printf("⚠️  Could not relay push: %v", err)
			ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusAccepted, gin.H{"status": "relayed"})
	})

	// Todo el resto del tráfico pasa por la capa de estrategias
	router.NoRoute(gateway.HandleGin)

	log.Printf("✅ POS Gateway escuchando en http://localhost:%s (upstream %s)", cfg.Port, cfg.UpstreamURL)
	router.Run(":" + cfg.Port)
}
