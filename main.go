package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalogUseCase "github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/application/usecase"
	catalogCache "github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/cache"
	catalogClient "github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/client"
	catalogController "github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/controller"
	catalogPersistence "github.com/nenempneuscom-star/imperionenem-sub003/src/catalog/infrastructure/persistence"
	posUseCase "github.com/nenempneuscom-star/imperionenem-sub003/src/pos/application/usecase"
	posClient "github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/client"
	posController "github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/controller"
	posPersistence "github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/persistence"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/config"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/connectivity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/events"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/storage"
)

func main() {
	log.Println("🚀 POS Terminal - Iniciando...")

	config.Load()
	cfg := config.LoadTerminalConfig()

	// Configurar el router con Gin
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Configurar Prometheus metrics si está habilitado
	if cfg.PrometheusEnabled {
		log.Println("Registering /metrics endpoint for POS terminal")
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	} else {
		log.Println("Prometheus metrics disabled for POS terminal")
	}

	// Abrir el almacenamiento local durable (opcional: sin él la terminal
	// degrada a modo solo-online, nunca se cae en el arranque)
	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		log.Printf("⚠️  Advertencia: almacenamiento local no disponible: %v", err)
		log.Println("⚠️  Continuando en modo solo-online (sin cola offline ni catálogo local)")
		store = nil
	} else {
		defer store.Close()
		log.Printf("✅ Almacenamiento local abierto: %s (schema v%d)", cfg.StorePath, storage.SchemaVersion)
	}

	// Infraestructura compartida: bus de eventos, monitor de conectividad
	// y buzón de notificaciones del operador
	bus := events.NewBus()
	monitor := connectivity.NewMonitor(bus, cfg.StartOnline)
	notifier := notification.NewCenter()

	// Shell mínimo servido por la terminal (raíz, página offline, manifest):
	// es lo que el gateway precarga durante su instalación
	registerShellRoutes(router)

	// API v1 grupo de rutas
	v1 := router.Group("/api/v1")

	// Health check
	router.GET("/health", healthHandler(store))
	v1.GET("/health", healthHandler(store))

	// Configurar módulos POS y Catalog
	syncUC := setupPOSModule(router, v1, store, bus, monitor, notifier, cfg)
	setupCatalogModule(v1, store, cfg)

	// Transición offline→online y triggers reenviados por el gateway
	// disparan una pasada de sincronización en background
	if syncUC != nil {
		runPass := func(evt events.Event, _ interface{}) {
			go func() {
				if _, err := syncUC.Execute(context.Background(), ""); err != nil {
					log.Printf("⚠️  Sync pass triggered by %s failed: %v", evt, err)
				}
			}()
		}
		bus.Subscribe(events.Online, runPass)
		bus.Subscribe(events.SyncRequested, runPass)
	}

	// Iniciar el servidor
	log.Printf("✅ POS Terminal iniciada en http://localhost:%s", cfg.Port)
	log.Printf("✅ Health endpoint: GET http://localhost:%s/health", cfg.Port)
	router.Run(":" + cfg.Port)
}

// setupPOSModule configura el módulo POS (cola offline + motor de sync)
func setupPOSModule(
	router *gin.Engine,
	v1 *gin.RouterGroup,
	store *storage.Store,
	bus *events.Bus,
	monitor *connectivity.Monitor,
	notifier *notification.Center,
	cfg config.TerminalConfig,
) *posUseCase.SyncPassUseCase {
	log.Println("Configurando módulo POS...")

	salesClient := posClient.NewSalesAPIClient(cfg.SalesAPIURL)

	var enqueueUC *posUseCase.EnqueueSaleUseCase
	var listUC *posUseCase.ListSalesUseCase
	var syncUC *posUseCase.SyncPassUseCase
	if store != nil {
		saleRepo := posPersistence.NewSaleQueueBoltRepository(store)
		syncUC = posUseCase.NewSyncPassUseCase(saleRepo, salesClient, notifier)
		enqueueUC = posUseCase.NewEnqueueSaleUseCase(saleRepo, monitor, syncUC, notifier)
		listUC = posUseCase.NewListSalesUseCase(saleRepo)
	} else {
		log.Println("⚠️  Cola offline deshabilitada (sin almacenamiento local)")
	}

	posCtrl := posController.NewPOSController(enqueueUC, listUC, syncUC)
	posCtrl.RegisterRoutes(v1)

	internalCtrl := posController.NewInternalController(monitor, bus, notifier)
	internalCtrl.RegisterRoutes(router, v1)

	log.Println("Módulo POS configurado exitosamente")
	return syncUC
}

// setupCatalogModule configura el módulo Catalog (cache local de productos)
func setupCatalogModule(v1 *gin.RouterGroup, store *storage.Store, cfg config.TerminalConfig) {
	log.Println("Configurando módulo Catalog...")

	var refreshUC *catalogUseCase.RefreshCatalogUseCase
	var lookupUC *catalogUseCase.LookupProductUseCase
	if store != nil {
		mirror := catalogCache.NewCatalogCache()
		catalogRepo := catalogPersistence.NewCatalogBoltRepository(store)
		remote := catalogClient.NewCatalogClient(cfg.CatalogAPIURL)
		refreshUC = catalogUseCase.NewRefreshCatalogUseCase(remote, catalogRepo, mirror, store)
		lookupUC = catalogUseCase.NewLookupProductUseCase(mirror)

		// Reconstruir el espejo con el snapshot de la última sesión
		if err := refreshUC.WarmMirror(context.Background()); err != nil {
			log.Printf("⚠️  Warning: could not warm catalog mirror: %v", err)
		}
	} else {
		log.Println("⚠️  Catálogo local deshabilitado (sin almacenamiento local)")
	}

	catalogCtrl := catalogController.NewCatalogController(refreshUC, lookupUC)
	catalogCtrl.RegisterRoutes(v1)

	log.Println("Módulo Catalog configurado exitosamente")
}

// healthHandler health check con el estado del almacenamiento local
func healthHandler(store *storage.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"local_storage": store != nil,
			"time":          time.Now().Format(time.RFC3339),
		})
	}
}

// registerShellRoutes shell mínimo de la aplicación POS
func registerShellRoutes(router *gin.Engine) {
	router.GET("/", func(ctx *gin.Context) {
		ctx.Header("Content-Type", "text/html; charset=utf-8")
		ctx.String(http.StatusOK, shellIndexHTML)
	})
	router.GET("/offline.html", func(ctx *gin.Context) {
		ctx.Header("Content-Type", "text/html; charset=utf-8")
		ctx.String(http.StatusOK, shellOfflineHTML)
	})
	router.GET("/manifest.json", func(ctx *gin.Context) {
		ctx.Header("Content-Type", "application/json")
		ctx.String(http.StatusOK, shellManifestJSON)
	})
}

const shellIndexHTML = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>POS Terminal</title><link rel="manifest" href="/manifest.json"></head>
<body><h1>POS Terminal</h1><p>Terminal de venta offline-first.</p></body>
</html>`

const shellOfflineHTML = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Sin conexión</title></head>
<body><h1>Sin conexión</h1><p>La terminal sigue operativa: las ventas se guardan localmente y se sincronizan al volver la red.</p></body>
</html>`

const shellManifestJSON = `{
  "name": "POS Terminal",
  "short_name": "POS",
  "start_url": "/",
  "display": "standalone"
}`
