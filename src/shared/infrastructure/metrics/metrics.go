package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas del pipeline offline de la terminal.
// Se exponen en GET /metrics cuando PROMETHEUS_ENABLED=true.
var (
	// SalesSynced ventas confirmadas por el servidor
	SalesSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_synced_total",
		Help: "Ventas POS sincronizadas con el servidor",
	})

	// SyncAttemptsFailed intentos de sincronización fallidos
	SyncAttemptsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sync_attempts_failed_total",
		Help: "Intentos de sincronización de ventas que fallaron",
	})

	// SalesAbandoned ventas abandonadas tras agotar los reintentos
	SalesAbandoned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_sales_abandoned_total",
		Help: "Ventas POS abandonadas tras agotar los reintentos",
	})

	// PendingSales ventas en cola esperando sincronización
	PendingSales = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pos_pending_sales",
		Help: "Ventas POS locales pendientes de sincronizar",
	})

	// CatalogEntries productos en el cache local de catálogo
	CatalogEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pos_catalog_entries",
		Help: "Productos en el snapshot local de catálogo",
	})
)
