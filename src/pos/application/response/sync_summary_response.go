package response

// SyncSummaryResponse resumen de una pasada de sincronización
// Se muestra al operador como aviso ("N ventas sincronizadas, M pendientes"),
// nunca como error.
type SyncSummaryResponse struct {
	Synced    int `json:"synced"`
	Failed    int `json:"failed"`
	Abandoned int `json:"abandoned"`
	Pending   int `json:"pending"`
}
