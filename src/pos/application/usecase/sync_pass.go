package usecase

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/client"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/metrics"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
)

// SyncSummary resultado de una pasada de sincronización
type SyncSummary struct {
	Synced    int // ventas confirmadas en esta pasada
	Failed    int // ventas que fallaron en esta pasada (siguen pendientes)
	Abandoned int // ventas que agotaron los reintentos en esta pasada
	Pending   int // ventas que quedan pendientes al terminar
}

// SyncPassUseCase drena la cola de ventas pendientes contra el API remoto.
// Una venta por vez, en orden de creación, con a lo sumo UNA pasada en
// vuelo por proceso.
type SyncPassUseCase struct {
	saleRepo    port.SaleQueueRepository
	salesClient *client.SalesAPIClient
	notifier    *notification.Center

	// Guarda de pasada única: una llamada concurrente mientras hay una
	// pasada corriendo es un no-op, no duplica trabajo.
	inFlight atomic.Bool
}

// NewSyncPassUseCase crea una nueva instancia del caso de uso
func NewSyncPassUseCase(
	saleRepo port.SaleQueueRepository,
	salesClient *client.SalesAPIClient,
	notifier *notification.Center,
) *SyncPassUseCase {
	return &SyncPassUseCase{
		saleRepo:    saleRepo,
		salesClient: salesClient,
		notifier:    notifier,
	}
}

// Execute ejecuta una pasada de sincronización completa (runSyncPass)
// Devuelve (nil, nil) si ya había una pasada en vuelo.
//
// 1. Tomar la guarda de pasada única (CAS); si falla → no-op
// 2. Leer las ventas pendientes en orden de creación (snapshot: una venta
//    encolada a mitad de pasada espera a la próxima)
// 3. Enviar una por una con local_id como clave de idempotencia:
//    éxito → server_id + synced; fallo → attempt_count+1 y se sigue con la
//    próxima (una venta mala no bloquea a las demás)
// 4. Emitir el resumen como notificación, nunca como error
func (uc *SyncPassUseCase) Execute(ctx context.Context, authToken string) (*SyncSummary, error) {
	// ========================================================================
	// PASO 1: GUARDA DE PASADA ÚNICA
	// ========================================================================
	if !uc.inFlight.CompareAndSwap(false, true) {
		log.Println("⚠️  Sync pass already in flight — skipping")
		return nil, nil
	}
	defer uc.inFlight.Store(false)

	// ========================================================================
	// PASO 2: SNAPSHOT DE VENTAS PENDIENTES (la más vieja primero)
	// ========================================================================
	pending, err := uc.saleRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("error reading pending sales: %w", err)
	}

	if len(pending) == 0 {
		log.Println("✅ Sync pass: nothing to sync")
		return &SyncSummary{}, nil
	}

	log.Printf("🔄 Sync pass started: %d pending sales", len(pending))

	// ========================================================================
	// PASO 3: ENVIAR UNA VENTA POR VEZ (secuencial, no en paralelo:
	// no saturar un enlace recién recuperado y mantener predecible la
	// numeración secuencial del servidor)
	// ========================================================================
	summary := &SyncSummary{}

	for _, sale := range pending {
		if !sale.Retryable() {
			continue
		}

		ack, err := uc.salesClient.CreateSale(authToken, sale)
		if err != nil {
			// Fallo del intento: contar y seguir con la próxima venta
			// (aislamiento de fallas parciales)
			log.Printf("❌ Sync failed for sale %s (attempt %d): %v", sale.LocalID, sale.AttemptCount+1, err)
			sale.MarkAttemptFailed()
			metrics.SyncAttemptsFailed.Inc()

			if sale.SyncState == entity.SyncAbandoned {
				log.Printf("⚠️  Sale %s abandoned after %d attempts", sale.LocalID, sale.AttemptCount)
				summary.Abandoned++
				metrics.SalesAbandoned.Inc()
				if uc.notifier != nil {
					uc.notifier.Standing(
						"Venta sin sincronizar",
						fmt.Sprintf("La venta %s agotó los %d reintentos y requiere intervención manual", sale.LocalID, entity.MaxSyncAttempts),
					)
				}
			} else {
				summary.Failed++
			}

			if saveErr := uc.saleRepo.Save(ctx, sale); saveErr != nil {
				log.Printf("❌ CRITICAL: could not persist attempt count for sale %s: %v", sale.LocalID, saveErr)
			}
			continue
		}

		// Éxito: registrar server_id (exactamente una vez) y conservar la
		// venta sincronizada para auditoría offline
		if err := sale.MarkSynced(ack.ServerID); err != nil {
			log.Printf("⚠️  Sale %s: %v", sale.LocalID, err)
			continue
		}

		if err := uc.saleRepo.Save(ctx, sale); err != nil {
			// El servidor ya la aceptó; el próximo replay con la misma clave
			// de idempotencia devolverá el mismo server_id sin duplicar
			log.Printf("❌ CRITICAL: sale %s acked by server but not persisted locally: %v", sale.LocalID, err)
			continue
		}

		log.Printf("✅ Sale %s synced: server_id=%s seq=%d", sale.LocalID, ack.ServerID, ack.SequenceNumber)
		summary.Synced++
		metrics.SalesSynced.Inc()
	}

	// ========================================================================
	// PASO 4: RESUMEN PARA LA UI (aviso, no error)
	// ========================================================================
	remaining, err := uc.saleRepo.CountPending(ctx)
	if err != nil {
		log.Printf("⚠️  Could not count remaining pending sales: %v", err)
	}
	summary.Pending = remaining
	metrics.PendingSales.Set(float64(remaining))

	log.Printf("✅ Sync pass finished: %d synced, %d failed, %d abandoned, %d still pending",
		summary.Synced, summary.Failed, summary.Abandoned, summary.Pending)

	if uc.notifier != nil && (summary.Synced > 0 || summary.Failed > 0) {
		uc.notifier.Toast(
			"Sincronización",
			fmt.Sprintf("%d ventas sincronizadas, %d pendientes", summary.Synced, summary.Pending),
		)
	}

	return summary, nil
}
