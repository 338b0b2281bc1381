package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/entity"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/domain/port"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/client"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/pos/infrastructure/persistence"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/notification"
	"github.com/nenempneuscom-star/imperionenem-sub003/src/shared/infrastructure/storage"
)

// salesServer servidor de ventas de prueba: registra cada clave de
// idempotencia recibida y permite forzar fallas por venta o globales.
type salesServer struct {
	mu           sync.Mutex
	receivedKeys []string
	authHeaders  []string
	failAll      bool
	failKeys     map[string]bool
	nextSeq      int64
}

func (s *salesServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req client.CreateSaleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.receivedKeys = append(s.receivedKeys, r.Header.Get("Idempotency-Key"))
		s.authHeaders = append(s.authHeaders, r.Header.Get("Authorization"))
		fail := s.failAll || s.failKeys[req.IdempotencyKey]
		s.nextSeq++
		seq := s.nextSeq
		s.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(client.ServerAck{
			ServerID:       "srv-" + req.IdempotencyKey,
			SequenceNumber: seq,
		})
	}
}

func (s *salesServer) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.receivedKeys...)
}

func (s *salesServer) setFailAll(fail bool) {
	s.mu.Lock()
	s.failAll = fail
	s.mu.Unlock()
}

type syncFixture struct {
	repo     port.SaleQueueRepository
	uc       *SyncPassUseCase
	server   *salesServer
	notifier *notification.Center
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := &salesServer{failKeys: map[string]bool{}}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	repo := persistence.NewSaleQueueBoltRepository(store)
	notifier := notification.NewCenter()

	return &syncFixture{
		repo:     repo,
		uc:       NewSyncPassUseCase(repo, client.NewSalesAPIClient(ts.URL), notifier),
		server:   srv,
		notifier: notifier,
	}
}

// seedSale encola una venta con fecha de creación controlada
func seedSale(t *testing.T, repo port.SaleQueueRepository, createdAt time.Time) *entity.PendingSale {
	t.Helper()

	line, err := entity.NewSaleLine(uuid.New(), "P001", "Café molido 500g", 1, decimal.RequireFromString("10.00"), decimal.Zero)
	require.NoError(t, err)
	payment, err := entity.NewPayment("cash", decimal.RequireFromString("10.00"), "", "")
	require.NoError(t, err)

	sale, err := entity.NewPendingSale([]entity.SaleLine{*line}, []entity.Payment{*payment}, decimal.Zero, nil, "op-1")
	require.NoError(t, err)
	sale.CreatedAt = createdAt

	require.NoError(t, repo.Save(context.Background(), sale))
	return sale
}

func reload(t *testing.T, repo port.SaleQueueRepository, localID uuid.UUID) *entity.PendingSale {
	t.Helper()
	sales, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	for _, s := range sales {
		if s.LocalID == localID {
			return s
		}
	}
	t.Fatalf("sale %s not found", localID)
	return nil
}

func TestSyncPassEmptyQueue(t *testing.T) {
	fx := newSyncFixture(t)

	summary, err := fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, &SyncSummary{}, summary)
	assert.Empty(t, fx.server.keys())
}

func TestSyncPassDrainsQueueOldestFirst(t *testing.T) {
	fx := newSyncFixture(t)
	base := time.Now().Add(-time.Hour)

	// Encoladas fuera de orden a propósito: el orden de envío lo da created_at
	s2 := seedSale(t, fx.repo, base.Add(2*time.Minute))
	s1 := seedSale(t, fx.repo, base.Add(1*time.Minute))
	s3 := seedSale(t, fx.repo, base.Add(3*time.Minute))

	summary, err := fx.uc.Execute(context.Background(), "Bearer token-1")
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.Synced)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Abandoned)
	assert.Equal(t, 0, summary.Pending)

	assert.Equal(t, []string{s1.LocalID.String(), s2.LocalID.String(), s3.LocalID.String()}, fx.server.keys())
	assert.Equal(t, "Bearer token-1", fx.server.authHeaders[0])

	for _, s := range []*entity.PendingSale{s1, s2, s3} {
		got := reload(t, fx.repo, s.LocalID)
		assert.Equal(t, entity.SyncSynced, got.SyncState)
		require.NotNil(t, got.ServerID)
		assert.Equal(t, "srv-"+s.LocalID.String(), *got.ServerID)
	}

	// Una segunda pasada no reenvía nada: las sincronizadas son terminales
	summary, err = fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Synced)
	assert.Len(t, fx.server.keys(), 3)
}

func TestSyncPassRetriesUntilServerRecovers(t *testing.T) {
	fx := newSyncFixture(t)
	sale := seedSale(t, fx.repo, time.Now())

	fx.server.setFailAll(true)

	for want := 1; want <= 2; want++ {
		summary, err := fx.uc.Execute(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Pending)

		got := reload(t, fx.repo, sale.LocalID)
		assert.Equal(t, want, got.AttemptCount)
		assert.Equal(t, entity.SyncPending, got.SyncState)
	}

	fx.server.setFailAll(false)

	summary, err := fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Synced)
	assert.Equal(t, 0, summary.Pending)
	assert.Equal(t, entity.SyncSynced, reload(t, fx.repo, sale.LocalID).SyncState)
}

func TestSyncPassAbandonsAfterMaxAttempts(t *testing.T) {
	fx := newSyncFixture(t)
	sale := seedSale(t, fx.repo, time.Now())

	fx.server.setFailAll(true)

	for i := 1; i < entity.MaxSyncAttempts; i++ {
		summary, err := fx.uc.Execute(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 0, summary.Abandoned)
	}

	// El quinto fallo abandona la venta y levanta una notificación fija
	summary, err := fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 1, summary.Abandoned)
	assert.Equal(t, 0, summary.Pending)

	got := reload(t, fx.repo, sale.LocalID)
	assert.Equal(t, entity.SyncAbandoned, got.SyncState)
	assert.Equal(t, entity.MaxSyncAttempts, got.AttemptCount)

	standing := false
	for _, n := range fx.notifier.List() {
		if n.Kind == notification.KindStanding {
			standing = true
		}
	}
	assert.True(t, standing, "abandono sin notificación fija")

	// Abandonada: la próxima pasada ni la toca
	before := len(fx.server.keys())
	summary, err = fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, &SyncSummary{}, summary)
	assert.Len(t, fx.server.keys(), before)
}

func TestSyncPassIsolatesPartialFailures(t *testing.T) {
	fx := newSyncFixture(t)
	base := time.Now().Add(-time.Hour)

	bad := seedSale(t, fx.repo, base.Add(1*time.Minute))
	good := seedSale(t, fx.repo, base.Add(2*time.Minute))
	fx.server.failKeys[bad.LocalID.String()] = true

	summary, err := fx.uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Synced)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Pending)

	// La venta que falla primero no bloquea a la que viene detrás
	assert.Equal(t, entity.SyncSynced, reload(t, fx.repo, good.LocalID).SyncState)
	gotBad := reload(t, fx.repo, bad.LocalID)
	assert.Equal(t, entity.SyncPending, gotBad.SyncState)
	assert.Equal(t, 1, gotBad.AttemptCount)
}

func TestSyncPassSingleFlight(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "terminal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	entered := make(chan struct{})
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entered <- struct{}{}
		<-release
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"server_id":"srv-1","sequence_number":1}`)
	}))
	t.Cleanup(ts.Close)

	repo := persistence.NewSaleQueueBoltRepository(store)
	uc := NewSyncPassUseCase(repo, client.NewSalesAPIClient(ts.URL), notification.NewCenter())
	seedSale(t, repo, time.Now())

	done := make(chan *SyncSummary, 1)
	go func() {
		summary, err := uc.Execute(context.Background(), "")
		assert.NoError(t, err)
		done <- summary
	}()

	// Esperar a que la primera pasada esté en vuelo dentro del request
	<-entered

	summary, err := uc.Execute(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, summary, "una pasada concurrente debe ser no-op")

	close(release)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, 1, first.Synced)
}
