package proxy

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/gateway/cache"
)

// upstreamApp shell web de prueba; se puede apagar para simular red caída
type upstreamApp struct {
	server *httptest.Server
	hits   atomic.Int64
}

func newUpstreamApp(t *testing.T) *upstreamApp {
	t.Helper()
	app := &upstreamApp{}
	app.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.hits.Add(1)
		switch {
		case r.URL.Path == "/offline.html":
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, "<html>sin conexión</html>")
		case r.URL.Path == "/missing":
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, "not found")
		case strings.HasSuffix(r.URL.Path, ".js"):
			w.Header().Set("Content-Type", "application/javascript")
			io.WriteString(w, "console.log('app')")
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			io.WriteString(w, "created")
		default:
			w.Header().Set("Content-Type", "text/html")
			io.WriteString(w, "<html>shell "+r.URL.RequestURI()+"</html>")
		}
	}))
	t.Cleanup(app.server.Close)
	return app
}

func newTestGateway(t *testing.T, upstream *upstreamApp) *Gateway {
	t.Helper()
	responseCache, err := cache.Open(filepath.Join(t.TempDir(), "gateway-cache.db"), 1)
	require.NoError(t, err)
	t.Cleanup(func() { responseCache.Close() })
	return NewGateway(upstream.server.URL, responseCache)
}

func doRequest(gw *Gateway, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	gw.Handle(rec, req)
	return rec
}

func TestCacheFirstServesAssetsAfterUpstreamDies(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	// Primer request: va a la red y deja copia
	rec := doRequest(gw, http.MethodGet, "/assets/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Served-From-Cache"))

	// Segundo request: se sirve del cache sin tocar la red
	hitsBefore := upstream.hits.Load()
	rec = doRequest(gw, http.MethodGet, "/assets/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Served-From-Cache"))
	assert.Equal(t, "console.log('app')", rec.Body.String())
	assert.Equal(t, hitsBefore, upstream.hits.Load())

	// Red caída: el artefacto cacheado sigue disponible
	upstream.server.Close()
	rec = doRequest(gw, http.MethodGet, "/assets/app.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Served-From-Cache"))
}

func TestCacheFirstMissWithDeadUpstreamFails(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)
	upstream.server.Close()

	// Artefacto inmutable sin copia y sin red: no hay fallback
	rec := doRequest(gw, http.MethodGet, "/assets/nunca-visto.js", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestNavigationFallsBackToOfflinePage(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	gw.Install() // precarga "/", offline.html y manifest

	upstream.server.Close()

	rec := doRequest(gw, http.MethodGet, "/ventas", map[string]string{"Sec-Fetch-Mode": "navigate"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Served-From-Cache"))
	assert.Contains(t, rec.Body.String(), "sin conexión")
}

func TestNavigationWithoutCachedOfflinePage(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)
	upstream.server.Close()

	// Nunca se instaló: sin página offline no hay nada que servir
	rec := doRequest(gw, http.MethodGet, "/ventas", map[string]string{"Sec-Fetch-Mode": "navigate"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNetworkFirstCacheServesStaleCopy(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	rec := doRequest(gw, http.MethodGet, "/config.json", map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusOK, rec.Code)
	fresh := rec.Body.String()

	upstream.server.Close()

	rec = doRequest(gw, http.MethodGet, "/config.json", map[string]string{"Accept": "application/json"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("X-Served-From-Cache"))
	assert.Equal(t, fresh, rec.Body.String())
}

func TestNetworkFirstCacheWithoutCopyPropagatesFailure(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)
	upstream.server.Close()

	rec := doRequest(gw, http.MethodGet, "/feed", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestFailedResponsesAreNeverCached(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	rec := doRequest(gw, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	upstream.server.Close()

	// El 404 no dejó copia: sin red la falla se propaga
	rec = doRequest(gw, http.MethodGet, "/missing", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestBypassGoesStraightThrough(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	rec := doRequest(gw, http.MethodPost, "/api/v1/pos/sale", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Served-From-Cache"))

	upstream.server.Close()

	// Bypass jamás consulta el cache, ni siquiera con la red caída
	rec = doRequest(gw, http.MethodPost, "/api/v1/pos/sale", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCacheKeyIncludesQueryString(t *testing.T) {
	upstream := newUpstreamApp(t)
	gw := newTestGateway(t, upstream)

	doRequest(gw, http.MethodGet, "/report?d=1", nil)
	doRequest(gw, http.MethodGet, "/report?d=2", nil)

	upstream.server.Close()

	rec := doRequest(gw, http.MethodGet, "/report?d=2", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/report?d=2")
}
