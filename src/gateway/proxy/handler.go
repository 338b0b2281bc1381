package proxy

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nenempneuscom-star/imperionenem-sub003/src/gateway/cache"
)

// OfflinePage página designada para navegaciones sin red
const OfflinePage = "/offline.html"

// SeedPaths recursos precargados en el cache durante la instalación
var SeedPaths = []string{"/", OfflinePage, "/manifest.json"}

// Gateway capa de intercepción de red: atiende cada request según su
// estrategia y mantiene el cache de respuestas durable. Corre en su propio
// proceso, separado de la terminal.
type Gateway struct {
	upstreamURL string
	httpClient  *http.Client
	cache       *cache.ResponseCache
}

// NewGateway crea una nueva instancia del gateway
func NewGateway(upstreamURL string, responseCache *cache.ResponseCache) *Gateway {
	return &Gateway{
		upstreamURL: upstreamURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: responseCache,
	}
}

// Install precarga el cache con la lista fija de recursos semilla
// (raíz, página offline, manifest). Un fallo de semilla no es fatal:
// se vuelve a intentar de forma oportunista con el primer tráfico.
func (g *Gateway) Install() {
	log.Println("🔄 Pre-seeding gateway cache...")
	for _, p := range SeedPaths {
		req, err := http.NewRequest("GET", g.upstreamURL+p, nil)
		if err != nil {
			continue
		}
		cached, err := g.fetchUpstream(req, p)
		if err != nil {
			log.Printf("⚠️  Could not seed %s: %v", p, err)
			continue
		}
		log.Printf("✅ Seeded %s (%d bytes)", p, len(cached.Body))
	}
}

// HandleGin adapta el gateway al router de gin (ruta catch-all)
func (g *Gateway) HandleGin(ctx *gin.Context) {
	g.Handle(ctx.Writer, ctx.Request)
}

// Handle atiende un request interceptado según su estrategia
func (g *Gateway) Handle(w http.ResponseWriter, req *http.Request) {
	key := cacheKey(req)

	switch Classify(req) {
	case StrategyCacheFirst:
		// Cache primero; miss ⇒ red y guardar copia. Sin fallback: un
		// artefacto inmutable que no está ni en cache ni en la red falla.
		if cached, err := g.cache.Get(key); err == nil {
			cached.Write(w)
			return
		}
		cached, err := g.fetchUpstream(req, key)
		if err != nil {
			http.Error(w, fmt.Sprintf("upstream unreachable: %v", err), http.StatusBadGateway)
			return
		}
		cached.Write(w)

	case StrategyNetworkFirstOffline:
		// Red primero; si falla, la página offline designada
		cached, err := g.fetchUpstream(req, key)
		if err == nil {
			cached.Write(w)
			return
		}
		log.Printf("⚠️  Navigation %s failed (%v) — serving offline page", req.URL.Path, err)
		offline, cacheErr := g.cache.Get(OfflinePage)
		if cacheErr != nil {
			http.Error(w, "offline and no offline page cached", http.StatusServiceUnavailable)
			return
		}
		offline.Write(w)

	case StrategyNetworkFirstCache:
		// Red primero cacheando éxitos; si falla, la última copia si existe
		cached, err := g.fetchUpstream(req, key)
		if err == nil {
			cached.Write(w)
			return
		}
		stale, cacheErr := g.cache.Get(key)
		if cacheErr != nil {
			http.Error(w, fmt.Sprintf("upstream unreachable: %v", err), http.StatusBadGateway)
			return
		}
		log.Printf("⚠️  %s failed (%v) — serving cached copy from %s", req.URL.Path, err, stale.StoredAt.Format(time.RFC3339))
		stale.Write(w)

	default: // StrategyBypass
		g.passthrough(w, req)
	}
}

// fetchUpstream ejecuta el request contra el upstream y, si la respuesta es
// exitosa, guarda una copia en el cache antes de devolverla
func (g *Gateway) fetchUpstream(req *http.Request, key string) (*cache.CachedResponse, error) {
	upstreamReq, err := http.NewRequest("GET", g.upstreamURL+req.URL.RequestURI(), nil)
	if err != nil {
		return nil, err
	}
	copyHeaders(upstreamReq.Header, req.Header)

	resp, err := g.httpClient.Do(upstreamReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	cached := &cache.CachedResponse{
		Status:   resp.StatusCode,
		Header:   resp.Header,
		Body:     body,
		StoredAt: time.Now(),
	}

	// Solo se cachean respuestas exitosas
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := g.cache.Put(key, cached); err != nil {
			log.Printf("⚠️  Could not cache %s: %v", key, err)
		}
	}

	return cached, nil
}

// passthrough reenvía el request tal cual, sin tocar el cache
func (g *Gateway) passthrough(w http.ResponseWriter, req *http.Request) {
	upstreamReq, err := http.NewRequest(req.Method, g.upstreamURL+req.URL.RequestURI(), req.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	copyHeaders(upstreamReq.Header, req.Header)

	resp, err := g.httpClient.Do(upstreamReq)
	if err != nil {
		http.Error(w, fmt.Sprintf("upstream unreachable: %v", err), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}

func copyHeaders(dst, src http.Header) {
	for k, values := range src {
		for _, v := range values {
			dst.Add(k, v)
		}
	}
}

func cacheKey(req *http.Request) string {
	return req.URL.RequestURI()
}
