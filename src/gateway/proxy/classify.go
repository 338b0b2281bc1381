package proxy

import (
	"net/http"
	"path"
	"strings"
)

// Strategy política de atención de un request interceptado
type Strategy int

const (
	// StrategyBypass directo a la red, sin tocar el cache
	// (no-GET, autenticación y el API de datos remoto)
	StrategyBypass Strategy = iota
	// StrategyCacheFirst cache primero; si no está, red + guardar copia.
	// Para artefactos de build inmutables. Sin fallback: miss + red caída
	// ⇒ falla el request.
	StrategyCacheFirst
	// StrategyNetworkFirstOffline red primero; si falla, la página offline.
	// Para navegaciones de nivel superior.
	StrategyNetworkFirstOffline
	// StrategyNetworkFirstCache red primero (cacheando éxitos); si falla,
	// la última copia cacheada si existe, si no propaga la falla.
	StrategyNetworkFirstCache
)

// assetExtensions extensiones de artefactos de build inmutables
var assetExtensions = map[string]bool{
	".js": true, ".mjs": true, ".css": true, ".map": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".svg": true, ".ico": true, ".webp": true,
	".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
}

// bypassPrefixes rutas que siempre van directo a la red
var bypassPrefixes = []string{"/api/", "/auth/", "/internal/"}

// Classify determina la estrategia para un request entrante
func Classify(req *http.Request) Strategy {
	// Solo se interceptan GETs
	if req.Method != http.MethodGet {
		return StrategyBypass
	}

	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(req.URL.Path, prefix) {
			return StrategyBypass
		}
	}

	if ext := path.Ext(req.URL.Path); assetExtensions[ext] {
		return StrategyCacheFirst
	}

	// Navegación de nivel superior: el browser pide HTML
	if isNavigation(req) {
		return StrategyNetworkFirstOffline
	}

	return StrategyNetworkFirstCache
}

// isNavigation detecta una navegación de página completa
func isNavigation(req *http.Request) bool {
	if req.Header.Get("Sec-Fetch-Mode") == "navigate" {
		return true
	}
	accept := req.Header.Get("Accept")
	return strings.Contains(accept, "text/html")
}
