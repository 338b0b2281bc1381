package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// TerminalConfig configuración del proceso terminal
type TerminalConfig struct {
	Port              string // puerto HTTP de la terminal
	StorePath         string // archivo BoltDB del almacenamiento local
	SalesAPIURL       string // backend remoto de ventas
	CatalogAPIURL     string // backend remoto de catálogo
	PrometheusEnabled bool
	StartOnline       bool // estado de conectividad inicial reportado por el host
}

// GatewayConfig configuración del proceso gateway (capa de intercepción)
type GatewayConfig struct {
	Port        string // puerto de escucha del gateway
	UpstreamURL string // shell de la aplicación detrás del gateway
	TerminalURL string // endpoints internos de la terminal para el relay
	CachePath   string // archivo BoltDB del cache de respuestas HTTP
	Generation  int    // generación actual del cache
}

// Load carga variables desde .env si existe (entorno de desarrollo)
func Load() {
	if err := godotenv.Load(); err == nil {
		log.Println("✅ Variables cargadas desde .env")
	}
}

// GetEnv obtiene una variable de entorno o devuelve un valor por defecto
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadTerminalConfig arma la configuración de la terminal desde el entorno
func LoadTerminalConfig() TerminalConfig {
	return TerminalConfig{
		Port:              GetEnv("PORT", "8080"),
		StorePath:         GetEnv("STORE_PATH", "terminal.db"),
		SalesAPIURL:       GetEnv("SALES_API_URL", "http://backend:9000"),
		CatalogAPIURL:     GetEnv("CATALOG_API_URL", "http://backend:9000"),
		PrometheusEnabled: GetEnv("PROMETHEUS_ENABLED", "false") == "true",
		StartOnline:       GetEnv("START_ONLINE", "true") == "true",
	}
}

// LoadGatewayConfig arma la configuración del gateway desde el entorno
func LoadGatewayConfig() GatewayConfig {
	generation := 1
	if n, ok := parsePositive(GetEnv("CACHE_GENERATION", "1")); ok {
		generation = n
	}

	return GatewayConfig{
		Port:        GetEnv("GATEWAY_PORT", "8081"),
		UpstreamURL: GetEnv("UPSTREAM_URL", "http://localhost:8080"),
		TerminalURL: GetEnv("TERMINAL_INTERNAL_URL", "http://localhost:8080"),
		CachePath:   GetEnv("GATEWAY_CACHE_PATH", "gateway-cache.db"),
		Generation:  generation,
	}
}

func parsePositive(s string) (int, bool) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	if n <= 0 {
		return 0, false
	}
	return n, true
}
