package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	bolt "github.com/boltdb/bolt"
)

// generationPrefix prefijo de las colecciones de cache por generación.
// Cada versión desplegada del gateway escribe en su propia generación;
// al activarse borra todas las demás.
const generationPrefix = "httpcache_v"

// ErrCacheMiss no hay copia cacheada para esa clave
var ErrCacheMiss = errors.New("response not cached")

// CachedResponse copia serializable de una respuesta HTTP
type CachedResponse struct {
	Status   int                 `json:"status"`
	Header   map[string][]string `json:"header"`
	Body     []byte              `json:"body"`
	StoredAt time.Time           `json:"stored_at"`
}

// Write vuelca la copia cacheada sobre un ResponseWriter
func (r *CachedResponse) Write(w http.ResponseWriter) {
	for k, values := range r.Header {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}
	w.Header().Set("X-Served-From-Cache", "true")
	w.WriteHeader(r.Status)
	w.Write(r.Body)
}

// ResponseCache cache durable de respuestas HTTP del gateway.
// Usa su propio archivo BoltDB: el lock de bolt es exclusivo por archivo y
// el gateway corre en un proceso separado de la terminal.
type ResponseCache struct {
	db         *bolt.DB
	generation int
}

// Open abre el cache y garantiza la colección de la generación actual
func Open(path string, generation int) (*ResponseCache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("error opening response cache: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName(generation)))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating cache generation: %w", err)
	}

	return &ResponseCache{db: db, generation: generation}, nil
}

// Close libera el lock del archivo
func (c *ResponseCache) Close() error {
	return c.db.Close()
}

// Activate borra toda generación distinta de la actual.
// Se llama al arrancar: el gateway toma control inmediato de las sesiones
// abiertas sirviendo solo desde su propia generación.
func (c *ResponseCache) Activate() error {
	current := bucketName(c.generation)

	return c.db.Update(func(tx *bolt.Tx) error {
		var stale [][]byte
		err := tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if strings.HasPrefix(string(name), generationPrefix) && string(name) != current {
				stale = append(stale, append([]byte(nil), name...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, name := range stale {
			log.Printf("🧹 Dropping stale cache generation %s", string(name))
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get recupera la copia cacheada de una clave (path+query)
func (c *ResponseCache) Get(key string) (*CachedResponse, error) {
	var cached CachedResponse

	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName(c.generation))).Get([]byte(key))
		if v == nil {
			return ErrCacheMiss
		}
		return json.Unmarshal(v, &cached)
	})
	if err != nil {
		return nil, err
	}

	return &cached, nil
}

// Put guarda la copia cacheada de una clave
func (c *ResponseCache) Put(key string, cached *CachedResponse) error {
	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("error marshalling cached response: %w", err)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName(c.generation))).Put([]byte(key), data)
	})
}

// Generations lista las generaciones presentes en el archivo (para tests y debug)
func (c *ResponseCache) Generations() ([]string, error) {
	var names []string
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if strings.HasPrefix(string(name), generationPrefix) {
				names = append(names, string(name))
			}
			return nil
		})
	})
	return names, err
}

func bucketName(generation int) string {
	return fmt.Sprintf("%s%d", generationPrefix, generation)
}
