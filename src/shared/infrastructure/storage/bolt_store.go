package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	bolt "github.com/boltdb/bolt"
)

// Nombres de las colecciones locales del terminal
// La terminal POS guarda todo en un único archivo BoltDB:
// no hay proceso de base de datos externo, ideal para operar offline.
const (
	BucketPendingSales = "pending_sales" // ventas locales pendientes de sincronizar
	BucketCatalog      = "catalog"       // snapshot del catálogo de productos
	BucketConfig       = "config"        // valores escalares de configuración
	bucketMeta         = "meta"          // versión de esquema y metadatos internos
)

// SchemaVersion versión actual del esquema local
// v1: ventas con campo booleano "synced"
// v2: sync_state explícito (pending/synced/abandoned) + attempt_count
const SchemaVersion = 2

const schemaVersionKey = "schema_version"

var (
	// ErrStorageUnavailable el host no permite abrir el almacenamiento persistente.
	// Se propaga al caller: la terminal degrada a modo solo-online, nunca se traga.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// ErrNotFound el registro solicitado no existe en la colección
	ErrNotFound = errors.New("record not found")
)

// Store almacenamiento local durable de la terminal
// Se abre una sola vez al iniciar el proceso y se inyecta en cada
// componente que lo necesita (open → use → close on shutdown).
type Store struct {
	db *bolt.DB
}

// Open abre (o crea) el archivo BoltDB y garantiza que existan las colecciones.
// Ejecuta el pase de actualización de esquema si la versión guardada es anterior.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketPendingSales, BucketCatalog, BucketConfig, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	s := &Store{db: db}

	// Pase de actualización de esquema: una sola vez al abrir,
	// nunca destructivo y nunca durante lecturas.
	if err := s.upgradeSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close libera el lock del archivo
func (s *Store) Close() error {
	return s.db.Close()
}

// Put persiste un registro en la colección indicada (atómico por registro)
func (s *Store) Put(bucket, key string, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("error marshalling record: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Put([]byte(key), data)
	})
}

// Get recupera un registro por clave. Devuelve ErrNotFound si no existe.
func (s *Store) Get(bucket, key string, out interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucket)).Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, out)
	})
}

// ForEach recorre todos los registros de una colección
func (s *Store) ForEach(bucket string, fn func(key string, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).ForEach(func(k, v []byte) error {
			return fn(string(k), v)
		})
	})
}

// Delete elimina un registro por clave
func (s *Store) Delete(bucket, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucket)).Delete([]byte(key))
	})
}

// ReplaceAll reemplaza TODA la colección en una única transacción.
// O se escriben todos los registros nuevos o no se escribe ninguno:
// un crash a mitad del refresh no puede dejar un catálogo a medias.
func (s *Store) ReplaceAll(bucket string, records map[string]interface{}) error {
	// Serializar todo ANTES de abrir la transacción: un error de marshalling
	// no debe tocar los datos existentes.
	encoded := make(map[string][]byte, len(records))
	for key, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("error marshalling record %s: %w", key, err)
		}
		encoded[key] = data
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucket)); err != nil {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucket))
		if err != nil {
			return err
		}
		for key, data := range encoded {
			if err := b.Put([]byte(key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ClearAll vacía las tres colecciones (conserva la versión de esquema)
func (s *Store) ClearAll() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{BucketPendingSales, BucketCatalog, BucketConfig} {
			if err := tx.DeleteBucket([]byte(name)); err != nil {
				return err
			}
			if _, err := tx.CreateBucket([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetConfig guarda un valor escalar de configuración
func (s *Store) SetConfig(key, value string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketConfig)).Put([]byte(key), []byte(value))
	})
}

// GetConfig lee un valor escalar de configuración
func (s *Store) GetConfig(key string) (string, bool, error) {
	var value string
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketConfig)).Get([]byte(key))
		if v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	return value, found, err
}

// upgradeSchema ejecuta el pase de migración v(n) → v(SchemaVersion)
// Las ventas v1 usaban un booleano "synced"; v2 introduce sync_state
// explícito y attempt_count. La migración reescribe cada registro viejo
// dentro de una única transacción.
func (s *Store) upgradeSchema() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket([]byte(bucketMeta))

		stored := 0
		if v := meta.Get([]byte(schemaVersionKey)); v != nil {
			fmt.Sscanf(string(v), "%d", &stored)
		} else {
			// Archivo recién creado: ¿hay datos de una versión sin meta (v1)?
			if tx.Bucket([]byte(BucketPendingSales)).Stats().KeyN > 0 {
				stored = 1
			} else {
				stored = SchemaVersion
			}
		}

		if stored > SchemaVersion {
			return fmt.Errorf("stored schema v%d is newer than supported v%d", stored, SchemaVersion)
		}

		if stored < SchemaVersion {
			log.Printf("🔄 Upgrading local schema v%d → v%d...", stored, SchemaVersion)
			if stored < 2 {
				if err := upgradeSalesToV2(tx); err != nil {
					return err
				}
			}
			log.Printf("✅ Local schema upgraded to v%d", SchemaVersion)
		}

		return meta.Put([]byte(schemaVersionKey), []byte(fmt.Sprintf("%d", SchemaVersion)))
	})
}

// upgradeSalesToV2 reescribe ventas v1 (booleano "synced") al formato v2
func upgradeSalesToV2(tx *bolt.Tx) error {
	b := tx.Bucket([]byte(BucketPendingSales))

	type rewrite struct {
		key  []byte
		data []byte
	}
	var rewrites []rewrite

	err := b.ForEach(func(k, v []byte) error {
		var record map[string]interface{}
		if err := json.Unmarshal(v, &record); err != nil {
			return fmt.Errorf("error reading v1 sale %s: %w", string(k), err)
		}

		if _, ok := record["sync_state"]; ok {
			return nil // ya migrado
		}

		state := "pending"
		if synced, _ := record["synced"].(bool); synced {
			state = "synced"
		}
		delete(record, "synced")
		record["sync_state"] = state
		if _, ok := record["attempt_count"]; !ok {
			record["attempt_count"] = 0
		}

		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		rewrites = append(rewrites, rewrite{key: append([]byte(nil), k...), data: data})
		return nil
	})
	if err != nil {
		return err
	}

	for _, rw := range rewrites {
		if err := b.Put(rw.key, rw.data); err != nil {
			return err
		}
	}
	return nil
}
