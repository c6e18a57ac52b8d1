package boltdb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

// schemaVersion меняется при несовместимом изменении раскладки ключей
const schemaVersion = "1"

var (
	bucketSession  = []byte("session")
	bucketMetadata = []byte("metadata")

	keySchema = []byte("schema_version")
)

// Storage один bbolt файл: сессия (для своего scope) и метаданные клиента.
// Durable и ephemeral scope это два отдельных Storage.
type Storage struct {
	db   *bbolt.DB
	path string
}

// New открывает или создает файл БД; родительские каталоги создаются с 0700
func New(ctx context.Context, dbPath string) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	// Таймаут: файл может держать другой запущенный staffdesk (например, watch)
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb %s: %w", dbPath, err)
	}

	s := &Storage{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Path путь к файлу БД
func (s *Storage) Path() string {
	return s.path
}

// Close закрывает БД; повторный вызов безопасен
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// migrate создает buckets и проверяет версию схемы
func (s *Storage) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketSession, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}

		meta := tx.Bucket(bucketMetadata)
		switch current := meta.Get(keySchema); {
		case current == nil:
			return meta.Put(keySchema, []byte(schemaVersion))
		case string(current) != schemaVersion:
			return fmt.Errorf("%w: file %s has %q, client expects %q",
				storage.ErrSchemaMismatch, s.path, current, schemaVersion)
		}
		return nil
	})
}

// update выполняет fn в пишущей транзакции над bucket
func (s *Storage) update(name []byte, fn func(b *bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("%s bucket not found", name)
		}
		return fn(b)
	})
}

// view выполняет fn в читающей транзакции; срезы bbolt валидны только внутри fn
func (s *Storage) view(name []byte, fn func(b *bbolt.Bucket) error) error {
	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(name)
		if b == nil {
			return fmt.Errorf("%s bucket not found", name)
		}
		return fn(b)
	})
}
