package boltdb

import (
	"context"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

var (
	keyAccess  = []byte("access_token")
	keyRefresh = []byte("refresh_token")
	keySavedAt = []byte("saved_at")
)

// Compile-time check that Storage implements AuthStorage
var _ storage.AuthStorage = (*Storage)(nil)

// SaveAuth заменяет пару токенов целиком; пустой refresh token удаляет ключ
func (s *Storage) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}

	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		if err := putOrDelete(b, keyAccess, auth.AccessToken); err != nil {
			return fmt.Errorf("failed to save access token: %w", err)
		}
		if err := putOrDelete(b, keyRefresh, auth.RefreshToken); err != nil {
			return fmt.Errorf("failed to save refresh token: %w", err)
		}
		if err := b.Put(keySavedAt, []byte(strconv.FormatInt(auth.SavedAt, 10))); err != nil {
			return fmt.Errorf("failed to save timestamp: %w", err)
		}
		return nil
	})
}

// GetAuth возвращает сохраненную пару как есть (запечатанную).
// ErrAuthNotFound, если нет ни одного токена.
func (s *Storage) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	var auth *storage.AuthData

	err := s.view(bucketSession, func(b *bbolt.Bucket) error {
		access, refresh := b.Get(keyAccess), b.Get(keyRefresh)
		if access == nil && refresh == nil {
			return storage.ErrAuthNotFound
		}

		auth = &storage.AuthData{
			AccessToken:  string(access),
			RefreshToken: string(refresh),
		}
		if raw := b.Get(keySavedAt); raw != nil {
			savedAt, err := strconv.ParseInt(string(raw), 10, 64)
			if err != nil {
				return fmt.Errorf("%w: saved_at %q", storage.ErrCorrupted, raw)
			}
			auth.SavedAt = savedAt
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return auth, nil
}

// DeleteAuth удаляет пару. Пустое хранилище не ошибка: logout идемпотентен.
func (s *Storage) DeleteAuth(ctx context.Context) error {
	return s.update(bucketSession, func(b *bbolt.Bucket) error {
		for _, key := range [][]byte{keyAccess, keyRefresh, keySavedAt} {
			if err := b.Delete(key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		return nil
	})
}

func putOrDelete(b *bbolt.Bucket, key []byte, value string) error {
	if value == "" {
		return b.Delete(key)
	}
	return b.Put(key, []byte(value))
}
