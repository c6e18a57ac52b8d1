package boltdb

import (
	"context"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

var keyLastEmail = []byte("last_email")

var _ storage.MetadataStorage = (*Storage)(nil)

// SaveLastEmail запоминает email последнего успешного входа
func (s *Storage) SaveLastEmail(ctx context.Context, email string) error {
	err := s.update(bucketMetadata, func(b *bbolt.Bucket) error {
		return putOrDelete(b, keyLastEmail, email)
	})
	if err != nil {
		return fmt.Errorf("failed to save last email: %w", err)
	}
	return nil
}

// GetLastEmail возвращает email последнего входа или ""
func (s *Storage) GetLastEmail(ctx context.Context) (string, error) {
	var email string
	err := s.view(bucketMetadata, func(b *bbolt.Bucket) error {
		// string() копирует срез bbolt
		email = string(b.Get(keyLastEmail))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to get last email: %w", err)
	}
	return email, nil
}
