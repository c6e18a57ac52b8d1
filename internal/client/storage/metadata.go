package storage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastEmail saves the email of the last successful login
	SaveLastEmail(ctx context.Context, email string) error

	// GetLastEmail retrieves the email of the last successful login
	// Returns "" if nobody has logged in yet
	GetLastEmail(ctx context.Context) (string, error)
}
