package storage

import (
	"context"
)

// AuthStorage defines interface for storing the credential pair on client.
// This is the lowest storage layer - it works with raw data (already sealed tokens)
// and doesn't perform any encryption/decryption itself.
type AuthStorage interface {
	// SaveAuth stores the credential pair as-is, replacing the previous one
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored credential pair as-is
	// Returns ErrAuthNotFound if no auth data exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored authentication data.
	// Deleting already empty storage is not an error.
	DeleteAuth(ctx context.Context) error

	// Close releases the underlying storage
	Close() error
}

// AuthData represents the credential pair in storage
// IMPORTANT: This struct is used at different layers with different token states:
// - In memory (business logic): tokens are plaintext
// - In storage (BoltDB): tokens are sealed ("v1." + base64url ciphertext)
// The sealing happens in auth.TokenStore layer, labelled by scope.
type AuthData struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	SavedAt      int64  `json:"saved_at"`
}

// Scope определяет, где живет пара токенов
type Scope int

const (
	// ScopeNone - токенов нет ни в одном хранилище
	ScopeNone Scope = iota
	// ScopeDurable переживает перезапуск (аналог "запомнить меня")
	ScopeDurable
	// ScopeEphemeral живет до окончания сеанса ОС (временный каталог)
	ScopeEphemeral
)

func (s Scope) String() string {
	switch s {
	case ScopeDurable:
		return "durable"
	case ScopeEphemeral:
		return "ephemeral"
	default:
		return "none"
	}
}
