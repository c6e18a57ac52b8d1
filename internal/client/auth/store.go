package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/staffdesk/internal/client/storage"
	"github.com/iudanet/staffdesk/internal/crypto"
)

// TokenStore хранит пару токенов в одном из двух хранилищ и шифрует их
// перед записью. Живая пара всегда находится ровно в одном scope:
// каждая запись в один scope очищает другой.
type TokenStore struct {
	durable   storage.AuthStorage
	ephemeral storage.AuthStorage
	sealer    *crypto.Sealer
}

// Compile-time check that TokenStore implements Store
var _ Store = (*TokenStore)(nil)

// NewTokenStore создает TokenStore поверх двух хранилищ
func NewTokenStore(durable, ephemeral storage.AuthStorage, sealer *crypto.Sealer) *TokenStore {
	return &TokenStore{
		durable:   durable,
		ephemeral: ephemeral,
		sealer:    sealer,
	}
}

func (s *TokenStore) backend(scope storage.Scope) (storage.AuthStorage, error) {
	switch scope {
	case storage.ScopeDurable:
		return s.durable, nil
	case storage.ScopeEphemeral:
		return s.ephemeral, nil
	default:
		return nil, fmt.Errorf("unknown storage scope %d", scope)
	}
}

func other(scope storage.Scope) storage.Scope {
	if scope == storage.ScopeDurable {
		return storage.ScopeEphemeral
	}
	return storage.ScopeDurable
}

// Save шифрует пару и записывает ее в scope, затем очищает второй scope
func (s *TokenStore) Save(ctx context.Context, scope storage.Scope, accessToken, refreshToken string) error {
	target, err := s.backend(scope)
	if err != nil {
		return err
	}

	sealed, err := s.seal(scope, &storage.AuthData{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SavedAt:      time.Now().Unix(),
	})
	if err != nil {
		return err
	}

	if err := target.SaveAuth(ctx, sealed); err != nil {
		return fmt.Errorf("failed to save %s tokens: %w", scope, err)
	}

	// Не оставляем устаревшую копию во втором хранилище
	stale, _ := s.backend(other(scope))
	if err := stale.DeleteAuth(ctx); err != nil {
		return fmt.Errorf("failed to clear %s tokens: %w", other(scope), err)
	}

	return nil
}

// Load возвращает расшифрованную пару и scope, в котором она лежит.
// Durable проверяется первым. ErrAuthNotFound, если пусто в обоих.
func (s *TokenStore) Load(ctx context.Context) (*storage.AuthData, storage.Scope, error) {
	for _, scope := range []storage.Scope{storage.ScopeDurable, storage.ScopeEphemeral} {
		backend, _ := s.backend(scope)
		stored, err := backend.GetAuth(ctx)
		if errors.Is(err, storage.ErrAuthNotFound) {
			continue
		}
		if err != nil {
			return nil, storage.ScopeNone, fmt.Errorf("failed to read %s tokens: %w", scope, err)
		}
		if stored.AccessToken == "" && stored.RefreshToken == "" {
			continue
		}

		auth, err := s.open(scope, stored)
		if err != nil {
			return nil, storage.ScopeNone, fmt.Errorf("failed to open %s tokens: %w", scope, err)
		}
		return auth, scope, nil
	}

	return nil, storage.ScopeNone, storage.ErrAuthNotFound
}

// UpdateAccess записывает новый access token в тот scope, где лежит refresh token
func (s *TokenStore) UpdateAccess(ctx context.Context, accessToken string) (storage.Scope, error) {
	current, scope, err := s.Load(ctx)
	if err != nil {
		return storage.ScopeNone, err
	}
	if current.RefreshToken == "" {
		return storage.ScopeNone, fmt.Errorf("no refresh token in %s storage", scope)
	}

	if err := s.Save(ctx, scope, accessToken, current.RefreshToken); err != nil {
		return storage.ScopeNone, err
	}
	return scope, nil
}

// Clear удаляет пару из обоих хранилищ; повторный вызов безопасен
func (s *TokenStore) Clear(ctx context.Context) error {
	return errors.Join(
		s.durable.DeleteAuth(ctx),
		s.ephemeral.DeleteAuth(ctx),
	)
}

// label привязывает значение к scope и полю: "durable/access", "ephemeral/refresh"
func label(scope storage.Scope, field string) string {
	return scope.String() + "/" + field
}

// seal шифрует непустые токены; пустой токен хранится как ""
func (s *TokenStore) seal(scope storage.Scope, auth *storage.AuthData) (*storage.AuthData, error) {
	sealed := *auth // копируем структуру, чтобы не менять входящую

	var err error
	if sealed.AccessToken, err = s.sealToken(auth.AccessToken, label(scope, "access")); err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}
	if sealed.RefreshToken, err = s.sealToken(auth.RefreshToken, label(scope, "refresh")); err != nil {
		return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
	}
	return &sealed, nil
}

func (s *TokenStore) open(scope storage.Scope, stored *storage.AuthData) (*storage.AuthData, error) {
	auth := *stored

	var err error
	if auth.AccessToken, err = s.openToken(stored.AccessToken, label(scope, "access")); err != nil {
		return nil, fmt.Errorf("failed to decrypt access token: %w", err)
	}
	if auth.RefreshToken, err = s.openToken(stored.RefreshToken, label(scope, "refresh")); err != nil {
		return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
	}
	return &auth, nil
}

func (s *TokenStore) sealToken(token, label string) (string, error) {
	if token == "" {
		return "", nil
	}
	return s.sealer.Seal([]byte(token), label)
}

func (s *TokenStore) openToken(sealed, label string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	plain, err := s.sealer.Open(sealed, label)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}
