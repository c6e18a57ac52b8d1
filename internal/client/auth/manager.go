package auth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/client/storage"
	"github.com/iudanet/staffdesk/internal/crypto"
	"github.com/iudanet/staffdesk/internal/roles"
	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

var (
	// ErrNoAccessToken сервер ответил 2xx, но без access token
	ErrNoAccessToken = errors.New("login response has no access token")
	// ErrNotAuthenticated нет токена ни в памяти, ни в хранилищах
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired refresh не удался, сессия закрыта
	ErrSessionExpired = errors.New("session expired, please login again")
)

// State состояние пары токенов
type State int

const (
	StateAnonymous State = iota
	StateAuthenticated
	StateRefreshing
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	case StateExpired:
		return "expired"
	default:
		return "anonymous"
	}
}

// API subset of the HR API the manager talks to
type API interface {
	Login(ctx context.Context, req pkgapi.LoginRequest) (pkgapi.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*pkgapi.RefreshResponse, error)
	Profile(ctx context.Context, accessToken string) (*pkgapi.Profile, error)
	UploadImage(ctx context.Context, accessToken, filename string, r io.Reader) error
	DeleteImage(ctx context.Context, accessToken string) error
}

// Store persists the credential pair across the two scopes
type Store interface {
	Save(ctx context.Context, scope storage.Scope, accessToken, refreshToken string) error
	Load(ctx context.Context) (*storage.AuthData, storage.Scope, error)
	UpdateAccess(ctx context.Context, accessToken string) (storage.Scope, error)
	Clear(ctx context.Context) error
}

// Compile-time check for the real client
var _ API = (*api.Client)(nil)

// Manager единственный источник правды о текущей сессии: пара токенов,
// scope хранения, профиль и производная от них роль.
// Создается при старте приложения и передается зависимым сервисам.
type Manager struct {
	api    API
	store  Store
	logger *slog.Logger

	mu           sync.RWMutex
	state        State
	accessToken  string
	refreshToken string
	scope        storage.Scope
	user         *pkgapi.Profile

	// одновременно идет не больше одного refresh
	refreshMu sync.Mutex
}

// NewManager создает менеджер в состоянии Anonymous
func NewManager(apiClient API, store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		api:    apiClient,
		store:  store,
		logger: logger,
		state:  StateAnonymous,
	}
}

// LoginOptions параметры входа
type LoginOptions struct {
	RememberMe bool // true - durable scope, иначе ephemeral
}

// LoginResult содержит результат авторизации
type LoginResult struct {
	User  *pkgapi.Profile
	Role  roles.Role
	Scope storage.Scope
}

// Restore поднимает сессию из хранилища при старте.
// Нечитаемая пара (другой ключ, порча файла) удаляется, клиент остается анонимным.
func (m *Manager) Restore(ctx context.Context) error {
	auth, scope, err := m.store.Load(ctx)
	if errors.Is(err, storage.ErrAuthNotFound) {
		return nil
	}
	if unreadable(err) {
		m.logger.Warn("discarding unreadable stored session", "error", err)
		if clearErr := m.store.Clear(ctx); clearErr != nil {
			return fmt.Errorf("failed to discard unreadable session: %w", clearErr)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = auth.AccessToken
	m.refreshToken = auth.RefreshToken
	m.scope = scope
	if m.accessToken != "" {
		m.state = StateAuthenticated
	}
	return nil
}

// Login выполняет аутентификацию и сохраняет пару в выбранный scope
func (m *Manager) Login(ctx context.Context, email, password string, opts LoginOptions) (*LoginResult, error) {
	resp, err := m.api.Login(ctx, pkgapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	tokens, ok := ExtractTokens(resp)
	if !ok {
		return nil, ErrNoAccessToken
	}

	scope := storage.ScopeEphemeral
	if opts.RememberMe {
		scope = storage.ScopeDurable
	}

	if err := m.store.Save(ctx, scope, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.mu.Lock()
	m.accessToken = tokens.AccessToken
	m.refreshToken = tokens.RefreshToken
	m.scope = scope
	m.user = tokens.User
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.logger.Info("logged in", "scope", scope.String(), "refresh_token", tokens.RefreshToken != "")

	// Новый токен - подтягиваем профиль
	if _, err := m.LoadProfile(ctx); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return nil, err
		}
		m.logger.Warn("failed to load profile after login", "error", err)
	}

	return &LoginResult{User: m.User(), Role: m.Role(), Scope: scope}, nil
}

// Logout очищает оба хранилища и память. Идемпотентен.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.accessToken = ""
	m.refreshToken = ""
	m.scope = storage.ScopeNone
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to delete local session: %w", err)
	}
	return nil
}

// LoadProfile получает профиль; на 401 один раз обновляет токен и повторяет
func (m *Manager) LoadProfile(ctx context.Context) (*pkgapi.Profile, error) {
	var profile *pkgapi.Profile
	err := m.withSession(ctx, false, func(ctx context.Context, token string) error {
		p, err := m.api.Profile(ctx, token)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.user = profile
	m.mu.Unlock()

	return profile, nil
}

// WithSession выполняет fn с текущим access token. Если fn вернула 401,
// токен обновляется и fn повторяется ровно один раз. Неудачный refresh
// или повторный 401 закрывают сессию. После refresh профиль перечитывается,
// роль считается уже по новому токену.
func (m *Manager) WithSession(ctx context.Context, fn func(ctx context.Context, accessToken string) error) error {
	return m.withSession(ctx, true, fn)
}

func (m *Manager) withSession(ctx context.Context, reload bool, fn func(ctx context.Context, accessToken string) error) error {
	token := m.Token()
	if token == "" {
		return ErrNotAuthenticated
	}

	err := fn(ctx, token)
	if !errors.Is(err, api.ErrUnauthorized) {
		return err
	}

	fresh, err := m.refresh(ctx, token)
	if err != nil {
		return err
	}

	err = fn(ctx, fresh)
	if errors.Is(err, api.ErrUnauthorized) {
		m.expire(ctx, "retry after refresh was rejected")
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	if reload {
		m.reloadProfile(ctx, fresh)
	}
	return err
}

// reloadProfile перечитывает профиль новым токеном; ошибка только логируется,
// старый профиль остается в памяти
func (m *Manager) reloadProfile(ctx context.Context, token string) {
	profile, err := m.api.Profile(ctx, token)
	if err != nil {
		m.logger.Warn("failed to reload profile after refresh", "error", err)
		return
	}

	m.mu.Lock()
	// сессию могли закрыть, пока шел запрос
	if m.accessToken == token {
		m.user = profile
	}
	m.mu.Unlock()
}

// refresh обменивает refresh token на новый access token.
// stale - токен, получивший 401; если его уже заменил параллельный
// refresh, возвращается текущий токен без похода на сервер.
func (m *Manager) refresh(ctx context.Context, stale string) (string, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	m.mu.Lock()
	if m.accessToken != "" && m.accessToken != stale {
		current := m.accessToken
		m.mu.Unlock()
		return current, nil
	}
	refreshToken := m.refreshToken
	m.state = StateRefreshing
	m.mu.Unlock()

	if refreshToken == "" {
		m.expire(ctx, "no refresh token")
		return "", ErrSessionExpired
	}

	m.logger.Debug("access token rejected, refreshing")

	resp, err := m.api.Refresh(ctx, refreshToken)
	if err != nil {
		m.expire(ctx, err.Error())
		return "", fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	fresh := resp.AccessToken
	if !usableToken(fresh) {
		fresh = resp.Token
	}
	if !usableToken(fresh) {
		m.expire(ctx, "refresh response has no access token")
		return "", ErrSessionExpired
	}

	scope, err := m.store.UpdateAccess(ctx, fresh)
	if err != nil {
		// В памяти токен валиден, сессия продолжается до конца процесса
		m.logger.Warn("failed to persist refreshed access token", "error", err)
	}

	m.mu.Lock()
	m.accessToken = fresh
	if scope != storage.ScopeNone {
		m.scope = scope
	}
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.logger.Info("access token refreshed", "scope", scope.String())
	return fresh, nil
}

// expire переводит сессию в Expired и сразу выполняет Logout
func (m *Manager) expire(ctx context.Context, reason string) {
	m.mu.Lock()
	m.state = StateExpired
	m.mu.Unlock()

	m.logger.Warn("session expired, logging out", "reason", reason)
	if err := m.Logout(ctx); err != nil {
		m.logger.Error("failed to clear session", "error", err)
	}
}

// UploadImage загружает аватар и перечитывает профиль
func (m *Manager) UploadImage(ctx context.Context, filename string, r io.Reader) (*pkgapi.Profile, error) {
	// Тело читается целиком, чтобы повтор после refresh отправил те же байты
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	err = m.WithSession(ctx, func(ctx context.Context, token string) error {
		return m.api.UploadImage(ctx, token, filename, bytes.NewReader(data))
	})
	if err != nil {
		return nil, err
	}

	return m.LoadProfile(ctx)
}

// DeleteImage удаляет аватар и перечитывает профиль
func (m *Manager) DeleteImage(ctx context.Context) (*pkgapi.Profile, error) {
	err := m.WithSession(ctx, func(ctx context.Context, token string) error {
		return m.api.DeleteImage(ctx, token)
	})
	if err != nil {
		return nil, err
	}

	return m.LoadProfile(ctx)
}

// Token возвращает текущий access token или ""
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accessToken
}

// User возвращает последний загруженный профиль или nil
func (m *Manager) User() *pkgapi.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// State возвращает текущее состояние
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Scope возвращает scope, в котором лежит живая пара
func (m *Manager) Scope() storage.Scope {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scope
}

// HasRefreshToken сообщает, выдан ли refresh token
func (m *Manager) HasRefreshToken() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshToken != ""
}

// Role вычисляется заново на каждый вызов из профиля и токена
func (m *Manager) Role() roles.Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return roles.Derive(m.user, m.accessToken)
}

// IsAllowed проверяет текущую роль по allow-list
func (m *Manager) IsAllowed(allowed ...roles.Role) bool {
	return roles.IsAllowed(m.Role(), allowed)
}

// Close сбрасывает сессию в памяти, не трогая хранилища
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accessToken = ""
	m.refreshToken = ""
	m.user = nil
	m.scope = storage.ScopeNone
	m.state = StateAnonymous
}

func unreadable(err error) bool {
	return errors.Is(err, crypto.ErrOpenFailed) ||
		errors.Is(err, crypto.ErrMalformed) ||
		errors.Is(err, storage.ErrCorrupted)
}
