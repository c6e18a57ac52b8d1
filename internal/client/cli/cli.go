package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/client/auth"
	"github.com/iudanet/staffdesk/internal/client/iocli"
	"github.com/iudanet/staffdesk/internal/client/storage"
	"github.com/iudanet/staffdesk/internal/client/tracker"
	"github.com/iudanet/staffdesk/internal/roles"
	pkgapi "github.com/iudanet/staffdesk/pkg/api"
)

var (
	// ErrUnknownCommand неизвестная команда или подкоманда
	ErrUnknownCommand = errors.New("unknown command")
	// ErrForbidden роль не допускает команду
	ErrForbidden = errors.New("access denied")
	// ErrUsage неверные аргументы
	ErrUsage = errors.New("usage")
)

// Роли, видящие служебные справочники
var (
	staffRoles = []roles.Role{roles.HR, roles.Admin, roles.OwnerDB}
	adminRoles = []roles.Role{roles.Admin, roles.OwnerDB}
)

// Session subset of auth.Manager used by commands
type Session interface {
	Login(ctx context.Context, email, password string, opts auth.LoginOptions) (*auth.LoginResult, error)
	Logout(ctx context.Context) error
	LoadProfile(ctx context.Context) (*pkgapi.Profile, error)
	UploadImage(ctx context.Context, filename string, r io.Reader) (*pkgapi.Profile, error)
	DeleteImage(ctx context.Context) (*pkgapi.Profile, error)
	WithSession(ctx context.Context, fn func(ctx context.Context, accessToken string) error) error
	User() *pkgapi.Profile
	Role() roles.Role
	State() auth.State
	Scope() storage.Scope
	HasRefreshToken() bool
	IsAllowed(allowed ...roles.Role) bool
}

// HR subset of the API client for the HR collections
type HR interface {
	List(ctx context.Context, accessToken string, r api.Resource, query url.Values) (json.RawMessage, error)
	Get(ctx context.Context, accessToken string, r api.Resource, id int) (json.RawMessage, error)
	Create(ctx context.Context, accessToken string, r api.Resource, payload any) (json.RawMessage, error)
	Update(ctx context.Context, accessToken string, r api.Resource, id int, payload any) (json.RawMessage, error)
	Delete(ctx context.Context, accessToken string, r api.Resource, id int) error
	DecideHoliday(ctx context.Context, accessToken string, id int, approve bool) (json.RawMessage, error)
	HolidayBalance(ctx context.Context, accessToken string, year int) (*pkgapi.HolidayBalance, error)
	AllocateHolidays(ctx context.Context, accessToken string, alloc pkgapi.HolidayAllocation) (*pkgapi.HolidayBalance, error)
	ListPayrolls(ctx context.Context, accessToken string, limit, page int) (json.RawMessage, error)
	UploadPayroll(ctx context.Context, accessToken string, meta pkgapi.PayrollUpload, filename string, r io.Reader) (json.RawMessage, error)
	DeletePayroll(ctx context.Context, accessToken string, id int) error
	DownloadPayroll(ctx context.Context, accessToken string, id int, w io.Writer) (int64, error)
}

// Tracker subset of tracker.Tracker
type Tracker interface {
	Refresh(ctx context.Context) error
	Start(ctx context.Context, note string) error
	PauseToggle(ctx context.Context, note string) error
	End(ctx context.Context, note string) error
	SetMonth(ctx context.Context, anchor time.Time) error
	PrevMonth(ctx context.Context) error
	NextMonth(ctx context.Context) error
	Watch(ctx context.Context, onUpdate func(tracker.View)) error
	Polling() bool
	Snapshot() tracker.View
}

// Compile-time checks for the real services
var (
	_ Session = (*auth.Manager)(nil)
	_ HR      = (*api.Client)(nil)
	_ Tracker = (*tracker.Tracker)(nil)
)

type Cli struct {
	io       iocli.IO
	session  Session
	hr       HR
	tracker  Tracker
	metadata storage.MetadataStorage
	logger   *slog.Logger
	now      func() time.Time
}

func New(io iocli.IO, session Session, hr HR, tracker Tracker, metadata storage.MetadataStorage, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		io:       io,
		session:  session,
		hr:       hr,
		tracker:  tracker,
		metadata: metadata,
		logger:   logger,
		now:      time.Now,
	}
}

// Run выполняет команду. args - аргументы после имени команды.
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "punch":
		return c.runPunch(ctx, args)
	case "timelog":
		return c.runTimelog(ctx, args)
	case "watch":
		return c.runWatch(ctx)
	case "avatar":
		return c.runAvatar(ctx, args)
	case "list":
		return c.runList(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "create":
		return c.runCreate(ctx, args)
	case "update":
		return c.runUpdate(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "payroll":
		return c.runPayroll(ctx, args)
	case "holidays":
		return c.runHolidays(ctx, args)
	case "help":
		PrintUsage(c.io)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

// requireAuth проверяет, что сессия поднята
func (c *Cli) requireAuth() error {
	if c.session.State() != auth.StateAuthenticated {
		return fmt.Errorf("not authenticated. Please run 'staffdesk login' first")
	}
	return nil
}

// requireRole загружает профиль при необходимости и проверяет роль
func (c *Cli) requireRole(ctx context.Context, allowed ...roles.Role) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	if c.session.User() == nil {
		if _, err := c.session.LoadProfile(ctx); err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
	}
	if !c.session.IsAllowed(allowed...) {
		role := c.session.Role()
		if role == roles.None {
			return fmt.Errorf("%w: no role assigned", ErrForbidden)
		}
		return fmt.Errorf("%w: role %s is not allowed", ErrForbidden, role)
	}
	return nil
}
