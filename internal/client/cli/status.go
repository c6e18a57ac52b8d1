package cli

import (
	"context"
	"errors"

	"github.com/iudanet/staffdesk/internal/client/auth"
	"github.com/iudanet/staffdesk/internal/roles"
)

type statusView struct {
	State      string
	Scope      string
	Role       string
	Name       string
	Refresh    bool
	Authorized bool
	Staff      bool
}

func (c *Cli) runStatus(ctx context.Context) error {
	v := statusView{
		State:      c.session.State().String(),
		Scope:      c.session.Scope().String(),
		Refresh:    c.session.HasRefreshToken(),
		Authorized: c.session.State() == auth.StateAuthenticated,
	}

	if v.Authorized {
		// Профиль нужен для роли; ошибка загрузки не ломает status
		profile, err := c.session.LoadProfile(ctx)
		switch {
		case errors.Is(err, auth.ErrSessionExpired):
			v.State = c.session.State().String()
			v.Authorized = false
		case err != nil:
			c.logger.Warn("failed to load profile", "error", err)
		default:
			v.Name = displayName(profile.Name, profile.Surname, profile.Email)
		}
		v.Role = string(c.session.Role())
		v.Staff = roles.AtLeast(c.session.Role(), roles.HR)
	}

	return render(c.io, statusTemplate, v)
}

func (c *Cli) runWhoami(ctx context.Context) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	profile, err := c.session.LoadProfile(ctx)
	if err != nil {
		return err
	}
	return render(c.io, profileTemplate, profileView{
		Profile: profile,
		Name:    displayName(profile.Name, profile.Surname, ""),
		Role:    string(c.session.Role()),
	})
}

func displayName(name, surname, fallback string) string {
	switch {
	case name != "" && surname != "":
		return name + " " + surname
	case name != "":
		return name
	default:
		return fallback
	}
}
