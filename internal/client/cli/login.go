package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/staffdesk/internal/client/auth"
	"github.com/iudanet/staffdesk/internal/validation"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remember := fs.Bool("remember", false, "Keep the session after the OS session ends")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: staffdesk login [--remember]", ErrUsage)
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	// Подставляем email последнего входа
	lastEmail, err := c.metadata.GetLastEmail(ctx)
	if err != nil {
		c.logger.Warn("failed to read last email", "error", err)
	}
	prompt := "Email: "
	if lastEmail != "" {
		prompt = fmt.Sprintf("Email [%s]: ", lastEmail)
	}

	email, err := c.io.ReadInput(prompt)
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if email == "" {
		email = lastEmail
	}
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	c.io.Println("Authenticating...")

	result, err := c.session.Login(ctx, email, password, auth.LoginOptions{RememberMe: *remember})
	if err != nil {
		return err
	}

	if err := c.metadata.SaveLastEmail(ctx, email); err != nil {
		c.logger.Warn("failed to save last email", "error", err)
	}

	return render(c.io, loginTemplate, result)
}
