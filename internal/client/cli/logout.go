package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/staffdesk/internal/client/storage"
)

func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	// Logout чистит оба scope, даже если в памяти сессии нет
	scope := c.session.Scope()
	if err := c.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	if scope == storage.ScopeNone {
		c.io.Println("No active session was stored.")
		return nil
	}
	c.io.Printf("Removed %s session tokens from this device.\n", scope)

	return nil
}
