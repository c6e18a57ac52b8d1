package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: staffdesk delete <resource> <id>", ErrUsage)
	}

	resource, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	if err := c.requireRole(ctx, adminRoles...); err != nil {
		return err
	}

	answer, err := c.io.ReadInput(fmt.Sprintf("Delete %s #%d? [y/N]: ", resource.Name, id))
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !isYes(answer) {
		c.io.Println("Cancelled.")
		return nil
	}

	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		return c.hr.Delete(ctx, token, resource, id)
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s #%d deleted\n", resource.Name, id)
	return nil
}
