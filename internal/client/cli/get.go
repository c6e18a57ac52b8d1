package cli

import (
	"context"
	"encoding/json"
	"fmt"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: staffdesk get <resource> <id>", ErrUsage)
	}

	resource, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	if err := c.requireAuth(); err != nil {
		return err
	}

	var raw json.RawMessage
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		raw, err = c.hr.Get(ctx, token, resource, id)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("=== %s #%d ===\n", resource.Name, id)
	c.io.Println(prettyJSON(raw))
	return nil
}
