package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/roles"
)

// writeGates коллекции, которые меняет только персонал.
// Заявки на отпуск и предложения сотрудник создает сам.
var writeGates = map[string][]roles.Role{
	"employees": staffRoles,
	"salaries":  staffRoles,
	"companies": staffRoles,
	"roles":     adminRoles,
	"payroll":   staffRoles,
	"shifts":    staffRoles,
}

func (c *Cli) runCreate(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: staffdesk create <resource> <payload.json>", ErrUsage)
	}

	resource, payload, err := c.prepareWrite(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	var raw json.RawMessage
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		raw, err = c.hr.Create(ctx, token, resource, payload)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s created\n", resource.Name)
	c.io.Println(prettyJSON(raw))
	return nil
}

func (c *Cli) runUpdate(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: staffdesk update <resource> <id> <payload.json>", ErrUsage)
	}

	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	resource, payload, err := c.prepareWrite(ctx, args[0], args[2])
	if err != nil {
		return err
	}

	var raw json.RawMessage
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		raw, err = c.hr.Update(ctx, token, resource, id, payload)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s #%d updated\n", resource.Name, id)
	c.io.Println(prettyJSON(raw))
	return nil
}

// prepareWrite проверяет коллекцию, права и читает JSON тело из файла
func (c *Cli) prepareWrite(ctx context.Context, name, path string) (api.Resource, json.RawMessage, error) {
	resource, err := lookupResource(name)
	if err != nil {
		return api.Resource{}, nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return api.Resource{}, nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid(data) {
		return api.Resource{}, nil, fmt.Errorf("payload %s is not valid JSON", path)
	}

	if allowed, gated := writeGates[resource.Name]; gated {
		err = c.requireRole(ctx, allowed...)
	} else {
		err = c.requireAuth()
	}
	if err != nil {
		return api.Resource{}, nil, err
	}

	return resource, json.RawMessage(data), nil
}
