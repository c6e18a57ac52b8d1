package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/roles"
)

// listGates коллекции, которые видит только персонал
var listGates = map[string][]roles.Role{
	"employees": staffRoles,
	"salaries":  staffRoles,
	"companies": staffRoles,
	"roles":     staffRoles,
}

// lookupResource возвращает коллекцию или ошибку со списком известных
func lookupResource(name string) (api.Resource, error) {
	r, ok := api.LookupResource(name)
	if !ok {
		return api.Resource{}, fmt.Errorf("unknown resource: %s. Use one of: %s",
			name, resourceList())
	}
	return r, nil
}

// parseFilters превращает аргументы key=value в query
func parseFilters(args []string) (url.Values, error) {
	query := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: filter must be key=value, got %q", ErrUsage, arg)
		}
		query.Add(key, value)
	}
	return query, nil
}

func (c *Cli) runList(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: staffdesk list <resource> [key=value...]", ErrUsage)
	}

	resource, err := lookupResource(args[0])
	if err != nil {
		return err
	}
	query, err := parseFilters(args[1:])
	if err != nil {
		return err
	}

	if allowed, gated := listGates[resource.Name]; gated {
		if err := c.requireRole(ctx, allowed...); err != nil {
			return err
		}
	} else if err := c.requireAuth(); err != nil {
		return err
	}

	var raw json.RawMessage
	err = c.session.WithSession(ctx, func(ctx context.Context, token string) error {
		raw, err = c.hr.List(ctx, token, resource, query)
		return err
	})
	if err != nil {
		return err
	}

	c.io.Printf("=== %s ===\n", resource.Name)
	if n, ok := countItems(raw); ok {
		c.io.Printf("Found %d item(s)\n", n)
	}
	c.io.Println(prettyJSON(raw))
	return nil
}

// countItems считает элементы, если ответ - массив
func countItems(raw json.RawMessage) (int, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, false
	}
	return len(items), true
}

func resourceList() string {
	return strings.Join(api.ResourceNames(), ", ")
}
