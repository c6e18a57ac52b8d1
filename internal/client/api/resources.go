package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"

	"github.com/iudanet/staffdesk/pkg/api"
)

// Resource описывает CRUD-коллекцию бэкенда.
// Большинство коллекций используют /x/edit/{id} и /x/delete/{id},
// у смен обновление и удаление идут прямо по /shifts/{id}.
type Resource struct {
	Name       string
	Path       string
	EditPrefix string // "/edit" или "" для /x/{id}
	DelPrefix  string // "/delete" или ""
}

var resources = map[string]Resource{
	"employees":   {Name: "employees", Path: "/employees", EditPrefix: "/edit", DelPrefix: "/delete"},
	"companies":   {Name: "companies", Path: "/companies", EditPrefix: "/edit", DelPrefix: "/delete"},
	"roles":       {Name: "roles", Path: "/roles", EditPrefix: "/edit", DelPrefix: "/delete"},
	"salaries":    {Name: "salaries", Path: "/salaries", EditPrefix: "/edit", DelPrefix: "/delete"},
	"payroll":     {Name: "payroll", Path: "/payroll", EditPrefix: "/edit", DelPrefix: "/delete"},
	"holidays":    {Name: "holidays", Path: "/holidays", EditPrefix: "/edit", DelPrefix: "/delete"},
	"suggestions": {Name: "suggestions", Path: "/suggestions", EditPrefix: "/edit", DelPrefix: "/delete"},
	"shifts":      {Name: "shifts", Path: "/shifts"},
}

// LookupResource возвращает описание коллекции по имени
func LookupResource(name string) (Resource, bool) {
	r, ok := resources[name]
	return r, ok
}

// ResourceNames возвращает известные имена коллекций в алфавитном порядке
func ResourceNames() []string {
	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r Resource) itemPath(prefix string, id int) string {
	return r.Path + prefix + "/" + strconv.Itoa(id)
}

// List получает все элементы коллекции
func (c *Client) List(ctx context.Context, accessToken string, r Resource, query url.Values) (json.RawMessage, error) {
	path := r.Path
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s failed: %w", r.Name, err)
	}
	return resp, nil
}

// Get получает элемент коллекции по id
func (c *Client) Get(ctx context.Context, accessToken string, r Resource, id int) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, r.itemPath("", id), accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("get %s/%d failed: %w", r.Name, id, err)
	}
	return resp, nil
}

// Create создает элемент коллекции
func (c *Client) Create(ctx context.Context, accessToken string, r Resource, payload any) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodPost, r.Path, accessToken, payload, &resp); err != nil {
		return nil, fmt.Errorf("create %s failed: %w", r.Name, err)
	}
	return resp, nil
}

// Update обновляет элемент коллекции
func (c *Client) Update(ctx context.Context, accessToken string, r Resource, id int, payload any) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodPut, r.itemPath(r.EditPrefix, id), accessToken, payload, &resp); err != nil {
		return nil, fmt.Errorf("update %s/%d failed: %w", r.Name, id, err)
	}
	return resp, nil
}

// Delete удаляет элемент коллекции
func (c *Client) Delete(ctx context.Context, accessToken string, r Resource, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, r.itemPath(r.DelPrefix, id), accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete %s/%d failed: %w", r.Name, id, err)
	}
	return nil
}

// DecideHoliday одобряет или отклоняет заявку на отпуск
func (c *Client) DecideHoliday(ctx context.Context, accessToken string, id int, approve bool) (json.RawMessage, error) {
	action := "/reject"
	if approve {
		action = "/approve"
	}
	var resp json.RawMessage
	path := "/holidays/" + strconv.Itoa(id) + action
	if err := c.doRequest(ctx, http.MethodPost, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("holiday %s failed: %w", action[1:], err)
	}
	return resp, nil
}

// HolidayBalance получает баланс отпуска текущего сотрудника; year=0 - текущий год
func (c *Client) HolidayBalance(ctx context.Context, accessToken string, year int) (*api.HolidayBalance, error) {
	path := "/holidays/balance/me"
	if year > 0 {
		path += "?year=" + strconv.Itoa(year)
	}
	var resp api.HolidayBalance
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("holiday balance request failed: %w", err)
	}
	return &resp, nil
}

// AllocateHolidays выставляет число доступных дней отпуска сотруднику (Admin/HR)
func (c *Client) AllocateHolidays(ctx context.Context, accessToken string, alloc api.HolidayAllocation) (*api.HolidayBalance, error) {
	var resp api.HolidayBalance
	if err := c.doRequest(ctx, http.MethodPut, "/holidays/balance/allocate", accessToken, alloc, &resp); err != nil {
		return nil, fmt.Errorf("holiday allocation request failed: %w", err)
	}
	return &resp, nil
}
