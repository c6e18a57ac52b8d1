package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/staffdesk/pkg/api"
)

const timePunchPath = "/time-punch"

// DefaultTZ зона, в которой бэкенд считает сутки, если tz не указан
const DefaultTZ = "Europe/Madrid"

// PunchStatus получает состояние текущей смены
func (c *Client) PunchStatus(ctx context.Context, accessToken string) (*api.PunchStatus, error) {
	var resp api.PunchStatus
	if err := c.doRequest(ctx, http.MethodGet, timePunchPath+"/status", accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("punch status request failed: %w", err)
	}
	return &resp, nil
}

// StartShift открывает смену (IN)
func (c *Client) StartShift(ctx context.Context, accessToken, note string) (*api.PunchActionResponse, error) {
	return c.punchAction(ctx, accessToken, "/start", note)
}

// PauseToggle открывает или закрывает перерыв
func (c *Client) PauseToggle(ctx context.Context, accessToken, note string) (*api.PunchActionResponse, error) {
	return c.punchAction(ctx, accessToken, "/pause-toggle", note)
}

// EndShift закрывает смену (OUT)
func (c *Client) EndShift(ctx context.Context, accessToken, note string) (*api.PunchActionResponse, error) {
	return c.punchAction(ctx, accessToken, "/end", note)
}

func (c *Client) punchAction(ctx context.Context, accessToken, action, note string) (*api.PunchActionResponse, error) {
	var resp api.PunchActionResponse
	body := api.PunchNote{Note: note}
	if err := c.doRequest(ctx, http.MethodPost, timePunchPath+action, accessToken, body, &resp); err != nil {
		return nil, fmt.Errorf("punch %s request failed: %w", action[1:], err)
	}
	return &resp, nil
}

// PunchSummary получает агрегированные сессии за период
func (c *Client) PunchSummary(ctx context.Context, accessToken string, q api.PunchQuery) (*api.Summary, error) {
	var resp api.Summary
	path := timePunchPath + "/summary?" + punchQueryValues(q).Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("punch summary request failed: %w", err)
	}
	return &resp, nil
}

// PunchList получает сырые отметки за период
func (c *Client) PunchList(ctx context.Context, accessToken string, q api.PunchQuery) (*api.PunchList, error) {
	var resp api.PunchList
	path := timePunchPath + "/list?" + punchQueryValues(q).Encode()
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("punch list request failed: %w", err)
	}
	return &resp, nil
}

func punchQueryValues(q api.PunchQuery) url.Values {
	tz := q.TZ
	if tz == "" {
		tz = DefaultTZ
	}
	values := url.Values{}
	values.Set("from", q.From)
	values.Set("to", q.To)
	values.Set("tz", tz)
	if q.EmployeeID != 0 {
		values.Set("employee_id", strconv.Itoa(q.EmployeeID))
	}
	return values
}
