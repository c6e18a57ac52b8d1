package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/staffdesk/pkg/api"
)

// ListPayrolls получает страницу расчетных листов {items, total_pages}.
// limit и page <= 0 оставляют значения сервера (10 и 1).
func (c *Client) ListPayrolls(ctx context.Context, accessToken string, limit, page int) (json.RawMessage, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	path := "/payrolls"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var resp json.RawMessage
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &resp); err != nil {
		return nil, fmt.Errorf("list payrolls failed: %w", err)
	}
	return resp, nil
}

// UploadPayroll загружает PDF расчетного листа (multipart: employee_id, month, year, file)
func (c *Client) UploadPayroll(ctx context.Context, accessToken string, meta api.PayrollUpload, filename string, r io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"employee_id", strconv.Itoa(meta.EmployeeID)},
		{"month", strconv.Itoa(meta.Month)},
		{"year", strconv.Itoa(meta.Year)},
	}
	for _, f := range fields {
		if err := writer.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to copy payroll document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/payrolls", accessToken, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp json.RawMessage
	if err := c.do(req, &resp); err != nil {
		return nil, fmt.Errorf("upload payroll request failed: %w", err)
	}
	return resp, nil
}

// DeletePayroll удаляет расчетный лист
func (c *Client) DeletePayroll(ctx context.Context, accessToken string, id int) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/payrolls/"+strconv.Itoa(id), accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete payroll %d failed: %w", id, err)
	}
	return nil
}

// DownloadPayroll скачивает PDF расчетного листа в w и возвращает число записанных байт
func (c *Client) DownloadPayroll(ctx context.Context, accessToken string, id int, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/payrolls/"+strconv.Itoa(id)+"/download", accessToken, nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("payroll download failed: %w", checkStatus(resp.StatusCode, body))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to write payroll document: %w", err)
	}
	return n, nil
}
