package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/staffdesk/pkg/api"
)

func TestClient_ListPayrolls(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/payrolls", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"items":[{"id":4,"period_month":3}],"total_pages":2}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	got, err := client.ListPayrolls(context.Background(), "tok", 10, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":4,"period_month":3}],"total_pages":2}`, string(got))

	_, err = client.ListPayrolls(context.Background(), "tok", 0, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"limit=10&page=2", ""}, queries)
}

// TestClient_UploadPayroll проверяет поля формы и сам файл
func TestClient_UploadPayroll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/payrolls", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "7", r.FormValue("employee_id"))
		assert.Equal(t, "3", r.FormValue("month"))
		assert.Equal(t, "2025", r.FormValue("year"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "march.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 11, "employee_id": 7})
	}))
	defer server.Close()

	meta := api.PayrollUpload{EmployeeID: 7, Month: 3, Year: 2025}
	got, err := NewClient(server.URL).UploadPayroll(context.Background(), "tok", meta, "march.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":11,"employee_id":7}`, string(got))
}

func TestClient_UploadPayroll_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"msg":"El archivo debe ser PDF"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).UploadPayroll(context.Background(), "tok", api.PayrollUpload{EmployeeID: 1, Month: 1, Year: 2025}, "a.txt", strings.NewReader("x"))
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "El archivo debe ser PDF")
}

func TestClient_DeletePayroll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		if r.URL.Path == "/api/payrolls/404" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"msg":"No encontrado"}`))
			return
		}
		assert.Equal(t, "/api/payrolls/5", r.URL.Path)
		_, _ = w.Write([]byte(`{"msg":"deleted"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.DeletePayroll(context.Background(), "tok", 5))

	err := client.DeletePayroll(context.Background(), "tok", 404)
	assert.ErrorContains(t, err, "No encontrado")
}

func TestClient_AllocateHolidays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/holidays/balance/allocate", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"employee_id": float64(7), "allocated_days": float64(25)}, body)

		_, _ = w.Write([]byte(`{"employee_id":7,"year":2025,"allocated_days":25,"used_days":3}`))
	}))
	defer server.Close()

	got, err := NewClient(server.URL).AllocateHolidays(context.Background(), "tok", api.HolidayAllocation{EmployeeID: 7, AllocatedDays: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, got.AllocatedDays)
	assert.Equal(t, 3, got.UsedDays)
	assert.Equal(t, 2025, got.Year)
}
