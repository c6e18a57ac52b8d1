package api

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger(t *testing.T) {
	tests := []struct {
		name       string
		wantLevel  string
		statusCode int
	}{
		{name: "ok is debug", statusCode: http.StatusOK, wantLevel: "level=DEBUG"},
		{name: "unauthorized is debug", statusCode: http.StatusUnauthorized, wantLevel: "level=DEBUG"},
		{name: "not found is warn", statusCode: http.StatusNotFound, wantLevel: "level=WARN"},
		{name: "server error is error", statusCode: http.StatusInternalServerError, wantLevel: "level=ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			var logBuf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			client := NewClient(server.URL, WithLogger(logger))
			_, _ = client.Profile(context.Background(), "secret-token")

			out := logBuf.String()
			assert.Contains(t, out, tt.wantLevel)
			assert.Contains(t, out, "path=/api/employees/profile")
			assert.Contains(t, out, "request_id=")
			assert.NotContains(t, out, "secret-token")
		})
	}
}

func TestWithLogger_TransportError(t *testing.T) {
	var logBuf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logBuf, nil))

	client := NewClient("http://127.0.0.1:1", WithLogger(logger), WithTimeout(time.Second))
	_, err := client.Profile(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, strings.Contains(logBuf.String(), "HTTP request failed"))
}
