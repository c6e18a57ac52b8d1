package api

import (
	"log/slog"
	"net/http"
	"time"
)

// Option настраивает Client
type Option func(*Client)

// WithLogger включает логирование запросов
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.httpClient.Transport = &loggingTransport{
			next:   c.httpClient.Transport,
			logger: logger,
		}
	}
}

// WithTimeout меняет таймаут HTTP клиента
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// loggingTransport логирует метод, путь, статус и длительность запроса.
// Заголовки и тела не логируются: в них токены и пароли.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(req)
	duration := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		t.logger.Log(req.Context(), slog.LevelWarn, "HTTP request failed", append(attrs, "error", err)...)
		return nil, err
	}

	// 401 штатно обрабатывается обновлением токена
	logLevel := slog.LevelDebug
	switch {
	case resp.StatusCode >= 500:
		logLevel = slog.LevelError
	case resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized:
		logLevel = slog.LevelWarn
	}

	t.logger.Log(req.Context(), logLevel, "HTTP request", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
