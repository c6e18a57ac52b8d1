// Package config собирает настройки клиента из .env, переменных окружения и флагов.
// Приоритет: флаг > переменная окружения > .env > значение по умолчанию.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Переменные окружения
const (
	EnvServer   = "STAFFDESK_SERVER"
	EnvDBDir    = "STAFFDESK_DB_DIR"
	EnvTZ       = "STAFFDESK_TZ"
	EnvLogLevel = "STAFFDESK_LOG_LEVEL"
	EnvTimeout  = "STAFFDESK_TIMEOUT"
)

// Значения по умолчанию
const (
	DefaultServer   = "http://localhost:3001"
	DefaultTZ       = "Europe/Madrid"
	DefaultLogLevel = "info"
	DefaultTimeout  = 30 * time.Second
	defaultDirName  = ".staffdesk"
)

// Config настройки клиента
type Config struct {
	Location    *time.Location
	ServerURL   string
	DBDir       string
	TZ          string
	Timeout     time.Duration
	LogLevel    slog.Level
	ShowVersion bool
}

// Load читает .env (если есть), окружение и разбирает глобальные флаги.
// Возвращает конфиг и оставшиеся аргументы (команду и ее параметры).
func Load(args []string) (*Config, []string, error) {
	return load(args, ".env")
}

func load(args []string, envFile string) (*Config, []string, error) {
	// .env необязателен, уже заданные переменные окружения он не перезаписывает
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	defaultDir, err := defaultDBDir()
	if err != nil {
		return nil, nil, err
	}

	fset := flag.NewFlagSet("staffdesk", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	showVersion := fset.Bool("version", false, "Show version information")
	serverURL := fset.String("server", getEnv(EnvServer, DefaultServer), "HR backend URL")
	dbDir := fset.String("db-dir", getEnv(EnvDBDir, defaultDir), "Directory for the local database")
	tz := fset.String("tz", getEnv(EnvTZ, DefaultTZ), "IANA time zone for day boundaries")
	logLevel := fset.String("log-level", getEnv(EnvLogLevel, DefaultLogLevel), "Log level: debug, info, warn, error")
	timeout := fset.String("timeout", getEnv(EnvTimeout, DefaultTimeout.String()), "HTTP request timeout, e.g. 30s")

	if err := fset.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("invalid flags: %w", err)
	}

	level, err := ParseLevel(*logLevel)
	if err != nil {
		return nil, nil, err
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid time zone %q: %w", *tz, err)
	}

	requestTimeout, err := time.ParseDuration(*timeout)
	if err != nil || requestTimeout <= 0 {
		return nil, nil, fmt.Errorf("invalid timeout %q: must be a positive duration", *timeout)
	}

	server := strings.TrimRight(strings.TrimSpace(*serverURL), "/")
	if server == "" {
		return nil, nil, fmt.Errorf("server URL cannot be empty")
	}

	cfg := &Config{
		ServerURL:   server,
		DBDir:       *dbDir,
		TZ:          *tz,
		Timeout:     requestTimeout,
		Location:    loc,
		LogLevel:    level,
		ShowVersion: *showVersion,
	}
	return cfg, fset.Args(), nil
}

// DurableDBPath файл БД, переживающий перезапуск ОС (режим "запомнить меня")
func (c *Config) DurableDBPath() string {
	return filepath.Join(c.DBDir, "staffdesk.db")
}

// KeyPath файл ключа шифрования токенов
func (c *Config) KeyPath() string {
	return filepath.Join(c.DBDir, "token.key")
}

// EphemeralDBPath файл БД сессии во временном каталоге пользователя
func (c *Config) EphemeralDBPath() string {
	return filepath.Join(os.TempDir(), "staffdesk-"+strconv.Itoa(os.Getuid()), "session.db")
}

// NewLogger создает текстовый логгер в stderr
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

// ParseLevel разбирает уровень логирования
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func defaultDBDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
