package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/staffdesk/internal/client/api"
	"github.com/iudanet/staffdesk/internal/client/auth"
	"github.com/iudanet/staffdesk/internal/client/cli"
	"github.com/iudanet/staffdesk/internal/client/config"
	"github.com/iudanet/staffdesk/internal/client/iocli"
	"github.com/iudanet/staffdesk/internal/client/storage/boltdb"
	"github.com/iudanet/staffdesk/internal/client/tracker"
	"github.com/iudanet/staffdesk/internal/crypto"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, args, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cli.PrintUsage(os.Stderr)
		return 1
	}

	// Show version and exit if requested
	if cfg.ShowVersion {
		printVersion()
		return 0
	}

	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		return 1
	}

	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	// Ctrl+C останавливает watch и прерывает запросы
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Долговременное хранилище: токены "запомнить меня" и метаданные
	durable, err := boltdb.New(ctx, cfg.DurableDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer closeStorage(logger, "durable", durable)

	// Хранилище сессии во временном каталоге, очищается вместе с ним
	ephemeral, err := boltdb.New(ctx, cfg.EphemeralDBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session database: %v\n", err)
		return 1
	}
	defer closeStorage(logger, "ephemeral", ephemeral)

	key, err := crypto.LoadOrCreateKey(cfg.KeyPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load encryption key: %v\n", err)
		return 1
	}
	sealer, err := crypto.NewSealer(key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init token sealing: %v\n", err)
		return 1
	}

	apiClient := api.NewClient(cfg.ServerURL, api.WithTimeout(cfg.Timeout), api.WithLogger(logger))

	manager := auth.NewManager(apiClient, auth.NewTokenStore(durable, ephemeral, sealer), logger)
	defer manager.Close()
	if err := manager.Restore(ctx); err != nil {
		// Поврежденная сессия не мешает login
		logger.Warn("failed to restore session", "error", err)
	}

	punchTracker := tracker.New(manager, apiClient, tracker.NewCronScheduler(logger), tracker.Config{
		Logger:   logger,
		Location: cfg.Location,
		TZ:       cfg.TZ,
	})

	app := cli.New(iocli.NewStdio(), manager, apiClient, punchTracker, durable, logger)
	if err := app.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, cli.ErrUnknownCommand) {
			cli.PrintUsage(os.Stderr)
		}
		return 1
	}
	return 0
}

func closeStorage(logger *slog.Logger, name string, s *boltdb.Storage) {
	if err := s.Close(); err != nil {
		logger.Error("failed to close database", "db", name, "error", err)
	}
}

func printVersion() {
	fmt.Printf("StaffDesk Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
