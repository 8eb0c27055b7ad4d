package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"batteryswap/backend/libs/logging"
	"batteryswap/backend/services/admin-cli/internal/cli"
	"batteryswap/backend/services/admin-cli/internal/clients"
	"batteryswap/backend/services/admin-cli/internal/config"
	"batteryswap/backend/services/admin-cli/internal/password"
	"batteryswap/backend/services/admin-cli/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger, err := logging.NewConsoleLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // best-effort flush

	api, err := clients.NewAPI(clients.Settings{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	}, nil, logger)
	if err != nil {
		logger.Error("failed to initialize api client", zap.Error(err))
		return 1
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Error("invalid timezone", zap.Error(err))
		return 1
	}

	console := service.NewConsole(service.FromAPI(api), password.NewBcryptHasher(cfg.Bcrypt.Cost), logger, service.WithLocation(loc))
	app := cli.New(console, os.Stdout, os.Stderr)

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			app.Usage(os.Stderr)
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
