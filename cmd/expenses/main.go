package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"expensetracker/internal/cli"
	applog "expensetracker/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res := cli.InitBackend(ctx, logger, cfg)

	app := &cli.App{
		Service:    res.Service,
		Out:        os.Stdout,
		ChartWidth: cfg.ChartWidth,
	}
	err := app.Run(ctx, os.Args[1:])

	if cerr := res.Cleanup(); cerr != nil {
		logger.Warn("Cleanup failed", applog.FieldError, cerr)
	}

	switch {
	case err == nil:
	case errors.Is(err, cli.ErrUsage):
		os.Exit(2)
	default:
		logger.Error("Command failed", applog.FieldError, err, applog.FieldOperation, firstArg(os.Args))
		os.Exit(1)
	}
}

func firstArg(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	return ""
}
