// Package main is the entry point for the warehouse exhibit.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/warehouse-exhibit/internal/config"
	"github.com/Faultbox/warehouse-exhibit/internal/exhibit"
	"github.com/Faultbox/warehouse-exhibit/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Warehouse Exhibit ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := exhibit.New(cfg)
	if err != nil {
		logger.Error("failed to create exhibit", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error("exhibit error", zap.Error(err))
		app.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("exhibit closed normally")
}
