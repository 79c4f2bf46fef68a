// Package main is the entry point for the Showroom vehicle viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/app"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.FileConfig{
			Path:       cfg.Logging.LogFile,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Showroom ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to start viewer", zap.Error(err))
		os.Exit(1)
	}

	runErr := a.Run()
	if err := a.Close(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("viewer error", zap.Error(runErr))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}
