package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boilerplate/internal/config"
	"boilerplate/internal/constants"
	apperrors "boilerplate/internal/errors"
	"boilerplate/internal/logfields"
	"boilerplate/internal/metrics"
	"boilerplate/internal/models"
	"boilerplate/internal/telemetry"
	"boilerplate/internal/versioning"

	"github.com/heptiolabs/healthcheck"
	"github.com/sirupsen/logrus"
)

var (
	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging (includes request and response headers)")
	configPath = flag.String("config", "", "Path to a JSON or YAML configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", constants.DefaultAppName, versioning.DefaultVersionInfo())
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	info := versioning.DefaultVersionInfo()
	logger.WithFields(logrus.Fields{
		"version": info.API.String(),
		"build":   info.Build,
		"commit":  info.Commit,
	}).Info("Starting service")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setLogLevel(logger, cfg, *verbose)

	tel, err := telemetry.Setup(ctx, cfg, logger)
	if err != nil {
		logger.Warnf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown telemetry: %v", err)
		}
	}()

	if *configPath != "" {
		watcher := config.NewConfigWatcher(*configPath, logger)
		watcher.OnConfigChange(func(newCfg *models.Config) {
			setLogLevel(logger, newCfg, *verbose)
		})
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.WithError(err).WithField(logfields.ConfigPath, *configPath).Warn("Configuration watcher stopped")
			}
		}()
	}

	recorder, readiness := telemetryDeps(tel)

	registry := metrics.NewRegistry()
	server, err := NewServer(cfg, logger, registry, recorder, readiness, *verbose)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	logger.WithField(logfields.Uptime, registry.Uptime().Round(time.Second).String()).Info("Server shutdown completed")
	return nil
}

// telemetryDeps returns the health recorder and readiness check backed by
// tel. A nil tel records nothing and reports not ready.
func telemetryDeps(tel *telemetry.Telemetry) (HealthRecorder, healthcheck.Check) {
	if hc := tel.HealthCounter(); hc != nil {
		return hc, tel.Check
	}
	return nil, tel.Check
}

// setLogLevel applies the configured level. -verbose forces debug.
func setLogLevel(logger *logrus.Logger, cfg *models.Config, verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	if cfg.LogLevel == "" {
		logger.SetLevel(logrus.InfoLevel)
		return
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		configErr := apperrors.NewConfigError("log_level", err.Error())
		logger.WithError(configErr).
			WithField(logfields.ErrorCode, configErr.Code).
			Warn("Invalid log level, defaulting to info")
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}
