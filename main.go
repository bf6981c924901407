package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/b0bbywan/go-luminous-portal/backend"
	"github.com/b0bbywan/go-luminous-portal/config"
	"github.com/b0bbywan/go-luminous-portal/logger"
	"github.com/b0bbywan/go-luminous-portal/portal"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("[%s] Failed to load config: %v", config.AppName, err)
	}

	// Set log levels from config
	logger.SetLevel(cfg.LogLevel)
	logger.SetPackageLevels(cfg.LogLevels)

	// Global context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize backends
	b, err := backend.New(ctx, cfg)
	if err != nil {
		logger.Fatal("[%s] Backend initialization failed: %v", config.AppName, err)
	}

	info := b.Info()
	logger.Info("[%s] %s on %s (%s), screencast=%v watch=%v", config.AppName,
		info.Version, info.OSVersion, info.OSPlatform, info.Backends.ScreenCast, info.Backends.Watching)

	// The bus connection is the only fatal runtime dependency
	host, err := portal.NewHost(cfg.BusName, b)
	if err != nil {
		logger.Fatal("[%s] %v", config.AppName, err)
	}

	// Start enabled backends
	if err := b.Start(); err != nil {
		logger.Fatal("[%s] Backend start failed: %v", config.AppName, err)
	}

	// Channel to synchronize shutdown
	shutdownDone := make(chan struct{})
	// Goroutine for signal handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigChan:
			logger.Info("[%s] Shutdown signal received, stopping portal...", config.AppName)
		case <-ctx.Done():
		}

		// Cancel the global context - stops the watcher and signal forwarding
		cancel()

		// Cleanup backends
		b.Close()

		// Signal that cleanup is complete
		close(shutdownDone)
	}()

	logger.Info("[%s] started", config.AppName)
	runErr := host.Run(ctx)
	if runErr != nil {
		logger.Error("[%s] portal error: %v", config.AppName, runErr)
		cancel()
	}

	<-shutdownDone
	host.Close()
	logger.Info("[%s] stopped", config.AppName)
	if runErr != nil {
		os.Exit(1)
	}
}
