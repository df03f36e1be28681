package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/johnrirwin/fpviraq/internal/app"
	"github.com/johnrirwin/fpviraq/internal/config"
	"github.com/johnrirwin/fpviraq/internal/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load()

	application, err := app.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	logger := application.Logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
		shutdown(application)
		close(stopped)
	}()

	err = application.Run(ctx)
	if ctx.Err() != nil {
		<-stopped
	} else {
		shutdown(application)
	}

	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.Is(err, http.ErrServerClosed):
		logger.Info("Server stopped")
	default:
		logger.Error("Server error", logging.WithField("error", err.Error()))
		os.Exit(1)
	}
}

func shutdown(application *app.App) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := application.Shutdown(ctx); err != nil {
		application.Logger.Error("Shutdown error", logging.WithField("error", err.Error()))
	}
}
