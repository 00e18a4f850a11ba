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

	"go.uber.org/zap"
)

func main() {
	// Initialize composition root with all dependencies
	root, err := NewCompositionRoot()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	// Ensure cleanup on exit
	defer func() {
		if err := root.Cleanup(); err != nil {
			root.Logger.Error("Failed to cleanup resources", zap.Error(err))
		}
	}()

	go func() {
		var err error
		if addr := GetListenAddr(); addr != "" {
			err = root.HTTPServer.StartTCP(addr)
		} else {
			err = root.HTTPServer.StartUnixSocket(GetSocketPath())
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Logger.Error("Interface server failed", zap.Error(err))
		}
	}()

	metricsPort := GetMetricsPort()
	go func() {
		if err := root.MetricsServer.Start(metricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			root.Logger.Error("Metrics server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	root.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := root.HTTPServer.Stop(ctx); err != nil {
		root.Logger.Error("Interface server forced to shutdown", zap.Error(err))
	}
	if err := root.MetricsServer.Stop(ctx); err != nil {
		root.Logger.Error("Metrics server forced to shutdown", zap.Error(err))
	}

	root.Logger.Info("Server exited")
}
