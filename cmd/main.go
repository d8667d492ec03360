package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yungbote/courseprogress-backend/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	if err := a.Start(); err != nil {
		a.Log.Error("App start failed", "error", err)
		_ = a.Shutdown(context.Background())
		os.Exit(1)
	}

	runErr := make(chan error, 1)
	go func() { runErr <- a.Run() }()

	exitCode := 0
	select {
	case <-ctx.Done():
		a.Log.Info("Shutdown signal received")
	case err := <-runErr:
		if err != nil {
			a.Log.Error("Server failed", "error", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		a.Log.Error("Shutdown finished with errors", "error", err)
		exitCode = 1
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
