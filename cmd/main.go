package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aiinsights.blog/cli/internal/application/ports"
	"aiinsights.blog/cli/internal/interfaces/cli"
	"aiinsights.blog/cli/internal/interfaces/di"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := di.NewContainer(ctx, di.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		container.CurrentLogger().Log(ports.LogLevelInfo, "Received shutdown signal, cancelling in-flight requests", nil)
		cancel()
	}()

	runErr := cli.Execute(ctx, container.GetCLIContainer())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := container.Shutdown(shutdownCtx); err != nil {
		container.CurrentLogger().LogError(err, "Error during shutdown", nil)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
