package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bugbot/internal/logging"
)

// RunCmd starts the bot and blocks until interrupted
type RunCmd struct{}

// Run connects to Discord, restores the standing prompts, and serves report
// sessions until SIGINT/SIGTERM. Shutdown posts the going-down notices, then
// waits for in-flight sessions to finish.
func (r *RunCmd) Run(cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cli.Settings())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer container.Close()

	if err := container.Session.Open(); err != nil {
		return fmt.Errorf("failed to connect to Discord: %w", err)
	}
	defer container.Session.Close()

	if err := container.Prompts.StartupCleanup(ctx); err != nil {
		return fmt.Errorf("failed to restore standing prompts: %w", err)
	}

	logging.Logger.Info("Bot is running", "sessions", container.Registry.ActiveCount())
	fmt.Println("bugbot is running, press Ctrl+C to stop")

	<-ctx.Done()
	logging.Logger.Info("Shutting down")

	// The signal context is already cancelled; use a fresh one for the
	// shutdown notices so they still go out
	container.Prompts.Shutdown(context.Background())
	container.Controller.Wait()

	return nil
}
