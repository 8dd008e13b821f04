package cli

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"go.uber.org/fx"
)

// runApp starts app and blocks until a signal arrives or ctx is done.
func runApp(ctx context.Context, app *fx.App) error {
	if err := app.Err(); err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		slog.Error("application stop failed", "error", err)
		return err
	}
	slog.Info("application stopped")
	return nil
}

// runOnce starts app, runs fn and stops app again.
func runOnce(ctx context.Context, app *fx.App, fn func(context.Context) error) error {
	if err := app.Err(); err != nil {
		return err
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	runErr := fn(ctx)

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}
