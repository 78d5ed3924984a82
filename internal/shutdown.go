package internal

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// runHooks runs shutdown hooks in order. Each hook gets an equal share of
// the time left in ctx, so a hook that hangs cannot starve the ones after
// it. A hook that overruns its share is abandoned and reported.
func runHooks(ctx context.Context, hooks []func(context.Context) error, logger *slog.Logger) []error {
	var errs []error
	for i, hook := range hooks {
		err := runHook(ctx, hook, len(hooks)-i)
		if err == nil {
			continue
		}
		errs = append(errs, fmt.Errorf("shutdown hook %d: %w", i, err))
		logger.Error("shutdown hook failed", slog.Int("hook", i), slog.Any("error", err))
	}
	return errs
}

func runHook(ctx context.Context, hook func(context.Context) error, remaining int) error {
	hookCtx, cancel := hookContext(ctx, remaining)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() { done <- hook(hookCtx) }()

	select {
	case err := <-done:
		return err
	case <-hookCtx.Done():
		return fmt.Errorf("timed out after %s: %w", time.Since(start).Round(time.Millisecond), hookCtx.Err())
	}
}

// hookContext splits the time left in ctx between the remaining hooks.
func hookContext(ctx context.Context, remaining int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || remaining <= 1 {
		return context.WithCancel(ctx)
	}
	share := time.Until(deadline) / time.Duration(remaining)
	return context.WithTimeout(ctx, share)
}
