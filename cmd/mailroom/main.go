package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/happydeel/mailroom"
	"github.com/happydeel/mailroom/emails"
	"github.com/happydeel/mailroom/handlers"
	"github.com/happydeel/mailroom/middlewares"
	pkgconfig "github.com/happydeel/mailroom/pkg/config"
	"github.com/happydeel/mailroom/pkg/cookie"
	"github.com/happydeel/mailroom/pkg/logger"
	"github.com/happydeel/mailroom/pkg/redis"
	"github.com/happydeel/mailroom/pkg/session"
	"github.com/happydeel/mailroom/views"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mailroom:", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		return err
	}

	ctx := context.Background()
	log := logger.FromConfig(cfg.Log, middlewares.RequestIDExtractor())

	mail, err := newProvider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("mail provider: %w", err)
	}

	composer, err := emails.NewComposer(cfg.Email, mail.sender)
	if err != nil {
		return err
	}

	runOpts := []mailroom.RunOption{
		mailroom.Logger(log),
		mailroom.ShutdownTimeout(cfg.ShutdownTimeout),
	}
	healthOpts := []mailroom.HealthOption{}
	if mail.check != nil {
		healthOpts = append(healthOpts, mailroom.WithReadinessCheck("mail", mail.check))
	}
	if mail.close != nil {
		runOpts = append(runOpts, mailroom.ShutdownHook(mail.close))
	}

	// Revocations live in redis when configured so logouts survive
	// restarts and hold across replicas.
	var revoker session.Revoker = session.NewMemoryRevoker()
	if cfg.Redis.URL != "" {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		revoker = session.NewRedisRevoker(client, "")
		healthOpts = append(healthOpts, mailroom.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, mailroom.ShutdownHook(redis.Shutdown(client)))
	}
	runOpts = append(runOpts, mailroom.ShutdownHook(logger.FlushSentry(2*time.Second)))

	gate, err := session.NewGate(
		cookie.New(cookie.WithSecret(cfg.SessionSecret), cookie.WithSecure(cfg.CookieSecure)),
		session.WithTTL(cfg.SessionTTL),
		session.WithRevoker(revoker),
	)
	if err != nil {
		return err
	}

	app := mailroom.New(
		mailroom.WithCustomLogger(log),
		mailroom.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
		),
		mailroom.WithErrorHandler(handlers.ErrorHandler),
		mailroom.WithNotFoundHandler(handlers.NotFound),
		mailroom.WithMethodNotAllowedHandler(handlers.MethodNotAllowed),
		mailroom.WithSession(gate),
		mailroom.WithStaticFiles("/static/", views.Assets, "static"),
		mailroom.WithHealthChecks(healthOpts...),
		mailroom.WithHandlers(
			handlers.NewAuthHandler(cfg.Auth),
			handlers.NewEmailHandler(composer, handlers.WithSendTimeout(cfg.SendTimeout)),
			handlers.NewPageHandler(cfg.Email.StoreName),
		),
	)

	log.Info("mailroom configured",
		"provider", cfg.MailProvider,
		"from", cfg.Email.FromAddress,
		"redis", cfg.Redis.URL != "",
	)
	return app.Run(cfg.Addr, runOpts...)
}
