// Package server wires configuration, storage, the auth services and the
// HTTP and gRPC transports into a runnable application.
package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"github.com/dmitrijs2005/authgate/internal/server/limiter"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authgate/internal/server/rest"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/dmitrijs2005/authgate/internal/server/session"

	gs "github.com/dmitrijs2005/authgate/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	closers []io.Closer
	http    *rest.HTTPServer
	grpc    *gs.GRPCServer
}

// NewApp validates cfg, opens storage (running migrations) and the optional
// redis limiter, then builds both transports. Any failure releases what was
// already opened.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.New(cfg.Environment, os.Stdout)

	authCfg, err := cfg.Auth()
	if err != nil {
		return nil, fmt.Errorf("invalid auth config: %w", err)
	}
	limCfg, err := cfg.Limiter()
	if err != nil {
		return nil, fmt.Errorf("invalid limiter config: %w", err)
	}

	app := &App{config: cfg, logger: logger}

	repos, err := repomanager.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.repos = repos
	app.closers = append(app.closers, repos)

	if err := repos.RunMigrations(ctx); err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("migrations failed: %w", err)
	}

	var signInLimiter services.SignInLimiter
	if limCfg.Enabled() {
		client, err := limiter.Connect(ctx, limCfg.RedisAddr)
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.closers = append(app.closers, client)
		signInLimiter = limiter.NewRedisLimiter(client, limiter.Config{
			MaxAttempts: limCfg.MaxAttempts,
			Cooldown:    limCfg.Cooldown,
		}, logger)
	} else {
		logger.Warn(ctx, "sign-in throttling disabled, no redis address configured")
	}

	userRepo := repos.Users()
	hasher := auth.NewBcryptHasher(authCfg.BcryptCost)
	codec := auth.NewTokenCodec(authCfg)
	issuer := auth.NewTokenIssuer(codec)

	validator := services.NewCredentialValidator(userRepo, hasher, logger)
	subjects := services.NewSubjectResolver(userRepo, logger)
	refresh := services.NewRefreshCycle(codec, subjects, issuer, logger)
	authService := services.NewAuthService(userRepo, hasher, validator, issuer, signInLimiter, logger)
	profile := services.NewProfileService(userRepo, logger)
	enforcer := guard.NewEnforcer(codec, subjects, refresh, logger)

	app.http = rest.NewHTTPServer(cfg.HTTPAddr, logger, authService, refresh, profile, session.NewCookieManager(authCfg), enforcer,
		rest.WithTrustedProxy(cfg.TrustedProxy))
	if cfg.GRPCAddr != "" {
		app.grpc = gs.NewGRPCServer(cfg.GRPCAddr, logger, enforcer, profile)
	}

	return app, nil
}

// HTTPHandler returns the wired HTTP router without binding a listener.
func (app *App) HTTPHandler() http.Handler {
	return app.http.Routes()
}

// Close releases storage and redis connections. Run calls it on exit.
func (app *App) Close() {
	app.close(context.Background())
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one transport; a failure stops the whole app.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, name+" server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is canceled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "HTTP", app.http.Run)
	}()

	if app.grpc != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runServer(ctx, cancelFunc, "gRPC", app.grpc.Run)
		}()
	}

	wg.Wait()

	app.close(ctx)
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(ctx, "close failed", "error", err)
		}
	}
	app.closers = nil
}
