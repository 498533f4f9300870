// Package rest exposes the auth flows over HTTP using a chi router.
package rest

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"github.com/dmitrijs2005/authgate/internal/server/services"
	"github.com/dmitrijs2005/authgate/internal/server/session"
	"github.com/go-playground/validator/v10"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address  string
	auth     *services.AuthService
	refresh  *services.RefreshCycle
	profile  *services.ProfileService
	cookies  *session.CookieManager
	enforcer *guard.Enforcer
	validate *validator.Validate
	logger   logging.Logger

	trustProxy bool
}

type Option func(*HTTPServer)

// WithTrustedProxy makes the server take the client address from
// X-Forwarded-For / X-Real-IP. Off by default, since any client can set
// those headers when no proxy rewrites them.
func WithTrustedProxy(trust bool) Option {
	return func(s *HTTPServer) { s.trustProxy = trust }
}

func NewHTTPServer(
	address string,
	l logging.Logger,
	auth *services.AuthService,
	refresh *services.RefreshCycle,
	profile *services.ProfileService,
	cookies *session.CookieManager,
	enforcer *guard.Enforcer,
	opts ...Option,
) *HTTPServer {
	s := &HTTPServer{
		address:  address,
		auth:     auth,
		refresh:  refresh,
		profile:  profile,
		cookies:  cookies,
		enforcer: enforcer,
		validate: newValidator(),
		logger:   l.With("module", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
