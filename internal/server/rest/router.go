package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes builds the router. Each route declares its auth mode.
func (s *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.trustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method_not_allowed", Message: "method not allowed"})
	})

	r.Get("/healthz", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signUp)
		r.Post("/signin", s.signIn)
		r.With(s.guard(guard.ModeRefreshRequired)).Post("/refresh", s.refreshTokens)
		r.Post("/logout", s.logout)
	})

	r.Route("/users/me", func(r chi.Router) {
		r.Use(s.guard(guard.ModeAccessRequired))
		r.Get("/", s.me)
		r.Patch("/", s.updateMe)
	})

	return r
}

func (s *HTTPServer) guard(mode guard.Mode) func(http.Handler) http.Handler {
	return s.enforcer.Middleware(mode, s.cookies, s.writeError)
}

// requestLogger logs one line per request.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
