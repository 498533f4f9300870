package guard

import (
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/common"
)

// CookieReader is implemented by *session.CookieManager.
type CookieReader interface {
	Read(r *http.Request) (string, bool)
}

// ErrorWriter renders a guard failure as an HTTP response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware adapts Enforce to chi-style HTTP middleware. On success the
// principal (if any) is stored in the request context.
func (e *Enforcer) Middleware(mode Mode, cookies CookieReader, onError ErrorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := Credentials{Authorization: r.Header.Get(common.AuthorizationHeaderName)}
			if mode == ModeRefreshRequired {
				creds.RefreshToken, _ = cookies.Read(r)
			}

			p, err := e.Enforce(r.Context(), mode, creds)
			if err != nil {
				onError(w, r, err)
				return
			}
			if p != nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}
