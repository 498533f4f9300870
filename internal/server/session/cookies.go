// Package session manages the refresh-token cookie.
package session

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/config"
)

// Attributes are the environment-dependent security flags of the cookie.
type Attributes struct {
	HttpOnly bool
	Secure   bool
	SameSite http.SameSite
}

// AttributesFor maps an environment to cookie attributes. Production gets
// HttpOnly, Secure and SameSite=Strict; any other environment gets a
// script-readable, non-secure, SameSite=Lax cookie for local development.
func AttributesFor(env config.Environment) Attributes {
	if env.IsProduction() {
		return Attributes{HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode}
	}
	return Attributes{HttpOnly: false, Secure: false, SameSite: http.SameSiteLaxMode}
}

// CookieManager writes, clears and reads the refresh cookie. The
// environment is fixed at construction.
type CookieManager struct {
	attrs  Attributes
	maxAge time.Duration
}

func NewCookieManager(cfg config.AuthConfig) *CookieManager {
	return &CookieManager{
		attrs:  AttributesFor(cfg.Environment),
		maxAge: cfg.RefreshTTL,
	}
}

// Write sets the refresh cookie with a lifetime equal to the refresh token's.
func (m *CookieManager) Write(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, m.cookie(refreshToken, int(m.maxAge/time.Second), time.Time{}))
}

// Clear expires the cookie with the same name, path and attributes it was
// written with, otherwise browsers keep the original.
func (m *CookieManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1, time.Unix(0, 0).UTC()))
}

// Read returns the refresh token, or false when the cookie is missing or
// empty.
func (m *CookieManager) Read(r *http.Request) (string, bool) {
	c, err := r.Cookie(common.RefreshTokenCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (m *CookieManager) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     common.RefreshTokenCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: m.attrs.HttpOnly,
		Secure:   m.attrs.Secure,
		SameSite: m.attrs.SameSite,
	}
}
