package rest

import (
	"net"
	"net/http"

	"github.com/dmitrijs2005/authgate/internal/server/guard"
	"github.com/dmitrijs2005/authgate/internal/server/services"
)

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *HTTPServer) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeAndValidate(w, r, s.validate, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.auth.SignUp(r.Context(), services.SignUpInput{
		Email:       req.Email,
		DisplayName: req.Name,
		Password:    req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.cookies.Write(w, res.Tokens.RefreshToken)
	writeJSON(w, http.StatusCreated, authResponse{User: newUserResponse(res.User), AccessToken: res.Tokens.AccessToken})
}

func (s *HTTPServer) signIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := decodeAndValidate(w, r, s.validate, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.auth.SignIn(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.cookies.Write(w, res.Tokens.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{User: newUserResponse(res.User), AccessToken: res.Tokens.AccessToken})
}

func (s *HTTPServer) refreshTokens(w http.ResponseWriter, r *http.Request) {
	p, ok := guard.PrincipalFromContext(r.Context())
	if !ok || p.User == nil {
		s.writeError(w, r, guard.ErrNoRefreshToken)
		return
	}

	res, err := s.refresh.Issue(r.Context(), p.User)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.cookies.Write(w, res.Tokens.RefreshToken)
	writeJSON(w, http.StatusOK, authResponse{User: newUserResponse(res.User), AccessToken: res.Tokens.AccessToken})
}

// logout only needs the cookie to be present; a stale or forged token is
// still cleared.
func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.cookies.Read(r); !ok {
		s.writeError(w, r, services.ErrNoRefreshCookie)
		return
	}

	s.cookies.Clear(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out successfully"})
}

func (s *HTTPServer) me(w http.ResponseWriter, r *http.Request) {
	p, ok := guard.PrincipalFromContext(r.Context())
	if !ok {
		s.writeError(w, r, guard.ErrUnauthorized)
		return
	}

	user, err := s.profile.Get(r.Context(), p.Subject)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: newUserResponse(user)})
}

func (s *HTTPServer) updateMe(w http.ResponseWriter, r *http.Request) {
	p, ok := guard.PrincipalFromContext(r.Context())
	if !ok {
		s.writeError(w, r, guard.ErrUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := decodeAndValidate(w, r, s.validate, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.profile.UpdateName(r.Context(), p.Subject, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: newUserResponse(user)})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
