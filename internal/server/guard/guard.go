// Package guard decides whether a request may proceed, given the auth mode
// of the operation and the credentials the request carries.
package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
)

// Mode is the auth requirement of an operation.
type Mode int

const (
	ModePublic Mode = iota
	ModeAccessRequired
	ModeRefreshRequired
)

func (m Mode) String() string {
	switch m {
	case ModePublic:
		return "public"
	case ModeAccessRequired:
		return "access_required"
	case ModeRefreshRequired:
		return "refresh_required"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

var (
	ErrUnauthorized   = common.Unauthorized("unauthorized")
	ErrNoRefreshToken = common.Unauthorized("no refresh token")
)

// Credentials is what a request presented, independent of transport.
type Credentials struct {
	// Authorization is the raw Authorization header or metadata value.
	Authorization string
	RefreshToken  string
}

// Principal is the identity a guarded request runs as.
type Principal struct {
	Subject      string
	Email        string
	RefreshToken string
	User         *models.User
}

// TokenParser is implemented by *auth.TokenCodec.
type TokenParser interface {
	Parse(token string, ks auth.Keyspace) (*auth.Claims, error)
}

// SubjectResolver is implemented by *services.SubjectResolver.
type SubjectResolver interface {
	Reauthorize(ctx context.Context, subject string) (*models.User, error)
}

// RefreshVerifier is implemented by *services.RefreshCycle.
type RefreshVerifier interface {
	Verify(ctx context.Context, refreshToken string) (*models.User, *auth.Claims, error)
}

// Enforcer holds no per-request state.
type Enforcer struct {
	tokens   TokenParser
	subjects SubjectResolver
	refresh  RefreshVerifier
	log      logging.Logger
}

func NewEnforcer(tokens TokenParser, subjects SubjectResolver, refresh RefreshVerifier, log logging.Logger) *Enforcer {
	return &Enforcer{
		tokens:   tokens,
		subjects: subjects,
		refresh:  refresh,
		log:      log.With("module", "guard"),
	}
}

// Enforce returns the principal for mode, nil for public operations, or an
// error whose kind is Unauthorized (or Internal on store failure).
func (e *Enforcer) Enforce(ctx context.Context, mode Mode, creds Credentials) (*Principal, error) {
	switch mode {
	case ModePublic:
		return nil, nil

	case ModeAccessRequired:
		token, ok := bearerToken(creds.Authorization)
		if !ok {
			return nil, ErrUnauthorized
		}
		claims, err := e.tokens.Parse(token, auth.KeyspaceAccess)
		if err != nil {
			e.log.Debug(ctx, "access token rejected", "reason", err)
			return nil, ErrUnauthorized
		}
		user, err := e.subjects.Reauthorize(ctx, claims.Subject)
		if err != nil {
			if isInternal(err) {
				return nil, err
			}
			return nil, ErrUnauthorized
		}
		return &Principal{Subject: user.ID, Email: user.Email, User: user}, nil

	case ModeRefreshRequired:
		if creds.RefreshToken == "" {
			return nil, ErrNoRefreshToken
		}
		user, _, err := e.refresh.Verify(ctx, creds.RefreshToken)
		if err != nil {
			return nil, err
		}
		return &Principal{Subject: user.ID, Email: user.Email, RefreshToken: creds.RefreshToken, User: user}, nil

	default:
		// unknown modes never grant access
		return nil, ErrUnauthorized
	}
}

// bearerToken extracts the token of a "Bearer <token>" value. The scheme is
// case-insensitive; exactly one space separates it from a non-empty token.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

func isInternal(err error) bool {
	return errors.Is(err, common.ErrorInternal)
}
