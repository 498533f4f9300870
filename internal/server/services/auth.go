package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
)

const minDisplayNameLength = 3

type SignUpInput struct {
	Email       string
	DisplayName string
	Password    string
}

// AuthResult is what a successful sign-up or sign-in hands to the transport:
// the user and a fresh token pair minted from it.
type AuthResult struct {
	User   *models.User
	Tokens *auth.TokenPair
}

// AuthService orchestrates sign-up and sign-in.
type AuthService struct {
	users     users.Repository
	hasher    auth.PasswordHasher
	validator *CredentialValidator
	issuer    TokenMinter
	limiter   SignInLimiter
	log       logging.Logger
}

// NewAuthService wires the flows. A nil limiter disables throttling.
func NewAuthService(
	repo users.Repository,
	hasher auth.PasswordHasher,
	validator *CredentialValidator,
	issuer TokenMinter,
	limiter SignInLimiter,
	log logging.Logger,
) *AuthService {
	if limiter == nil {
		limiter = noopLimiter{}
	}
	return &AuthService{
		users:     repo,
		hasher:    hasher,
		validator: validator,
		issuer:    issuer,
		limiter:   limiter,
		log:       log.With("module", "auth_service"),
	}
}

// SignUp registers a new identity and issues its first token pair.
// A duplicate email is ErrEmailTaken whether it is caught by the lookup or
// by the store's uniqueness constraint.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := users.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.DisplayName)

	if email == "" {
		return nil, validationError("email is required")
	}
	if utf8.RuneCountInString(name) < minDisplayNameLength {
		return nil, validationError("name must be at least 3 characters")
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal(ctx, s.log, "find user by email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmptyPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, validationError(err.Error())
		}
		return nil, internal(ctx, s.log, "hash password", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Email:        email,
		DisplayName:  name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, ErrEmailTaken
		}
		return nil, internal(ctx, s.log, "create user", err)
	}

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, internal(ctx, s.log, "issue tokens", err)
	}

	s.log.Info(ctx, "user signed up", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}

// SignIn checks the throttle, validates credentials and issues a pair.
func (s *AuthService) SignIn(ctx context.Context, email, password, clientIP string) (*AuthResult, error) {
	email = users.NormalizeEmail(email)

	if !s.limiter.Allow(ctx, email, clientIP) {
		s.log.Warn(ctx, "sign-in throttled", "client_ip", clientIP)
		return nil, ErrTooManyAttempts
	}

	user, err := s.validator.Validate(ctx, email, password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.limiter.Fail(ctx, email, clientIP)
			s.log.Info(ctx, "sign-in rejected", "client_ip", clientIP)
		}
		return nil, err
	}
	s.limiter.Reset(ctx, email, clientIP)

	pair, err := s.issuer.Issue(user)
	if err != nil {
		return nil, internal(ctx, s.log, "issue tokens", err)
	}

	s.log.Info(ctx, "user signed in", "user_id", user.ID)
	return &AuthResult{User: user, Tokens: pair}, nil
}
