package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignUp_Success(t *testing.T) {
	f := newFixture(t)

	res, err := f.auth.SignUp(context.Background(), SignUpInput{
		Email:       "  Alice@Example.com ",
		DisplayName: " Alice ",
		Password:    testPassword,
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", res.User.Email)
	assert.Equal(t, "Alice", res.User.DisplayName)
	assert.NotEqual(t, testPassword, res.User.PasswordHash)
	assert.True(t, f.hasher.inner.Verify(testPassword, res.User.PasswordHash))

	ac, err := f.codec.Parse(res.Tokens.AccessToken, auth.KeyspaceAccess)
	require.NoError(t, err)
	rc, err := f.codec.Parse(res.Tokens.RefreshToken, auth.KeyspaceRefresh)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, ac.Subject)
	assert.Equal(t, res.User.ID, rc.Subject)
	assert.Equal(t, "alice@example.com", ac.Email)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "alice@example.com")

	_, err := f.auth.SignUp(context.Background(), SignUpInput{
		Email:       "ALICE@example.com",
		DisplayName: "Another",
		Password:    testPassword,
	})
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.Equal(t, ErrEmailTaken, err)
}

func TestSignUp_StoreUniquenessRaceIsConflict(t *testing.T) {
	repo := &fakeUsersRepo{
		findByEmail: func(string) (*models.User, error) { return nil, common.ErrorNotFound },
		create: func(*models.User) (*models.User, error) {
			return nil, errors.Join(common.ErrorConflict, errors.New("users_email_key"))
		},
	}
	f := newFixture(t)
	svc := NewAuthService(repo, f.hasher, f.validator, f.issuer, nil, logging.NewNop())

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@example.com", DisplayName: "Alice", Password: testPassword})
	assert.Equal(t, ErrEmailTaken, err)
}

func TestSignUp_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		in   SignUpInput
	}{
		{"empty email", SignUpInput{Email: "  ", DisplayName: "Alice", Password: testPassword}},
		{"short name", SignUpInput{Email: "a@example.com", DisplayName: " Al ", Password: testPassword}},
		{"empty password", SignUpInput{Email: "a@example.com", DisplayName: "Alice", Password: ""}},
		{"password too long", SignUpInput{Email: "a@example.com", DisplayName: "Alice", Password: strings.Repeat("A1!a", 19)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.SignUp(context.Background(), tt.in)
			require.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestSignUp_StoreOutageIsInternal(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(&fakeUsersRepo{}, f.hasher, f.validator, f.issuer, nil, logging.NewNop())

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@example.com", DisplayName: "Alice", Password: testPassword})
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestSignUp_IssuerFailureIsInternal(t *testing.T) {
	f := newFixture(t)
	svc := NewAuthService(f.repo, f.hasher, f.validator, failingIssuer{}, nil, logging.NewNop())

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "a@example.com", DisplayName: "Alice", Password: testPassword})
	require.ErrorIs(t, err, common.ErrorInternal)
}

func TestSignIn_Success(t *testing.T) {
	f := newFixture(t)
	signedUp := f.signUp(t, "alice@example.com")

	res, err := f.auth.SignIn(context.Background(), " ALICE@example.com", testPassword, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, signedUp.User.ID, res.User.ID)
	assert.NotEqual(t, signedUp.Tokens.RefreshToken, res.Tokens.RefreshToken)
	assert.Equal(t, 1, f.limiter.resets)
	assert.Zero(t, f.limiter.fails)
}

func TestSignIn_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "alice@example.com")

	_, wrongPw := f.auth.SignIn(context.Background(), "alice@example.com", "Wr0ng!pass", "10.0.0.1")
	_, unknown := f.auth.SignIn(context.Background(), "nobody@example.com", testPassword, "10.0.0.1")

	require.ErrorIs(t, wrongPw, common.ErrorUnauthorized)
	assert.Equal(t, ErrInvalidCredentials, wrongPw)
	assert.Equal(t, wrongPw, unknown)
	assert.Equal(t, "invalid email or password", wrongPw.Error())
	assert.Equal(t, 2, f.limiter.fails)
}

func TestSignIn_Throttled(t *testing.T) {
	f := newFixture(t)
	f.signUp(t, "alice@example.com")
	f.limiter.allow = false
	before := f.hasher.verifies

	_, err := f.auth.SignIn(context.Background(), "alice@example.com", testPassword, "10.0.0.1")
	require.ErrorIs(t, err, common.ErrorRateLimited)
	assert.Equal(t, before, f.hasher.verifies, "credentials must not be checked when throttled")
}

func TestSignIn_StoreOutageDoesNotCountAsFailure(t *testing.T) {
	f := newFixture(t)
	validator := NewCredentialValidator(&fakeUsersRepo{}, f.hasher, logging.NewNop())
	svc := NewAuthService(&fakeUsersRepo{}, f.hasher, validator, f.issuer, f.limiter, logging.NewNop())

	_, err := svc.SignIn(context.Background(), "a@example.com", testPassword, "10.0.0.1")
	require.ErrorIs(t, err, common.ErrorInternal)
	assert.Zero(t, f.limiter.fails)
}
