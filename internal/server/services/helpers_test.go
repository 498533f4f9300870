package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/users"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Str0ng!pass"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessSecret:  []byte("access-secret-0123456789abcdefghij"),
		AccessTTL:     time.Hour,
		RefreshSecret: []byte("refresh-secret-0123456789abcdefghi"),
		RefreshTTL:    7 * 24 * time.Hour,
		Environment:   config.EnvTest,
		BcryptCost:    bcrypt.MinCost,
	}
}

type fixture struct {
	repo      *users.MemoryRepository
	hasher    *countingHasher
	codec     *auth.TokenCodec
	issuer    *auth.TokenIssuer
	validator *CredentialValidator
	subjects  *SubjectResolver
	refresh   *RefreshCycle
	limiter   *fakeLimiter
	auth      *AuthService
	profile   *ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logging.NewNop()
	cfg := testAuthConfig()

	f := &fixture{
		repo:    users.NewMemoryRepository(),
		hasher:  &countingHasher{inner: auth.NewBcryptHasher(cfg.BcryptCost)},
		codec:   auth.NewTokenCodec(cfg),
		limiter: &fakeLimiter{allow: true},
	}
	f.issuer = auth.NewTokenIssuer(f.codec)
	f.validator = NewCredentialValidator(f.repo, f.hasher, log)
	f.subjects = NewSubjectResolver(f.repo, log)
	f.refresh = NewRefreshCycle(f.codec, f.subjects, f.issuer, log)
	f.auth = NewAuthService(f.repo, f.hasher, f.validator, f.issuer, f.limiter, log)
	f.profile = NewProfileService(f.repo, log)
	return f
}

func (f *fixture) signUp(t *testing.T, email string) *AuthResult {
	t.Helper()
	res, err := f.auth.SignUp(context.Background(), SignUpInput{
		Email:       email,
		DisplayName: "Alice",
		Password:    testPassword,
	})
	if err != nil {
		t.Fatalf("SignUp error: %v", err)
	}
	return res
}

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	inner    auth.PasswordHasher
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func (h *countingHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return h.inner.Hash(p)
}

func (h *countingHasher) Verify(p, hash string) bool {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.inner.Verify(p, hash)
}

type fakeLimiter struct {
	allow  bool
	fails  int
	resets int
}

func (l *fakeLimiter) Allow(context.Context, string, string) bool { return l.allow }
func (l *fakeLimiter) Fail(context.Context, string, string)       { l.fails++ }
func (l *fakeLimiter) Reset(context.Context, string, string)      { l.resets++ }

// fakeUsersRepo returns canned results; nil funcs fall through to errDBDown.
type fakeUsersRepo struct {
	findByEmail func(email string) (*models.User, error)
	findByID    func(id string) (*models.User, error)
	create      func(u *models.User) (*models.User, error)
	updateName  func(id, name string) (*models.User, error)
}

var errDBDown = errors.New("db error: connection refused")

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.create == nil {
		return nil, errDBDown
	}
	return f.create(u)
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if f.findByEmail == nil {
		return nil, errDBDown
	}
	return f.findByEmail(email)
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.findByID == nil {
		return nil, errDBDown
	}
	return f.findByID(id)
}

func (f *fakeUsersRepo) UpdateName(_ context.Context, id, name string) (*models.User, error) {
	if f.updateName == nil {
		return nil, errDBDown
	}
	return f.updateName(id, name)
}

type failingIssuer struct{}

func (failingIssuer) Issue(*models.User) (*auth.TokenPair, error) {
	return nil, errors.New("signing failed")
}
