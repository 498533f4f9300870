// Package auth holds password hashing and the signed-token machinery:
// a codec bound to two independent keyspaces and an issuer that mints
// access/refresh pairs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Keyspace selects the secret and lifetime a token is signed with.
type Keyspace int

const (
	KeyspaceAccess Keyspace = iota
	KeyspaceRefresh
)

func (k Keyspace) String() string {
	switch k {
	case KeyspaceAccess:
		return "access"
	case KeyspaceRefresh:
		return "refresh"
	default:
		return fmt.Sprintf("keyspace(%d)", int(k))
	}
}

var errUnknownKeyspace = errors.New("unknown keyspace")

// Claims is the decoded payload of a token. Access and refresh tokens share
// the shape.
type Claims struct {
	ID        string
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type keyMaterial struct {
	secret []byte
	ttl    time.Duration
}

// TokenCodec signs and verifies HS256 JWTs. The two keyspaces never accept
// each other's tokens since they are keyed by different secrets.
type TokenCodec struct {
	keys   map[Keyspace]keyMaterial
	now    func() time.Time
	parser *jwt.Parser
}

type CodecOption func(*TokenCodec)

const expiryLeeway = time.Second

// WithClock replaces time.Now as the source of iat/exp and of the
// expiry check.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

func NewTokenCodec(cfg config.AuthConfig, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{
		keys: map[Keyspace]keyMaterial{
			KeyspaceAccess:  {secret: cfg.AccessSecret, ttl: cfg.AccessTTL},
			KeyspaceRefresh: {secret: cfg.RefreshSecret, ttl: cfg.RefreshTTL},
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
		// exp has whole-second resolution; a token is still valid during
		// its expiry second and rejected once that second has passed.
		jwt.WithLeeway(expiryLeeway),
	)
	return c
}

// TTL returns the configured lifetime of the keyspace.
func (c *TokenCodec) TTL(ks Keyspace) time.Duration {
	return c.keys[ks].ttl
}

// Sign mints a token for subject/email in the given keyspace. iat, exp and
// jti are always computed here.
func (c *TokenCodec) Sign(subject, email string, ks Keyspace) (string, error) {
	token, _, err := c.sign(subject, email, ks)
	return token, err
}

func (c *TokenCodec) sign(subject, email string, ks Keyspace) (string, time.Time, error) {
	km, ok := c.keys[ks]
	if !ok {
		return "", time.Time{}, errUnknownKeyspace
	}

	// JWT timestamps carry whole seconds.
	now := c.now().Truncate(time.Second)
	exp := now.Add(km.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	s, err := token.SignedString(km.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", ks, err)
	}
	return s, exp, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
// Every failure wraps common.ErrInvalidToken; expiry additionally wraps
// common.ErrTokenExpired. A token is accepted at exactly exp and rejected
// from exp+1s.
func (c *TokenCodec) Parse(token string, ks Keyspace) (*Claims, error) {
	km, ok := c.keys[ks]
	if !ok {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, errUnknownKeyspace)
	}

	claims := &jwtClaims{}
	parsed, err := c.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return km.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	out := &Claims{
		ID:      claims.ID,
		Subject: claims.Subject,
		Email:   claims.Email,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	out.ExpiresAt = claims.ExpiresAt.Time
	return out, nil
}
