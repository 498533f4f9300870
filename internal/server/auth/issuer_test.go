package auth

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_Issue(t *testing.T) {
	clock := newFakeClock()
	codec := NewTokenCodec(testAuthConfig(), WithClock(clock.Now))
	issuer := NewTokenIssuer(codec)

	user := &models.User{ID: "user-1", Email: "a@example.com"}
	pair, err := issuer.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, clock.Now().Add(time.Hour), pair.AccessExpiresAt)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour), pair.RefreshExpiresAt)

	ac, err := codec.Parse(pair.AccessToken, KeyspaceAccess)
	require.NoError(t, err)
	rc, err := codec.Parse(pair.RefreshToken, KeyspaceRefresh)
	require.NoError(t, err)

	assert.Equal(t, ac.Subject, rc.Subject)
	assert.Equal(t, ac.Email, rc.Email)
	assert.Equal(t, "user-1", ac.Subject)
}

func TestTokenIssuer_RotationFreshness(t *testing.T) {
	issuer := NewTokenIssuer(NewTokenCodec(testAuthConfig()))
	user := &models.User{ID: "user-1", Email: "a@example.com"}

	first, err := issuer.Issue(user)
	require.NoError(t, err)
	second, err := issuer.Issue(user)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}
