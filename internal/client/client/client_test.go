package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/authgate/internal/server"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newServer runs the real server stack on an in-memory store.
func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AccessSecret = "access-secret-0123456789abcdefghij"
	cfg.RefreshSecret = "refresh-secret-0123456789abcdefghi"
	cfg.Environment = "test"
	cfg.BcryptCost = 4
	cfg.GRPCAddr = ""

	app, err := server.NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)

	srv := httptest.NewServer(app.HTTPHandler())
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, url string) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(url+"/", 5*time.Second)
	require.NoError(t, err)
	return c
}

func TestHTTPClient_FullLifecycle(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Me(ctx)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	u, err := c.SignUp(ctx, "Alice@Example.com", "Alice", []byte("Str0ng!pass"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	renamed, err := c.UpdateName(ctx, "Alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", renamed.Name)

	before := c.token()
	refreshed, err := c.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, u.ID, refreshed.ID)
	assert.NotEqual(t, before, c.token())

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.token())

	_, err = c.Refresh(ctx)
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = c.Logout(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no refresh token found", apiErr.Message)

	_, err = c.SignIn(ctx, "alice@example.com", []byte("Str0ng!pass"))
	require.NoError(t, err)
}

func TestHTTPClient_RetriesAfterRefresh(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.SignUp(ctx, "bob@example.com", "Bobby", []byte("Str0ng!pass"))
	require.NoError(t, err)

	c.setAccessToken("stale")
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", me.Email)
	assert.NotEqual(t, "stale", c.token())
}

func TestHTTPClient_APIErrors(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv.URL)
	ctx := context.Background()

	_, err := c.SignUp(ctx, "carol@example.com", "Carol", []byte("weak"))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "validation_failed", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "password")

	_, err = c.SignIn(ctx, "nobody@example.com", []byte("Str0ng!pass"))
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "invalid email or password", apiErr.Message)
}

func TestHTTPClient_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newClient(t, srv.URL).Ping(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := newClient(t, url).Ping(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable))
}
