package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/authgate/internal/client/models"
	"github.com/dmitrijs2005/authgate/internal/common"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client

	mu          sync.Mutex
	accessToken string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient returns a client for baseURL with its own cookie jar.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

type authResponse struct {
	User        models.User `json:"user"`
	AccessToken string      `json:"access_token"`
}

type profileResponse struct {
	User models.User `json:"user"`
}

type errorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields"`
}

func (c *HTTPClient) SignUp(ctx context.Context, email, name string, password []byte) (*models.User, error) {
	body := map[string]string{"email": email, "name": name, "password": string(password)}
	return c.authenticate(ctx, "/auth/signup", body)
}

func (c *HTTPClient) SignIn(ctx context.Context, email string, password []byte) (*models.User, error) {
	body := map[string]string{"email": email, "password": string(password)}
	return c.authenticate(ctx, "/auth/signin", body)
}

// Refresh rotates the token pair using the refresh cookie.
func (c *HTTPClient) Refresh(ctx context.Context) (*models.User, error) {
	return c.authenticate(ctx, "/auth/refresh", nil)
}

func (c *HTTPClient) authenticate(ctx context.Context, path string, body any) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, path, body, false, &out); err != nil {
		return nil, err
	}
	c.setAccessToken(out.AccessToken)
	return &out.User, nil
}

// Logout clears the server cookie and forgets the access token, even when
// the server call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	defer c.setAccessToken("")
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, false, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var out profileResponse
	if err := c.guarded(ctx, http.MethodGet, "/users/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) UpdateName(ctx context.Context, name string) (*models.User, error) {
	var out profileResponse
	if err := c.guarded(ctx, http.MethodPatch, "/users/me", map[string]string{"name": name}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, false, nil)
}

// guarded sends an access-token request. On 401 it rotates the tokens once
// through the refresh cookie and retries.
func (c *HTTPClient) guarded(ctx context.Context, method, path string, in, out any) error {
	if c.token() == "" {
		return ErrNotSignedIn
	}

	err := c.do(ctx, method, path, in, true, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}

	if _, rerr := c.Refresh(ctx); rerr != nil {
		return err
	}
	return c.do(ctx, method, path, in, true, out)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in any, withToken bool, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withToken {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+c.token())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil {
			apiErr.Code, apiErr.Message, apiErr.Fields = e.Error, e.Message, e.Fields
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *HTTPClient) setAccessToken(t string) {
	c.mu.Lock()
	c.accessToken = t
	c.mu.Unlock()
}
