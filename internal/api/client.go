// Package api wraps HTTP access to the parking backend. Every request goes
// through one pre-flight check (is the token still live?) and one response
// check (did the server revoke us?), so page-level code never reasons about
// authentication.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/codeup/statio-portal/pkg/errors"
	"github.com/codeup/statio-portal/pkg/logger"
	"github.com/codeup/statio-portal/pkg/storage"
	"github.com/codeup/statio-portal/pkg/token"
)

// DefaultRequestTimeout bounds every call when no timeout is configured.
const DefaultRequestTimeout = 10 * time.Second

// Navigator is the slice of navigation the wrapper needs: jump to login, and
// know whether we are already there (to avoid redirect loops on a failed
// login attempt).
type Navigator interface {
	AtLogin() bool
	ToLogin()
}

// SessionEnder tears the session down when the wrapper detects revocation.
type SessionEnder interface {
	Logout(ctx context.Context)
}

// Params configures a Client.
type Params struct {
	BaseURL   string
	Timeout   time.Duration
	Storage   storage.Store
	Sessions  SessionEnder
	Navigator Navigator
	Logger    *logger.Logger
	// Clock defaults to time.Now; tests inject their own.
	Clock func() time.Time
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

type Client struct {
	http    *http.Client
	baseURL string
	storage storage.Store
	session SessionEnder
	nav     Navigator
	logg    *logger.Logger
	now     func() time.Time
}

func New(p Params) *Client {
	httpClient := p.HTTPClient
	if httpClient == nil {
		timeout := p.Timeout
		if timeout <= 0 {
			timeout = DefaultRequestTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	now := p.Clock
	if now == nil {
		now = time.Now
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(p.BaseURL, "/"),
		storage: p.Storage,
		session: p.Sessions,
		nav:     p.Navigator,
		logg:    p.Logger,
		now:     now,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) PostQuery(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodPost, path, query, nil, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Do performs one call. A token that is already invalid never leaves the
// process: the session is cleared and the request rejected locally.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	raw, err := c.storage.Get(storage.KeyToken)
	if err != nil {
		c.logg.Warn(ctx, "reading persisted token failed")
	}

	if raw != "" && !token.IsValidAt(raw, c.now()) {
		c.endSession(ctx)
		if !c.nav.AtLogin() {
			c.nav.ToLogin()
		}
		return &Error{
			Message:   "token expired or invalid",
			Code:      pkgerrors.CodeUnauthorized,
			Timestamp: c.now().Format(time.RFC3339),
			Path:      path,
		}
	}

	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if raw != "" {
		req.Header.Set("Authorization", "Bearer "+raw)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{
			Message:   err.Error(),
			Code:      pkgerrors.CodeDependency,
			Timestamp: c.now().Format(time.RFC3339),
			Path:      path,
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Message:   "reading response body: " + err.Error(),
			Status:    resp.StatusCode,
			Code:      pkgerrors.CodeDependency,
			Timestamp: c.now().Format(time.RFC3339),
			Path:      path,
		}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.handleErrorResponse(ctx, resp.StatusCode, data, path, raw != "")
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{
				Message:   "decoding response: " + err.Error(),
				Status:    resp.StatusCode,
				Code:      pkgerrors.CodeInternal,
				Timestamp: c.now().Format(time.RFC3339),
				Path:      path,
			}
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// handleErrorResponse applies the 401/403 asymmetry: 401 with a token present
// at request time means the server revoked the session; 403 is a permission
// wall and must not log anyone out.
func (c *Client) handleErrorResponse(ctx context.Context, status int, body []byte, path string, hadToken bool) error {
	code := pkgerrors.CodeForStatus(status)
	message, timestamp, wirePath := parseWireError(body, pkgerrors.MetadataFor(code).PublicMessage)
	if timestamp == "" {
		timestamp = c.now().Format(time.RFC3339)
	}
	if wirePath != "" {
		path = wirePath
	}

	if status == http.StatusUnauthorized && hadToken {
		c.logg.Warn(ctx, "session revoked by server (401)")
		c.endSession(ctx)
		if !c.nav.AtLogin() {
			c.nav.ToLogin()
		}
	}
	// A tokenless 401 is a failed login; leave the page alone so the form
	// can show the server's message. 403 never mutates the session.

	return &Error{
		Message:   message,
		Status:    status,
		Code:      code,
		Timestamp: timestamp,
		Path:      path,
	}
}

func (c *Client) endSession(ctx context.Context) {
	if c.session != nil {
		c.session.Logout(ctx)
		return
	}
	if err := c.storage.Delete(storage.KeyToken, storage.KeyUser); err != nil {
		c.logg.Warn(ctx, "clearing persisted session failed")
	}
}
