// Package panel implements the authenticated HTTP client for the external VPN
// provider panel. It owns the process-wide session credential and hides
// re-authentication from every other component.
package panel

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"noryx/internal/shared/config"
	"noryx/internal/shared/errors"
	"noryx/internal/shared/goroutine"
	"noryx/internal/shared/logger"
)

const (
	// AuthModeBasic exchanges admin credentials for a session cookie.
	AuthModeBasic = "basic"
	// AuthModeToken sends a configured static bearer token on every request.
	AuthModeToken = "token"

	loginPath = "/login"

	// maxAttempts bounds the auth-triggered retry: one original attempt plus
	// exactly one retry after re-login. Never more.
	maxAttempts = 2

	maxResponseSize = 4 << 20 // 4MB
)

// Client talks to the provider panel. A single Client instance is shared
// process-wide; the session slot is guarded for memory safety only, concurrent
// logins may race and redundantly overwrite each other, which the panel
// tolerates.
type Client struct {
	baseURL    string
	authMode   string
	username   string
	password   string
	apiToken   string
	httpClient *http.Client
	logger     logger.Interface

	mu      sync.RWMutex
	session string

	refreshInterval time.Duration
	stopChan        chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup
}

// NewClient creates a panel client from configuration.
func NewClient(cfg *config.PanelConfig, log logger.Interface) *Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	authMode := cfg.AuthMode
	if authMode == "" {
		authMode = AuthModeBasic
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		authMode: authMode,
		username: cfg.Username,
		password: cfg.Password,
		apiToken: cfg.APIToken,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		logger:          log.Named("panel"),
		refreshInterval: cfg.RefreshInterval(),
		stopChan:        make(chan struct{}),
	}
}

// EnsureSession makes sure a credential is held. In token mode the configured
// bearer token is adopted as-is; in basic mode a login exchange runs if no
// session is held yet.
func (c *Client) EnsureSession(ctx context.Context) error {
	if c.authMode == AuthModeToken {
		return nil
	}

	c.mu.RLock()
	held := c.session != ""
	c.mu.RUnlock()
	if held {
		return nil
	}

	return c.login(ctx)
}

// login performs the credential exchange and stores the resulting session
// artifact in the process-wide slot.
func (c *Client) login(ctx context.Context) error {
	if c.username == "" || c.password == "" {
		return errors.NewProviderAuthError("panel credentials not configured")
	}

	body, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewProviderAuthError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.NewProviderAuthError(fmt.Sprintf("login returned status %d", resp.StatusCode))
	}

	session := sessionFromCookies(resp.Header.Values("Set-Cookie"))

	if session == "" {
		var loginResp loginResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&loginResp); err == nil &&
			loginResp.Success && loginResp.SessionID != "" {
			session = "session=" + loginResp.SessionID
		}
	}

	if session == "" {
		return errors.NewProviderAuthError("login response carried no session credential")
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	c.logger.Infow("panel session established")
	return nil
}

// sessionFromCookies joins the name=value parts of Set-Cookie headers into a
// Cookie header value.
func sessionFromCookies(setCookies []string) string {
	var parts []string
	for _, raw := range setCookies {
		if pair, _, _ := strings.Cut(raw, ";"); pair != "" {
			parts = append(parts, strings.TrimSpace(pair))
		}
	}
	return strings.Join(parts, "; ")
}

func (c *Client) dropSession() {
	c.mu.Lock()
	c.session = ""
	c.mu.Unlock()
}

func (c *Client) authHeader(req *http.Request) {
	if c.authMode == AuthModeToken {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
		return
	}
	c.mu.RLock()
	session := c.session
	c.mu.RUnlock()
	if session != "" {
		req.Header.Set("Cookie", session)
	}
}

// Request issues an authenticated call and decodes the panel's response
// envelope. A 401 in basic mode discards the held session and retries the
// whole call exactly once after a fresh login; a second 401 surfaces as a
// provider API error. Network failures are not retried here.
func (c *Client) Request(ctx context.Context, method, path string, body interface{}) (*Response, error) {
	var bodyBytes []byte
	if body != nil {
		var err error
		bodyBytes, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastStatus int
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.EnsureSession(ctx); err != nil {
			return nil, err
		}

		var reader io.Reader
		if bodyBytes != nil {
			reader = bytes.NewReader(bodyBytes)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if bodyBytes != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.authHeader(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, errors.NewProviderUnavailableError(err.Error())
		}

		if resp.StatusCode == http.StatusUnauthorized && c.authMode == AuthModeBasic && attempt < maxAttempts {
			resp.Body.Close()
			c.logger.Warnw("panel rejected session, re-authenticating", "path", path)
			c.dropSession()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			lastStatus = resp.StatusCode
			break
		}

		var envelope Response
		err = json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&envelope)
		resp.Body.Close()
		if err != nil {
			return nil, errors.NewProviderAPIError(resp.StatusCode, path, "malformed response body")
		}

		if !envelope.Success {
			return nil, errors.NewProviderAPIError(resp.StatusCode, path, envelope.Msg)
		}

		return &envelope, nil
	}

	return nil, errors.NewProviderAPIError(lastStatus, path)
}

// StartSessionRefresh re-runs the login exchange on a fixed interval so the
// first real request after a long idle period does not pay the login latency.
// Refresh failures are logged, never raised; the previous session may still be
// valid.
func (c *Client) StartSessionRefresh(ctx context.Context) {
	if c.authMode == AuthModeToken {
		return
	}

	c.wg.Add(1)
	goroutine.SafeGo(c.logger, "panel-session-refresh", func() {
		defer c.wg.Done()

		ticker := time.NewTicker(c.refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopChan:
				return
			case <-ticker.C:
				refreshCtx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
				if err := c.login(refreshCtx); err != nil {
					c.logger.Warnw("panel session refresh failed", "error", err)
				}
				cancel()
			}
		}
	})
}

// Stop shuts down the background session refresh.
func (c *Client) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
}
