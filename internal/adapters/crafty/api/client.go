package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"crafty-bot/internal/adapters/metrics"
	"crafty-bot/internal/config"
)

var ErrUnauthorized = errors.New("crafty: unauthorized")

// StatusError is returned for non-2xx responses and for envelopes whose
// status is not "ok".
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("crafty: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("crafty: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string

	mu    sync.Mutex
	token string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.CraftyTimeout,
			Transport: NewMetricsRoundTripper(http.DefaultTransport),
		},
		baseURL:  cfg.CraftyHost,
		token:    cfg.CraftyToken,
		username: cfg.CraftyUsername,
		password: cfg.CraftyPassword,
	}
}

// NewTestClient creates a client with custom base URL and credentials for testing.
func NewTestClient(baseURL, token, username, password string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:  baseURL,
		token:    token,
		username: username,
		password: password,
	}
}

func (c *Client) canLogin() bool {
	return c.username != "" && c.password != ""
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Login exchanges the configured username and password for a bearer token.
func (c *Client) Login(ctx context.Context) error {
	if !c.canLogin() {
		return fmt.Errorf("login: %w: no username or password configured", ErrUnauthorized)
	}

	body, err := json.Marshal(LoginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return fmt.Errorf("encode login: %w", err)
	}

	var data LoginData
	if err := c.send(ctx, http.MethodPost, "/api/v2/auth/login", "", body, &data); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if data.Token == "" {
		return fmt.Errorf("login: %w: empty token", ErrUnauthorized)
	}

	c.mu.Lock()
	c.token = data.Token
	c.mu.Unlock()
	return nil
}

func (c *Client) ListServers(ctx context.Context) ([]Server, error) {
	var servers []Server
	if err := c.do(ctx, http.MethodGet, "/api/v2/servers", &servers); err != nil {
		return nil, fmt.Errorf("fetch servers: %w", err)
	}
	return servers, nil
}

func (c *Client) GetServer(ctx context.Context, serverID string) (*Server, error) {
	var server Server
	if err := c.do(ctx, http.MethodGet, "/api/v2/servers/"+url.PathEscape(serverID), &server); err != nil {
		return nil, fmt.Errorf("fetch server: %w", err)
	}
	return &server, nil
}

func (c *Client) GetStats(ctx context.Context, serverID string) (*Stats, error) {
	var stats Stats
	if err := c.do(ctx, http.MethodGet, "/api/v2/servers/"+url.PathEscape(serverID)+"/stats", &stats); err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	return &stats, nil
}

func (c *Client) SendAction(ctx context.Context, serverID, action string) error {
	path := fmt.Sprintf("/api/v2/servers/%s/action/%s", url.PathEscape(serverID), action)
	if err := c.do(ctx, http.MethodPost, path, nil); err != nil {
		return fmt.Errorf("send %s: %w", action, err)
	}
	return nil
}

// do performs an authenticated request, logging in first when only
// credentials are configured and once more when the token is rejected.
func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	token := c.currentToken()
	if token == "" && c.canLogin() {
		if err := c.Login(ctx); err != nil {
			return err
		}
		token = c.currentToken()
	}

	err := c.send(ctx, method, path, token, nil, dest)
	if errors.Is(err, ErrUnauthorized) && c.canLogin() {
		if loginErr := c.Login(ctx); loginErr != nil {
			return loginErr
		}
		err = c.send(ctx, method, path, c.currentToken(), nil, dest)
	}
	return err
}

func (c *Client) send(ctx context.Context, method, path, token string, body []byte, dest any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env Envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Message: envelopeMessage(env)}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}
	if env.Status != "ok" {
		return &StatusError{StatusCode: resp.StatusCode, Message: envelopeMessage(env)}
	}

	if dest == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func envelopeMessage(env Envelope) string {
	switch {
	case env.ErrorData != "" && env.Error != "":
		return env.Error + ": " + env.ErrorData
	case env.Error != "":
		return env.Error
	default:
		return env.ErrorData
	}
}

// -- Middleware --

type MetricsRoundTripper struct {
	Proxied http.RoundTripper
}

func NewMetricsRoundTripper(proxied http.RoundTripper) *MetricsRoundTripper {
	if proxied == nil {
		proxied = http.DefaultTransport
	}
	return &MetricsRoundTripper{Proxied: proxied}
}

func (mrt *MetricsRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := mrt.Proxied.RoundTrip(req)
	duration := time.Since(start).Seconds()

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}

	endpoint := endpointLabel(req.URL.Path)
	metrics.CraftyRequestDuration.WithLabelValues(endpoint, status).Observe(duration)
	metrics.CraftyRequests.WithLabelValues(endpoint, status).Inc()

	return resp, err
}

func endpointLabel(path string) string {
	switch {
	case strings.HasSuffix(path, "/auth/login"):
		return "login"
	case strings.Contains(path, "/action/"):
		return "action"
	case strings.HasSuffix(path, "/stats"):
		return "stats"
	case strings.HasSuffix(path, "/servers"):
		return "servers"
	case strings.Contains(path, "/servers/"):
		return "server"
	default:
		return "unknown"
	}
}
