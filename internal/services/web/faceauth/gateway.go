// Package faceauth is the web service's HTTP client for the face
// authentication service.
package faceauth

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

	weberrors "github.com/louisbranch/facelogin/internal/services/web/platform/errors"
	"github.com/louisbranch/facelogin/internal/services/web/session"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 1 << 20

// Gateway abstracts the remote authentication operations.
type Gateway interface {
	// Status succeeds when the service answers its status endpoint.
	Status(ctx context.Context) error
	// Register creates a user bound to faceData.
	Register(ctx context.Context, username, faceData string) (session.Identity, error)
	// Login authenticates faceData, optionally narrowed to username.
	Login(ctx context.Context, username, faceData string) (session.Identity, error)
}

// Config configures the HTTP gateway.
type Config struct {
	BaseURL string
	// Timeout bounds each request when positive.
	Timeout    time.Duration
	HTTPClient *http.Client
}

// NewGateway returns the HTTP gateway, or an always-unavailable gateway when
// no base URL is configured.
func NewGateway(cfg Config) (Gateway, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return unavailableGateway{}, nil
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid auth base url %q", cfg.BaseURL)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &httpGateway{base: base, timeout: cfg.Timeout, client: client}, nil
}

type httpGateway struct {
	base    string
	timeout time.Duration
	client  *http.Client
}

type registerRequest struct {
	Username string `json:"username"`
	FaceData string `json:"faceData"`
}

type loginRequest struct {
	Username string `json:"username,omitempty"`
	FaceData string `json:"faceData"`
}

type authResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	User    *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
}

func (g *httpGateway) Status(ctx context.Context) error {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+"/api/status", nil)
	if err != nil {
		return weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("build status request: %v", err))
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("status request: %v", err))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("status returned %d", resp.StatusCode))
	}
	return nil
}

func (g *httpGateway) Register(ctx context.Context, username, faceData string) (session.Identity, error) {
	return g.post(ctx, "/api/register", registerRequest{Username: username, FaceData: faceData})
}

func (g *httpGateway) Login(ctx context.Context, username, faceData string) (session.Identity, error) {
	return g.post(ctx, "/api/login", loginRequest{Username: strings.TrimSpace(username), FaceData: faceData})
}

func (g *httpGateway) post(ctx context.Context, path string, payload any) (session.Identity, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return session.Identity{}, fmt.Errorf("encode %s request: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+path, bytes.NewReader(body))
	if err != nil {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("build %s request: %v", path, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("%s request: %v", path, err))
	}
	defer resp.Body.Close()

	var decoded authResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&decoded); err != nil {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("decode %s response (status %d): %v", path, resp.StatusCode, err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("%s returned %d", path, resp.StatusCode))
	}
	if !decoded.Success {
		return session.Identity{}, weberrors.E(weberrors.KindUnauthorized, strings.TrimSpace(decoded.Message))
	}
	if decoded.User == nil {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("%s response has no user", path))
	}
	identity := session.Identity{ID: decoded.User.ID, Username: decoded.User.Username}
	if !identity.Valid() {
		return session.Identity{}, weberrors.E(weberrors.KindUnavailable, fmt.Sprintf("%s response has an incomplete user", path))
	}
	return identity, nil
}

func (g *httpGateway) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout > 0 {
		return context.WithTimeout(ctx, g.timeout)
	}
	return ctx, func() {}
}

type unavailableGateway struct{}

func (unavailableGateway) Status(context.Context) error {
	return weberrors.E(weberrors.KindUnavailable, "auth service is not configured")
}

func (unavailableGateway) Register(context.Context, string, string) (session.Identity, error) {
	return session.Identity{}, weberrors.E(weberrors.KindUnavailable, "auth service is not configured")
}

func (unavailableGateway) Login(context.Context, string, string) (session.Identity, error) {
	return session.Identity{}, weberrors.E(weberrors.KindUnavailable, "auth service is not configured")
}
