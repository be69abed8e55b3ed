package contentgenclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	contentgendomain "github.com/Black-And-White-Club/reelboard/app/modules/contentgen/domain"
	"github.com/Black-And-White-Club/reelboard/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

var (
	ErrNotConfigured    = errors.New("content generation endpoint is not configured")
	ErrGenerationFailed = errors.New("content generation failed")
	ErrUpstreamStatus   = errors.New("content generation service returned an error status")
)

// maxResponseBytes bounds how much of an upstream reply is read.
const maxResponseBytes = 1 << 20

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req contentgendomain.Request) (string, error)
}

// Client calls the external text generation service. Requests are
// authenticated with OAuth2 client credentials when a token URL is set and
// paced by a shared limiter.
type Client struct {
	http     *http.Client
	endpoint string
	limiter  *rate.Limiter
}

var _ Generator = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(ctx context.Context, cfg config.ContentGenConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNotConfigured
	}

	base := &http.Client{Timeout: cfg.Timeout}
	httpClient := base
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			Scopes:       cfg.Scopes,
		}
		httpClient = cc.Client(context.WithValue(ctx, oauth2.HTTPClient, base))
		httpClient.Timeout = cfg.Timeout
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = config.DefaultContentGenRPM
	}

	return &Client{
		http:     httpClient,
		endpoint: cfg.Endpoint,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
	}, nil
}

// Generate waits for a limiter slot, posts the request and returns the raw
// generated text.
func (c *Client) Generate(ctx context.Context, req contentgendomain.Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("contentgen.Generate: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("contentgen.Generate: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("contentgen.Generate: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("contentgen.Generate: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("contentgen.Generate: read body: %w", err)
	}

	var out contentgendomain.Response
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("contentgen.Generate: decode body: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		if out.Error != "" {
			return "", fmt.Errorf("%w: %d: %s", ErrUpstreamStatus, resp.StatusCode, out.Error)
		}
		return "", fmt.Errorf("%w: %d", ErrUpstreamStatus, resp.StatusCode)
	}
	if !out.Success || out.Result == "" {
		reason := out.Error
		if reason == "" {
			reason = "empty result"
		}
		return "", fmt.Errorf("%w: %s", ErrGenerationFailed, reason)
	}
	return out.Result, nil
}
