package reelclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Remote is the server side of the reconciliation protocol.
type Remote interface {
	ListFeed(ctx context.Context) ([]Video, error)
	Like(ctx context.Context, videoID string) error
	Unlike(ctx context.Context, videoID string) error
	RecordView(ctx context.Context, videoID string) error
}

// StatusError is a non-2xx reply from the API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.Code)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// HTTPRemote talks to the reelboard HTTP API.
type HTTPRemote struct {
	baseURL  *url.URL
	client   *http.Client
	pageSize int
}

var _ Remote = (*HTTPRemote)(nil)

// RemoteOption configures an HTTPRemote.
type RemoteOption func(*HTTPRemote)

// WithPageSize sets the feed limit requested on every re-fetch.
func WithPageSize(n int) RemoteOption {
	return func(r *HTTPRemote) { r.pageSize = n }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *HTTPRemote) { r.client.Timeout = d }
}

// NewHTTPRemote builds a remote for baseURL. Requests carry bearer tokens
// from tokens when it is non-nil.
func NewHTTPRemote(ctx context.Context, baseURL string, tokens oauth2.TokenSource, opts ...RemoteOption) (*HTTPRemote, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("reelclient: invalid base url: %w", err)
	}

	client := &http.Client{}
	if tokens != nil {
		client = oauth2.NewClient(ctx, tokens)
	}
	client.Timeout = 15 * time.Second

	r := &HTTPRemote{baseURL: u, client: client, pageSize: 50}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *HTTPRemote) ListFeed(ctx context.Context) ([]Video, error) {
	q := url.Values{}
	if r.pageSize > 0 {
		q.Set("limit", strconv.Itoa(r.pageSize))
	}
	var out []Video
	if err := r.do(ctx, http.MethodGet, "/api/videos", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *HTTPRemote) Like(ctx context.Context, videoID string) error {
	return r.do(ctx, http.MethodPost, "/api/videos/"+url.PathEscape(videoID)+"/like", nil, nil)
}

func (r *HTTPRemote) Unlike(ctx context.Context, videoID string) error {
	return r.do(ctx, http.MethodDelete, "/api/videos/"+url.PathEscape(videoID)+"/like", nil, nil)
}

func (r *HTTPRemote) RecordView(ctx context.Context, videoID string) error {
	return r.do(ctx, http.MethodPost, "/api/videos/"+url.PathEscape(videoID)+"/views", nil, nil)
}

func (r *HTTPRemote) do(ctx context.Context, method, path string, query url.Values, out any) error {
	u := *r.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var body struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &body) != nil {
			body.Error = strings.TrimSpace(string(raw))
		}
		return &StatusError{Code: resp.StatusCode, Message: body.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
