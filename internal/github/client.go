package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.github.com"

	// apiVersion is the fixed X-GitHub-Api-Version header value the
	// REST API requires.
	apiVersion = "2022-11-28"

	// requestTimeout bounds a single round-trip, independent of the
	// poll interval.
	requestTimeout = 10 * time.Second

	// requestsPerSecond keeps the client well inside the secondary
	// rate limits even when polling, load-more, and enrichment
	// overlap.
	requestsPerSecond = 8
)

// Client is a thin HTTP client for the GitHub REST API. It handles
// Bearer token authentication, the fixed API version header, JSON
// decoding, and outbound rate limiting. Every call is a live network
// round-trip; no HTTP cache is layered in.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a GitHub client authenticated with the given token.
func NewClient(token string) *Client {
	return NewClientWithBaseURL(defaultBaseURL, token)
}

// NewClientWithBaseURL creates a client against a non-default API root.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// response is the decoded envelope of a successful (2xx) round-trip.
type response struct {
	header http.Header
	body   []byte
}

// do performs one authenticated round-trip to an absolute URL.
// Transport failures map to ErrInvalidResponse, non-2xx statuses to
// *HTTPError with the body captured for diagnostics.
func (c *Client) do(ctx context.Context, method, url string) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request %s %s: %w", method, url, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrInvalidResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode:  resp.StatusCode,
			BodyPreview: preview(body),
		}
	}

	return &response{header: resp.Header, body: body}, nil
}

// getJSON fetches an absolute URL and decodes the JSON body into result.
func (c *Client) getJSON(ctx context.Context, url string, result any) error {
	r, err := c.do(ctx, http.MethodGet, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(r.body, result); err != nil {
		return &DecodeError{URL: url, Err: err}
	}
	return nil
}

// apiURL joins a path onto the configured API root.
func (c *Client) apiURL(path string) string {
	return c.baseURL + path
}

// Viewer returns the login of the authenticated user. Used for token
// verification.
func (c *Client) Viewer(ctx context.Context) (string, error) {
	var viewer apiViewer
	if err := c.getJSON(ctx, c.apiURL("/user"), &viewer); err != nil {
		return "", err
	}
	if viewer.Login == "" {
		return "", fmt.Errorf("%w: user endpoint returned no login", ErrInvalidResponse)
	}
	return viewer.Login, nil
}

// MarkThreadRead marks a notification thread as read.
func (c *Client) MarkThreadRead(ctx context.Context, id string) error {
	url := c.apiURL("/notifications/threads/" + id)
	if _, err := c.do(ctx, http.MethodPatch, url); err != nil {
		return fmt.Errorf("marking thread %s read: %w", id, err)
	}
	return nil
}
