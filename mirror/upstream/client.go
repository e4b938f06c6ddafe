// Package upstream talks to the GitHub REST API.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultPerPage = 100
	acceptHeader   = "application/vnd.github+json"
	apiVersion     = "2022-11-28"
)

// Response is a fully read upstream response. Rate-limit classification and status
// checks happen on this value, after the body is drained.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Message returns the "message" attribute of a JSON error body, if any.
func (r *Response) Message() string {
	if r == nil || len(r.Body) == 0 {
		return ""
	}
	return gjson.GetBytes(r.Body, "message").String()
}

type ListOptions struct {
	State   string
	Page    int
	PerPage int
}

type Client interface {
	GetUser(ctx context.Context, login string) (*Response, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*Response, error)
	GetRepository(ctx context.Context, owner, repo string) (*Response, error)
	ListIssues(ctx context.Context, owner, repo string, opts ListOptions) (*Response, error)
}

type Options struct {
	BaseURL    string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
	// RequestsPerSecond paces outgoing requests. Zero or less disables pacing.
	RequestsPerSecond float64
}

type HTTPClient struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(opts Options) *HTTPClient {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	userAgent := strings.TrimSpace(opts.UserAgent)
	if userAgent == "" {
		userAgent = "webhookdb-mirror"
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

func (c *HTTPClient) GetUser(ctx context.Context, login string) (*Response, error) {
	return c.get(ctx, "/users/"+url.PathEscape(login), nil)
}

func (c *HTTPClient) GetIssue(ctx context.Context, owner, repo string, number int) (*Response, error) {
	return c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues/%d", url.PathEscape(owner), url.PathEscape(repo), number), nil)
}

func (c *HTTPClient) GetRepository(ctx context.Context, owner, repo string) (*Response, error) {
	return c.get(ctx, fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo)), nil)
}

func (c *HTTPClient) ListIssues(ctx context.Context, owner, repo string, opts ListOptions) (*Response, error) {
	query := url.Values{}
	if opts.State != "" {
		query.Set("state", opts.State)
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	query.Set("per_page", strconv.Itoa(perPage))
	return c.get(ctx, fmt.Sprintf("/repos/%s/%s/issues", url.PathEscape(owner), url.PathEscape(repo)), query)
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: reading body: %w", path, err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
