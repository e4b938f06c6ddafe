package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClient_Requests(t *testing.T) {
	testCases := []struct {
		name          string
		call          func(c *HTTPClient) (*Response, error)
		expectedPath  string
		expectedQuery string
	}{
		{
			name:         "get_user",
			call:         func(c *HTTPClient) (*Response, error) { return c.GetUser(context.Background(), "octocat") },
			expectedPath: "/users/octocat",
		},
		{
			name:         "get_issue",
			call:         func(c *HTTPClient) (*Response, error) { return c.GetIssue(context.Background(), "octo", "hello", 42) },
			expectedPath: "/repos/octo/hello/issues/42",
		},
		{
			name:         "get_repository",
			call:         func(c *HTTPClient) (*Response, error) { return c.GetRepository(context.Background(), "octo", "hello") },
			expectedPath: "/repos/octo/hello",
		},
		{
			name: "list_issues",
			call: func(c *HTTPClient) (*Response, error) {
				return c.ListIssues(context.Background(), "octo", "hello", ListOptions{State: "all", Page: 3, PerPage: 50})
			},
			expectedPath:  "/repos/octo/hello/issues",
			expectedQuery: "page=3&per_page=50&state=all",
		},
		{
			name: "list_issues_default_page_size",
			call: func(c *HTTPClient) (*Response, error) {
				return c.ListIssues(context.Background(), "octo", "hello", ListOptions{State: "open"})
			},
			expectedPath:  "/repos/octo/hello/issues",
			expectedQuery: "per_page=100&state=open",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, tc.expectedPath, r.URL.Path)
				assert.Equal(t, tc.expectedQuery, r.URL.RawQuery)
				assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
				assert.Equal(t, acceptHeader, r.Header.Get("Accept"))
				w.Header().Set("X-RateLimit-Remaining", "4999")
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"id": 1}`))
			}))
			defer server.Close()

			client := NewClient(Options{BaseURL: server.URL + "/", Token: "secret-token"})
			resp, err := tc.call(client)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "4999", resp.Header.Get("X-RateLimit-Remaining"))
			assert.JSONEq(t, `{"id": 1}`, string(resp.Body))
		})
	}
}

func TestHTTPClient_NoTokenSendsNoAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer server.Close()

	resp, err := NewClient(Options{BaseURL: server.URL}).GetUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, "Not Found", resp.Message())
}

func TestHTTPClient_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(Options{BaseURL: server.URL, RequestsPerSecond: 1}).GetUser(ctx, "octocat")
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	testCases := []struct {
		name            string
		resp            *Response
		expectNotFound  bool
		expectedError   string
		expectedMessage string
	}{
		{
			name: "ok",
			resp: &Response{StatusCode: http.StatusOK},
		},
		{
			name:            "not_found_keeps_upstream_message",
			resp:            &Response{StatusCode: http.StatusNotFound, Body: []byte(`{"message": "Not Found"}`)},
			expectNotFound:  true,
			expectedMessage: "Not Found",
		},
		{
			name:           "gone_is_not_found",
			resp:           &Response{StatusCode: http.StatusGone, Body: []byte(`{"message": "This issue was deleted"}`)},
			expectNotFound: true,
		},
		{
			name:          "server_error",
			resp:          &Response{StatusCode: http.StatusBadGateway},
			expectedError: "upstream returned status 502",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckStatus(tc.resp)
			switch {
			case tc.expectNotFound:
				require.ErrorIs(t, err, ErrNotFound)
				var nf *NotFoundError
				require.True(t, errors.As(err, &nf))
				if tc.expectedMessage != "" {
					assert.Equal(t, tc.expectedMessage, nf.Message)
				}
			case tc.expectedError != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				assert.NotErrorIs(t, err, ErrNotFound)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestLastPage(t *testing.T) {
	testCases := []struct {
		name         string
		link         string
		expectedPage int
		expectedOK   bool
	}{
		{
			name:         "github_style_header",
			link:         `<https://api.github.com/repositories/1/issues?state=all&page=2>; rel="next", <https://api.github.com/repositories/1/issues?state=all&page=7>; rel="last"`,
			expectedPage: 7,
			expectedOK:   true,
		},
		{
			name:       "no_last_link_on_final_page",
			link:       `<https://api.github.com/repositories/1/issues?page=6>; rel="prev", <https://api.github.com/repositories/1/issues?page=1>; rel="first"`,
			expectedOK: false,
		},
		{
			name:       "empty",
			link:       "",
			expectedOK: false,
		},
		{
			name:       "last_without_page",
			link:       `<https://api.github.com/repositories/1/issues>; rel="last"`,
			expectedOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			page, ok := LastPage(tc.link)
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expectedPage, page)
		})
	}
}
