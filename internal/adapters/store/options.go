package store

import (
	"net/http"
	"strings"
	"time"
)

// GitHubOption applies a configuration option to the GitHub client.
type GitHubOption func(*GitHub)

// WithBranch sets the branch commits target. Empty values keep the default.
func WithBranch(branch string) GitHubOption {
	return func(g *GitHub) {
		if branch != "" {
			g.branch = branch
		}
	}
}

// WithBaseURL points the client at a different API root, e.g. a GitHub
// Enterprise instance or a test server.
func WithBaseURL(url string) GitHubOption {
	return func(g *GitHub) {
		if url != "" {
			g.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithTimeout bounds each outbound call.
func WithTimeout(d time.Duration) GitHubOption {
	return func(g *GitHub) {
		if d > 0 {
			g.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(c *http.Client) GitHubOption {
	return func(g *GitHub) {
		if c != nil {
			g.client = c
		}
	}
}
