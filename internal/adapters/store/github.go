package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/watchkeep/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultBranch  = "main"
	defaultTimeout = 15 * time.Second

	acceptHeader = "application/vnd.github+json"
)

// GitHub is a BlobStore backed by the GitHub repository Contents API. Each
// Put is one commit on the configured branch; the version tag is the blob SHA
// the API reports.
type GitHub struct {
	token   string
	repo    string // "owner/name"
	branch  string
	baseURL string
	client  *http.Client
}

// NewGitHub creates a client for the given repository. Both token and repo
// are required; with either missing the client still constructs but every
// call fails with ErrNotConfigured so the pipeline can degrade instead of
// crashing.
func NewGitHub(token, repo string, opts ...GitHubOption) *GitHub {
	g := &GitHub{
		token:   token,
		repo:    repo,
		branch:  defaultBranch,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// contentResponse mirrors the Contents API file object. Directory listings
// are arrays of the same shape.
type contentResponse struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	SHA     string `json:"sha"`
	Content string `json:"content"`
}

type putRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

type putResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// Get returns the file at path on the configured branch.
func (g *GitHub) Get(ctx context.Context, path string) (File, error) {
	body, status, err := g.do(ctx, http.MethodGet, path+"?ref="+g.branch, nil, "get")
	if err != nil {
		return File{}, err
	}
	if status == http.StatusNotFound {
		return File{}, ErrNotFound
	}
	if status != http.StatusOK {
		return File{}, fmt.Errorf("get %s: unexpected status %d", path, status)
	}
	var resp contentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return File{}, fmt.Errorf("get %s: decode response: %w", path, err)
	}
	// The API base64-encodes content with embedded newlines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
	if err != nil {
		return File{}, fmt.Errorf("get %s: decode content: %w", path, err)
	}
	return File{Content: raw, SHA: resp.SHA}, nil
}

// Put writes content to path as a single commit. A non-empty expectedSHA
// makes the write conditional; the API answers 409 or 422 when the stored
// blob moved underneath us, both of which map to ErrConflict.
func (g *GitHub) Put(ctx context.Context, path string, content []byte, message, expectedSHA string) (string, error) {
	req := putRequest{
		Message: message,
		Content: base64.StdEncoding.EncodeToString(content),
		Branch:  g.branch,
		SHA:     expectedSHA,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("put %s: encode request: %w", path, err)
	}
	body, status, err := g.do(ctx, http.MethodPut, path, payload, "put")
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return "", ErrConflict
	default:
		return "", fmt.Errorf("put %s: unexpected status %d", path, status)
	}
	var resp putResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("put %s: decode response: %w", path, err)
	}
	return resp.Content.SHA, nil
}

// List returns the entries directly under dir on the configured branch. A
// directory that does not exist yet lists as empty.
func (g *GitHub) List(ctx context.Context, dir string) ([]Entry, error) {
	body, status, err := g.do(ctx, http.MethodGet, dir+"?ref="+g.branch, nil, "list")
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("list %s: unexpected status %d", dir, status)
	}
	var items []contentResponse
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("list %s: decode response: %w", dir, err)
	}
	entries := make([]Entry, 0, len(items))
	for _, it := range items {
		entries = append(entries, Entry{Name: it.Name, Path: it.Path, SHA: it.SHA})
	}
	return entries, nil
}

// do performs one Contents API call and returns the response body and status.
// Transport-level failures and missing configuration are returned as errors;
// HTTP error statuses are left to the caller to interpret per operation.
func (g *GitHub) do(ctx context.Context, method, path string, payload []byte, op string) ([]byte, int, error) {
	if g.token == "" || g.repo == "" {
		metrics.RecordStoreError(op)
		return nil, 0, ErrNotConfigured
	}

	url := fmt.Sprintf("%s/repos/%s/contents/%s", g.baseURL, g.repo, path)
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", acceptHeader)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	metrics.RecordStoreCall(op, float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordStoreError(op)
		return nil, 0, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}
	return data, resp.StatusCode, nil
}
