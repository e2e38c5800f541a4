// Package creative is the HTTP client for the AI CREAT generation backend.
package creative

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const apiPrefix = "/api/v1"

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client calls the generation backend. It is safe for concurrent use; use
// WithToken to get a copy that forwards a caller's bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With().Str("component", "creative").Logger(),
	}
}

// WithToken returns a copy of the client that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// GetProviders lists generation providers. A failed call falls back to the
// default provider set instead of returning an error.
func (c *Client) GetProviders(ctx context.Context) (*ProvidersResponse, error) {
	var result ProvidersResponse
	if err := c.do(ctx, http.MethodGet, "/providers", nil, &result); err != nil {
		c.logger.Warn().Err(err).Msg("failed to get providers, serving fallback")
		return fallbackProviders(), nil
	}
	return &result, nil
}

// GetFormats lists target formats. A failed call falls back to the common
// Instagram and Facebook formats.
func (c *Client) GetFormats(ctx context.Context) (*FormatsResponse, error) {
	var result FormatsResponse
	if err := c.do(ctx, http.MethodGet, "/formats", nil, &result); err != nil {
		c.logger.Warn().Err(err).Msg("failed to get formats, serving fallback")
		return fallbackFormats(), nil
	}
	return &result, nil
}

// StartGeneration enqueues a generation job.
func (c *Client) StartGeneration(ctx context.Context, req GenerationRequest) (*GenerationJob, error) {
	var result GenerationJob
	if err := c.do(ctx, http.MethodPost, "/generate", req, &result); err != nil {
		return nil, fmt.Errorf("failed to start generation: %w", err)
	}
	if result.JobID == "" {
		return nil, fmt.Errorf("failed to start generation: job_id is empty in response")
	}
	return &result, nil
}

// GetJobStatus polls a job once.
func (c *Client) GetJobStatus(ctx context.Context, jobID string) (*JobStatus, error) {
	if jobID == "" {
		return nil, ErrMissingID
	}
	var result JobStatus
	if err := c.do(ctx, http.MethodGet, "/generate/"+url.PathEscape(jobID)+"/status", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get job status: %w", err)
	}
	return &result, nil
}

// GetJobResults fetches the generated assets of a completed job.
func (c *Client) GetJobResults(ctx context.Context, jobID string) (JobResults, error) {
	if jobID == "" {
		return nil, ErrMissingID
	}
	result := JobResults{}
	if err := c.do(ctx, http.MethodGet, "/generate/"+url.PathEscape(jobID)+"/results", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get job results: %w", err)
	}
	return result, nil
}

// GetGeneratedAsset fetches one asset's metadata.
func (c *Client) GetGeneratedAsset(ctx context.Context, assetID string) (*GeneratedAsset, error) {
	if assetID == "" {
		return nil, ErrMissingID
	}
	var result GeneratedAsset
	if err := c.do(ctx, http.MethodGet, "/generated-assets/"+url.PathEscape(assetID), nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}
	return &result, nil
}

// ApplyEdits persists manual adjustments and returns the updated asset.
func (c *Client) ApplyEdits(ctx context.Context, assetID string, edits EditRequest) (*GeneratedAsset, error) {
	if assetID == "" {
		return nil, ErrMissingID
	}
	if edits.TextOverlays == nil {
		edits.TextOverlays = []TextOverlayEdit{}
	}
	if edits.LogoOverlays == nil {
		edits.LogoOverlays = []LogoOverlayEdit{}
	}
	var result GeneratedAsset
	path := "/generation/generated-assets/" + url.PathEscape(assetID)
	if err := c.do(ctx, http.MethodPut, path, applyEditsBody{Edits: edits}, &result); err != nil {
		return nil, fmt.Errorf("failed to apply edits: %w", err)
	}
	return &result, nil
}

// GetDownloadURL asks for a download URL for the given assets.
func (c *Client) GetDownloadURL(ctx context.Context, req DownloadRequest) (*DownloadResponse, error) {
	var result DownloadResponse
	if err := c.do(ctx, http.MethodPost, "/download", req, &result); err != nil {
		return nil, fmt.Errorf("failed to get download url: %w", err)
	}
	return &result, nil
}

// DownloadAssets asks for an archive of several assets.
func (c *Client) DownloadAssets(ctx context.Context, req BatchDownloadRequest) (*BatchDownloadResponse, error) {
	var result BatchDownloadResponse
	if err := c.do(ctx, http.MethodPost, "/download/batch", req, &result); err != nil {
		return nil, fmt.Errorf("failed to download assets: %w", err)
	}
	return &result, nil
}

// ListProjects returns one page of the caller's projects.
func (c *Client) ListProjects(ctx context.Context, limit, offset int) (*ProjectList, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	path := "/projects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	var result ProjectList
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return &result, nil
}

// GetProjectStatus reports a project's processing status.
func (c *Client) GetProjectStatus(ctx context.Context, projectID string) (*ProjectStatus, error) {
	if projectID == "" {
		return nil, ErrMissingID
	}
	var result ProjectStatus
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID)+"/status", nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get project status: %w", err)
	}
	return &result, nil
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if projectID == "" {
		return ErrMissingID
	}
	if err := c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// Fetch streams the file behind a download URL into w. Relative URLs are
// resolved against the backend. The bearer token is only sent to the backend
// itself, never to a CDN or presigned storage URL.
func (c *Client) Fetch(ctx context.Context, downloadURL string, w io.Writer) (int64, error) {
	target := downloadURL
	if strings.HasPrefix(target, "/") {
		target = c.baseURL + target
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.sameOrigin(req.URL) {
		c.setHeaders(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, newAPIError(resp.StatusCode, body)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to read response body: %w", err)
	}
	return n, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classifyError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend call")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w, body: %s", err, string(raw))
	}
	return nil
}

func (c *Client) sameOrigin(u *url.URL) bool {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(base.Scheme, u.Scheme) && strings.EqualFold(base.Host, u.Host)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
