// Package backend talks to the sitemap checking service.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/coolBuddy03/sitemapmonitoring/internal/model"
	"github.com/coolBuddy03/sitemapmonitoring/internal/platform/errs"
	"golang.org/x/time/rate"
)

const (
	processPath = "/process_sitemap"
	userAgent   = "SitemapMonitor/1.0"

	// maxResponseBody caps the decoded JSON job to 64 MB.
	maxResponseBody = 64 << 20
	// maxErrorBody caps how much of a failure response is inspected.
	maxErrorBody = 1 << 20
)

// Messages shown when the backend gives no usable explanation.
const (
	MsgRequestFailed = "Failed to process sitemap"
	MsgNetworkFailed = "An error occurred while processing the sitemap"
	MsgTimedOut      = "Processing the sitemap timed out. Please try again later."
)

// Client submits sitemaps to the backend over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit caps submissions to perSecond with a burst of twice that.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 2*perSecond)
	}
}

// NewClient returns a Client for the service at baseURL. Requests time out
// after timeout; processing a large sitemap can legitimately take minutes.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type processRequest struct {
	SitemapURL string `json:"sitemap_url"`
}

// ProcessSitemap posts sitemapURL and decodes the resulting job. Failures
// are *errs.AppError values of kind Request, Network or Timeout.
func (c *Client) ProcessSitemap(ctx context.Context, sitemapURL string) (*model.JobResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, networkError(ctx, err)
	}

	body, err := json.Marshal(processRequest{SitemapURL: sitemapURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+processPath, bytes.NewReader(body))
	if err != nil {
		return nil, &errs.AppError{Kind: errs.Network, Message: MsgNetworkFailed, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, networkError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, requestError(resp)
	}

	var job model.JobResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&job); err != nil {
		return nil, &errs.AppError{
			Kind:           errs.Request,
			UpstreamStatus: resp.StatusCode,
			Message:        MsgRequestFailed,
			Cause:          fmt.Errorf("decode job: %w", err),
		}
	}
	return &job, nil
}

func networkError(ctx context.Context, err error) error {
	var netErr interface{ Timeout() bool }
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{Kind: errs.Timeout, Message: MsgTimedOut, Cause: err}
	}
	return &errs.AppError{Kind: errs.Network, Message: MsgNetworkFailed, Cause: err}
}

// requestError extracts the server's explanation from a failed response:
// the "error" field of a JSON body, or the title of an HTML error page.
func requestError(resp *http.Response) error {
	appErr := &errs.AppError{
		Kind:           errs.Request,
		UpstreamStatus: resp.StatusCode,
		Message:        MsgRequestFailed,
		Cause:          fmt.Errorf("backend returned %s", resp.Status),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(bytes.TrimSpace(raw)) == 0 {
		return appErr
	}

	var body model.ErrorResponse
	if json.Unmarshal(raw, &body) == nil {
		if msg := strings.TrimSpace(body.Error); msg != "" {
			appErr.Message = msg
		}
		return appErr
	}

	if strings.Contains(resp.Header.Get("Content-Type"), "html") {
		if title := pageTitle(bytes.NewReader(raw)); title != "" {
			appErr.Message = title
		}
	}
	return appErr
}
