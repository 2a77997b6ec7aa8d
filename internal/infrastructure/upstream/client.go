// Package upstream holds the HTTP client for the external rates provider.
package upstream

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Response is an upstream HTTP outcome. It implements resilience.Result.
type Response struct {
	StatusCode int
	Body       []byte
}

// Status returns the HTTP status code.
func (r *Response) Status() int {
	return r.StatusCode
}

// OK reports whether the response is a 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Client fetches rate documents from the upstream provider. Retries belong to
// the resilience pipeline, so the resty-level retry is disabled.
type Client struct {
	http    *resty.Client
	baseURL string
	log     zerolog.Logger
}

// NewClient builds a client against a base URL such as
// https://api.frankfurter.dev/v1.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", "fx-gateway/1.0").
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		log:     log.With().Str("component", "upstream-client").Logger(),
	}
}

// BaseURL returns the configured upstream base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get performs a GET against pathQuery relative to the base URL and returns
// the raw status and body. Transport-level failures are returned as errors;
// non-2xx statuses are returned in the Response for the caller to classify.
func (c *Client) Get(ctx context.Context, pathQuery string) (*Response, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get(pathQuery)
	if err != nil {
		c.log.Error().Err(err).Str("path", pathQuery).Msg("upstream request failed")
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}, nil
}
