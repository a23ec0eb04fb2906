// Package fetcher is the no-browser fallback for the render capability: a
// stealth HTTP client that fetches raw page HTML without JavaScript. Used
// when no Chrome/Chromium is installed or rendering is disabled.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// Client is a stealth HTTP client using tls-client. It satisfies
// domain.Renderer so the scraper stays agnostic about how pages arrive.
type Client struct {
	tlsClient tls_client.HttpClient
	userAgent string
	retrier   *Retrier
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout    time.Duration
	MaxRetries int
	UserAgent  string
	ProxyURL   string
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:    45 * time.Second,
		MaxRetries: 3,
	}
}

// NewClient creates a new stealth HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}
	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &Client{
		tlsClient: tlsClient,
		userAgent: opts.UserAgent,
		retrier:   NewRetrier(RetrierOptions{MaxRetries: opts.MaxRetries}),
	}, nil
}

// Render fetches a page over plain HTTP and returns its HTML normalized to
// UTF-8. The name matches the render capability contract; no JavaScript
// runs here.
func (c *Client) Render(ctx context.Context, url string, opts domain.RenderOptions) (string, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var body []byte
	var contentType string
	err := c.retrier.Retry(ctx, func() error {
		var err error
		body, contentType, err = c.doRequest(ctx, url)
		return err
	})
	if err != nil {
		return "", err
	}

	html, err := DecodeHTML(body, contentType)
	if err != nil {
		// Undecodable charset: fall back to the raw bytes.
		return string(body), nil
	}
	return html, nil
}

// doRequest performs one HTTP GET
func (c *Client) doRequest(ctx context.Context, targetURL string) ([]byte, string, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range StealthHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		return nil, "", domain.NewFetchError(targetURL, 0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", domain.NewFetchError(targetURL, resp.StatusCode,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// Close releases client resources
func (c *Client) Close() error {
	return nil
}
