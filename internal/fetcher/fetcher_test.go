package fetcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// TestDecodeHTML tests charset normalization to UTF-8
func TestDecodeHTML(t *testing.T) {
	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        string
	}{
		{
			name:        "utf-8 passthrough",
			body:        []byte("<p>café</p>"),
			contentType: "text/html; charset=utf-8",
			want:        "<p>café</p>",
		},
		{
			name:        "latin-1 header",
			body:        []byte{'<', 'p', '>', 'c', 'a', 'f', 0xe9, '<', '/', 'p', '>'},
			contentType: "text/html; charset=iso-8859-1",
			want:        "<p>café</p>",
		},
		{
			name: "meta charset declaration",
			body: append(
				[]byte(`<html><head><meta charset="iso-8859-1"></head><body>caf`),
				append([]byte{0xe9}, []byte("</body></html>")...)...),
			contentType: "text/html",
			want:        `<html><head><meta charset="iso-8859-1"></head><body>café</body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeHTML(tt.body, tt.contentType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestStealthHeaders tests the default browser-like header set
func TestStealthHeaders(t *testing.T) {
	headers := StealthHeaders("")
	assert.Contains(t, headers["User-Agent"], "Chrome/131")
	assert.NotEmpty(t, headers["Accept"])

	custom := StealthHeaders("my-agent/1.0")
	assert.Equal(t, "my-agent/1.0", custom["User-Agent"])
}

// TestRetrier_PermanentError verifies non-transient failures stop retrying
func TestRetrier_PermanentError(t *testing.T) {
	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      5,
		InitialInterval: time.Millisecond,
	})

	attempts := 0
	err := retrier.Retry(context.Background(), func() error {
		attempts++
		return domain.NewFetchError("https://example.com", 404, errors.New("HTTP 404"))
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

// TestRetrier_TransientError verifies 429/5xx failures are retried
func TestRetrier_TransientError(t *testing.T) {
	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      5,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	})

	attempts := 0
	err := retrier.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return domain.NewFetchError("https://example.com", 503, errors.New("HTTP 503"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

// TestRetrier_ContextCancel verifies whole-run cancellation stops retrying
func TestRetrier_ContextCancel(t *testing.T) {
	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      100,
		InitialInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retrier.Retry(ctx, func() error {
		return domain.NewFetchError("https://example.com", 429, errors.New("HTTP 429"))
	})
	require.Error(t, err)
}

// TestNewClient tests client construction defaults
func TestNewClient(t *testing.T) {
	client, err := NewClient(DefaultClientOptions())
	require.NoError(t, err)
	defer client.Close()
	assert.NotNil(t, client.retrier)
}
