// Package renderer provides the fetch-and-render capability: headless
// Chrome via rod, driving one page session reused for every plan in a run.
package renderer

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/quantmind-br/rentwatch-go/internal/domain"
)

// Renderer renders pages with a single browser session. Page loads are
// strictly sequential: concurrent bursts against listing sites trigger
// anti-automation defenses, and one session bounds browser resource use.
type Renderer struct {
	browser *rod.Browser
	page    *rod.Page
	mu      sync.Mutex
	timeout time.Duration
	stealth bool
}

// Options contains options for creating a Renderer
type Options struct {
	Timeout     time.Duration
	Stealth     bool
	Headless    bool
	BrowserPath string
	NoSandbox   bool // required in CI/Docker environments
}

// DefaultOptions returns default renderer options
func DefaultOptions() Options {
	return Options{
		Timeout:   45 * time.Second,
		Stealth:   true,
		Headless:  true,
		NoSandbox: isCI(),
	}
}

func isCI() bool {
	return os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != ""
}

// New launches a headless browser and connects to it.
func New(opts Options) (*Renderer, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 45 * time.Second
	}

	if !IsAvailable() && opts.BrowserPath == "" {
		return nil, domain.ErrBrowserNotFound
	}

	l := launcher.New()
	if opts.BrowserPath != "" {
		l = l.Bin(opts.BrowserPath)
	}
	if opts.Headless {
		l = l.Headless(true)
	}
	if opts.Stealth {
		l = l.Set("disable-blink-features", "AutomationControlled")
	}
	if opts.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &Renderer{
		browser: browser,
		timeout: opts.Timeout,
		stealth: opts.Stealth,
	}, nil
}

// Render navigates the shared session to a URL and returns its rendered
// HTML. A timeout or navigation error resolves to an error; the session
// stays usable for the next page.
func (r *Renderer) Render(ctx context.Context, url string, opts domain.RenderOptions) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if opts.Timeout <= 0 {
		opts.Timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	page, err := r.sessionPage()
	if err != nil {
		return "", err
	}
	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", domain.NewFetchError(url, 0, fmt.Errorf("navigation failed: %w", err))
	}
	if err := page.WaitLoad(); err != nil {
		if ctx.Err() != nil {
			return "", domain.NewFetchError(url, 0, domain.ErrTimeout)
		}
		return "", fmt.Errorf("failed waiting for load: %w", err)
	}

	// Best effort waits; listing pages hydrate unit cards late.
	if opts.WaitFor != "" {
		if el, err := page.Timeout(opts.Timeout).Element(opts.WaitFor); err == nil {
			_ = el.WaitVisible()
		}
	}
	if opts.WaitStable > 0 {
		_ = page.WaitRequestIdle(opts.WaitStable, nil, nil, nil)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	return html, nil
}

// sessionPage lazily creates the single reused page.
func (r *Renderer) sessionPage() (*rod.Page, error) {
	if r.page != nil {
		return r.page, nil
	}

	page, err := newSessionPage(r.browser, r.stealth)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}
	r.page = page
	return page, nil
}

// Close releases the browser unconditionally. Safe to call more than once.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.page != nil {
		_ = r.page.Close()
		r.page = nil
	}
	if r.browser != nil {
		browser := r.browser
		r.browser = nil
		return browser.Close()
	}
	return nil
}

// IsAvailable checks if a usable browser binary exists.
func IsAvailable() bool {
	path, exists := launcher.LookPath()
	return exists && path != ""
}

// BrowserPath returns the detected browser path.
func BrowserPath() (string, bool) {
	return launcher.LookPath()
}
