package domain

import (
	"context"
	"time"
)

// Renderer defines the fetch-and-render capability consumed by the scraper.
// Implementations return the rendered page HTML or a failure with a reason.
type Renderer interface {
	// Render fetches a page and returns its rendered HTML
	Render(ctx context.Context, url string, opts RenderOptions) (string, error)
	// Close releases the rendering session
	Close() error
}

// RenderOptions contains options for a single page render
type RenderOptions struct {
	Timeout    time.Duration
	WaitFor    string        // CSS selector to wait for, best effort
	WaitStable time.Duration // wait for network idle, best effort
}

// HistoryStore is the append-only observation log. Missing history is not an
// error: GetLast returns (nil, nil) when nothing has been recorded yet.
type HistoryStore interface {
	// GetLast returns the most recently appended snapshot, or nil
	GetLast(ctx context.Context) (*ObservationSnapshot, error)
	// Append records a snapshot. Snapshots are never updated or deleted.
	Append(ctx context.Context, snapshot *ObservationSnapshot) error
	// Close releases store resources
	Close() error
}

// Notifier is the delivery sink for change reports. Delivery failure is
// reported back but must never block history persistence.
type Notifier interface {
	// Notify delivers a report with the given subject line
	Notify(ctx context.Context, subject string, report *ReportSnapshot) error
}
