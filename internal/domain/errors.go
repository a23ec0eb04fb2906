package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrBrowserNotFound indicates Chrome/Chromium was not found
	ErrBrowserNotFound = errors.New("browser not found")

	// ErrRenderFailed indicates page rendering failed
	ErrRenderFailed = errors.New("render failed")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrNoPlans indicates the tracked-plan list is empty
	ErrNoPlans = errors.New("no tracked plans configured")

	// ErrHistoryCorrupted indicates the history store contains invalid data
	ErrHistoryCorrupted = errors.New("history store is corrupted")

	// ErrNotifyFailed indicates notification delivery failed
	ErrNotifyFailed = errors.New("notification delivery failed")
)

// ScrapeError represents a failure while scraping one tracked plan. It is
// recovered locally as a failed PlanSnapshot; the batch continues.
type ScrapeError struct {
	Plan string
	URL  string
	Err  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape failed for plan %s (%s): %v", e.Plan, e.URL, e.Err)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError
func NewScrapeError(plan, url string, err error) *ScrapeError {
	return &ScrapeError{Plan: plan, URL: url, Err: err}
}

// PersistenceError represents a history store failure. Fatal to the run:
// a run that cannot persist its observation terminates abnormally.
type PersistenceError struct {
	Op  string // "load" or "append"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError creates a new PersistenceError
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// FetchError represents an error during static fetching
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewFetchError creates a new FetchError
func NewFetchError(url string, statusCode int, err error) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode, Err: err}
}

// IsRetryable reports whether a fetch error should be retried.
func IsRetryable(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		switch fetchErr.StatusCode {
		case 429, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrTimeout)
}
