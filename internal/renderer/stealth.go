package renderer

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// newSessionPage creates the run's single page, optionally hardened against
// automation detection.
func newSessionPage(browser *rod.Browser, stealthMode bool) (*rod.Page, error) {
	var page *rod.Page
	var err error

	if stealthMode {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{})
	}
	if err != nil {
		return nil, err
	}

	if err := applyViewport(page); err != nil {
		_ = page.Close()
		return nil, err
	}
	return page, nil
}

// applyViewport sets a realistic desktop viewport.
func applyViewport(page *rod.Page) error {
	return page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  1920,
		Height: 1080,
	})
}
