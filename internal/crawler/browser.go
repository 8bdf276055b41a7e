package crawler

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pltanton/wizsearch/internal/security"
)

// BrowserFetcher renders pages in a headless browser before extraction, so
// JavaScript-built content and wait-for selectors work. The browser is
// launched lazily on first fetch and shared across calls.
type BrowserFetcher struct {
	validator *security.URLValidator

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserFetcher creates a browser-backed fetcher. The browser process is
// not started until the first Fetch.
func NewBrowserFetcher(validator *security.URLValidator) *BrowserFetcher {
	return &BrowserFetcher{validator: validator}
}

func (f *BrowserFetcher) connect() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser != nil {
		return f.browser, nil
	}
	browser := rod.New()
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	f.browser = browser
	return browser, nil
}

// Close shuts the shared browser down.
func (f *BrowserFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil
	}
	err := f.browser.Close()
	f.browser = nil
	return err
}

func (f *BrowserFetcher) Fetch(ctx context.Context, rawURL string, opts FetchOptions) (*Content, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "https://" + rawURL
	}
	if f.validator != nil {
		if err := f.validator.Validate(rawURL); err != nil {
			return nil, err
		}
	}

	browser, err := f.connect()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()
	page = page.Context(ctx)

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("page load failed: %w", err)
	}
	if opts.WaitFor != "" {
		if _, err := page.Element(opts.WaitFor); err != nil {
			return nil, fmt.Errorf("wait_for selector %q: %w", opts.WaitFor, err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to read page html: %w", err)
	}

	content := &Content{
		URL:    rawURL,
		Format: contentFormat(opts),
		Text:   renderContent(html, true, opts),
	}

	if opts.Screenshot {
		shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
			Format: proto.PageCaptureScreenshotFormatPng,
		})
		if err != nil {
			return nil, fmt.Errorf("screenshot failed: %w", err)
		}
		content.Screenshot = shot
	}

	return content, nil
}
