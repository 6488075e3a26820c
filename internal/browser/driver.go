// Package browser wraps playwright-go behind the small page-driver surface
// the rest of the pipeline consumes: navigate, safely read an element's text
// or attribute, and open short-lived isolated contexts for third-party
// sites.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/kremlit/leadharvest/internal/emailfinder"
)

const (
	// DefaultUserAgent mirrors a current desktop Chrome build.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultNavigationTimeout is the main crawl's page-load budget. Google
	// Maps is trusted to eventually load; third-party sites get the much
	// shorter emailfinder timeout instead.
	DefaultNavigationTimeout = 300 * time.Second

	// lookupTimeout bounds individual element reads so a missing element
	// degrades to "" quickly instead of hanging the record.
	lookupTimeout = 5 * time.Second

	// isolatedBodyWait bounds waiting for a third-party page's body.
	isolatedBodyWait = 7 * time.Second
)

// Options configure the launched browser.
type Options struct {
	Headless          bool
	UserAgent         string
	NavigationTimeout time.Duration
	Logger            *zap.SugaredLogger
}

// Driver owns one playwright browser with a primary page for the crawl and
// spawns isolated contexts for email discovery.
type Driver struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	userAgent  string
	navTimeout time.Duration
	log        *zap.SugaredLogger
}

// Launch starts playwright, launches chromium and opens the primary page.
// Failures here are fatal for the run.
func Launch(opts Options) (*Driver, error) {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = DefaultNavigationTimeout
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
		},
	})
	if err != nil {
		_ = pw.Stop()

		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(opts.UserAgent),
	})
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()

		return nil, fmt.Errorf("create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		_ = browser.Close()
		_ = pw.Stop()

		return nil, fmt.Errorf("open page: %w", err)
	}

	return &Driver{
		pw:         pw,
		browser:    browser,
		context:    bctx,
		page:       page,
		userAgent:  opts.UserAgent,
		navTimeout: opts.NavigationTimeout,
		log:        opts.Logger,
	}, nil
}

// Install downloads the chromium runtime playwright needs. Meant clean for a
// one-off setup run.
func Install() error {
	return playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
}

// Navigate loads url in the primary page within the crawl timeout.
func (d *Driver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(d.navTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	return nil
}

// Text returns the trimmed text content of the first match, or "" when the
// selector matches nothing or the read fails.
func (d *Driver) Text(selector string) string {
	loc := d.page.Locator(selector).First()

	count, err := d.page.Locator(selector).Count()
	if err != nil || count == 0 {
		d.log.Debugw("element not found", "selector", selector)

		return ""
	}

	text, err := loc.TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(float64(lookupTimeout.Milliseconds())),
	})
	if err != nil {
		d.log.Debugw("text read failed", "selector", selector, "error", err)

		return ""
	}

	return strings.TrimSpace(text)
}

// Attr returns the trimmed attribute of the first match, or "" when absent.
func (d *Driver) Attr(selector, name string) string {
	count, err := d.page.Locator(selector).Count()
	if err != nil || count == 0 {
		d.log.Debugw("element not found", "selector", selector)

		return ""
	}

	value, err := d.page.Locator(selector).First().GetAttribute(name, playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(float64(lookupTimeout.Milliseconds())),
	})
	if err != nil {
		d.log.Debugw("attribute read failed", "selector", selector, "attr", name, "error", err)

		return ""
	}

	return strings.TrimSpace(value)
}

// Fill types value into the first element matching selector.
func (d *Driver) Fill(selector, value string) error {
	if err := d.page.Locator(selector).First().Fill(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}

	return nil
}

// PressEnter submits via the keyboard, like a user hitting return in the
// search box.
func (d *Driver) PressEnter() error {
	return d.page.Keyboard().Press("Enter")
}

// Exists reports whether the selector currently matches anything.
func (d *Driver) Exists(selector string) bool {
	count, err := d.page.Locator(selector).Count()

	return err == nil && count > 0
}

// ScrollToBottom scrolls the first matching element to its own bottom.
func (d *Driver) ScrollToBottom(selector string) error {
	_, err := d.page.Locator(selector).First().Evaluate("el => { el.scrollTop = el.scrollHeight }", nil)
	if err != nil {
		return fmt.Errorf("scroll %s: %w", selector, err)
	}

	return nil
}

// Hrefs collects the href attribute of every element matching selector,
// skipping elements without one.
func (d *Driver) Hrefs(selector string) []string {
	locators, err := d.page.Locator(selector).All()
	if err != nil {
		d.log.Debugw("href collection failed", "selector", selector, "error", err)

		return nil
	}

	hrefs := make([]string, 0, len(locators))

	for _, loc := range locators {
		href, err := loc.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}

		hrefs = append(hrefs, href)
	}

	return hrefs
}

// OpenIsolated loads url in a fresh browser context with its own short
// timeout. The returned page must be closed by the caller; closing tears the
// whole context down so the primary crawl page never loses its place.
func (d *Driver) OpenIsolated(ctx context.Context, url string, timeout time.Duration) (emailfinder.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := d.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(d.userAgent),
	})
	if err != nil {
		return nil, fmt.Errorf("create isolated context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()

		return nil, fmt.Errorf("open isolated page: %w", err)
	}

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	}); err != nil {
		_ = bctx.Close()

		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	if err := page.Locator("body").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(isolatedBodyWait.Milliseconds())),
	}); err != nil {
		_ = bctx.Close()

		return nil, fmt.Errorf("wait for body of %s: %w", url, err)
	}

	return &isolatedPage{page: page, context: bctx}, nil
}

// Close tears down the primary context, the browser and playwright itself.
func (d *Driver) Close() error {
	var firstErr error

	if err := d.context.Close(); err != nil {
		firstErr = err
	}

	if err := d.browser.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	if err := d.pw.Stop(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

type isolatedPage struct {
	page    playwright.Page
	context playwright.BrowserContext
}

func (p *isolatedPage) Content() (string, error) {
	return p.page.Content()
}

func (p *isolatedPage) Close() error {
	return p.context.Close()
}
