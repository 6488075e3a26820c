// Package emailfinder locates a business email address on an arbitrary
// third-party website. Three strategies run in fixed priority order against
// one fetched page and the first hit wins; every per-site failure is
// swallowed and reported as "no email found".
package emailfinder

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DefaultTimeout bounds the third-party page load. Deliberately much shorter
// than the main crawl's page-load timeout: untrusted sites must not stall
// the run.
const DefaultTimeout = 10 * time.Second

// Page is a fetched third-party page inside an isolated browsing context.
type Page interface {
	// Content returns the rendered page source.
	Content() (string, error)
	// Close tears down the isolated context.
	Close() error
}

// Driver is the slice of the page-driver capability discovery consumes.
type Driver interface {
	OpenIsolated(ctx context.Context, url string, timeout time.Duration) (Page, error)
}

// PageContent is the fetched page parsed once and shared by all strategies,
// which are pure functions over it.
type PageContent struct {
	Source string
	Doc    *goquery.Document
}

// ParsePage builds a PageContent from raw page source.
func ParsePage(source string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(source))
	if err != nil {
		return nil, err
	}

	return &PageContent{Source: source, Doc: doc}, nil
}

// Strategy is one way of locating an email on a fetched page.
type Strategy interface {
	Name() string
	Try(page *PageContent) (string, bool)
}

// DefaultStrategies returns the chain in priority order: author-declared
// mailto links first, then a regex sweep of the source, then probable
// contact regions.
func DefaultStrategies() []Strategy {
	return []Strategy{
		mailtoStrategy{},
		sourceStrategy{},
		visibleStrategy{},
	}
}

// Finder drives the strategy chain against a website.
type Finder struct {
	driver     Driver
	timeout    time.Duration
	strategies []Strategy
	log        *zap.SugaredLogger
}

// Option configures a Finder.
type Option func(*Finder)

// WithTimeout overrides the per-site page-load budget.
func WithTimeout(d time.Duration) Option {
	return func(f *Finder) { f.timeout = d }
}

// WithStrategies replaces the default strategy chain.
func WithStrategies(strategies ...Strategy) Option {
	return func(f *Finder) { f.strategies = strategies }
}

// WithLogger sets the finder's logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(f *Finder) { f.log = log }
}

// New returns a Finder using the default strategy chain and timeout.
func New(driver Driver, opts ...Option) *Finder {
	f := &Finder{
		driver:     driver,
		timeout:    DefaultTimeout,
		strategies: DefaultStrategies(),
		log:        zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Find visits the website in an isolated context and returns the first email
// any strategy locates, or "" when none does. Fetch errors and timeouts are
// downgraded to "not found"; the isolated context is closed on every path.
func (f *Finder) Find(ctx context.Context, websiteURL string) string {
	page, err := f.driver.OpenIsolated(ctx, websiteURL, f.timeout)
	if err != nil {
		f.log.Debugw("website fetch failed", "url", websiteURL, "error", err)

		return ""
	}

	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			f.log.Debugw("isolated context close failed", "url", websiteURL, "error", closeErr)
		}
	}()

	source, err := page.Content()
	if err != nil {
		f.log.Debugw("page content unavailable", "url", websiteURL, "error", err)

		return ""
	}

	content, err := ParsePage(source)
	if err != nil {
		f.log.Debugw("page parse failed", "url", websiteURL, "error", err)

		return ""
	}

	for _, strategy := range f.strategies {
		if email, ok := strategy.Try(content); ok {
			f.log.Debugw("email found", "url", websiteURL, "strategy", strategy.Name(), "email", email)

			return email
		}
	}

	return ""
}
