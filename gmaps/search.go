// Package gmaps drives the map-search interface: run a query, scroll the
// results feed, collect detail links and scrape each business detail pane
// into a raw record. It consumes the generic page-driver capability; all
// lead semantics live in internal/leads.
package gmaps

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kremlit/leadharvest/internal/retry"
)

// PageDriver is the browser capability gmaps consumes.
type PageDriver interface {
	Navigate(url string) error
	Text(selector string) string
	Attr(selector, name string) string
	Fill(selector, value string) error
	PressEnter() error
	Exists(selector string) bool
	ScrollToBottom(selector string) error
	Hrefs(selector string) []string
}

// ErrNoResults is returned when the feed yields no detail links at all.
var ErrNoResults = errors.New("no result links found")

const (
	afterSearchDelay = 5 * time.Second
	scrollPause      = 3 * time.Second
	detailPageDelay  = 3 * time.Second

	// scrollProgressEvery controls how often scroll progress is logged.
	scrollProgressEvery = 5
)

// searchRetry matches the crawl's search step: one extra attempt with a 3s
// base delay. Search timeouts are transient, so they are the one place the
// retry wrapper applies.
var searchRetry = retry.Policy{MaxAttempts: 2, BaseDelay: 3 * time.Second, Factor: 2}

// Search opens the map-search page and submits the query, retrying on
// transient navigation failures.
func Search(ctx context.Context, driver PageDriver, query string, log *zap.SugaredLogger) error {
	return retry.Do(ctx, searchRetry, func(ctx context.Context) error {
		log.Infow("searching", "query", query)

		if err := driver.Navigate(BaseURL); err != nil {
			return err
		}

		if err := driver.Fill(selSearchBox, query); err != nil {
			return err
		}

		if err := driver.PressEnter(); err != nil {
			return err
		}

		if err := sleep(ctx, afterSearchDelay); err != nil {
			return err
		}

		log.Info("search submitted")

		return nil
	})
}

// CollectLinks scrolls the results feed up to maxScrolls times, stopping
// early at the end-of-list marker, then returns the unique detail links in
// feed order.
func CollectLinks(ctx context.Context, driver PageDriver, maxScrolls int, log *zap.SugaredLogger) ([]string, error) {
	log.Infow("scrolling results feed", "max_scrolls", maxScrolls)

	reachedEnd := false

	for i := 0; i < maxScrolls; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := driver.ScrollToBottom(selFeed); err != nil {
			return nil, err
		}

		if err := sleep(ctx, scrollPause); err != nil {
			return nil, err
		}

		if driver.Exists(selEndOfList) {
			log.Infow("reached end of list", "scrolls", i+1)

			reachedEnd = true

			break
		}

		if (i+1)%scrollProgressEvery == 0 {
			log.Infow("scroll progress", "done", i+1, "max", maxScrolls)
		}
	}

	if !reachedEnd {
		log.Infow("scroll budget exhausted before end of list", "max_scrolls", maxScrolls)
	}

	links := uniqueInOrder(driver.Hrefs(selResultLinks))

	log.Infow("collected result links", "count", len(links))

	if len(links) == 0 {
		return nil, ErrNoResults
	}

	return links, nil
}

func uniqueInOrder(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))

	for _, link := range links {
		if _, ok := seen[link]; ok {
			continue
		}

		seen[link] = struct{}{}
		out = append(out, link)
	}

	return out
}

func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
