// Package scraperunner is the main run mode: search, collect, then the
// single-threaded per-record pipeline of scrape, normalize, discover email,
// validate and persist.
package scraperunner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kremlit/leadharvest/gmaps"
	"github.com/kremlit/leadharvest/internal/browser"
	"github.com/kremlit/leadharvest/internal/dedup"
	"github.com/kremlit/leadharvest/internal/emailfinder"
	"github.com/kremlit/leadharvest/internal/emailverify"
	"github.com/kremlit/leadharvest/internal/leads"
	"github.com/kremlit/leadharvest/internal/sink"
	"github.com/kremlit/leadharvest/runner"
	"github.com/kremlit/leadharvest/tlmt"
)

const dedupSkipReason = "Already scraped (cache)"

// Runner owns the browser and runs each query to completion.
type Runner struct {
	cfg      *runner.Config
	log      *zap.SugaredLogger
	driver   *browser.Driver
	finder   *emailfinder.Finder
	verifier emailverify.Verifier
	cache    *dedup.Cache
	tel      tlmt.Telemetry
}

// New launches the browser and wires the pipeline. A browser that fails to
// launch aborts the whole run.
func New(cfg *runner.Config, log *zap.SugaredLogger) (*Runner, error) {
	driver, err := browser.Launch(browser.Options{
		Headless: !cfg.Debug,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    cfg,
		log:    log,
		driver: driver,
		finder: emailfinder.New(driver,
			emailfinder.WithTimeout(cfg.EmailTimeout),
			emailfinder.WithLogger(log),
		),
		verifier: emailverify.NoOp{},
		tel:      runner.Telemetry(cfg),
	}

	if cfg.VerifyEmails {
		r.verifier = &emailverify.Local{CheckHost: cfg.VerifyHost}
	}

	if cfg.DedupCache != "" {
		cache, err := dedup.Open(cfg.DedupCache)
		if err != nil {
			log.Warnw("dedup cache unavailable, continuing without", "path", cfg.DedupCache, "error", err)
		} else {
			r.cache = cache
		}
	}

	return r, nil
}

// Run processes every configured query in order, stopping cleanly on
// cancellation.
func (r *Runner) Run(ctx context.Context) error {
	queries, err := r.queries()
	if err != nil {
		return err
	}

	for _, query := range queries {
		if ctx.Err() != nil {
			break
		}

		if err := r.runQuery(ctx, query); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}

			if errors.Is(err, gmaps.ErrNoResults) {
				r.log.Warnw("no results, skipping query", "query", query)

				continue
			}

			return err
		}
	}

	return nil
}

// Close releases the dedup cache and the browser.
func (r *Runner) Close(context.Context) error {
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.log.Warnw("dedup cache close failed", "error", err)
		}
	}

	return r.driver.Close()
}

func (r *Runner) queries() ([]string, error) {
	var queries []string

	if q := strings.TrimSpace(r.cfg.Query); q != "" {
		queries = append(queries, q)
	}

	if r.cfg.InputFile != "" {
		f, err := os.Open(r.cfg.InputFile)
		if err != nil {
			return nil, fmt.Errorf("open input file: %w", err)
		}

		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				queries = append(queries, line)
			}
		}

		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read input file: %w", err)
		}
	}

	if len(queries) == 0 {
		return nil, runner.ErrNoQuery
	}

	return queries, nil
}

func (r *Runner) runQuery(ctx context.Context, query string) error {
	r.log.Infow("run starting",
		"query", query,
		"validation", r.cfg.Policy.String(),
		"max_scrolls", r.cfg.MaxScrolls,
	)

	if err := gmaps.Search(ctx, r.driver, query, r.log); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	links, err := gmaps.CollectLinks(ctx, r.driver, r.cfg.MaxScrolls, r.log)
	if err != nil {
		return err
	}

	sinks, outPath, err := r.openSinks(ctx, query)
	if err != nil {
		return err
	}

	stats := leads.NewStats()

	_ = r.tel.Send(ctx, tlmt.NewEvent("run_started", map[string]any{
		"validation": r.cfg.Policy.String(),
		"links":      len(links),
	}))

	runErr := r.processLinks(ctx, links, sinks, stats)

	for _, s := range sinks {
		if err := s.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("close sink: %w", err)
		}
	}

	fmt.Fprintln(os.Stderr, stats.Summary())

	r.log.Infow("run finished",
		"query", query,
		"output", outPath,
		"processed", stats.Processed,
		"saved", stats.Saved,
		"skipped", stats.Skipped,
	)

	_ = r.tel.Send(ctx, tlmt.NewEvent("run_finished", map[string]any{
		"processed": stats.Processed,
		"saved":     stats.Saved,
		"skipped":   stats.Skipped,
	}))

	return runErr
}

// processLinks is the per-record loop. Cancellation is checked between
// records only, so a record is always persisted whole or not at all.
func (r *Runner) processLinks(ctx context.Context, links []string, sinks []sink.Sink, stats *leads.Stats) error {
	total := len(links)

	for i, link := range links {
		if ctx.Err() != nil {
			r.log.Warn("shutdown requested, flushing persisted records")

			break
		}

		if r.cache != nil {
			seen, err := r.cache.Seen(link)
			if err != nil {
				r.log.Debugw("dedup lookup failed", "url", link, "error", err)
			} else if seen {
				stats.RecordSkipped(dedupSkipReason)

				continue
			}
		}

		raw, err := gmaps.ScrapePlace(ctx, r.driver, link)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				break
			}

			// Partial data still flows through validation, which decides
			// whether what was scraped is enough.
			r.log.Warnw("detail page scrape incomplete", "url", link, "error", err)
		}

		if raw.Website != "" {
			raw.Email = r.discoverEmail(ctx, raw.Website)
		}

		rec, accepted, reason := leads.Process(raw, r.cfg.Policy)

		if !accepted {
			stats.RecordSkipped(reason)

			r.log.Warnw("record skipped", "name", displayName(rec), "reason", reason)

			continue
		}

		for _, s := range sinks {
			if err := s.Write(rec); err != nil {
				return fmt.Errorf("persist record: %w", err)
			}
		}

		stats.RecordSaved()

		if r.cache != nil {
			if err := r.cache.MarkSeen(link); err != nil {
				r.log.Debugw("dedup mark failed", "url", link, "error", err)
			}
		}

		r.log.Infow("record saved",
			"progress", fmt.Sprintf("%d/%d", i+1, total),
			"rate", fmt.Sprintf("%.1f%%", stats.SuccessRate()),
			"name", displayName(rec),
			"email", rec.Email,
		)
	}

	return nil
}

func (r *Runner) discoverEmail(ctx context.Context, website string) string {
	email := r.finder.Find(ctx, website)
	if email == "" || !r.cfg.VerifyEmails {
		return email
	}

	result, err := r.verifier.Verify(ctx, email)
	if err != nil {
		r.log.Debugw("email verification errored, keeping address", "email", email, "error", err)

		return email
	}

	if !result.Deliverable {
		r.log.Debugw("email dropped by verification", "email", email, "reason", result.Reason)

		return ""
	}

	return result.Email
}

func (r *Runner) openSinks(ctx context.Context, query string) ([]sink.Sink, string, error) {
	if err := os.MkdirAll(r.cfg.ResultsDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create results dir: %w", err)
	}

	outPath := filepath.Join(r.cfg.ResultsDir, sink.Filename(query, time.Now(), r.cfg.Format))

	var sinks []sink.Sink

	switch r.cfg.Format {
	case "xlsx":
		s, err := sink.NewXLSXSink(outPath, r.cfg.Flush)
		if err != nil {
			return nil, "", err
		}

		sinks = append(sinks, s)
	default:
		s, err := sink.NewCSVSink(outPath, r.cfg.Flush)
		if err != nil {
			return nil, "", err
		}

		sinks = append(sinks, s)
	}

	if r.cfg.Dsn != "" {
		s, err := sink.NewPostgresSink(ctx, r.cfg.Dsn, r.cfg.Flush)
		if err != nil {
			for _, opened := range sinks {
				_ = opened.Close()
			}

			return nil, "", err
		}

		sinks = append(sinks, s)
	}

	r.log.Infow("results file opened", "path", outPath)

	return sinks, outPath, nil
}

func displayName(rec leads.Record) string {
	if rec.Name == "" {
		return "(no name)"
	}

	if runes := []rune(rec.Name); len(runes) > 35 {
		return string(runes[:35])
	}

	return rec.Name
}
