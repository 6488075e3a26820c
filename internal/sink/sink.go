// Package sink persists accepted business records. Sinks are append-only
// from the run's point of view and flush periodically so a crash loses at
// most one flush interval of rows.
package sink

import (
	"fmt"
	"time"

	"github.com/kremlit/leadharvest/internal/leads"
)

// DefaultFlushInterval is the number of accepted rows between flushes.
const DefaultFlushInterval = 10

// Sink accepts validated records. Write may buffer; Flush bounds data loss;
// Close flushes and releases the underlying resource.
type Sink interface {
	Write(rec leads.Record) error
	Flush() error
	Close() error
}

const timestampLayout = "20060102_150405"

// Filename builds the `<sanitized-query>_<timestamp>` output stem plus
// extension, e.g. "travel_agent_jakarta_20260830_143000.csv".
func Filename(query string, now time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", leads.SanitizeFilename(query, leads.DefaultFilenameLimit), now.Format(timestampLayout), ext)
}
