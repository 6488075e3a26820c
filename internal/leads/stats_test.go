package leads

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsCounters(t *testing.T) {
	stats := NewStats()

	stats.RecordSaved()
	stats.RecordSaved()
	stats.RecordSaved()
	stats.RecordSkipped("Missing: email")

	assert.Equal(t, 4, stats.Processed)
	assert.Equal(t, 3, stats.Saved)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, map[string]int{"Missing: email": 1}, stats.SkipReasons)
	assert.InDelta(t, 75.0, stats.SuccessRate(), 0.001)
}

func TestStatsSuccessRateEmpty(t *testing.T) {
	assert.Equal(t, 0.0, NewStats().SuccessRate())
}

func TestStatsSkipReasonAggregation(t *testing.T) {
	stats := NewStats()

	stats.RecordSkipped("Missing: email")
	stats.RecordSkipped("Missing: email")
	stats.RecordSkipped("Missing: name, phone")

	assert.Equal(t, 3, stats.Skipped)
	assert.Equal(t, 2, stats.SkipReasons["Missing: email"])
	assert.Equal(t, 1, stats.SkipReasons["Missing: name, phone"])
}

func TestStatsSummary(t *testing.T) {
	stats := NewStats()

	stats.RecordSaved()
	stats.RecordSkipped("Missing: email")
	stats.RecordSkipped("Missing: email")
	stats.RecordSkipped("Already scraped (cache)")

	summary := stats.Summary()

	assert.Contains(t, summary, "SCRAPING RESULTS")
	assert.Contains(t, summary, "Processed :    4 businesses")
	assert.Contains(t, summary, "Saved     :    1 businesses ( 25.0%)")
	assert.Contains(t, summary, "Skipped   :    3 businesses ( 75.0%)")

	// Most frequent reason renders first.
	emailIdx := strings.Index(summary, "Missing: email")
	cacheIdx := strings.Index(summary, "Already scraped (cache)")
	require.NotEqual(t, -1, emailIdx)
	require.NotEqual(t, -1, cacheIdx)
	assert.Less(t, emailIdx, cacheIdx)
}

func TestStatsSummaryTruncatesLongReasons(t *testing.T) {
	stats := NewStats()
	longReason := strings.Repeat("x", 60)

	stats.RecordSkipped(longReason)

	summary := stats.Summary()

	assert.NotContains(t, summary, longReason)
	assert.Contains(t, summary, strings.Repeat("x", 40))
}

func TestStatsSummaryOmitsReasonsWhenClean(t *testing.T) {
	stats := NewStats()
	stats.RecordSaved()

	assert.NotContains(t, stats.Summary(), "Skip reasons:")
}
