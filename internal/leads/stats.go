package leads

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
)

const summaryReasonWidth = 40

// Stats aggregates per-run outcomes. Counters only ever increase and
// processed == saved + skipped holds after every call. The crawl loop is
// single-threaded, so no locking.
type Stats struct {
	Processed   int
	Saved       int
	Skipped     int
	SkipReasons map[string]int
}

func NewStats() *Stats {
	return &Stats{SkipReasons: make(map[string]int)}
}

// RecordSaved counts one persisted record.
func (s *Stats) RecordSaved() {
	s.Processed++
	s.Saved++
}

// RecordSkipped counts one rejected record under the given reason.
func (s *Stats) RecordSkipped(reason string) {
	s.Processed++
	s.Skipped++
	s.SkipReasons[reason]++
}

// SuccessRate returns saved/processed as a percentage, 0 when nothing has
// been processed yet.
func (s *Stats) SuccessRate() float64 {
	if s.Processed == 0 {
		return 0.0
	}

	return float64(s.Saved) / float64(s.Processed) * 100
}

// Summary renders the end-of-run box: totals, success/fail percentages and
// skip reasons sorted by descending count.
func (s *Stats) Summary() string {
	successRate := s.SuccessRate()
	failRate := float64(0)

	if s.Processed > 0 {
		failRate = 100 - successRate
	}

	lines := []string{
		"SCRAPING RESULTS",
		"",
		fmt.Sprintf("Processed : %4d businesses", s.Processed),
		fmt.Sprintf("Saved     : %4d businesses (%5.1f%%)", s.Saved, successRate),
		fmt.Sprintf("Skipped   : %4d businesses (%5.1f%%)", s.Skipped, failRate),
	}

	if len(s.SkipReasons) > 0 {
		lines = append(lines, "", "Skip reasons:")

		for _, rc := range s.sortedSkipReasons() {
			reason := rc.reason
			if runes := []rune(reason); len(runes) > summaryReasonWidth {
				reason = string(runes[:summaryReasonWidth])
			}

			lines = append(lines, fmt.Sprintf("  - %-*s : %3d", summaryReasonWidth, reason, rc.count))
		}
	}

	return box(lines)
}

type reasonCount struct {
	reason string
	count  int
}

func (s *Stats) sortedSkipReasons() []reasonCount {
	out := make([]reasonCount, 0, len(s.SkipReasons))
	for reason, count := range s.SkipReasons {
		out = append(out, reasonCount{reason, count})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}

		return out[i].reason < out[j].reason
	})

	return out
}

func box(lines []string) string {
	width := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}

	var b strings.Builder

	b.WriteString("╔" + strings.Repeat("═", width+2) + "╗\n")

	for _, line := range lines {
		padding := width - runewidth.StringWidth(line)
		b.WriteString("║ " + line + strings.Repeat(" ", padding) + " ║\n")
	}

	b.WriteString("╚" + strings.Repeat("═", width+2) + "╝")

	return b.String()
}
