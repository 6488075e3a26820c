package emailfinder

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// mailtoStrategy takes the first mailto: anchor on the page. Author-declared
// addresses are authoritative, so this runs before any text scan.
type mailtoStrategy struct{}

func (mailtoStrategy) Name() string { return "mailto" }

func (mailtoStrategy) Try(page *PageContent) (string, bool) {
	href, exists := page.Doc.Find("a[href^='mailto:']").First().Attr("href")
	if !exists {
		return "", false
	}

	email := strings.TrimPrefix(href, "mailto:")
	if i := strings.Index(email, "?"); i >= 0 {
		email = email[:i]
	}

	email = strings.TrimSpace(email)
	if !IsValidEmail(email) {
		return "", false
	}

	return email, true
}

// sourceStrategy sweeps the full lowercased page source with the pattern
// matcher.
type sourceStrategy struct{}

func (sourceStrategy) Name() string { return "source-regex" }

func (sourceStrategy) Try(page *PageContent) (string, bool) {
	return ExtractFirstValidEmail(page.Source)
}

// contactRegionSelectors are the regions a contact email usually lives in,
// tried in order.
var contactRegionSelectors = []string{
	"footer",
	"[class*='contact']",
	"[class*='footer']",
	"[id*='contact']",
	"[id*='footer']",
}

// maxRegionMatches caps how many elements per region selector are inspected.
const maxRegionMatches = 3

// visibleStrategy restricts the scan to probable contact regions.
type visibleStrategy struct{}

func (visibleStrategy) Name() string { return "visible-regions" }

func (visibleStrategy) Try(page *PageContent) (string, bool) {
	var (
		email string
		found bool
	)

	for _, selector := range contactRegionSelectors {
		page.Doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			if i >= maxRegionMatches {
				return false
			}

			email, found = ExtractFirstValidEmail(s.Text())

			return !found
		})

		if found {
			return email, true
		}
	}

	return "", false
}
