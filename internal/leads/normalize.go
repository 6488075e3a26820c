package leads

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	digitsOnlyRe   = regexp.MustCompile(`^\d+$`)
	phoneCleanupRe = regexp.MustCompile(`[^\d+\s()-]`)
	underscoreRunRe = regexp.MustCompile(`[_\s]+`)
)

// ExtractCity guesses the city from a comma-separated address. The second
// segment from the end is the usual candidate; when the last segment ends in
// a purely numeric token (a postal code) and a third segment exists, that one
// is taken instead. Best effort: anything unparseable yields "".
func ExtractCity(address string) string {
	if address == "" {
		return ""
	}

	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) < 2 {
		return ""
	}

	city := parts[len(parts)-2]

	lastTokens := strings.Fields(parts[len(parts)-1])
	if len(lastTokens) == 0 {
		return ""
	}

	if digitsOnlyRe.MatchString(lastTokens[len(lastTokens)-1]) && len(parts) > 2 {
		city = parts[len(parts)-3]
	}

	return city
}

// FormatPhone strips everything except digits, '+', whitespace, parentheses
// and hyphens, then trims surrounding whitespace.
func FormatPhone(raw string) string {
	if raw == "" {
		return ""
	}

	return strings.TrimSpace(phoneCleanupRe.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// TruncateFields caps every field at its declared maximum length. Over-long
// values are cut to max-3 runes with a "..." suffix so truncation stays
// visible in the output. Runs after scraping, before validation.
func TruncateFields(r Record) Record {
	for field, maxLen := range maxFieldLen {
		value := r.Get(field)

		runes := []rune(value)
		if len(runes) > maxLen {
			r.set(field, string(runes[:maxLen-3])+"...")
		}
	}

	return r
}

// DefaultFilenameLimit caps sanitized query filenames.
const DefaultFilenameLimit = 50

// SanitizeFilename turns free text into a safe lowercase filename stem:
// non-alphanumerics become underscores, runs of whitespace/underscores
// collapse to one underscore, edges are trimmed and length is capped.
func SanitizeFilename(text string, maxLength int) string {
	var b strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	sanitized := underscoreRunRe.ReplaceAllString(b.String(), "_")
	sanitized = strings.ToLower(strings.Trim(sanitized, "_"))

	runes := []rune(sanitized)
	if len(runes) > maxLength {
		sanitized = strings.TrimRight(string(runes[:maxLength]), "_")
	}

	return sanitized
}
