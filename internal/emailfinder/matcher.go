package emailfinder

import (
	"regexp"
	"strings"
)

const (
	emailMinLength = 5
	emailMaxLength = 256
)

var (
	// Simplified RFC 5322: alphanumeric start on both sides of the '@',
	// local part capped at 64 chars, TLD of at least two letters.
	emailValidRe   = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._%+-]{0,63}@[a-zA-Z0-9][a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	emailExtractRe = regexp.MustCompile(`[a-zA-Z0-9][a-zA-Z0-9._%+-]{0,63}@[a-zA-Z0-9][a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// Placeholder domains that show up in site templates and never belong to the
// business itself.
var blacklistedSubstrings = []string{
	"example.com",
	"domain.com",
	"test.com",
	"sample.com",
	"your-domain.com",
	"yourdomain.com",
	"website.com",
}

// Image filenames like hero@2x.jpg match the email grammar; any of these
// substrings disqualifies a candidate.
var imageExtensions = []string{
	".png",
	".jpg",
	".jpeg",
	".gif",
	".svg",
	".webp",
	".bmp",
	".ico",
}

// IsValidEmail reports whether the candidate passes length bounds, the email
// grammar, the placeholder-domain blacklist and the image-extension filter.
func IsValidEmail(candidate string) bool {
	if len(candidate) < emailMinLength || len(candidate) > emailMaxLength {
		return false
	}

	if !emailValidRe.MatchString(candidate) {
		return false
	}

	lower := strings.ToLower(candidate)

	for _, blacklisted := range blacklistedSubstrings {
		if strings.Contains(lower, blacklisted) {
			return false
		}
	}

	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return false
		}
	}

	return true
}

// ExtractFirstValidEmail scans the lowercased text in document order and
// returns the first candidate that passes IsValidEmail. The first match that
// is both syntactically plausible and policy-valid wins, not merely the
// first syntactic match.
func ExtractFirstValidEmail(text string) (string, bool) {
	if text == "" {
		return "", false
	}

	for _, match := range emailExtractRe.FindAllString(strings.ToLower(text), -1) {
		if IsValidEmail(match) {
			return match, true
		}
	}

	return "", false
}
