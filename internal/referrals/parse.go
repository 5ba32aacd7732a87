package referrals

import (
	"regexp"
	"strings"

	"github.com/jonathan/referral-scout/internal/search"
	"github.com/jonathan/referral-scout/internal/types"
)

const (
	profilePathMarker = "linkedin.com/in/"
	unknownName       = "Unknown"
	defaultTitle      = "Professional"
	snippetTitleRunes = 100
)

var (
	brandingSuffixes = []string{" | LinkedIn", " - LinkedIn"}
	snippetNameRe    = regexp.MustCompile(`^([A-Z][a-z]+ [A-Z][a-z]+)`)
)

// ParseResult converts a search hit into a candidate. Hits that are not
// personal profile pages are rejected. Relationship is left for the caller.
func ParseResult(r search.Result) (types.ReferralCandidate, bool) {
	if !strings.Contains(r.URL, profilePathMarker) {
		return types.ReferralCandidate{}, false
	}
	profileURL, _, _ := strings.Cut(r.URL, "?")

	name, title := splitResultTitle(r.Title)
	if name == "" && r.Snippet != "" {
		if m := snippetNameRe.FindStringSubmatch(r.Snippet); m != nil {
			name = m[1]
		}
	}
	if title == "" && r.Snippet != "" {
		title = firstRunes(r.Snippet, snippetTitleRunes)
	}

	if name == "" {
		name = unknownName
	}
	if title == "" {
		title = defaultTitle
	}
	return types.ReferralCandidate{Name: name, Title: title, URL: profileURL}, true
}

// splitResultTitle reads "Name - Headline | LinkedIn" style result titles.
func splitResultTitle(raw string) (name, title string) {
	for _, suffix := range brandingSuffixes {
		raw = strings.ReplaceAll(raw, suffix, "")
	}
	if raw == "" {
		return "", ""
	}
	name, title, _ = strings.Cut(raw, " - ")
	return strings.TrimSpace(name), strings.TrimSpace(title)
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
