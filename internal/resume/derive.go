package resume

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/referral-scout/internal/types"
)

const (
	// MaxTokens bounds the raw text carried into prompts.
	MaxTokens = 2000
	// CharsPerToken is the rough token size used for truncation.
	CharsPerToken = 4
	// TruncationMarker is appended when raw text is cut.
	TruncationMarker = "\n[... truncated for token efficiency ...]"
	// MaxProjects caps the project list.
	MaxProjects = 10

	minCertificationLineLen = 10
	minProjectLineLen       = 5
	minProjectNameLen       = 3
	maxHeadingLen           = 50
)

var (
	explicitExperiencePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\+?\s*years?\s*(?:of\s+)?experience`),
		regexp.MustCompile(`(?i)experience\s*:?\s*(\d+)\+?\s*years?`),
	}
	yearPattern = regexp.MustCompile(`\b20\d{2}\b`)

	educationPatterns = []*regexp.Regexp{
		// Undotted BE/BS/MS/ME stay uppercase so words like "be" or "me" never match.
		regexp.MustCompile(`(?m)\b(?:(?i:[bm]\.?tech|ph\.?d\.?|mba|[bm]\.[es]\.?)|B\.?E\.?|B\.?S\.?|M\.?S\.?|M\.?E\.?)(?:[^A-Za-z\n][^,\n]*|$)`),
		regexp.MustCompile(`(?i)\b(?:Bachelor|Master|Doctor)[^,\n]*`),
	}

	projectsHeading   = regexp.MustCompile(`(?i)^(?:key\s+|personal\s+)?projects?\b`)
	sectionHeading    = regexp.MustCompile(`(?i)^(?:(?:work|professional|technical)\s+)?(?:experience|education|skills|certifications?|awards?)\b`)
	headingJoiner     = regexp.MustCompile(`(?i)^(?:[&(:/|,–—]|-\s|and\s)`)
	projectSeparator  = regexp.MustCompile(`\s*[|–—]\s*|\s+-\s+`)
	leadingBulletMark = regexp.MustCompile(`^[-*•·▪●]\s+`)
	shortWordLabel    = regexp.MustCompile(`^[A-Za-z0-9]{1,2}$`)

	shortLabelPatterns = compileShortLabels(skillVocabulary, toolVocabulary)
)

// Derive builds a profile from extracted resume text. Every rule is independent.
func Derive(text string) types.ResumeProfile {
	return types.ResumeProfile{
		RawText:         truncateText(text, MaxTokens),
		Skills:          matchVocabulary(text, skillVocabulary),
		ExperienceYears: extractExperienceYears(text),
		Education:       extractEducation(text),
		Certifications:  extractCertifications(text),
		Projects:        extractProjects(text),
		Tools:           matchVocabulary(text, toolVocabulary),
	}
}

// matchVocabulary returns the vocabulary labels found in text, in vocabulary order.
// Labels of one or two letters ("R", "Go") must stand alone as a word.
func matchVocabulary(text string, vocabulary []string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(vocabulary))
	found := make([]string, 0)
	for _, label := range vocabulary {
		key := strings.ToLower(label)
		if seen[key] {
			continue
		}
		if containsLabel(text, lower, label, key) {
			seen[key] = true
			found = append(found, label)
		}
	}
	return found
}

func containsLabel(text, lower, label, key string) bool {
	if re, ok := shortLabelPatterns[label]; ok {
		return re.MatchString(text)
	}
	return strings.Contains(lower, key)
}

func compileShortLabels(vocabularies ...[]string) map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, vocabulary := range vocabularies {
		for _, label := range vocabulary {
			if shortWordLabel.MatchString(label) {
				patterns[label] = regexp.MustCompile(`(?i)(?:^|[^A-Za-z0-9+#])` + regexp.QuoteMeta(label) + `(?:$|[^A-Za-z0-9+#])`)
			}
		}
	}
	return patterns
}

func extractExperienceYears(text string) string {
	for _, pattern := range explicitExperiencePatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			return m[1] + " years"
		}
	}

	years := yearPattern.FindAllString(text, -1)
	if len(years) == 0 {
		return "<1"
	}
	lowest, highest := 2100, 1999
	for _, y := range years {
		n, err := strconv.Atoi(y)
		if err != nil {
			continue
		}
		lowest = min(lowest, n)
		highest = max(highest, n)
	}
	span := highest - lowest
	if span <= 0 {
		return "<1"
	}
	return "~" + strconv.Itoa(span) + " years"
}

func extractEducation(text string) string {
	for _, pattern := range educationPatterns {
		if m := pattern.FindString(text); m != "" {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func extractCertifications(text string) []string {
	seen := make(map[string]bool)
	certs := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) <= minCertificationLineLen || seen[line] {
			continue
		}
		lower := strings.ToLower(line)
		for _, keyword := range certificationKeywords {
			if strings.Contains(lower, keyword) {
				seen[line] = true
				certs = append(certs, line)
				break
			}
		}
	}
	return certs
}

func extractProjects(text string) []string {
	projects := make([]string, 0)
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if isHeading(line, projectsHeading) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if isHeading(line, sectionHeading) {
			inSection = false
			continue
		}
		line = leadingBulletMark.ReplaceAllString(line, "")
		if len(line) <= minProjectLineLen {
			continue
		}
		name := strings.TrimSpace(projectSeparator.Split(line, 2)[0])
		if len(name) > minProjectNameLen {
			projects = append(projects, name)
			if len(projects) == MaxProjects {
				break
			}
		}
	}
	return projects
}

// isHeading reports whether line opens with the heading word and reads as a
// heading: nothing after it, an all-caps remainder, or a joiner such as
// "&", "(" or "and" ("PROJECTS & ACHIEVEMENTS", "Projects (Selected)").
func isHeading(line string, heading *regexp.Regexp) bool {
	if len(line) > maxHeadingLen {
		return false
	}
	loc := heading.FindStringIndex(line)
	if loc == nil {
		return false
	}
	rest := strings.TrimSpace(line[loc[1]:])
	if rest == "" || strings.ToUpper(rest) == rest {
		return true
	}
	return headingJoiner.MatchString(rest)
}

// truncateText cuts text to maxTokens*CharsPerToken characters and appends the marker.
func truncateText(text string, maxTokens int) string {
	maxChars := maxTokens * CharsPerToken
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + TruncationMarker
}
