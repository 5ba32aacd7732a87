// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)```")
	fencedAnyPattern  = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*\\s*(.*?)```")
)

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Preamble or trailing chatter around a bare payload
	if candidates := balancedCandidates(text); len(candidates) > 0 {
		for _, found := range candidates {
			if json.Valid([]byte(found)) {
				return found
			}
		}
		return candidates[0]
	}

	return text
}

// UnwrapJSON recovers the structured payload from a generator reply. It looks for a
// fenced json block first, then any fenced block, then the first balanced object or
// array in the raw text.
func UnwrapJSON(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", &PayloadError{Reply: text}
	}

	if m := fencedJSONPattern.FindStringSubmatch(trimmed); m != nil {
		if candidate := strings.TrimSpace(m[1]); json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	for _, m := range fencedAnyPattern.FindAllStringSubmatch(trimmed, -1) {
		if candidate := strings.TrimSpace(m[1]); json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	if json.Valid([]byte(trimmed)) && (strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")) {
		return trimmed, nil
	}

	var lastErr error
	for _, candidate := range balancedCandidates(trimmed) {
		var payload any
		if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
			lastErr = err
			continue
		}
		return candidate, nil
	}
	return "", &PayloadError{Reply: text, Cause: lastErr}
}

// balancedCandidates returns every balanced object or array in text, in order of
// their opening bracket. Brackets inside an earlier candidate are not revisited.
func balancedCandidates(text string) []string {
	var candidates []string
	for i := 0; i < len(text); i++ {
		var found string
		switch text[i] {
		case '{':
			found = extractJSONObject(text[i:])
		case '[':
			found = extractJSONArray(text[i:])
		}
		if found == "" {
			continue
		}
		candidates = append(candidates, found)
		if json.Valid([]byte(found)) {
			i += len(found) - 1
		}
	}
	return candidates
}

// extractJSONObject returns the balanced object at the start of s, or "".
func extractJSONObject(s string) string {
	return extractBalanced(s, '{', '}')
}

// extractJSONArray returns the balanced array at the start of s, or "".
func extractJSONArray(s string) string {
	return extractBalanced(s, '[', ']')
}

func extractBalanced(s string, open, closer byte) string {
	if len(s) == 0 || s[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
