package outreach

import (
	"log"
	"strings"

	"github.com/jonathan/referral-scout/internal/prompts"
)

// Audit lists the tone-contract breaches in a draft: stock phrases, em dashes
// and semicolons. It only reports; drafts are never rewritten.
func Audit(msg string) []string {
	lower := strings.ToLower(msg)
	var findings []string
	for _, phrase := range stockPhrases() {
		if strings.Contains(lower, phrase) {
			findings = append(findings, "stock phrase "+`"`+phrase+`"`)
		}
	}
	if strings.ContainsRune(msg, '—') {
		findings = append(findings, "em dash")
	}
	if strings.ContainsRune(msg, ';') {
		findings = append(findings, "semicolon")
	}
	return findings
}

func (c *Composer) audit(messages []string, real []int) {
	for _, i := range real {
		if messages[i] == FailedMessage {
			continue
		}
		if findings := Audit(messages[i]); len(findings) > 0 {
			log.Printf("[OUTREACH] Message %d breaks tone rules: %s", i+1, strings.Join(findings, ", "))
		}
	}
}

func stockPhrases() []string {
	phrases, err := prompts.Lines("outreach.json", "stock-phrases")
	if err != nil {
		return nil
	}
	return phrases
}
