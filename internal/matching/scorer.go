// Package matching scores a resume profile against a job profile.
package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/prompts"
	"github.com/jonathan/referral-scout/internal/schemas"
	"github.com/jonathan/referral-scout/internal/types"
)

const (
	// MaxOutputTokens is the reply budget for a scoring call.
	MaxOutputTokens = 1024
	// DefaultPercentage is used when the reply carries no usable score.
	DefaultPercentage = 50
	// FillerImprovement pads the improvements list up to three entries.
	FillerImprovement = "Review the full job description for additional requirements"
)

// Scorer asks the text completion service for a weighted fit judgement.
type Scorer struct {
	client  llm.Client
	verbose bool
}

// NewScorer creates a Scorer around client.
func NewScorer(client llm.Client, verbose bool) *Scorer {
	return &Scorer{client: client, verbose: verbose}
}

// matchReply represents the expected JSON response from the LLM.
type matchReply struct {
	MatchPercentage json.RawMessage `json:"match_percentage"`
	Improvements    []*string       `json:"improvements"`
}

// Score returns the match percentage clamped to [0,100] and at least three improvements.
func (s *Scorer) Score(ctx context.Context, resume *types.ResumeProfile, job *types.JobProfile, rawJobText string) (*types.MatchResult, error) {
	prompt := buildScorePrompt(resume, job, rawJobText)

	responseText, err := s.client.GenerateJSON(ctx, prompt, llm.TierAdvanced, MaxOutputTokens)
	if err != nil {
		return nil, &APICallError{Message: "failed to score match", Cause: err}
	}

	result, err := parseMatchReply(responseText)
	if err != nil {
		return nil, err
	}

	if s.verbose {
		log.Printf("[MATCH] %d%% for %s at %s", result.MatchPercentage, job.JobTitle, job.CompanyName)
	}
	return result, nil
}

func buildScorePrompt(resume *types.ResumeProfile, job *types.JobProfile, rawJobText string) string {
	template := prompts.MustGet("matching.json", "score-match")
	return prompts.Format(template, map[string]string{
		"ResumeDigest": resumeDigest(resume),
		"JobDigest":    jobDigest(job),
		"ResumeText":   resume.RawText,
		"JobText":      rawJobText,
	})
}

func resumeDigest(resume *types.ResumeProfile) string {
	var sb strings.Builder
	writeDigestLine(&sb, "Skills", strings.Join(resume.Skills, ", "))
	writeDigestLine(&sb, "Tools", strings.Join(resume.Tools, ", "))
	writeDigestLine(&sb, "Experience", resume.ExperienceYears)
	writeDigestLine(&sb, "Education", resume.Education)
	writeDigestLine(&sb, "Certifications", strings.Join(resume.Certifications, "; "))
	writeDigestLine(&sb, "Projects", strings.Join(resume.Projects, "; "))
	return strings.TrimRight(sb.String(), "\n")
}

func jobDigest(job *types.JobProfile) string {
	var sb strings.Builder
	writeDigestLine(&sb, "Role", fmt.Sprintf("%s at %s (%s)", job.JobTitle, job.CompanyName, job.Location))
	writeDigestLine(&sb, "Required skills", strings.Join(job.RequiredSkills, ", "))
	writeDigestLine(&sb, "Preferred skills", strings.Join(job.PreferredSkills, ", "))
	writeDigestLine(&sb, "Experience required", job.ExperienceRequired)
	writeDigestLine(&sb, "Domain", job.Domain)
	return strings.TrimRight(sb.String(), "\n")
}

func writeDigestLine(sb *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "none listed"
	}
	sb.WriteString("- ")
	sb.WriteString(label)
	sb.WriteString(": ")
	sb.WriteString(value)
	sb.WriteString("\n")
}

// parseMatchReply unwraps the reply and enforces the local invariants
func parseMatchReply(responseText string) (*types.MatchResult, error) {
	payload, err := llm.UnwrapJSON(responseText)
	if err != nil {
		return nil, &ParseError{Message: "no JSON object in reply", Cause: err}
	}

	if err := schemas.Validate(schemas.MatchResult, payload); err != nil {
		return nil, &ParseError{Message: "reply does not match scoring shape", Cause: err}
	}

	var reply matchReply
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	return &types.MatchResult{
		MatchPercentage: ClampPercentage(parsePercentage(reply.MatchPercentage)),
		Improvements:    PadImprovements(reply.Improvements),
	}, nil
}

// parsePercentage accepts 74, 74.9, "74" and "74%"; anything else yields DefaultPercentage.
func parsePercentage(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return DefaultPercentage
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return truncateToInt(number)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		text = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "%"))
		if parsed, err := strconv.ParseFloat(text, 64); err == nil {
			return truncateToInt(parsed)
		}
	}
	return DefaultPercentage
}

func truncateToInt(v float64) int {
	if math.IsNaN(v) {
		return DefaultPercentage
	}
	if math.IsInf(v, 1) || v > 100 {
		return 100
	}
	if math.IsInf(v, -1) || v < 0 {
		return 0
	}
	return int(v)
}

// ClampPercentage bounds pct to [0,100].
func ClampPercentage(pct int) int {
	return max(0, min(100, pct))
}

// PadImprovements drops blank entries and appends FillerImprovement until there are
// three. Longer lists are kept whole.
func PadImprovements(raw []*string) []string {
	improvements := make([]string, 0, types.ImprovementCount)
	for _, item := range raw {
		if item == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*item); trimmed != "" {
			improvements = append(improvements, trimmed)
		}
	}
	for len(improvements) < types.ImprovementCount {
		improvements = append(improvements, FillerImprovement)
	}
	return improvements
}
