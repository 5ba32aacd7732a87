// Package outreach drafts short connection-request messages for located referrals.
package outreach

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/prompts"
	"github.com/jonathan/referral-scout/internal/schemas"
	"github.com/jonathan/referral-scout/internal/types"
	"github.com/rivo/uniseg"
)

const (
	// MaxOutputTokens is the reply budget for the batched drafting call.
	MaxOutputTokens = 512
	// MaxMessageLength is the connection-request limit in user-perceived characters.
	MaxMessageLength = 280
	// NoProfileMessage fills slots whose candidate is a sentinel.
	NoProfileMessage = "N/A - no profile found for this slot."
	// FailedMessage fills slots the generator did not produce a usable draft for.
	FailedMessage = "[Message generation failed]"
	// DefaultProject is used when the resume lists no projects.
	DefaultProject = "data engineering pipeline project"

	truncationSuffix = "..."
	senderSkillCount = 5
	requirementCount = 3
	defaultJobTitle  = "Data Engineer"
	defaultCompany   = "the company"
)

// Composer drafts all messages for a row in a single generation call.
type Composer struct {
	client     llm.Client
	senderName string
	verbose    bool
}

// NewComposer creates a Composer that signs drafts as senderName.
func NewComposer(client llm.Client, senderName string, verbose bool) *Composer {
	return &Composer{client: client, senderName: senderName, verbose: verbose}
}

// Compose returns one message per candidate, in candidate order. Generation
// failures resolve to FailedMessage; only context cancellation is returned.
func (c *Composer) Compose(ctx context.Context, candidates []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) ([]string, error) {
	messages := make([]string, len(candidates))
	var real []int
	for i, candidate := range candidates {
		if candidate.IsSentinel() {
			messages[i] = NoProfileMessage
			continue
		}
		real = append(real, i)
	}
	if len(real) == 0 {
		return messages, nil
	}

	people := make([]types.ReferralCandidate, len(real))
	for n, i := range real {
		people[n] = candidates[i]
	}

	drafts, err := c.draft(ctx, people, resume, job)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.verbose {
			log.Printf("[OUTREACH] Batch generation failed, using placeholders: %v", err)
		}
	}

	for n, i := range real {
		msg := ""
		if n < len(drafts) {
			msg = drafts[n]
		}
		if msg == "" {
			msg = FailedMessage
		}
		messages[i] = msg
	}

	if c.verbose {
		c.audit(messages, real)
	}
	return messages, nil
}

// draft runs the batched call and returns cleaned messages aligned with people.
// A nil entry in the reply yields an empty draft.
func (c *Composer) draft(ctx context.Context, people []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) ([]string, error) {
	prompt := c.buildPrompt(people, resume, job)

	responseText, err := c.client.GenerateJSON(ctx, prompt, llm.TierLite, MaxOutputTokens)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate messages", Cause: err}
	}

	payload, err := llm.UnwrapJSON(responseText)
	if err != nil {
		return nil, &ParseError{Message: "no JSON array in reply", Cause: err}
	}
	if err := schemas.Validate(schemas.Messages, payload); err != nil {
		return nil, &ParseError{Message: "reply is not a list of messages", Cause: err}
	}

	var reply []*string
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	drafts := make([]string, min(len(reply), len(people)))
	for i := range drafts {
		if reply[i] != nil {
			drafts[i] = Clean(*reply[i])
		}
	}
	return drafts, nil
}

func (c *Composer) buildPrompt(people []types.ReferralCandidate, resume *types.ResumeProfile, job *types.JobProfile) string {
	jobTitle := orDefault(job.JobTitle, defaultJobTitle)
	company := orDefault(job.CompanyName, defaultCompany)

	blocks := make([]string, len(people))
	for i, p := range people {
		blocks[i] = fmt.Sprintf("PERSON %d:\n- Name: %s\n- Title: %s\n- Connection type: %s",
			i+1, p.Name, p.Title, p.Relationship)
	}

	template := prompts.MustGet("outreach.json", "compose-connection-requests")
	return prompts.Format(template, map[string]string{
		"Count":        strconv.Itoa(len(people)),
		"Company":      company,
		"SenderName":   c.senderName,
		"Skills":       strings.Join(resume.TopSkills(senderSkillCount), ", "),
		"Project":      resume.LeadProject(DefaultProject),
		"JobTitle":     jobTitle,
		"Requirements": strings.Join(job.TopRequiredSkills(requirementCount), ", "),
		"People":       strings.Join(blocks, "\n"),
	})
}

func orDefault(value, fallback string) string {
	if value == "" || value == types.UnknownValue {
		return fallback
	}
	return value
}

// Clean trims a draft, strips one layer of surrounding double quotes and
// truncates it to MaxMessageLength grapheme clusters.
func Clean(msg string) string {
	msg = strings.TrimSpace(msg)
	if len(msg) >= 2 && strings.HasPrefix(msg, `"`) && strings.HasSuffix(msg, `"`) {
		msg = msg[1 : len(msg)-1]
	}
	return Truncate(msg, MaxMessageLength)
}

// Truncate shortens msg to limit grapheme clusters, ending with "..." when cut.
func Truncate(msg string, limit int) string {
	if uniseg.GraphemeClusterCount(msg) <= limit {
		return msg
	}
	keep := limit - len(truncationSuffix)
	var sb strings.Builder
	state := -1
	rest := msg
	for n := 0; n < keep && rest != ""; n++ {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		sb.WriteString(cluster)
	}
	sb.WriteString(truncationSuffix)
	return sb.String()
}
