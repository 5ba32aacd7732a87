// Package parsing interprets raw job description text into a fully populated JobProfile.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/schemas"
	"github.com/jonathan/referral-scout/internal/types"
)

// MaxOutputTokens is the reply budget for job description extraction.
const MaxOutputTokens = 1024

// Interpreter extracts structured job profiles through the text completion service.
type Interpreter struct {
	client  llm.Client
	verbose bool
}

// NewInterpreter creates an Interpreter around client. The client is expected to
// carry the retry policy.
func NewInterpreter(client llm.Client, verbose bool) *Interpreter {
	return &Interpreter{client: client, verbose: verbose}
}

// jobProfileReply mirrors the reply schema; every field may be missing or null.
type jobProfileReply struct {
	JobTitle            *string   `json:"job_title"`
	CompanyName         *string   `json:"company_name"`
	Location            *string   `json:"location"`
	RequiredSkills      []*string `json:"required_skills"`
	PreferredSkills     []*string `json:"preferred_skills"`
	ExperienceRequired  any       `json:"experience_required"`
	KeyResponsibilities []*string `json:"key_responsibilities"`
	Domain              *string   `json:"domain"`
}

// Interpret extracts a JobProfile from rawText. The result is never partially shaped:
// absent fields take their documented defaults.
func (i *Interpreter) Interpret(ctx context.Context, rawText string) (*types.JobProfile, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, &ValidationError{Field: "job_description", Message: "text is empty"}
	}

	prompt := llm.BuildExtractionPrompt(llm.JobDescriptionSchema(), rawText)

	responseText, err := i.client.GenerateJSON(ctx, prompt, llm.TierStandard, MaxOutputTokens)
	if err != nil {
		return nil, &APICallError{
			Message: "failed to extract job profile",
			Cause:   err,
		}
	}

	profile, err := parseJobProfileReply(responseText)
	if err != nil {
		return nil, err
	}

	if i.verbose {
		log.Printf("[PARSE] %s at %s (%d required skills)", profile.JobTitle, profile.CompanyName, len(profile.RequiredSkills))
	}
	return profile, nil
}

// parseJobProfileReply unwraps, validates and completes a generator reply
func parseJobProfileReply(responseText string) (*types.JobProfile, error) {
	payload, err := llm.UnwrapJSON(responseText)
	if err != nil {
		return nil, &ParseError{Message: "no JSON object in reply", Cause: err}
	}

	if err := schemas.Validate(schemas.JobProfile, payload); err != nil {
		return nil, &ParseError{Message: "reply does not match job profile shape", Cause: err}
	}

	var reply jobProfileReply
	if err := json.Unmarshal([]byte(payload), &reply); err != nil {
		return nil, &ParseError{Message: "failed to parse JSON response", Cause: err}
	}

	return completeProfile(&reply), nil
}

// completeProfile applies defaults and normalization to every field
func completeProfile(reply *jobProfileReply) *types.JobProfile {
	responsibilities := compactStrings(reply.KeyResponsibilities)
	if len(responsibilities) > types.MaxResponsibilities {
		responsibilities = responsibilities[:types.MaxResponsibilities]
	}

	return &types.JobProfile{
		JobTitle:            stringOr(reply.JobTitle, types.UnknownValue),
		CompanyName:         stringOr(reply.CompanyName, types.UnknownValue),
		Location:            stringOr(reply.Location, types.UnknownValue),
		RequiredSkills:      NormalizeSkills(compactStrings(reply.RequiredSkills)),
		PreferredSkills:     NormalizeSkills(compactStrings(reply.PreferredSkills)),
		ExperienceRequired:  experienceOr(reply.ExperienceRequired, types.NotSpecifiedValue),
		KeyResponsibilities: responsibilities,
		Domain:              stringOr(reply.Domain, types.UnknownValue),
	}
}

func stringOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	if trimmed := strings.TrimSpace(*value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func experienceOr(value any, fallback string) string {
	switch v := value.(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64) + " years"
	case nil:
	default:
		return fmt.Sprint(v)
	}
	return fallback
}

func compactStrings(values []*string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
