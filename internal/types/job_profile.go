// Package types provides type definitions for structured data used throughout the referral-scout system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Defaults applied by the job description interpreter when the extraction omits a field.
const (
	UnknownValue        = "Unknown"
	NotSpecifiedValue   = "Not specified"
	MaxResponsibilities = 5
)

// JobProfile represents a structured job posting extracted from raw job-description text.
// Every field is always populated; missing values carry the documented defaults.
type JobProfile struct {
	JobTitle            string   `json:"job_title"`
	CompanyName         string   `json:"company_name"`
	Location            string   `json:"location"`
	RequiredSkills      []string `json:"required_skills"`
	PreferredSkills     []string `json:"preferred_skills"`
	ExperienceRequired  string   `json:"experience_required"`
	KeyResponsibilities []string `json:"key_responsibilities"`
	Domain              string   `json:"domain"`
}

// TopRequiredSkills returns at most n required skills in extraction order.
func (p *JobProfile) TopRequiredSkills(n int) []string {
	if p == nil || n <= 0 {
		return nil
	}
	return p.RequiredSkills[:min(n, len(p.RequiredSkills))]
}
