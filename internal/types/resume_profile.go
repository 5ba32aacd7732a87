package types

import "time"

// ResumeProfile is the structured, cached view of a resume document.
type ResumeProfile struct {
	RawText         string    `json:"raw_text"`
	Skills          []string  `json:"skills"`
	ExperienceYears string    `json:"experience_years"`
	Education       string    `json:"education"`
	Certifications  []string  `json:"certifications"`
	Projects        []string  `json:"projects"`
	Tools           []string  `json:"tools"`
	SourceModTime   time.Time `json:"source_mod_time"`
}

// TopSkills returns at most n skills.
func (p *ResumeProfile) TopSkills(n int) []string {
	if p == nil || n <= 0 {
		return nil
	}
	return p.Skills[:min(n, len(p.Skills))]
}

// LeadProject returns the first project name, or fallback when none were found.
func (p *ResumeProfile) LeadProject(fallback string) string {
	if p == nil || len(p.Projects) == 0 {
		return fallback
	}
	return p.Projects[0]
}
