// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"

	"github.com/jonathan/referral-scout/internal/prompts"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobRequirements", "BrandVoice")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JobDescriptionSchema returns the extraction schema for job descriptions.
// Extracts the eight fields every tracker row is interpreted into.
func JobDescriptionSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobDescription",
		Description: prompts.MustGet("parsing.json", "extract-job-profile"),
		Fields: []SchemaField{
			{
				Name:        "job_title",
				Type:        "\"string\"",
				Description: "Title of the advertised role",
				Required:    true,
			},
			{
				Name:        "company_name",
				Type:        "\"string\"",
				Description: "Hiring company",
				Required:    true,
			},
			{
				Name:        "location",
				Type:        "\"string\"",
				Description: "Office location or remote policy",
			},
			{
				Name:        "required_skills",
				Type:        "[\"string\"]",
				Description: "Must-have skills and technologies",
				Required:    true,
			},
			{
				Name:        "preferred_skills",
				Type:        "[\"string\"]",
				Description: "Nice-to-have skills and technologies",
			},
			{
				Name:        "experience_required",
				Type:        "\"string\"",
				Description: "Years or level of experience asked for",
			},
			{
				Name:        "key_responsibilities",
				Type:        "[\"string\"]",
				Description: "Main duties, max 5",
			},
			{
				Name:        "domain",
				Type:        "\"string\"",
				Description: "Business domain, e.g. \"Fintech\", \"HealthTech\", \"E-commerce\"",
			},
		},
	}
}
