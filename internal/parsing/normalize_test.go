package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to Go", "Golang", "Go"},
		{"GOLANG to Go", "GOLANG", "Go"},
		{"go lang to Go", "go  lang", "Go"},
		{"JS to JavaScript", "js", "JavaScript"},
		{"K8s to Kubernetes", "k8s", "Kubernetes"},
		{"postgres to PostgreSQL", "Postgres", "PostgreSQL"},
		{"sql uppercased", "sql", "SQL"},
		{"unknown keeps spelling", "dbt", "dbt"},
		{"acronym kept", "ETL", "ETL"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Multi-word stays as-is", " Data   Modeling ", "Data Modeling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "dedupes aliases and case",
			input:    []string{"Python", "python", "golang", "Go", "SQL", "sql"},
			expected: []string{"Python", "Go", "SQL"},
		},
		{
			name:     "drops blanks",
			input:    []string{"", "  ", "Airflow"},
			expected: []string{"Airflow"},
		},
		{
			name:     "nil input",
			input:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkills(tt.input))
		})
	}
}
