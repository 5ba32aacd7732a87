package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/referral-scout/internal/llm"
	"github.com/jonathan/referral-scout/internal/schemas"
	"github.com/jonathan/referral-scout/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLLMClient implements llm.Client for testing
type MockLLMClient struct {
	GenerateJSONFunc func(ctx context.Context, prompt string, tier llm.ModelTier, maxTokens int) (string, error)
	Prompts          []string
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier, maxTokens int) (string, error) {
	return m.GenerateJSON(ctx, prompt, tier, maxTokens)
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier, maxTokens int) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier, maxTokens)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ llm.ModelTier) string { return "mock-model" }

func (m *MockLLMClient) Close() error { return nil }

func replyWith(text string) *MockLLMClient {
	return &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier, _ int) (string, error) {
			return text, nil
		},
	}
}

func TestInterpret_FullReply(t *testing.T) {
	client := replyWith(`{
		"job_title": "Senior Data Engineer",
		"company_name": "Acme",
		"location": "Remote (US)",
		"required_skills": ["Python", "golang", "SQL", "sql"],
		"preferred_skills": ["dbt"],
		"experience_required": "5+ years",
		"key_responsibilities": ["Build pipelines", "Own the warehouse"],
		"domain": "Fintech"
	}`)
	interpreter := NewInterpreter(client, false)

	profile, err := interpreter.Interpret(context.Background(), "We are hiring a Senior Data Engineer at Acme")

	require.NoError(t, err)
	assert.Equal(t, &types.JobProfile{
		JobTitle:            "Senior Data Engineer",
		CompanyName:         "Acme",
		Location:            "Remote (US)",
		RequiredSkills:      []string{"Python", "Go", "SQL"},
		PreferredSkills:     []string{"dbt"},
		ExperienceRequired:  "5+ years",
		KeyResponsibilities: []string{"Build pipelines", "Own the warehouse"},
		Domain:              "Fintech",
	}, profile)

	require.Len(t, client.Prompts, 1)
	assert.Contains(t, client.Prompts[0], "We are hiring a Senior Data Engineer at Acme")
	assert.Contains(t, client.Prompts[0], `"key_responsibilities"`)
}

func TestInterpret_AppliesDefaults(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "empty object", reply: `{}`},
		{name: "nulls", reply: `{"job_title": null, "company_name": null, "required_skills": null, "experience_required": null}`},
		{name: "blank strings", reply: `{"job_title": "  ", "location": "", "domain": "\n", "required_skills": ["", null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := NewInterpreter(replyWith(tt.reply), false).Interpret(context.Background(), "jd")

			require.NoError(t, err)
			assert.Equal(t, types.UnknownValue, profile.JobTitle)
			assert.Equal(t, types.UnknownValue, profile.CompanyName)
			assert.Equal(t, types.UnknownValue, profile.Location)
			assert.Equal(t, types.UnknownValue, profile.Domain)
			assert.Equal(t, types.NotSpecifiedValue, profile.ExperienceRequired)
			assert.NotNil(t, profile.RequiredSkills)
			assert.Empty(t, profile.RequiredSkills)
			assert.NotNil(t, profile.PreferredSkills)
			assert.NotNil(t, profile.KeyResponsibilities)
		})
	}
}

func TestInterpret_FencedReplyAndCaps(t *testing.T) {
	reply := "Here you go:\n```json\n" +
		`{"job_title": "Analytics Engineer", "experience_required": 3, "key_responsibilities": ["a1", "a2", "a3", "a4", "a5", "a6", "a7"]}` +
		"\n```"

	profile, err := NewInterpreter(replyWith(reply), false).Interpret(context.Background(), "jd")

	require.NoError(t, err)
	assert.Equal(t, "Analytics Engineer", profile.JobTitle)
	assert.Equal(t, "3 years", profile.ExperienceRequired)
	assert.Equal(t, []string{"a1", "a2", "a3", "a4", "a5"}, profile.KeyResponsibilities)
}

func TestInterpret_ServiceFailure(t *testing.T) {
	client := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ llm.ModelTier, _ int) (string, error) {
			return "", errors.New("service unavailable")
		},
	}

	profile, err := NewInterpreter(client, false).Interpret(context.Background(), "jd")

	assert.Nil(t, profile)
	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, err.Error(), "service unavailable")
}

func TestInterpret_UnparseableReply(t *testing.T) {
	profile, err := NewInterpreter(replyWith("Sorry, I cannot help with that."), false).Interpret(context.Background(), "jd")

	assert.Nil(t, profile)
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, llm.ErrNoPayload)
}

func TestInterpret_WrongShape(t *testing.T) {
	_, err := NewInterpreter(replyWith(`{"required_skills": "Python, SQL"}`), false).Interpret(context.Background(), "jd")

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestInterpret_EmptyText(t *testing.T) {
	client := replyWith(`{}`)

	_, err := NewInterpreter(client, false).Interpret(context.Background(), "   ")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, client.Prompts, "no call should be made for empty text")
}
