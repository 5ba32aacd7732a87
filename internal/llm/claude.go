// Package llm - claude.go implements Client over the Anthropic Messages API.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	claudeDefaultBaseURL = "https://api.anthropic.com"
	claudeAPIVersion     = "2023-06-01"
)

// ClaudeClient implements Client for Anthropic Claude
type ClaudeClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	config  *Config
}

type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float32         `json:"temperature"`
	Messages    []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type claudeErrorBody struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClaudeClient creates a Claude client. A nil httpClient uses a default client.
func NewClaudeClient(config *Config, apiKey string, httpClient *http.Client) (*ClaudeClient, error) {
	if apiKey == "" {
		return nil, &ConfigError{Message: "API key is required"}
	}
	if config == nil {
		config = DefaultAnthropicConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ClaudeClient{
		apiKey:  apiKey,
		baseURL: claudeDefaultBaseURL,
		http:    httpClient,
		config:  config,
	}, nil
}

// WithBaseURL points the client at a different API host.
func (c *ClaudeClient) WithBaseURL(baseURL string) *ClaudeClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// GenerateContent generates text content using the specified model tier
func (c *ClaudeClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	return c.send(ctx, prompt, tier, maxTokens)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *ClaudeClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	text, err := c.send(ctx, prompt, tier, maxTokens)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *ClaudeClient) send(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return "", &ConfigError{Message: fmt.Sprintf("no model configured for tier %s", tier)}
	}

	body, err := json.Marshal(claudeRequest{
		Model:       modelName,
		MaxTokens:   normalizeMaxTokens(maxTokens),
		Temperature: c.config.Temperature,
		Messages:    []claudeMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.callTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", claudeAPIVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errBody claudeErrorBody
		msg := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error.Message != "" {
			msg = errBody.Error.Message
		}
		return "", &APIError{Provider: ProviderAnthropic, StatusCode: resp.StatusCode, Message: msg}
	}

	var parsed claudeResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	var parts []string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.TrimSpace(strings.Join(parts, "")), nil
}

// GetModel returns the model name for a tier
func (c *ClaudeClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *ClaudeClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}
