package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MockLLMClient implements Client for testing
type MockLLMClient struct {
	GenerateContentFunc func(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error)
	GenerateJSONFunc    func(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error)
	Calls               int
	Closed              bool
}

func (m *MockLLMClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	m.Calls++
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, prompt, tier, maxTokens)
	}
	return "", nil
}

func (m *MockLLMClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	m.Calls++
	if m.GenerateJSONFunc != nil {
		return m.GenerateJSONFunc(ctx, prompt, tier, maxTokens)
	}
	return "{}", nil
}

func (m *MockLLMClient) GetModel(_ ModelTier) string {
	return "mock-model"
}

func (m *MockLLMClient) Close() error {
	m.Closed = true
	return nil
}

type recordedSleeps struct {
	durations []time.Duration
}

func (r *recordedSleeps) sleep(ctx context.Context, d time.Duration) error {
	r.durations = append(r.durations, d)
	return ctx.Err()
}

func TestRetryingClient_RetriesTransientFailureOnce(t *testing.T) {
	attempts := 0
	mock := &MockLLMClient{
		GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier, _ int) (string, error) {
			attempts++
			if attempts == 1 {
				return "", &APIError{Provider: ProviderAnthropic, StatusCode: 529, Message: "overloaded"}
			}
			return `{"ok": true}`, nil
		},
	}
	sleeps := &recordedSleeps{}
	client := NewRetryingClient(mock, 0, false).WithSleep(sleeps.sleep)

	result, err := client.GenerateJSON(context.Background(), "prompt", TierStandard, 100)

	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, result)
	assert.Equal(t, 2, mock.Calls)
	assert.Equal(t, []time.Duration{DefaultRetryCooldown}, sleeps.durations)
}

func TestRetryingClient_SecondFailurePropagates(t *testing.T) {
	mock := &MockLLMClient{
		GenerateContentFunc: func(_ context.Context, _ string, _ ModelTier, _ int) (string, error) {
			return "", errors.New("connection reset")
		},
	}
	sleeps := &recordedSleeps{}
	client := NewRetryingClient(mock, time.Second, true).WithSleep(sleeps.sleep)

	_, err := client.GenerateContent(context.Background(), "prompt", TierLite, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Equal(t, 2, mock.Calls)
	assert.Equal(t, []time.Duration{time.Second}, sleeps.durations)
}

func TestRetryingClient_DoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "config error", err: &ConfigError{Message: "API key is required"}},
		{name: "bad request", err: &APIError{Provider: ProviderAnthropic, StatusCode: 400, Message: "bad"}},
		{name: "cancelled", err: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockLLMClient{
				GenerateJSONFunc: func(_ context.Context, _ string, _ ModelTier, _ int) (string, error) {
					return "", tt.err
				},
			}
			sleeps := &recordedSleeps{}
			client := NewRetryingClient(mock, time.Second, false).WithSleep(sleeps.sleep)

			_, err := client.GenerateJSON(context.Background(), "prompt", TierAdvanced, 10)

			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mock.Calls)
			assert.Empty(t, sleeps.durations)
		})
	}
}

func TestRetryingClient_Delegates(t *testing.T) {
	mock := &MockLLMClient{}
	client := NewRetryingClient(mock, time.Second, false)

	assert.Equal(t, "mock-model", client.GetModel(TierLite))
	require.NoError(t, client.Close())
	assert.True(t, mock.Closed)
}

func grpcAPIError(t *testing.T, code codes.Code) error {
	t.Helper()
	apiErr, ok := apierror.FromError(status.Error(code, "from server"))
	require.True(t, ok)
	return apiErr
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "rate limited", err: &APIError{StatusCode: 429}, expected: true},
		{name: "server error", err: &APIError{StatusCode: 503}, expected: true},
		{name: "timeout status", err: &APIError{StatusCode: 408}, expected: true},
		{name: "unauthorized", err: &APIError{StatusCode: 401}, expected: false},
		{name: "config", err: &ConfigError{Message: "x"}, expected: false},
		{name: "unknown network error", err: errors.New("dial tcp: i/o timeout"), expected: true},
		{name: "cancelled", err: fmt.Errorf("generate: %w", context.Canceled), expected: false},
		{name: "gemini bad request", err: fmt.Errorf("generate: %w", &googleapi.Error{Code: 400}), expected: false},
		{name: "gemini forbidden", err: &googleapi.Error{Code: 403}, expected: false},
		{name: "gemini quota", err: &googleapi.Error{Code: 429}, expected: true},
		{name: "gemini unavailable", err: &googleapi.Error{Code: 503}, expected: true},
		{name: "grpc invalid argument", err: grpcAPIError(t, codes.InvalidArgument), expected: false},
		{name: "grpc resource exhausted", err: grpcAPIError(t, codes.ResourceExhausted), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsTransient(tt.err))
		})
	}
}
