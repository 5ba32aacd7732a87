package llm

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/referral-scout/internal/retry"
)

// DefaultRetryCooldown is the pause before the single retry of a failed call.
const DefaultRetryCooldown = 5 * time.Second

// RetryingClient wraps a Client so each generation is retried once after a cooldown.
type RetryingClient struct {
	inner    Client
	cooldown time.Duration
	sleep    retry.SleepFunc
	verbose  bool
}

// NewRetryingClient wraps inner. A non-positive cooldown uses DefaultRetryCooldown.
func NewRetryingClient(inner Client, cooldown time.Duration, verbose bool) *RetryingClient {
	if cooldown <= 0 {
		cooldown = DefaultRetryCooldown
	}
	return &RetryingClient{
		inner:    inner,
		cooldown: cooldown,
		sleep:    retry.Sleep,
		verbose:  verbose,
	}
}

// WithSleep replaces the cooldown sleeper.
func (c *RetryingClient) WithSleep(sleep retry.SleepFunc) *RetryingClient {
	c.sleep = sleep
	return c
}

// GenerateContent generates text content, retrying once on transient failure
func (c *RetryingClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	return retry.Value(ctx, c.policy("GenerateContent"), func(ctx context.Context) (string, error) {
		return c.inner.GenerateContent(ctx, prompt, tier, maxTokens)
	})
}

// GenerateJSON generates JSON content, retrying once on transient failure
func (c *RetryingClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier, maxTokens int) (string, error) {
	return retry.Value(ctx, c.policy("GenerateJSON"), func(ctx context.Context) (string, error) {
		return c.inner.GenerateJSON(ctx, prompt, tier, maxTokens)
	})
}

// GetModel returns the wrapped client's model for a tier
func (c *RetryingClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client
func (c *RetryingClient) Close() error {
	return c.inner.Close()
}

func (c *RetryingClient) policy(op string) retry.Policy {
	p := retry.Once(c.cooldown)
	p.ShouldRetry = IsTransient
	p.Sleep = c.sleep
	p.OnRetry = func(attempt int, err error) {
		if c.verbose {
			log.Printf("[LLM] %s attempt %d failed, retrying in %s: %v", op, attempt, c.cooldown, err)
		}
	}
	return p
}
