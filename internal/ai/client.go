package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/tweets"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

// Client drives the live generation service
type Client struct {
	client      anthropic.Client
	model       string
	maxTokens   int
	timeout     time.Duration
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewClient creates a new generation client
func NewClient(cfg config.GenerationConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Client {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
	)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return &Client{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
		rateLimiter: limiter,
		log:         log.WithComponent("ai"),
	}
}

// Generate asks the service for candidate tweets on the topic. The call is
// bounded by the configured timeout; exceeding it returns ErrTimeout.
func (c *Client) Generate(ctx context.Context, topic *models.Topic) (string, error) {
	// Wait for rate limiter
	if err := c.rateLimiter.Wait(ctx, ratelimit.LimiterGeneration); err != nil {
		return "", fmt.Errorf("rate limit error: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.log.Debug().
		Str("model", c.model).
		Str("topic", topic.Title).
		Msg("Sending generation request")

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(tweets.BuildPrompt(topic)),
				},
			},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.log.Error().Str("topic", topic.Title).Msg("Generation timed out")
			return "", fmt.Errorf("generate for %q: %w", topic.Title, ErrTimeout)
		}
		c.log.Error().Err(err).Msg("Generation API error")
		return "", fmt.Errorf("generation API error: %w", err)
	}

	// Extract text from response
	var response string
	for _, block := range message.Content {
		textBlock := block.AsText()
		if textBlock.Text != "" {
			response += textBlock.Text
		}
	}

	c.log.Debug().
		Int("input_tokens", int(message.Usage.InputTokens)).
		Int("output_tokens", int(message.Usage.OutputTokens)).
		Msg("Received generation response")

	return response, nil
}

// Ensure Client implements Generator
var _ Generator = (*Client)(nil)
