package ai

import (
	"context"

	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/tweets"
)

// MockGenerator substitutes a fixed template for the generation service, for
// environments without network access to it. Its output still flows through
// refinement and parsing like the live service's.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, topic *models.Topic) (string, error) {
	return tweets.MockOutput(topic), nil
}

// Ensure MockGenerator implements Generator
var _ Generator = MockGenerator{}
