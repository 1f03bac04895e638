// Package ai holds the clients for the external text services: the
// generation collaborator that writes candidate tweets for a topic and the
// optional refinement collaborator that rewrites them.
package ai

import (
	"context"
	"errors"

	"github.com/autox-agent/internal/models"
)

// Generator produces unstructured candidate text for a topic.
type Generator interface {
	Generate(ctx context.Context, topic *models.Topic) (string, error)
}

// Refiner rewrites generated text without adding facts.
type Refiner interface {
	Refine(ctx context.Context, text string) (string, error)
}

// ErrTimeout marks a collaborator call that exceeded its configured bound.
// A generation failure aborts the rest of the stage invocation; already
// persisted results are kept.
var ErrTimeout = errors.New("service call timed out")
