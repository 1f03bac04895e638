// Package enhancer implements the fourth pipeline stage: attach engagement
// metadata to every generated variant batch.
package enhancer

import (
	"context"
	"fmt"
	"time"

	"github.com/autox-agent/internal/enrich"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
)

// ImageResolver optionally resolves an image-search keyword to a photo URL.
type ImageResolver interface {
	ResolveImage(ctx context.Context, keyword string) (string, error)
}

// Agent handles variant enrichment
type Agent struct {
	engine     *enrich.Engine
	images     ImageResolver // nil disables image resolution
	repository storage.Repository
	log        *logger.Logger
}

// NewAgent creates a new enrichment agent
func NewAgent(engine *enrich.Engine, images ImageResolver, repository storage.Repository, log *logger.Logger) *Agent {
	return &Agent{
		engine:     engine,
		images:     images,
		repository: repository,
		log:        log.WithStage("enhance"),
	}
}

// Result contains the results of an enrichment run
type Result struct {
	Updated  int           `json:"updated"`
	Errors   []error       `json:"-"`
	Duration time.Duration `json:"-"`
}

// Run enriches every generated post's variants and marks the post enhanced.
// Store write failures are isolated per post. Image resolution failures are
// only logged; the variant keeps its keyword without a URL.
func (a *Agent) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	posts, err := a.repository.ListPostsByStatus(ctx, models.TopicStatusGenerated)
	if err != nil {
		return nil, fmt.Errorf("failed to load generated posts: %w", err)
	}

	a.log.Info().Int("pending", len(posts)).Msg("Starting enrichment")

	for _, post := range posts {
		variants := a.engine.Enrich(post.TopicTitle, post.Tags, post.Variants)

		if a.images != nil {
			for i := range variants {
				url, err := a.images.ResolveImage(ctx, variants[i].ImageKeyword)
				if err != nil {
					a.log.Warn().Err(err).Str("topic", post.TopicTitle).Msg("Image lookup failed")
					continue
				}
				variants[i].ImageURL = url
			}
		}

		if err := a.repository.UpdatePostVariants(ctx, post.ID, variants, time.Now()); err != nil {
			a.log.Warn().Err(err).Str("topic", post.TopicTitle).Msg("Failed to persist enriched variants")
			result.Errors = append(result.Errors, err)
			continue
		}
		result.Updated++
	}

	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("updated", result.Updated).
		Dur("duration", result.Duration).
		Msg("Enrichment completed")

	return result, nil
}
