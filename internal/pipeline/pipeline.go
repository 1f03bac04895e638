// Package pipeline wires configuration into the four stage agents. The CLI,
// the dashboard server and the scheduler all build stages through it so the
// wiring lives in one place.
package pipeline

import (
	"github.com/autox-agent/internal/agent/collector"
	"github.com/autox-agent/internal/agent/curator"
	"github.com/autox-agent/internal/agent/enhancer"
	"github.com/autox-agent/internal/agent/generator"
	"github.com/autox-agent/internal/ai"
	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/enrich"
	"github.com/autox-agent/internal/media/unsplash"
	"github.com/autox-agent/internal/source"
	"github.com/autox-agent/internal/source/rss"
	"github.com/autox-agent/internal/source/trends"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

// SourceLimits maps configuration to per-source fetch caps.
func SourceLimits(cfg *config.Config) source.Limits {
	return source.Limits{
		NewsPerFeed: cfg.Sources.RSS.PerFeed,
		Trends:      cfg.Sources.Trends.Limit,
	}
}

// NewCollector builds the collection agent with every enabled source
// registered.
func NewCollector(cfg *config.Config, repo storage.Repository, limiter *ratelimit.MultiLimiter, log *logger.Logger) *collector.Agent {
	manager := source.NewManager()

	if cfg.Sources.RSS.Enabled {
		for _, src := range rss.NewMultiple(cfg.Sources.RSS, limiter, log) {
			manager.Register(src)
		}
	}
	if cfg.Sources.Trends.Enabled {
		manager.Register(trends.New(cfg.Sources.Trends, limiter, log))
	}

	return collector.NewAgent(manager, repo, log)
}

// NewCurator builds the curation agent.
func NewCurator(repo storage.Repository, log *logger.Logger) *curator.Agent {
	return curator.NewAgent(repo, log)
}

// NewGenerator builds the generation agent. The refiner is attached only
// when a refinement API key is configured.
func NewGenerator(cfg *config.Config, repo storage.Repository, limiter *ratelimit.MultiLimiter, log *logger.Logger) *generator.Agent {
	gen := ai.NewClient(cfg.Generation, limiter, log)

	var refiner ai.Refiner
	if cfg.RefinementEnabled() {
		refiner = ai.NewGeminiRefiner(cfg.Refinement, limiter, log)
	}

	return generator.NewAgent(gen, refiner, repo, log)
}

// NewEnhancer builds the enrichment agent. Image resolution is attached only
// when media lookup is enabled and an API key is present.
func NewEnhancer(cfg *config.Config, repo storage.Repository, limiter *ratelimit.MultiLimiter, log *logger.Logger) *enhancer.Agent {
	var images enhancer.ImageResolver
	if cfg.Media.Enabled && cfg.Media.UnsplashAPIKey != "" {
		images = unsplash.NewClient(cfg.Media.UnsplashAPIKey, limiter, log)
	}

	return enhancer.NewAgent(enrich.New(nil), images, repo, log)
}
