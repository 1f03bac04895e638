package rss

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/source"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

const defaultPerFeed = 5

// Source implements TopicSource for a single RSS feed
type Source struct {
	name    string
	url     string
	perFeed int
	parser  *gofeed.Parser
	limiter *ratelimit.MultiLimiter
	log     *logger.Logger
}

// New creates a new RSS source for a single feed
func New(feed config.RSSFeed, perFeed int, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Source {
	if perFeed <= 0 {
		perFeed = defaultPerFeed
	}
	return &Source{
		name:    feed.Name,
		url:     feed.URL,
		perFeed: perFeed,
		parser:  gofeed.NewParser(),
		limiter: limiter,
		log:     log.WithSource(source.TypeRSS, feed.Name),
	}
}

// NewMultiple creates RSS sources for every configured feed
func NewMultiple(cfg config.RSSConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) []*Source {
	sources := make([]*Source, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		sources = append(sources, New(feed, cfg.PerFeed, limiter, log))
	}
	return sources
}

// Name returns the source name
func (s *Source) Name() string {
	return s.name
}

// Type returns "rss"
func (s *Source) Type() string {
	return source.TypeRSS
}

// Fetch retrieves the newest items from the feed as topics. Titles are left
// raw; the collection stage normalizes and tags them.
func (s *Source) Fetch(ctx context.Context, limit int) ([]*models.Topic, error) {
	if limit <= 0 {
		limit = s.perFeed
	}

	if err := s.limiter.Wait(ctx, ratelimit.LimiterRSS); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	s.log.Debug().Str("url", s.url).Msg("Fetching RSS feed")

	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSS feed %s: %w", s.name, err)
	}

	items := feed.Items
	if len(items) > limit {
		items = items[:limit]
	}

	topics := make([]*models.Topic, 0, len(items))
	for _, item := range items {
		topics = append(topics, &models.Topic{
			Title:      item.Title,
			Source:     feed.Title,
			SourceLink: item.Link,
			XTrending:  false,
			Status:     models.TopicStatusCollected,
		})
	}

	s.log.Info().
		Int("count", len(topics)).
		Str("feed", s.name).
		Msg("Fetched RSS topics")

	return topics, nil
}

// Ensure Source implements source.TopicSource
var _ source.TopicSource = (*Source)(nil)
