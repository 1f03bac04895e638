// Package collector implements the first pipeline stage: fetch raw topics
// from the registered sources, normalize and tag them, and insert the new
// ones into the collected set.
package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/autox-agent/internal/curation"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/source"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
)

const sampleSize = 5

// Agent handles topic collection from multiple sources
type Agent struct {
	sourceManager *source.Manager
	repository    storage.Repository
	log           *logger.Logger
}

// NewAgent creates a new collection agent
func NewAgent(sourceManager *source.Manager, repository storage.Repository, log *logger.Logger) *Agent {
	return &Agent{
		sourceManager: sourceManager,
		repository:    repository,
		log:           log.WithStage("collect"),
	}
}

// Result contains the results of a collection run
type Result struct {
	TotalFetched int             `json:"total_fetched"`
	Upserted     int             `json:"upserted"`
	Sample       []*models.Topic `json:"sample"`
	Errors       []error         `json:"-"`
	Duration     time.Duration   `json:"-"`
}

// Run executes the collection stage. Source failures are isolated per
// source; store write failures are isolated per topic. Both end up in the
// result's error list without failing the run.
func (a *Agent) Run(ctx context.Context, limits source.Limits) (*Result, error) {
	startTime := time.Now()
	result := &Result{}

	a.log.Info().Msg("Starting topic collection")

	rawTopics, fetchErrors := a.sourceManager.FetchAll(ctx, limits)
	result.Errors = append(result.Errors, fetchErrors...)
	for _, err := range fetchErrors {
		a.log.Warn().Err(err).Msg("Source fetch failed")
	}

	return a.persist(ctx, rawTopics, result, startTime)
}

// RunForSource executes the collection stage for a single named source.
// Unlike Run, a fetch failure here fails the invocation: there is no other
// source to fall back on.
func (a *Agent) RunForSource(ctx context.Context, name string, limits source.Limits) (*Result, error) {
	src := a.sourceManager.GetSourceByName(name)
	if src == nil {
		return nil, fmt.Errorf("source %q not found", name)
	}

	startTime := time.Now()
	result := &Result{}

	a.log.Info().Str("source", name).Msg("Starting topic collection")

	rawTopics, err := src.Fetch(ctx, limits.For(src.Type()))
	if err != nil {
		return nil, fmt.Errorf("fetch from %q failed: %w", name, err)
	}

	return a.persist(ctx, rawTopics, result, startTime)
}

// persist normalizes, tags and stores fetched topics, filling the result.
func (a *Agent) persist(ctx context.Context, rawTopics []*models.Topic, result *Result, startTime time.Time) (*Result, error) {
	topics := a.prepareTopics(rawTopics)
	result.TotalFetched = len(topics)

	a.log.Info().
		Int("fetched", len(rawTopics)).
		Int("usable", len(topics)).
		Int("fetch_errors", len(result.Errors)).
		Msg("Fetched topics from sources")

	if len(topics) == 0 {
		a.log.Warn().Msg("No topics found from any source")
		result.Duration = time.Since(startTime)
		return result, nil
	}

	upserted, err := a.repository.InsertTopicsIfAbsent(ctx, topics)
	if err != nil {
		// Partial failures: the count below still reflects what landed.
		a.log.Warn().Err(err).Msg("Some topic writes failed")
		result.Errors = append(result.Errors, err)
	}
	result.Upserted = upserted

	if len(topics) > sampleSize {
		result.Sample = topics[:sampleSize]
	} else {
		result.Sample = topics
	}

	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("total_fetched", result.TotalFetched).
		Int("upserted", result.Upserted).
		Dur("duration", result.Duration).
		Msg("Collection completed")

	return result, nil
}

// prepareTopics normalizes titles, drops topics whose title normalizes to
// nothing, and tags the rest.
func (a *Agent) prepareTopics(raw []*models.Topic) []*models.Topic {
	topics := make([]*models.Topic, 0, len(raw))
	for _, t := range raw {
		title := curation.NormalizeTitle(t.Title)
		if title == "" {
			continue
		}
		t.Title = title
		t.Tags = curation.TagTopic(title)
		t.Status = models.TopicStatusCollected
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}
		topics = append(topics, t)
	}
	return topics
}
