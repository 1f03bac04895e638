// Package generator implements the third pipeline stage: drive the text
// services for every approved topic and persist the parsed variant batches.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/autox-agent/internal/ai"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/internal/tweets"
	"github.com/autox-agent/pkg/logger"
)

// Generation modes
const (
	ModeLive = "live"
	ModeMock = "mock"
)

// Agent handles tweet generation for approved topics
type Agent struct {
	generator  ai.Generator
	refiner    ai.Refiner // nil means refinement is skipped
	repository storage.Repository
	log        *logger.Logger
}

// NewAgent creates a new generation agent. A nil refiner disables the
// refinement step; text then passes through unchanged.
func NewAgent(generator ai.Generator, refiner ai.Refiner, repository storage.Repository, log *logger.Logger) *Agent {
	return &Agent{
		generator:  generator,
		refiner:    refiner,
		repository: repository,
		log:        log.WithStage("generate"),
	}
}

// TopicResult describes the outcome for one topic
type TopicResult struct {
	Topic        string `json:"topic"`
	VariantCount int    `json:"variant_count"`
}

// Result contains the results of a generation run
type Result struct {
	Processed int           `json:"processed"`
	Mode      string        `json:"mode"`
	Results   []TopicResult `json:"results"`
	Duration  time.Duration `json:"-"`
}

// Run executes the generation stage over every approved topic, strictly one
// at a time. A generation or refinement failure aborts the invocation:
// remaining topics stay approved until the stage is retried, while batches
// persisted before the failure are kept. (Deliberately different from the
// per-source isolation during collection; the external services are the
// bottleneck and a failing one fails fast.)
func (a *Agent) Run(ctx context.Context, mode string) (*Result, error) {
	startTime := time.Now()
	if mode == "" {
		mode = ModeLive
	}
	result := &Result{Mode: mode}

	topics, err := a.repository.ListApprovedTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load approved topics: %w", err)
	}

	a.log.Info().Int("approved", len(topics)).Str("mode", mode).Msg("Starting generation")

	gen := a.generator
	if mode == ModeMock {
		gen = ai.MockGenerator{}
	}

	for _, topic := range topics {
		log := a.log.WithTopic(topic.Title)
		log.Info().Msg("Generating tweets")

		raw, err := gen.Generate(ctx, topic)
		if err != nil {
			return result, fmt.Errorf("generation failed for %q: %w", topic.Title, err)
		}

		refined := raw
		if a.refiner != nil {
			refined, err = a.refiner.Refine(ctx, raw)
			if err != nil {
				return result, fmt.Errorf("refinement failed for %q: %w", topic.Title, err)
			}
		}

		variants := tweets.Parse(refined)
		if len(variants) == 0 {
			log.Warn().Msg("No variants parsed from generated text")
		}

		post := &models.GeneratedPost{
			TopicTitle: topic.Title,
			Tags:       topic.Tags,
			Source:     topic.Source,
			SourceLink: topic.SourceLink,
			Variants:   variants,
			Status:     models.TopicStatusGenerated,
		}
		if err := a.repository.ReplacePostVariants(ctx, post); err != nil {
			return result, fmt.Errorf("failed to persist variants for %q: %w", topic.Title, err)
		}
		if err := a.repository.MarkTopicGenerated(ctx, topic.Title, time.Now()); err != nil {
			return result, fmt.Errorf("failed to mark %q generated: %w", topic.Title, err)
		}

		result.Processed++
		result.Results = append(result.Results, TopicResult{
			Topic:        topic.Title,
			VariantCount: len(variants),
		})
		log.Info().Int("variants", len(variants)).Msg("Generated tweets")
	}

	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("processed", result.Processed).
		Str("mode", mode).
		Dur("duration", result.Duration).
		Msg("Generation completed")

	return result, nil
}
