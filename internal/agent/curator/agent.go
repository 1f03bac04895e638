// Package curator implements the second pipeline stage: score the collected
// topics, pick the best and persist them as approved.
package curator

import (
	"context"
	"fmt"
	"time"

	"github.com/autox-agent/internal/curation"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
)

// Agent handles topic curation
type Agent struct {
	repository storage.Repository
	log        *logger.Logger
}

// NewAgent creates a new curation agent
func NewAgent(repository storage.Repository, log *logger.Logger) *Agent {
	return &Agent{
		repository: repository,
		log:        log.WithStage("curate"),
	}
}

// Result contains the results of a curation run
type Result struct {
	Loaded   int             `json:"loaded"`
	Selected []*models.Topic `json:"selected"`
	Duration time.Duration   `json:"-"`
}

// Run executes the curation stage: load every collected topic, filter the
// blocklist, score at the current time and persist the top n as approved.
// With nothing to select the stage is a no-op. A write failure mid-loop
// fails the stage; topics persisted before it stay approved.
func (a *Agent) Run(ctx context.Context, topN int) (*Result, error) {
	startTime := time.Now()

	topics, err := a.repository.ListRawTopics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collected topics: %w", err)
	}

	a.log.Info().Int("loaded", len(topics)).Msg("Loaded collected topics")

	now := time.Now()
	selected := curation.SelectTop(topics, curation.Blockwords, topN, now)

	result := &Result{Loaded: len(topics), Selected: selected}
	if len(selected) == 0 {
		a.log.Warn().Msg("No valid topics found after filtering")
		result.Duration = time.Since(startTime)
		return result, nil
	}

	for _, topic := range selected {
		topic.Status = models.TopicStatusApproved
		selectedAt := now
		topic.SelectedAt = &selectedAt

		if err := a.repository.UpsertApprovedTopic(ctx, topic); err != nil {
			return nil, fmt.Errorf("failed to persist selection: %w", err)
		}
		a.log.Debug().
			Str("title", topic.Title).
			Int("score", topic.Score).
			Msg("Approved topic")
	}

	result.Duration = time.Since(startTime)

	a.log.Info().
		Int("loaded", result.Loaded).
		Int("selected", len(selected)).
		Dur("duration", result.Duration).
		Msg("Curation completed")

	return result, nil
}
