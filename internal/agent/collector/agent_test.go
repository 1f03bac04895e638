package collector

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/source"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
)

type fakeSource struct {
	name   string
	topics []*models.Topic
	err    error
}

func (s *fakeSource) Name() string { return s.name }
func (s *fakeSource) Type() string { return source.TypeRSS }
func (s *fakeSource) Fetch(ctx context.Context, limit int) ([]*models.Topic, error) {
	return s.topics, s.err
}

type fakeRepo struct {
	storage.Repository
	inserted []*models.Topic
	err      error
}

func (r *fakeRepo) InsertTopicsIfAbsent(ctx context.Context, topics []*models.Topic) (int, error) {
	r.inserted = append(r.inserted, topics...)
	return len(topics), r.err
}

func TestRunNormalizesAndTags(t *testing.T) {
	manager := source.NewManager()
	manager.Register(&fakeSource{name: "feed", topics: []*models.Topic{
		{Title: "Ram Mandir inauguration LIVE | NewsX"},
		{Title: "LIVE"}, // normalizes to empty, must be discarded
	}})
	repo := &fakeRepo{}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.Run(context.Background(), source.Limits{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalFetched)
	assert.Equal(t, 1, result.Upserted)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Ram Mandir inauguration", repo.inserted[0].Title)
	assert.Equal(t, models.StringSlice{"hindu"}, repo.inserted[0].Tags)
	assert.Equal(t, models.TopicStatusCollected, repo.inserted[0].Status)
	assert.False(t, repo.inserted[0].CreatedAt.IsZero())
}

func TestRunIsolatesSourceFailures(t *testing.T) {
	manager := source.NewManager()
	manager.Register(&fakeSource{name: "broken", err: errors.New("feed down")})
	manager.Register(&fakeSource{name: "working", topics: []*models.Topic{
		{Title: "Budget session begins"},
	}})
	repo := &fakeRepo{}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.Run(context.Background(), source.Limits{})
	require.NoError(t, err)

	// The broken source is reported but the working one still lands.
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Upserted)
}

func TestRunNoTopicsIsNoop(t *testing.T) {
	manager := source.NewManager()
	repo := &fakeRepo{}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.Run(context.Background(), source.Limits{})
	require.NoError(t, err)

	assert.Zero(t, result.TotalFetched)
	assert.Empty(t, repo.inserted)
}

func TestRunSampleCapped(t *testing.T) {
	var topics []*models.Topic
	for _, title := range []string{"a1", "b2", "c3", "d4", "e5", "f6", "g7"} {
		topics = append(topics, &models.Topic{Title: title})
	}
	manager := source.NewManager()
	manager.Register(&fakeSource{name: "feed", topics: topics})
	repo := &fakeRepo{}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.Run(context.Background(), source.Limits{})
	require.NoError(t, err)

	assert.Equal(t, 7, result.TotalFetched)
	assert.Len(t, result.Sample, 5)
}

func TestRunReportsPartialWriteFailure(t *testing.T) {
	manager := source.NewManager()
	manager.Register(&fakeSource{name: "feed", topics: []*models.Topic{{Title: "x1"}}})
	repo := &fakeRepo{err: errors.New("disk full")}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.Run(context.Background(), source.Limits{})
	require.NoError(t, err)

	assert.Len(t, result.Errors, 1)
}

func TestRunForSourceFetchesOnlyThatSource(t *testing.T) {
	manager := source.NewManager()
	manager.Register(&fakeSource{name: "feed-a", topics: []*models.Topic{
		{Title: "Parliament session update"},
	}})
	manager.Register(&fakeSource{name: "feed-b", topics: []*models.Topic{
		{Title: "Budget session begins"},
	}})
	repo := &fakeRepo{}

	agent := NewAgent(manager, repo, logger.Default())
	result, err := agent.RunForSource(context.Background(), "feed-b", source.Limits{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Upserted)
	require.Len(t, repo.inserted, 1)
	assert.Equal(t, "Budget session begins", repo.inserted[0].Title)
}

func TestRunForSourceUnknownName(t *testing.T) {
	agent := NewAgent(source.NewManager(), &fakeRepo{}, logger.Default())
	_, err := agent.RunForSource(context.Background(), "missing", source.Limits{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}
