package generator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
)

type fakeGenerator struct {
	outputs map[string]string
	errOn   string
	calls   []string
}

func (g *fakeGenerator) Generate(ctx context.Context, topic *models.Topic) (string, error) {
	g.calls = append(g.calls, topic.Title)
	if topic.Title == g.errOn {
		return "", errors.New("service unavailable")
	}
	return g.outputs[topic.Title], nil
}

type fakeRefiner struct {
	prefix string
	err    error
}

func (r *fakeRefiner) Refine(ctx context.Context, text string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.prefix + text, nil
}

type fakeRepo struct {
	storage.Repository
	approved  []*models.Topic
	posts     []*models.GeneratedPost
	generated []string
}

func (r *fakeRepo) ListApprovedTopics(ctx context.Context) ([]*models.Topic, error) {
	return r.approved, nil
}

func (r *fakeRepo) ReplacePostVariants(ctx context.Context, post *models.GeneratedPost) error {
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakeRepo) MarkTopicGenerated(ctx context.Context, title string, at time.Time) error {
	r.generated = append(r.generated, title)
	return nil
}

func approvedTopic(title string) *models.Topic {
	return &models.Topic{
		Title:  title,
		Tags:   models.StringSlice{"general"},
		Status: models.TopicStatusApproved,
	}
}

func TestRunGeneratesAndPersists(t *testing.T) {
	gen := &fakeGenerator{outputs: map[string]string{
		"topic a": "TWEET:\nTake on a\nHASHTAGS: india",
		"topic b": "TWEET:\nTake on b",
	}}
	repo := &fakeRepo{approved: []*models.Topic{approvedTopic("topic a"), approvedTopic("topic b")}}

	agent := NewAgent(gen, nil, repo, logger.Default())
	result, err := agent.Run(context.Background(), ModeLive)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	require.Len(t, repo.posts, 2)
	assert.Equal(t, "topic a", repo.posts[0].TopicTitle)
	assert.Equal(t, models.TopicStatusGenerated, repo.posts[0].Status)
	require.Len(t, repo.posts[0].Variants, 1)
	assert.Equal(t, "Take on a", repo.posts[0].Variants[0].TweetText)
	assert.Equal(t, []string{"topic a", "topic b"}, repo.generated)
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	gen := &fakeGenerator{
		outputs: map[string]string{"topic a": "TWEET:\nok"},
		errOn:   "topic b",
	}
	repo := &fakeRepo{approved: []*models.Topic{
		approvedTopic("topic a"), approvedTopic("topic b"), approvedTopic("topic c"),
	}}

	agent := NewAgent(gen, nil, repo, logger.Default())
	result, err := agent.Run(context.Background(), ModeLive)
	require.Error(t, err)

	// First topic persisted, failing one aborts, third never attempted.
	assert.Equal(t, 1, result.Processed)
	assert.Len(t, repo.posts, 1)
	assert.Equal(t, []string{"topic a", "topic b"}, gen.calls)
}

func TestRunRefinementFailureAborts(t *testing.T) {
	gen := &fakeGenerator{outputs: map[string]string{"topic a": "TWEET:\nok"}}
	repo := &fakeRepo{approved: []*models.Topic{approvedTopic("topic a")}}

	agent := NewAgent(gen, &fakeRefiner{err: errors.New("refiner down")}, repo, logger.Default())
	_, err := agent.Run(context.Background(), ModeLive)
	require.Error(t, err)
	assert.Empty(t, repo.posts)
}

func TestRunRefinerApplied(t *testing.T) {
	gen := &fakeGenerator{outputs: map[string]string{"topic a": "TWEET:\nraw take"}}
	repo := &fakeRepo{approved: []*models.Topic{approvedTopic("topic a")}}

	// The refined text is what gets parsed.
	agent := NewAgent(gen, &fakeRefiner{prefix: "TWEET:\nrefined take\n\n"}, repo, logger.Default())
	_, err := agent.Run(context.Background(), ModeLive)
	require.NoError(t, err)

	require.Len(t, repo.posts, 1)
	require.Len(t, repo.posts[0].Variants, 2)
	assert.Equal(t, "refined take", repo.posts[0].Variants[0].TweetText)
}

func TestRunMockModeSkipsLiveGenerator(t *testing.T) {
	gen := &fakeGenerator{errOn: "topic a"} // live generator would fail
	repo := &fakeRepo{approved: []*models.Topic{approvedTopic("topic a")}}

	agent := NewAgent(gen, nil, repo, logger.Default())
	result, err := agent.Run(context.Background(), ModeMock)
	require.NoError(t, err)

	assert.Empty(t, gen.calls)
	assert.Equal(t, ModeMock, result.Mode)
	require.Len(t, repo.posts, 1)
	// The fixed template yields three variants.
	assert.Len(t, repo.posts[0].Variants, 3)
	assert.True(t, strings.Contains(repo.posts[0].Variants[0].TweetText, "topic a"))
}

func TestRunReplacesVariantsWholesale(t *testing.T) {
	gen := &fakeGenerator{outputs: map[string]string{"topic a": "TWEET:\nsecond run"}}
	repo := &fakeRepo{approved: []*models.Topic{approvedTopic("topic a")}}

	agent := NewAgent(gen, nil, repo, logger.Default())
	_, err := agent.Run(context.Background(), ModeLive)
	require.NoError(t, err)
	_, err = agent.Run(context.Background(), ModeLive)
	require.NoError(t, err)

	// Both runs went through ReplacePostVariants keyed by title.
	require.Len(t, repo.posts, 2)
	assert.Equal(t, repo.posts[0].TopicTitle, repo.posts[1].TopicTitle)
}
