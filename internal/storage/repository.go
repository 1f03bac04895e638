package storage

import (
	"context"
	"time"

	"github.com/autox-agent/internal/models"
)

// Repository defines persistence over the three pipeline collections:
// raw_topics (collected), top_topics (approved/generated) and final_posts
// (generated/enhanced variant batches). All three are keyed by topic title.
type Repository interface {
	// Collected topics. InsertTopicsIfAbsent never overwrites an existing
	// title (first write wins) and isolates per-item failures; it returns
	// the number of newly inserted topics.
	InsertTopicsIfAbsent(ctx context.Context, topics []*models.Topic) (int, error)
	ListRawTopics(ctx context.Context) ([]*models.Topic, error)

	// Approved topics. Upsert overwrites by title: curation re-evaluates
	// selection every run and must reflect the latest score.
	UpsertApprovedTopic(ctx context.Context, topic *models.Topic) error
	ListApprovedTopics(ctx context.Context) ([]*models.Topic, error)
	MarkTopicGenerated(ctx context.Context, title string, at time.Time) error

	// Generated posts. ReplacePostVariants upserts the whole variant batch
	// by topic title.
	ReplacePostVariants(ctx context.Context, post *models.GeneratedPost) error
	ListPostsByStatus(ctx context.Context, status models.TopicStatus) ([]*models.GeneratedPost, error)
	ListRecentPosts(ctx context.Context, limit int) ([]*models.GeneratedPost, error)
	UpdatePostVariants(ctx context.Context, id uint, variants models.Variants, enhancedAt time.Time) error

	// Dashboard queries.
	Counts(ctx context.Context) (StageCounts, error)

	// Maintenance.
	Migrate() error
	Close() error
}

// StageCounts holds the per-collection document counts.
type StageCounts struct {
	RawTopics  int64 `json:"raw_topics"`
	TopTopics  int64 `json:"top_topics"`
	FinalPosts int64 `json:"final_posts"`
}
