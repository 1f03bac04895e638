package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
)

// Collection table names. The pipeline treats these as three document
// collections keyed by topic title.
const (
	tableRawTopics  = "raw_topics"
	tableTopTopics  = "top_topics"
	tableFinalPosts = "final_posts"
)

// Repository implements storage.Repository using SQLite
type Repository struct {
	db *gorm.DB
}

// New creates a new SQLite repository
func New(dsn string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate creates the three collection tables
func (r *Repository) Migrate() error {
	if err := r.db.Table(tableRawTopics).AutoMigrate(&models.Topic{}); err != nil {
		return err
	}
	if err := r.db.Table(tableTopTopics).AutoMigrate(&models.Topic{}); err != nil {
		return err
	}
	return r.db.Table(tableFinalPosts).AutoMigrate(&models.GeneratedPost{})
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InsertTopicsIfAbsent inserts each topic into raw_topics unless its title
// already exists. Existing rows are never touched. Individual write failures
// do not abort the batch; they come back joined in the error while the
// returned count reflects the rows that did land.
func (r *Repository) InsertTopicsIfAbsent(ctx context.Context, topics []*models.Topic) (int, error) {
	inserted := 0
	var errs []error

	for _, topic := range topics {
		row := *topic
		row.ID = 0

		res := r.db.WithContext(ctx).
			Table(tableRawTopics).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}},
				DoNothing: true,
			}).
			Create(&row)
		if res.Error != nil {
			errs = append(errs, fmt.Errorf("insert %q: %w", topic.Title, res.Error))
			continue
		}
		if res.RowsAffected > 0 {
			inserted++
		}
	}

	return inserted, errors.Join(errs...)
}

func (r *Repository) ListRawTopics(ctx context.Context) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.WithContext(ctx).Table(tableRawTopics).Order("id").Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list raw topics: %w", err)
	}
	return topics, nil
}

// UpsertApprovedTopic writes a topic into top_topics by title, overwriting
// any previous selection for that title.
func (r *Repository) UpsertApprovedTopic(ctx context.Context, topic *models.Topic) error {
	row := *topic
	row.ID = 0

	err := r.db.WithContext(ctx).
		Table(tableTopTopics).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("upsert approved topic %q: %w", topic.Title, err)
	}
	return nil
}

func (r *Repository) ListApprovedTopics(ctx context.Context) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.WithContext(ctx).
		Table(tableTopTopics).
		Where("status = ?", models.TopicStatusApproved).
		Order("score DESC").
		Find(&topics).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list approved topics: %w", err)
	}
	return topics, nil
}

func (r *Repository) MarkTopicGenerated(ctx context.Context, title string, at time.Time) error {
	err := r.db.WithContext(ctx).
		Table(tableTopTopics).
		Where("title = ?", title).
		Updates(map[string]interface{}{
			"status":       models.TopicStatusGenerated,
			"generated_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("mark topic %q generated: %w", title, err)
	}
	return nil
}

// ReplacePostVariants upserts the variant batch for a topic by title; a
// re-run replaces the prior batch wholesale.
func (r *Repository) ReplacePostVariants(ctx context.Context, post *models.GeneratedPost) error {
	row := *post
	row.ID = 0

	err := r.db.WithContext(ctx).
		Table(tableFinalPosts).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "topic_title"}},
			UpdateAll: true,
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("replace variants for %q: %w", post.TopicTitle, err)
	}
	return nil
}

func (r *Repository) ListPostsByStatus(ctx context.Context, status models.TopicStatus) ([]*models.GeneratedPost, error) {
	var posts []*models.GeneratedPost
	err := r.db.WithContext(ctx).
		Table(tableFinalPosts).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (r *Repository) ListRecentPosts(ctx context.Context, limit int) ([]*models.GeneratedPost, error) {
	var posts []*models.GeneratedPost
	query := r.db.WithContext(ctx).Table(tableFinalPosts).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}
	return posts, nil
}

func (r *Repository) UpdatePostVariants(ctx context.Context, id uint, variants models.Variants, enhancedAt time.Time) error {
	err := r.db.WithContext(ctx).
		Table(tableFinalPosts).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"variants":    variants,
			"status":      models.TopicStatusEnhanced,
			"enhanced_at": enhancedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("update variants for post %d: %w", id, err)
	}
	return nil
}

func (r *Repository) Counts(ctx context.Context) (storage.StageCounts, error) {
	var counts storage.StageCounts
	for _, c := range []struct {
		table string
		dest  *int64
	}{
		{tableRawTopics, &counts.RawTopics},
		{tableTopTopics, &counts.TopTopics},
		{tableFinalPosts, &counts.FinalPosts},
	} {
		if err := r.db.WithContext(ctx).Table(c.table).Count(c.dest).Error; err != nil {
			return counts, fmt.Errorf("count %s: %w", c.table, err)
		}
	}
	return counts, nil
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
