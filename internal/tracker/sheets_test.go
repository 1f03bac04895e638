package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/models"
)

func TestPostRowsOneRowPerVariant(t *testing.T) {
	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	posts := []*models.GeneratedPost{
		{
			ID:         7,
			TopicTitle: "parliament session begins",
			Tags:       models.StringSlice{"politics"},
			Source:     "rss",
			Status:     models.TopicStatusEnhanced,
			EnhancedAt: &at,
			Variants: models.Variants{
				{TweetText: "first take", Hashtags: []string{"#India", "#Politics"}, RetweetAccount: "ANI"},
				{TweetText: "second take"},
			},
		},
		{ID: 8, TopicTitle: "no variants yet"},
	}

	rows := PostRows(posts, at)
	require.Len(t, rows, 2)

	assert.Equal(t, uint(7), rows[0][0])
	assert.Equal(t, "parliament session begins", rows[0][1])
	assert.Equal(t, 1, rows[0][5])
	assert.Equal(t, "first take", rows[0][6])
	assert.Equal(t, "#India #Politics", rows[0][11])
	assert.Equal(t, "enhanced", rows[0][13])
	assert.Equal(t, "2026-01-15T10:00:00Z", rows[0][14])

	assert.Equal(t, 2, rows[1][5])
	assert.Equal(t, "second take", rows[1][6])
}

func TestPostRowsEmpty(t *testing.T) {
	assert.Empty(t, PostRows(nil, time.Now()))
}
