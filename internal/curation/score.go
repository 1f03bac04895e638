package curation

import (
	"time"

	"github.com/autox-agent/internal/models"
)

// categoryWeights are the fixed additive weights per tag. Tags outside this
// table contribute nothing.
var categoryWeights = map[string]int{
	TagPolitics: 20,
	TagHindu:    15,
	TagGlobal:   10,
	TagHumanity: 10,
}

// TrendScore returns the trend component: 0 for non-trending topics, else a
// bracket by trend rank (lower rank is more prominent).
func TrendScore(t *models.Topic) int {
	if !t.XTrending || t.TrendRank == nil {
		return 0
	}
	switch {
	case *t.TrendRank <= 3:
		return 40
	case *t.TrendRank <= 5:
		return 30
	default:
		return 20
	}
}

// CategoryScore sums the fixed weights of the tags present.
func CategoryScore(tags []string) int {
	score := 0
	for _, tag := range tags {
		score += categoryWeights[tag]
	}
	return score
}

// FreshnessScore brackets the topic age at the given reference time.
func FreshnessScore(createdAt, now time.Time) int {
	age := now.Sub(createdAt)
	switch {
	case age <= 6*time.Hour:
		return 5
	case age <= 12*time.Hour:
		return 3
	default:
		return 1
	}
}

// Score computes the topic's total score at the given reference time. It is
// a pure function of the topic's own fields and now; callers must pass the
// clock in rather than reading it here.
func Score(t *models.Topic, now time.Time) int {
	return TrendScore(t) + CategoryScore(t.Tags) + FreshnessScore(t.CreatedAt, now)
}
