package curation

import (
	"sort"
	"time"

	"github.com/autox-agent/internal/models"
)

// DefaultTopN is the number of topics selected per curation run when the
// caller does not override it.
const DefaultTopN = 5

// SelectTop filters blocked topics, scores the remainder at the given
// reference time and returns the top n by score, descending. Blocked topics
// are excluded before scoring, so no score can rescue them. Ties keep the
// relative order of the input (stable sort). Fewer than n survivors means
// all of them are returned; zero survivors means an empty result.
//
// The returned topics carry their computed score; the input slice is not
// reordered.
func SelectTop(topics []*models.Topic, blocked []string, n int, now time.Time) []*models.Topic {
	if n <= 0 {
		n = DefaultTopN
	}

	selected := make([]*models.Topic, 0, len(topics))
	for _, t := range topics {
		if IsBlocked(t.Title, blocked) {
			continue
		}
		t.Score = Score(t, now)
		selected = append(selected, t)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Score > selected[j].Score
	})

	if len(selected) > n {
		selected = selected[:n]
	}
	return selected
}
