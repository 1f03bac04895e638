// Package enrich attaches engagement metadata to generated variants: an
// image-search keyword, a suggested repost account and a quote comment.
package enrich

import (
	"math/rand"
	"time"

	"github.com/autox-agent/internal/curation"
	"github.com/autox-agent/internal/models"
)

// tagPriority is the order in which a topic's tags are consulted for the
// lookup tables below. First match wins.
var tagPriority = []string{
	curation.TagHindu,
	curation.TagPolitics,
	curation.TagGlobal,
	curation.TagHumanity,
}

// imageSuffixes maps a tag to the descriptive suffix appended to the topic
// title when building the image-search keyword.
var imageSuffixes = map[string]string{
	curation.TagHindu:    "temple aerial view",
	curation.TagPolitics: "Indian government official press meet",
	curation.TagGlobal:   "India geopolitics map",
	curation.TagHumanity: "relief operation India",
}

const defaultImageSuffix = "India news photo"

// retweetAccounts maps a tag to its candidate accounts; the first entry of
// the first priority-matching tag is suggested.
var retweetAccounts = map[string][]string{
	curation.TagPolitics: {"ANI", "PIB_India"},
	curation.TagHindu:    {"ANI", "DDNews"},
	curation.TagGlobal:   {"ANI", "Reuters"},
	curation.TagHumanity: {"ANI", "PTI_News"},
}

const defaultRetweetAccount = "ANI"

// quoteComments is the fixed pool the quote comment is drawn from.
var quoteComments = []string{
	"Ground reality ka impact clearly dikh raha hai.",
	"Yeh sirf news nahi, New India ka direction hai.",
	"Facts khud bol rahe hain, narrative nahi.",
	"Long-term impact ka clear signal hai.",
	"Nation-first approach ka real result.",
}

// ImageKeyword builds the image-search keyword for a topic: the title plus a
// suffix chosen by the highest-priority matching tag.
func ImageKeyword(title string, tags []string) string {
	for _, tag := range tagPriority {
		if containsTag(tags, tag) {
			return title + " " + imageSuffixes[tag]
		}
	}
	return title + " " + defaultImageSuffix
}

// RetweetAccount suggests the account to repost from for the given tags.
func RetweetAccount(tags []string) string {
	for _, tag := range tagPriority {
		if containsTag(tags, tag) {
			return retweetAccounts[tag][0]
		}
	}
	return defaultRetweetAccount
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Engine enriches variant batches. The random source drives only the quote
// comment choice; inject a seeded one to make runs reproducible.
type Engine struct {
	rng *rand.Rand
}

// New creates an enrichment engine. A nil rng falls back to a time-seeded one.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// QuoteComment draws one comment uniformly from the fixed pool.
func (e *Engine) QuoteComment() string {
	return quoteComments[e.rng.Intn(len(quoteComments))]
}

// Enrich returns the variant batch for a topic with image keyword, repost
// account and quote comment filled in. TweetText and Context are untouched.
func (e *Engine) Enrich(title string, tags []string, variants models.Variants) models.Variants {
	enriched := make(models.Variants, len(variants))
	for i, v := range variants {
		v.ImageKeyword = ImageKeyword(title, tags)
		v.RetweetAccount = RetweetAccount(tags)
		v.QuoteComment = e.QuoteComment()
		enriched[i] = v
	}
	return enriched
}
