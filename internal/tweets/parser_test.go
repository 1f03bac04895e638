package tweets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/models"
)

func TestParseSingleBlock(t *testing.T) {
	got := Parse("TWEET:\nHello world\nCONTEXT: src\nHASHTAGS: india #news")

	require.Len(t, got, 1)
	assert.Equal(t, "Hello world", got[0].TweetText)
	assert.Equal(t, "src", got[0].Context)
	assert.Equal(t, []string{"#india", "#news"}, got[0].Hashtags)
	assert.Empty(t, got[0].ImageKeyword)
	assert.Empty(t, got[0].RetweetAccount)
}

func TestParseNoMarker(t *testing.T) {
	assert.Empty(t, Parse("no marker here"))
	assert.Empty(t, Parse(""))
}

func TestParseBlankBodyDiscarded(t *testing.T) {
	assert.Empty(t, Parse("TWEET:\n   \n"))
	assert.Empty(t, Parse("TWEET:\nCONTEXT: only labels here"))
}

func TestParsePreambleDiscarded(t *testing.T) {
	got := Parse("Here are your tweets:\n\nTWEET:\nFirst take\nHASHTAGS: one")
	require.Len(t, got, 1)
	assert.Equal(t, "First take", got[0].TweetText)
}

func TestParseMultipleBlocksKeepOrder(t *testing.T) {
	text := `TWEET:
Alpha
CONTEXT: a

TWEET:
Beta
CONTEXT: b

TWEET:
Gamma`

	got := Parse(text)
	require.Len(t, got, 3)
	assert.Equal(t, "Alpha", got[0].TweetText)
	assert.Equal(t, "Beta", got[1].TweetText)
	assert.Equal(t, "Gamma", got[2].TweetText)
	assert.Equal(t, "b", got[1].Context)
}

func TestParseMultilineBodyJoined(t *testing.T) {
	got := Parse("TWEET:\nline one\nline two\n\nline three\nCONTEXT: c")
	require.Len(t, got, 1)
	assert.Equal(t, "line one line two line three", got[0].TweetText)
}

func TestParseCaseInsensitiveMarkersAndLabels(t *testing.T) {
	got := Parse("tweet:\nBody here\ncontext: lower\nhashtags: x")
	require.Len(t, got, 1)
	assert.Equal(t, "Body here", got[0].TweetText)
	assert.Equal(t, "lower", got[0].Context)
	assert.Equal(t, []string{"#x"}, got[0].Hashtags)
}

func TestParseHashtagNormalization(t *testing.T) {
	got := Parse("TWEET:\nBody\nHASHTAGS:  india   #News  #Already")
	require.Len(t, got, 1)
	assert.Equal(t, []string{"#india", "#News", "#Already"}, got[0].Hashtags)
}

func TestParseAllFields(t *testing.T) {
	text := `TWEET:
Full body
CONTEXT: the context
IMAGE_KEYWORD: some keyword
RETWEET_ACCOUNT: ANI
HASHTAGS: #India news`

	got := Parse(text)
	require.Len(t, got, 1)
	assert.Equal(t, models.Variant{
		TweetText:      "Full body",
		Context:        "the context",
		ImageKeyword:   "some keyword",
		RetweetAccount: "ANI",
		Hashtags:       []string{"#India", "#news"},
	}, got[0])
}

func TestParseDuplicateBodiesKept(t *testing.T) {
	got := Parse("TWEET:\nSame\n\nTWEET:\nSame")
	assert.Len(t, got, 2)
}

func TestParseCRLFInput(t *testing.T) {
	got := Parse("TWEET:\r\nWindows body\r\nCONTEXT: c\r\n")
	require.Len(t, got, 1)
	assert.Equal(t, "Windows body", got[0].TweetText)
	assert.Equal(t, "c", got[0].Context)
}
