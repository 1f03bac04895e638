package trends

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trendsPage = `<html><body>
<div class="trend-card">
  <ol class="trend-card__list">
    <li><a href="/t/1">Ram Mandir</a></li>
    <li><a href="/t/2">Budget 2024</a></li>
    <li><a href="/t/3">#Elections</a></li>
    <li><a href="/t/4">Chandrayaan</a></li>
    <li><a href="/t/5">Monsoon</a></li>
    <li><a href="/t/6">Sixth Trend</a></li>
  </ol>
</div>
</body></html>`

func TestParseTrends(t *testing.T) {
	topics, err := parseTrends(strings.NewReader(trendsPage), 5, "https://trends24.in/india/")
	require.NoError(t, err)
	require.Len(t, topics, 5)

	assert.Equal(t, "Ram Mandir", topics[0].Title)
	assert.True(t, topics[0].XTrending)
	require.NotNil(t, topics[0].TrendRank)
	assert.Equal(t, 1, *topics[0].TrendRank)

	require.NotNil(t, topics[4].TrendRank)
	assert.Equal(t, 5, *topics[4].TrendRank)
	assert.Equal(t, "X Trends India", topics[2].Source)
	assert.Equal(t, "https://trends24.in/india/", topics[1].SourceLink)
}

func TestParseTrendsLimit(t *testing.T) {
	topics, err := parseTrends(strings.NewReader(trendsPage), 2, "u")
	require.NoError(t, err)
	assert.Len(t, topics, 2)
}

func TestParseTrendsEmptyPage(t *testing.T) {
	topics, err := parseTrends(strings.NewReader("<html><body></body></html>"), 5, "u")
	require.NoError(t, err)
	assert.Empty(t, topics)
}
