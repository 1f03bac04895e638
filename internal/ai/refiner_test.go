package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

func testLimiter() *ratelimit.MultiLimiter {
	m := ratelimit.NewMultiLimiter()
	m.AddLimiter(ratelimit.LimiterRefinement, 1000, 1000)
	return m
}

func newTestRefiner(baseURL string) *GeminiRefiner {
	return NewGeminiRefiner(config.RefinementConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-pro",
	}, testLimiter(), logger.Default())
}

func TestGeminiRefinerRefine(t *testing.T) {
	var gotPath string
	var gotBody generateContentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(generateContentResponse{
			Candidates: []struct {
				Content content `json:"content"`
			}{
				{Content: content{Parts: []part{{Text: "refined text"}}}},
			},
		})
	}))
	defer server.Close()

	refiner := newTestRefiner(server.URL)

	got, err := refiner.Refine(context.Background(), "raw tweets")
	require.NoError(t, err)
	assert.Equal(t, "refined text", got)
	assert.Equal(t, "/models/gemini-pro:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.True(t, strings.Contains(gotBody.Contents[0].Parts[0].Text, "raw tweets"))
}

func TestGeminiRefinerEmptyCandidatesFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateContentResponse{})
	}))
	defer server.Close()

	refiner := newTestRefiner(server.URL)

	got, err := refiner.Refine(context.Background(), "original")
	require.NoError(t, err)
	assert.Equal(t, "original", got)
}

func TestGeminiRefinerServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	refiner := newTestRefiner(server.URL)

	_, err := refiner.Refine(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
