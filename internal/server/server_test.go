package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/storage"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRepo struct {
	storage.Repository
	counts   storage.StageCounts
	byStatus map[models.TopicStatus][]*models.GeneratedPost
	raw      []*models.Topic
	upserted []*models.Topic
}

func (r *fakeRepo) Migrate() error { return nil }

func (r *fakeRepo) Counts(ctx context.Context) (storage.StageCounts, error) {
	return r.counts, nil
}

func (r *fakeRepo) ListPostsByStatus(ctx context.Context, status models.TopicStatus) ([]*models.GeneratedPost, error) {
	return r.byStatus[status], nil
}

func (r *fakeRepo) ListRawTopics(ctx context.Context) ([]*models.Topic, error) {
	return r.raw, nil
}

func (r *fakeRepo) UpsertApprovedTopic(ctx context.Context, topic *models.Topic) error {
	r.upserted = append(r.upserted, topic)
	return nil
}

func (r *fakeRepo) ListApprovedTopics(ctx context.Context) ([]*models.Topic, error) {
	return nil, nil
}

func newTestServer(repo storage.Repository) *Server {
	cfg := &config.Config{}
	cfg.Curation.TopN = 5
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
	store := storage.NewHandle(func() (storage.Repository, error) { return repo, nil })
	return New(cfg, store, ratelimit.NewDefaultLimiter(), logger.Default())
}

func doRequest(t *testing.T, s *Server, method, path, payload string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var reqBody io.Reader
	if payload != "" {
		reqBody = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reqBody)
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestStateReturnsCountsAndRecent(t *testing.T) {
	enhanced := make([]*models.GeneratedPost, 7)
	for i := range enhanced {
		enhanced[i] = &models.GeneratedPost{ID: uint(i + 1), Status: models.TopicStatusEnhanced}
	}
	repo := &fakeRepo{
		counts:   storage.StageCounts{RawTopics: 12, TopTopics: 5, FinalPosts: 7},
		byStatus: map[models.TopicStatus][]*models.GeneratedPost{models.TopicStatusEnhanced: enhanced},
	}

	rec, body := doRequest(t, newTestServer(repo), http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var counts storage.StageCounts
	require.NoError(t, json.Unmarshal(body["counts"], &counts))
	assert.Equal(t, int64(12), counts.RawTopics)

	var recent []models.GeneratedPost
	require.NoError(t, json.Unmarshal(body["recent"], &recent))
	assert.Len(t, recent, 5)
}

func TestTodayMergesAndOrdersByRecency(t *testing.T) {
	older := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)
	repo := &fakeRepo{byStatus: map[models.TopicStatus][]*models.GeneratedPost{
		models.TopicStatusGenerated: {{ID: 1, TopicTitle: "older", CreatedAt: older}},
		models.TopicStatusEnhanced:  {{ID: 2, TopicTitle: "newer", CreatedAt: newer}},
	}}

	rec, body := doRequest(t, newTestServer(repo), http.MethodGet, "/api/today", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []models.GeneratedPost
	require.NoError(t, json.Unmarshal(body["posts"], &posts))
	require.Len(t, posts, 2)
	assert.Equal(t, "newer", posts[0].TopicTitle)
	assert.Equal(t, "older", posts[1].TopicTitle)
}

func TestStepTwoRunsCurationAndCapturesLogs(t *testing.T) {
	repo := &fakeRepo{raw: []*models.Topic{
		{Title: "parliament session", Tags: models.StringSlice{"politics"}, CreatedAt: time.Now()},
	}}

	rec, body := doRequest(t, newTestServer(repo), http.MethodPost, "/api/steps/2", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, "true", string(body["ok"]))
	assert.Len(t, repo.upserted, 1)

	var logs []json.RawMessage
	require.NoError(t, json.Unmarshal(body["logs"], &logs))
	assert.NotEmpty(t, logs)
}

func TestStepTwoHonorsTopNFromBody(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{raw: []*models.Topic{
		{Title: "modi cabinet reshuffle", Tags: models.StringSlice{"politics"}, CreatedAt: now},
		{Title: "weather report", Tags: models.StringSlice{"general"}, CreatedAt: now},
	}}

	rec, body := doRequest(t, newTestServer(repo), http.MethodPost, "/api/steps/2", `{"topN":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, "true", string(body["ok"]))
	// Config default is 5; the body caps selection at 1.
	assert.Len(t, repo.upserted, 1)
}

func TestStepThreeModeFromBody(t *testing.T) {
	// Live mode without an API key is rejected; the body switches to mock.
	repo := &fakeRepo{}
	srv := newTestServer(repo)

	rec, _ := doRequest(t, srv, http.MethodPost, "/api/steps/3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, body := doRequest(t, srv, http.MethodPost, "/api/steps/3", `{"mode":"mock"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "true", string(body["ok"]))
}

func TestStepUnknownReturns404(t *testing.T) {
	rec, _ := doRequest(t, newTestServer(&fakeRepo{}), http.MethodPost, "/api/steps/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
