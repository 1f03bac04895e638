// Package trends scrapes the X trending-topics page for India. Scraped
// topics carry their position on the page as trend rank; lower is more
// prominent.
package trends

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/autox-agent/internal/config"
	"github.com/autox-agent/internal/models"
	"github.com/autox-agent/internal/source"
	"github.com/autox-agent/pkg/logger"
	"github.com/autox-agent/pkg/ratelimit"
)

const (
	defaultLimit  = 5
	trendSelector = ".trend-card__list li a"
	sourceLabel   = "X Trends India"
	userAgent     = "Mozilla/5.0 (compatible; autox-agent/1.0)"
)

// Source implements TopicSource for the trends page
type Source struct {
	url        string
	limit      int
	httpClient *http.Client
	limiter    *ratelimit.MultiLimiter
	log        *logger.Logger
}

// New creates a new trends source
func New(cfg config.TrendsConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Source {
	limit := cfg.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Source{
		url:   cfg.URL,
		limit: limit,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		limiter: limiter,
		log:     log.WithSource(source.TypeTrends, sourceLabel),
	}
}

// Name returns the source name
func (s *Source) Name() string {
	return sourceLabel
}

// Type returns "trends"
func (s *Source) Type() string {
	return source.TypeTrends
}

// Fetch scrapes the top trending topics from the page.
func (s *Source) Fetch(ctx context.Context, limit int) ([]*models.Topic, error) {
	if limit <= 0 {
		limit = s.limit
	}

	if err := s.limiter.Wait(ctx, ratelimit.LimiterTrends); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	s.log.Debug().Str("url", s.url).Msg("Fetching trends page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trends page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trends page returned status %d", resp.StatusCode)
	}

	topics, err := parseTrends(resp.Body, limit, s.url)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("count", len(topics)).Msg("Fetched trending topics")
	return topics, nil
}

// parseTrends extracts the first limit trend entries from the page HTML.
func parseTrends(r io.Reader, limit int, pageURL string) ([]*models.Topic, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trends page: %w", err)
	}

	var topics []*models.Topic
	doc.Find(trendSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if i >= limit {
			return false
		}
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			return true
		}
		rank := i + 1
		topics = append(topics, &models.Topic{
			Title:      title,
			Source:     sourceLabel,
			SourceLink: pageURL,
			XTrending:  true,
			TrendRank:  &rank,
			Status:     models.TopicStatusCollected,
		})
		return true
	})

	return topics, nil
}

// Ensure Source implements source.TopicSource
var _ source.TopicSource = (*Source)(nil)
