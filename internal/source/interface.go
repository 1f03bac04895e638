package source

import (
	"context"

	"github.com/autox-agent/internal/models"
)

// Source types
const (
	TypeRSS    = "rss"
	TypeTrends = "trends"
)

// Limits caps how many items each source type contributes per run.
type Limits struct {
	NewsPerFeed int
	Trends      int
}

// For returns the cap for a source type; zero means the source's default.
func (l Limits) For(sourceType string) int {
	switch sourceType {
	case TypeRSS:
		return l.NewsPerFeed
	case TypeTrends:
		return l.Trends
	default:
		return 0
	}
}

// TopicSource defines the interface for topic collection sources. Fetch
// returns topics with raw titles; normalization and tagging happen in the
// collection stage.
type TopicSource interface {
	// Name returns the unique name of this source
	Name() string

	// Type returns the source type (rss, trends)
	Type() string

	// Fetch retrieves up to limit topics from the source
	Fetch(ctx context.Context, limit int) ([]*models.Topic, error)
}

// Manager manages multiple topic sources
type Manager struct {
	sources []TopicSource
}

// NewManager creates a new source manager
func NewManager() *Manager {
	return &Manager{
		sources: make([]TopicSource, 0),
	}
}

// Register adds a source to the manager
func (m *Manager) Register(source TopicSource) {
	m.sources = append(m.sources, source)
}

// GetSources returns all registered sources
func (m *Manager) GetSources() []TopicSource {
	return m.sources
}

// GetSourceByName returns a source by name
func (m *Manager) GetSourceByName(name string) TopicSource {
	for _, s := range m.sources {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// FetchAll fetches topics from every source, one source at a time. A source
// failure is isolated: it lands in the error list and the remaining sources
// still contribute.
func (m *Manager) FetchAll(ctx context.Context, limits Limits) ([]*models.Topic, []error) {
	var allTopics []*models.Topic
	var errors []error

	for _, s := range m.sources {
		topics, err := s.Fetch(ctx, limits.For(s.Type()))
		if err != nil {
			errors = append(errors, err)
			continue
		}
		allTopics = append(allTopics, topics...)
	}

	return allTopics, errors
}
