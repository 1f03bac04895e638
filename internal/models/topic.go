package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// TopicStatus represents the current stage of a topic in the pipeline
type TopicStatus string

const (
	TopicStatusCollected TopicStatus = "collected"
	TopicStatusApproved  TopicStatus = "approved"
	TopicStatusGenerated TopicStatus = "generated"
	TopicStatusEnhanced  TopicStatus = "enhanced"
)

// StringSlice is a custom type for storing string arrays in JSON
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type for StringSlice: %T", value)
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, s)
}

// Topic represents a collected mention of a subject. The normalized title is
// the identity key across the whole lifecycle; both the raw_topics and
// top_topics collections are keyed by it.
type Topic struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"uniqueIndex;not null" json:"title"`
	Source      string      `json:"source"`
	SourceLink  string      `json:"source_link"`
	XTrending   bool        `json:"x_trending"`
	TrendRank   *int        `json:"trend_rank,omitempty"` // set only when XTrending
	Tags        StringSlice `gorm:"type:json" json:"tags"`
	Score       int         `json:"score"` // set by the scoring engine only
	Status      TopicStatus `gorm:"index;default:'collected'" json:"status"`
	CreatedAt   time.Time   `gorm:"autoCreateTime" json:"created_at"`
	SelectedAt  *time.Time  `json:"selected_at,omitempty"`
	GeneratedAt *time.Time  `json:"generated_at,omitempty"`
}

// HasTag reports whether the topic carries the given category tag
func (t *Topic) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}
