package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Variant is one candidate post derived from a topic. TweetText and Context
// are fixed at parse time; the remaining fields may be filled or replaced by
// the enrichment stage.
type Variant struct {
	TweetText      string   `json:"tweet"`
	Context        string   `json:"context"`
	ImageKeyword   string   `json:"image_keyword"`
	ImageURL       string   `json:"image_url,omitempty"`
	RetweetAccount string   `json:"retweet_account"`
	Hashtags       []string `json:"hashtags"`
	QuoteComment   string   `json:"quote_comment,omitempty"`
}

// Variants is a variant batch stored as a single JSON column
type Variants []Variant

func (v Variants) Value() (driver.Value, error) {
	return json.Marshal(v)
}

func (v *Variants) Scan(value interface{}) error {
	if value == nil {
		*v = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("unsupported type for Variants: %T", value)
		}
		b = []byte(str)
	}
	return json.Unmarshal(b, v)
}

// GeneratedPost holds the variant batch produced for one topic. Rows live in
// the final_posts collection, keyed by topic title; the batch is replaced
// wholesale each time generation re-runs for the topic.
type GeneratedPost struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	TopicTitle string      `gorm:"uniqueIndex;not null" json:"topic"`
	Tags       StringSlice `gorm:"type:json" json:"tags"`
	Source     string      `json:"source"`
	SourceLink string      `json:"source_link"`
	Variants   Variants    `gorm:"type:json" json:"tweet_variants"`
	Status     TopicStatus `gorm:"index" json:"status"`
	CreatedAt  time.Time   `gorm:"autoCreateTime" json:"created_at"`
	EnhancedAt *time.Time  `json:"enhanced_at,omitempty"`
}

// Preview returns the first variant's tweet text, shortened for listings
func (p *GeneratedPost) Preview(max int) string {
	if len(p.Variants) == 0 {
		return ""
	}
	text := strings.TrimSpace(p.Variants[0].TweetText)
	if max > 0 && len(text) > max {
		return text[:max] + "..."
	}
	return text
}
