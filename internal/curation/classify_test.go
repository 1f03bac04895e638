package curation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTagTopic(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  []string
	}{
		{"hindu keyword", "Ram Mandir inauguration", []string{TagHindu}},
		{"politics keyword", "Parliament session on new bill", []string{TagPolitics}},
		{"multiple categories", "Modi discusses China relief effort", []string{TagPolitics, TagGlobal, TagHumanity}},
		{"case insensitive", "DIWALI celebrations begin", []string{TagHindu}},
		{"no match falls back", "Quarterly results announced", []string{TagDefault}},
		{"empty title falls back", "", []string{TagDefault}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TagTopic(tt.title))
		})
	}
}

func TestTagTopicNeverEmpty(t *testing.T) {
	for _, title := range []string{"", "xyz", "completely unrelated text"} {
		assert.NotEmpty(t, TagTopic(title))
	}
}

func TestCategoriesOrderFixed(t *testing.T) {
	// Enrichment priority lookups depend on this order.
	want := []string{TagHindu, TagPolitics, TagGlobal, TagHumanity}
	got := make([]string, 0, len(Categories))
	for _, c := range Categories {
		got = append(got, c.Tag)
	}
	assert.Equal(t, want, got)
}
