package curation

import "strings"

// Category tags. TagDefault is used when nothing else matches.
const (
	TagHindu    = "hindu"
	TagPolitics = "politics"
	TagGlobal   = "global"
	TagHumanity = "humanity"
	TagDefault  = "general"
)

// Category maps a tag to its keyword list.
type Category struct {
	Tag      string
	Keywords []string
}

// Categories is the fixed category table. Its order is part of the contract:
// it determines both the order of tags on a topic and the priority used by
// enrichment lookups, so entries must not be reordered.
var Categories = []Category{
	{Tag: TagHindu, Keywords: []string{"ram", "mandir", "temple", "diwali", "sanatan"}},
	{Tag: TagPolitics, Keywords: []string{"modi", "bjp", "congress", "parliament", "election"}},
	{Tag: TagGlobal, Keywords: []string{"china", "pakistan", "usa", "ukraine", "israel", "uk"}},
	{Tag: TagHumanity, Keywords: []string{"relief", "rescue", "help", "donation"}},
}

// TagTopic returns the category tags whose keywords occur in the title,
// matched case-insensitively as substrings. Categories are not mutually
// exclusive. A title that matches nothing gets the default tag, so the
// result is never empty.
func TagTopic(title string) []string {
	lower := strings.ToLower(title)
	var tags []string

	for _, cat := range Categories {
		for _, word := range cat.Keywords {
			if strings.Contains(lower, word) {
				tags = append(tags, cat.Tag)
				break
			}
		}
	}

	if len(tags) == 0 {
		return []string{TagDefault}
	}
	return tags
}
