// Package tweets turns the generation service's unstructured output into
// structured post variants, and owns the prompt/template text sent to it.
package tweets

import (
	"strings"

	"github.com/autox-agent/internal/models"
)

// blockMarker separates candidate blocks in generated text.
const blockMarker = "TWEET:"

// Recognized field labels inside a block, matched case-insensitively at the
// start of a line.
const (
	labelContext      = "CONTEXT:"
	labelImageKeyword = "IMAGE_KEYWORD:"
	labelRetweet      = "RETWEET_ACCOUNT:"
	labelHashtags     = "HASHTAGS:"
)

var fieldLabels = []string{labelContext, labelImageKeyword, labelRetweet, labelHashtags}

// Parse converts generated text into an ordered sequence of variants. It
// never fails: malformed input degrades to fewer variants, at worst none.
// Text before the first block marker is discarded; a block whose tweet body
// is empty after trimming is dropped.
func Parse(text string) []models.Variant {
	blocks := splitFold(text, blockMarker)
	if len(blocks) < 2 {
		return nil
	}

	variants := make([]models.Variant, 0, len(blocks)-1)
	for _, block := range blocks[1:] {
		v, ok := parseBlock(block)
		if ok {
			variants = append(variants, v)
		}
	}
	return variants
}

func parseBlock(block string) (models.Variant, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	// The tweet body is everything before the first labelled line.
	bodyEnd := len(lines)
	for i, line := range lines {
		if matchLabel(line) != "" {
			bodyEnd = i
			break
		}
	}

	tweetText := strings.TrimSpace(strings.Join(lines[:bodyEnd], " "))
	if tweetText == "" {
		return models.Variant{}, false
	}

	return models.Variant{
		TweetText: tweetText,
		Context:   pickField(lines, labelContext),
		// The generator's own suggestions for these two are kept; the
		// enrichment stage overwrites them from its fixed tables.
		ImageKeyword:   pickField(lines, labelImageKeyword),
		RetweetAccount: pickField(lines, labelRetweet),
		Hashtags:       normalizeHashtags(pickField(lines, labelHashtags)),
	}, true
}

// matchLabel returns the recognized label the line starts with, or "".
func matchLabel(line string) string {
	for _, label := range fieldLabels {
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return label
		}
	}
	return ""
}

// pickField returns the value of the first line carrying the label, with the
// label prefix stripped and the rest trimmed. Missing label means "".
func pickField(lines []string, label string) string {
	for _, line := range lines {
		if len(line) >= len(label) && strings.EqualFold(line[:len(label)], label) {
			return strings.TrimSpace(line[len(label):])
		}
	}
	return ""
}

// normalizeHashtags splits the hashtags value on whitespace and gives every
// token exactly one leading "#".
func normalizeHashtags(value string) []string {
	var tags []string
	for _, token := range strings.Fields(value) {
		if !strings.HasPrefix(token, "#") {
			token = "#" + token
		}
		tags = append(tags, token)
	}
	return tags
}

// splitFold splits s on every case-insensitive occurrence of sep.
func splitFold(s, sep string) []string {
	lower := strings.ToLower(s)
	lowerSep := strings.ToLower(sep)

	var parts []string
	start := 0
	for {
		idx := strings.Index(lower[start:], lowerSep)
		if idx < 0 {
			parts = append(parts, s[start:])
			return parts
		}
		parts = append(parts, s[start:start+idx])
		start += idx + len(sep)
	}
}
