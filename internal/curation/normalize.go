// Package curation holds the deterministic pipeline core: title
// normalization, category tagging, scoring and top-N selection. Everything in
// this package is pure; persistence and external calls live in the stage
// agents.
package curation

import "strings"

// noiseTokens are removed from titles case-insensitively, in this order.
var noiseTokens = []string{"LIVE", "Watch", "Video"}

// NormalizeTitle cleans a raw headline: everything from the first "|" onward
// is dropped, noise tokens are removed anywhere in the string, and the result
// is trimmed. The function is idempotent; an empty result means the topic
// should be discarded by the caller.
func NormalizeTitle(raw string) string {
	title := raw
	if idx := strings.Index(title, "|"); idx >= 0 {
		title = title[:idx]
	}
	for _, token := range noiseTokens {
		title = removeFold(title, token)
	}
	return strings.TrimSpace(title)
}

// removeFold deletes every case-insensitive occurrence of token from s.
func removeFold(s, token string) string {
	if token == "" {
		return s
	}
	lowerToken := strings.ToLower(token)
	var b strings.Builder
	for {
		idx := strings.Index(strings.ToLower(s), lowerToken)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		s = s[idx+len(token):]
	}
}
