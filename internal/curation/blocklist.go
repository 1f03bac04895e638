package curation

import "strings"

// Blockwords is the fixed blocklist. A title containing any of these
// substrings (case-insensitive) is excluded from selection unconditionally,
// before any scoring happens.
var Blockwords = []string{
	"movie",
	"trailer",
	"box office",
	"celebrity",
	"match highlights",
	"ipl",
	"cricket score",
	"football",
}

// IsBlocked reports whether the title contains any of the given blocked
// substrings, case-insensitively.
func IsBlocked(title string, blocked []string) bool {
	lower := strings.ToLower(title)
	for _, word := range blocked {
		if strings.Contains(lower, strings.ToLower(word)) {
			return true
		}
	}
	return false
}
