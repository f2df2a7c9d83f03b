package deadline

import (
	"regexp"
	"strings"
	"time"
)

// parenPattern strips parenthetical annotations such as the abstract
// deadline that the index appends to the paper deadline.
var parenPattern = regexp.MustCompile(`\s*\([^)]*\)`)

// dateLayouts covers the calendar formats observed in the deadline index.
var dateLayouts = []string{
	"Jan 2, 2006",
	"Jan 02, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2006-01-02",
}

// NormalizeDate reformats a raw deadline string to ISO YYYY-MM-DD. The
// second return value reports whether parsing succeeded; on failure the
// trimmed original string is returned unchanged so callers can keep it.
func NormalizeDate(raw string) (string, bool) {
	cleaned := strings.TrimSpace(parenPattern.ReplaceAllString(raw, ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return strings.TrimSpace(raw), false
}
