package conference

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// minFieldLen rejects scrape artifacts: a real title or acronym is never a
// single character.
const minFieldLen = 2

func normalizeText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Normalize cleans raw source rows and drops malformed ones. Titles are
// NFKC-folded and whitespace-collapsed, acronyms additionally upper-cased.
// Rows whose title or acronym ends up shorter than two characters are
// dropped silently; downstream stages must tolerate the reduced row count.
func Normalize(rows []RawRow) []RawRow {
	out := make([]RawRow, 0, len(rows))
	for _, row := range rows {
		title := normalizeText(row.Title)
		acronym := strings.ToUpper(normalizeText(row.Acronym))
		if len(title) < minFieldLen || len(acronym) < minFieldLen {
			continue
		}
		row.Title = title
		row.Acronym = acronym
		out = append(out, row)
	}
	return out
}
