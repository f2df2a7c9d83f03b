package conference

import (
	"regexp"
	"strings"
)

// BlacklistAll is the sentinel blacklist entry that blocks every row. Used
// together with a whitelist it implements "show only whitelisted venues".
const BlacklistAll = "all"

// FilterSpec bundles the filtering criteria for one run. Keyword matching is
// an unbounded, case-insensitive substring test; acronym matching
// (whitelist/blacklist) is word-bounded. All sets may be empty, which
// disables the corresponding predicate.
type FilterSpec struct {
	Keywords   []string
	NoKeywords []string
	Whitelist  []string
	Blacklist  []string
	Ratings    []string
}

// Empty reports whether the spec filters nothing at all.
func (s FilterSpec) Empty() bool {
	return len(s.Keywords) == 0 && len(s.NoKeywords) == 0 && len(s.Whitelist) == 0 &&
		len(s.Blacklist) == 0 && len(s.Ratings) == 0
}

// substringPattern compiles terms into a case-insensitive alternation with
// plain substring semantics. Deliberately not word-bounded: a keyword like
// "language" must keep matching inside compound titles, which also means a
// short keyword can match inside unrelated words. Existing configurations
// depend on this.
func substringPattern(terms []string) *regexp.Regexp {
	quoted := quoteTerms(terms)
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)`)
}

// wordPattern compiles terms into a case-insensitive, word-bounded
// alternation. Acronym lists need the boundary so that e.g. "AI" cannot
// match inside "AAAI".
func wordPattern(terms []string) *regexp.Regexp {
	quoted := quoteTerms(terms)
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func quoteTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, regexp.QuoteMeta(t))
	}
	return out
}

func normalizeRating(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Filter applies the spec's predicates in their fixed precedence: keyword
// inclusion, keyword exclusion, rating filter, blacklist, and finally the
// whitelist, which re-adds matching rows regardless of the earlier steps.
// The input order is preserved and the input slice is not modified.
func Filter(records []Record, spec FilterSpec) []Record {
	kwRe := substringPattern(spec.Keywords)
	noRe := substringPattern(spec.NoKeywords)
	blackRe := wordPattern(spec.Blacklist)
	whiteRe := wordPattern(spec.Whitelist)

	blockAll := false
	for _, b := range spec.Blacklist {
		if strings.EqualFold(strings.TrimSpace(b), BlacklistAll) {
			blockAll = true
			break
		}
	}

	ratings := make(map[string]bool, len(spec.Ratings))
	for _, r := range spec.Ratings {
		if v := normalizeRating(r); v != "" {
			ratings[v] = true
		}
	}

	keep := func(rec Record) bool {
		if kwRe != nil && !matchTitles(kwRe, rec) {
			return false
		}
		if noRe != nil && matchTitles(noRe, rec) {
			return false
		}
		if len(ratings) > 0 {
			coreOK := rec.CoreRank != "" && ratings[normalizeRating(rec.CoreRank)]
			ggsOK := rec.GGSClass != "" && ratings[normalizeRating(rec.GGSClass)]
			if !coreOK && !ggsOK {
				return false
			}
		}
		if blockAll {
			return false
		}
		if blackRe != nil && blackRe.MatchString(rec.Acronym) {
			return false
		}
		return true
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) || (whiteRe != nil && whiteRe.MatchString(rec.Acronym)) {
			out = append(out, rec)
		}
	}
	return out
}

// matchTitles checks the pattern against both source titles so a record
// matched by either naming scheme survives.
func matchTitles(re *regexp.Regexp, rec Record) bool {
	if rec.CoreTitle != "" && re.MatchString(rec.CoreTitle) {
		return true
	}
	return rec.GGSTitle != "" && re.MatchString(rec.GGSTitle)
}
