package deadline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"call4papers/internal/metrics"
)

// Due is the sentinel value written for deadlines that have already passed
// when in-time mode is active.
const Due = "DUE"

// DefaultMinScore is the fuzzy-similarity acceptance threshold on a 0-1
// scale. A candidate scoring exactly the threshold is accepted.
const DefaultMinScore = 0.75

// CandidateRow is one raw row from the deadline index search table. Event
// strings loosely follow the "<ACRONYM> <YEAR>" convention but carry no
// guarantees.
type CandidateRow struct {
	Event    string
	When     string
	Where    string
	Deadline string
}

// Resolved is a deadline bound to one event year. Deadline holds an ISO
// date, the Due sentinel, the original unparseable string, or "".
type Resolved struct {
	EventYear int
	When      string
	Where     string
	Deadline  string
}

// LookupFunc fetches the raw candidate table for an acronym from the
// external deadline index.
type LookupFunc func(ctx context.Context, acronym string) ([]CandidateRow, error)

// ScoreFunc rates the similarity of two strings on a 0-1 scale.
type ScoreFunc func(a, b string) float64

// Similarity is the default scorer. Sorensen-Dice tolerates the word
// reordering and boilerplate that index entries add around venue names.
func Similarity(a, b string) float64 {
	s, err := edlib.StringsSimilarity(strings.ToLower(a), strings.ToLower(b), edlib.SorensenDice)
	if err != nil {
		return 0
	}
	return float64(s)
}

// Resolver disambiguates deadline-index candidates against a known
// conference title and normalizes the resulting dates.
type Resolver struct {
	Lookup       LookupFunc
	Score        ScoreFunc
	MinScore     float64
	OnlyNextYear bool
	InTime       bool
	Now          func() time.Time
}

// NewResolver returns a resolver with the default scorer and threshold.
func NewResolver(lookup LookupFunc) *Resolver {
	return &Resolver{
		Lookup:   lookup,
		Score:    Similarity,
		MinScore: DefaultMinScore,
		Now:      time.Now,
	}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *Resolver) minScore() float64 {
	if r.MinScore > 0 {
		return r.MinScore
	}
	return DefaultMinScore
}

func (r *Resolver) score(a, b string) float64 {
	if r.Score != nil {
		return r.Score(a, b)
	}
	return Similarity(a, b)
}

// Years returns the candidate event years for the current mode.
func (r *Resolver) Years() []int {
	year := r.now().Year()
	if r.OnlyNextYear {
		return []int{year + 1}
	}
	return []int{year, year + 1}
}

// Resolve looks the conference up in the deadline index and returns zero or
// more resolved deadlines, one per matched event year. The lookup error is
// returned so callers can treat it as a soft failure; per-year mismatches
// are logged diagnostics, never errors.
func (r *Resolver) Resolve(ctx context.Context, title, acronym string) ([]Resolved, error) {
	// The index does not expect embedded spaces in acronyms such as "IEA/AIE
	// 2025" venues listed as "IEA AIE".
	acronym = strings.Join(strings.Fields(acronym), "")
	rows, err := r.Lookup(ctx, acronym)
	if err != nil {
		return nil, err
	}

	var out []Resolved
	for _, year := range r.Years() {
		if res, ok := r.resolveYear(rows, title, acronym, year); ok {
			out = append(out, res)
		}
	}
	return out, nil
}

// resolveYear implements the exact-match, fuzzy-disambiguation and
// positional-pair steps for a single event year.
func (r *Resolver) resolveYear(rows []CandidateRow, title, acronym string, year int) (Resolved, bool) {
	want := fmt.Sprintf("%s %d", acronym, year)

	var matches []int
	for i, row := range rows {
		if strings.TrimSpace(row.Event) == want {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		log.Printf("deadline: no entry for %s | %s", want, title)
		return Resolved{}, false
	}

	matched := matches[0]
	if len(matches) >= 2 {
		best, bestScore := -1, 0.0
		for _, i := range matches {
			if s := r.score(title, rows[i].When); s > bestScore {
				best, bestScore = i, s
			}
		}
		if best < 0 || bestScore < r.minScore() {
			log.Printf("deadline: no match above threshold (%.4f) for %s | %s", bestScore, want, title)
			return Resolved{}, false
		}
		matched = best
	}

	// The source table encodes each event as a positional pair: the matched
	// row is a name/header artifact and the row right after it carries the
	// authoritative values. A match with no following row is no match.
	if matched+1 >= len(rows) {
		log.Printf("deadline: dangling entry for %s | %s", want, title)
		return Resolved{}, false
	}
	pair := rows[matched+1]

	deadline, parsed := NormalizeDate(pair.Deadline)
	if !parsed {
		metrics.IncDateUnparsed()
		log.Printf("deadline: unparseable date %q for %s", pair.Deadline, want)
	}
	if r.InTime {
		deadline = r.applyInTime(deadline, parsed)
	}

	return Resolved{
		EventYear: year,
		When:      pair.When,
		Where:     pair.Where,
		Deadline:  deadline,
	}, true
}

// applyInTime replaces past deadlines with the Due sentinel and blanks
// dates that never parsed. A deadline falling exactly today is kept.
func (r *Resolver) applyInTime(deadline string, parsed bool) string {
	if !parsed {
		return ""
	}
	t, err := time.Parse("2006-01-02", deadline)
	if err != nil {
		return ""
	}
	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.Before(today) {
		return Due
	}
	return deadline
}
