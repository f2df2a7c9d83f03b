package conference

import "testing"

func rec(acronym, title, coreRank, ggsClass string) Record {
	return Record{
		Acronym:   acronym,
		CoreTitle: title,
		Title:     title,
		CoreRank:  coreRank,
		GGSClass:  ggsClass,
	}
}

func TestFilterKeywordSubstringIsUnbounded(t *testing.T) {
	records := []Record{
		rec("ACL", "Annual Meeting on Computational Linguistics", "A*", ""),
		rec("SLE", "Software Language Engineering", "B", ""),
		rec("ISCA", "International Symposium on Computer Architecture", "A*", ""),
	}
	got := Filter(records, FilterSpec{Keywords: []string{"language"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	// "language" must match inside "Linguistics"-adjacent compounds too:
	// substring semantics are intentionally not word-bounded.
	got = Filter(records, FilterSpec{Keywords: []string{"lingu"}})
	if len(got) != 1 || got[0].Acronym != "ACL" {
		t.Fatalf("substring keyword should match inside words, got %v", got)
	}
}

func TestFilterPrecedenceExclusionBeatsInclusion(t *testing.T) {
	records := []Record{rec("NC", "Neural Compilers", "A", "")}
	spec := FilterSpec{
		Keywords:   []string{"neural"},
		NoKeywords: []string{"compiler"},
		Ratings:    []string{"A"},
	}
	if got := Filter(records, spec); len(got) != 0 {
		t.Fatalf("nokeyword match must exclude the row, got %v", got)
	}
}

func TestFilterRatingEitherSchemeCounts(t *testing.T) {
	records := []Record{
		rec("ONE", "Venue One", "", "1"),
		rec("TWO", "Venue Two", "B", ""),
		rec("THREE", "Venue Three", "", ""),
	}
	got := Filter(records, FilterSpec{Ratings: []string{"a*", " 1 ", "B"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	for _, r := range got {
		if r.Acronym == "THREE" {
			t.Fatalf("row with both ratings missing must be dropped")
		}
	}
}

func TestFilterBlacklistIsWordBounded(t *testing.T) {
	records := []Record{
		rec("AI", "Artificial Intelligence Journal Conference", "B", ""),
		rec("AAAI", "AAAI Conference on Artificial Intelligence", "A*", ""),
	}
	got := Filter(records, FilterSpec{Blacklist: []string{"AI"}})
	if len(got) != 1 || got[0].Acronym != "AAAI" {
		t.Fatalf("blacklist must not match inside longer acronyms, got %v", got)
	}
}

func TestFilterWhitelistOverridesBlacklist(t *testing.T) {
	records := []Record{rec("CICLING", "Computational Linguistics and Intelligent Text Processing", "C", "")}
	spec := FilterSpec{
		Blacklist: []string{"CICLING"},
		Whitelist: []string{"CICLING"},
	}
	got := Filter(records, spec)
	if len(got) != 1 {
		t.Fatalf("whitelisted row must be re-added, got %d rows", len(got))
	}
}

func TestFilterBlacklistAllSentinel(t *testing.T) {
	records := []Record{
		rec("AAAI", "AAAI Conference on Artificial Intelligence", "A*", ""),
		rec("COLING", "International Conference on Computational Linguistics", "A", ""),
	}
	spec := FilterSpec{
		Blacklist: []string{BlacklistAll},
		Whitelist: []string{"COLING"},
	}
	got := Filter(records, spec)
	if len(got) != 1 || got[0].Acronym != "COLING" {
		t.Fatalf("blacklist all must block everything except the whitelist, got %v", got)
	}
}

func TestFilterEmptySpecKeepsEverything(t *testing.T) {
	records := []Record{
		rec("AAAI", "AAAI Conference on Artificial Intelligence", "A*", ""),
		rec("COLING", "International Conference on Computational Linguistics", "A", ""),
	}
	got := Filter(records, FilterSpec{})
	if len(got) != len(records) {
		t.Fatalf("empty spec must be a no-op, got %d rows", len(got))
	}
}

func TestFilterChecksBothTitleFields(t *testing.T) {
	records := []Record{{
		Acronym:  "GOV",
		GGSTitle: "Symposium on Neural Methods",
		Title:    "Symposium on Neural Methods",
		GGSClass: "2",
	}}
	got := Filter(records, FilterSpec{Keywords: []string{"neural"}})
	if len(got) != 1 {
		t.Fatalf("keyword must match the GGS title when CORE title is absent")
	}
}
