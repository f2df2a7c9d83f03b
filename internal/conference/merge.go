package conference

import (
	"fmt"
	"log"
	"strings"
)

// RefSource selects the join semantics of the merge: which source's key set
// is preserved in the output.
type RefSource string

const (
	RefCore RefSource = "core" // left join, keep every CORE row
	RefGGS  RefSource = "ggs"  // right join, keep every GGS row
	RefAll  RefSource = "all"  // full outer join, union of both key sets
)

// ParseRefSource validates a user-supplied ref-source value.
func ParseRefSource(s string) (RefSource, error) {
	switch RefSource(strings.ToLower(strings.TrimSpace(s))) {
	case RefCore:
		return RefCore, nil
	case RefGGS:
		return RefGGS, nil
	case RefAll:
		return RefAll, nil
	}
	return "", fmt.Errorf("unknown ref-source %q (want core, ggs or all)", s)
}

// Merge joins the CORE and GGS tables on acronym. Matching is exact string
// equality on the normalized acronym; fuzzy matching is reserved for the
// deadline resolver. Every row of the side(s) selected by ref appears
// exactly once in the output, with the counterpart fields empty when no
// match exists. When the attached side carries duplicate acronyms, the
// first occurrence wins and the rest are logged.
func Merge(core, ggs []RawRow, ref RefSource) []Record {
	coreIdx := indexByAcronym(core, "core")
	ggsIdx := indexByAcronym(ggs, "ggs")

	var out []Record
	appendRecord := func(rec Record) {
		if rec.Title == "" {
			// Neither source had a usable title.
			return
		}
		out = append(out, rec)
	}

	if ref == RefCore || ref == RefAll {
		for _, c := range core {
			rec := Record{
				Acronym:   c.Acronym,
				CoreTitle: c.Title,
				CoreRank:  c.Rank,
			}
			if g, ok := ggsIdx[c.Acronym]; ok {
				rec.GGSTitle = g.Title
				rec.GGSClass = g.Rank
				rec.ExtraKeys, rec.Extras = mergeExtras(c, g)
			} else {
				rec.ExtraKeys, rec.Extras = mergeExtras(c, RawRow{})
			}
			rec.Title = preferTitle(rec.CoreTitle, rec.GGSTitle)
			appendRecord(rec)
		}
	}

	if ref == RefGGS || ref == RefAll {
		for _, g := range ggs {
			if ref == RefAll {
				// Already emitted as part of a CORE row.
				if _, ok := coreIdx[g.Acronym]; ok {
					continue
				}
			}
			rec := Record{
				Acronym:  g.Acronym,
				GGSTitle: g.Title,
				GGSClass: g.Rank,
			}
			if c, ok := coreIdx[g.Acronym]; ok {
				rec.CoreTitle = c.Title
				rec.CoreRank = c.Rank
				rec.ExtraKeys, rec.Extras = mergeExtras(c, g)
			} else {
				rec.ExtraKeys, rec.Extras = mergeExtras(RawRow{}, g)
			}
			rec.Title = preferTitle(rec.CoreTitle, rec.GGSTitle)
			appendRecord(rec)
		}
	}
	return out
}

// preferTitle implements the title preference rule: the CORE title wins when
// present, otherwise the GGS title.
func preferTitle(coreTitle, ggsTitle string) string {
	if coreTitle != "" {
		return coreTitle
	}
	return ggsTitle
}

func indexByAcronym(rows []RawRow, source string) map[string]RawRow {
	idx := make(map[string]RawRow, len(rows))
	for _, row := range rows {
		if _, ok := idx[row.Acronym]; ok {
			log.Printf("merge: duplicate %s acronym %s, keeping first occurrence", source, row.Acronym)
			continue
		}
		idx[row.Acronym] = row
	}
	return idx
}

// mergeExtras concatenates extra columns from both sides, CORE first. On a
// key collision the CORE value wins.
func mergeExtras(c, g RawRow) ([]string, map[string]string) {
	if len(c.Extras) == 0 && len(g.Extras) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(c.ExtraKeys)+len(g.ExtraKeys))
	extras := make(map[string]string, len(c.Extras)+len(g.Extras))
	for _, k := range c.ExtraKeys {
		if _, ok := extras[k]; !ok {
			keys = append(keys, k)
		}
		extras[k] = c.Extras[k]
	}
	for _, k := range g.ExtraKeys {
		if _, ok := extras[k]; ok {
			continue
		}
		keys = append(keys, k)
		extras[k] = g.Extras[k]
	}
	return keys, extras
}
