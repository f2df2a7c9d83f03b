package conference

// RawRow is a single conference row as delivered by one ranking source,
// before normalization. Rank carries the CORE rank or the GGS class
// depending on which source produced the row. Extra columns are kept in
// delivery order so the report can append them verbatim.
type RawRow struct {
	Title     string
	Acronym   string
	Rank      string
	ExtraKeys []string
	Extras    map[string]string
}

// Extra returns the named extra column, or "" when the row does not
// carry it.
func (r RawRow) Extra(key string) string {
	if r.Extras == nil {
		return ""
	}
	return r.Extras[key]
}

// Record is one merged conference row. The acronym is the join key across
// all sources; Title is derived from the two source titles and is never
// empty. Records are not mutated after the merge.
type Record struct {
	Acronym   string
	CoreTitle string
	GGSTitle  string
	Title     string
	CoreRank  string
	GGSClass  string
	ExtraKeys []string
	Extras    map[string]string
}

// Extra returns the named extra column, or "" when the record does not
// carry it.
func (r Record) Extra(key string) string {
	if r.Extras == nil {
		return ""
	}
	return r.Extras[key]
}
