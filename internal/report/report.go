// Package report flattens resolved conference records into the final
// tabular output: derived rank scores, acceptance rates, column selection
// and the two-stage sort.
package report

import (
	"sort"
	"strconv"

	"call4papers/internal/conference"
	"call4papers/internal/deadline"
)

// Row is one output row: a merged conference record, optionally bound to a
// resolved deadline, plus the derived fields.
type Row struct {
	Record         conference.Record
	Deadline       *deadline.Resolved
	MaxRank        int
	AcceptanceRate *float64
}

// baseColumns is the minimal fixed column set, in output order.
var baseColumns = []string{
	"Acronym",
	"Title",
	"CORE rank",
	"GGS Class",
	"deadline",
	"when",
	"where",
	"Event year",
	"Max rank",
	"Acceptance Rate",
}

// NewRow derives the synthetic fields for one record/deadline pair.
func NewRow(rec conference.Record, d *deadline.Resolved) Row {
	return Row{
		Record:         rec,
		Deadline:       d,
		MaxRank:        MaxRank(rec.CoreRank, rec.GGSClass),
		AcceptanceRate: AcceptanceRate(rec.Acronym),
	}
}

func (r Row) deadlineField() string {
	if r.Deadline == nil {
		return ""
	}
	return r.Deadline.Deadline
}

// Sort orders rows for output. When byRating is set, rows are first sorted
// ascending by (GGS class, CORE rank, deadline, acronym) and then re-sorted
// descending on the max-rank score alone. Both passes are stable, so the
// first ordering survives inside every equal max-rank group.
func Sort(rows []Row, byRating bool) {
	if !byRating {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Record.GGSClass != b.Record.GGSClass {
			return a.Record.GGSClass < b.Record.GGSClass
		}
		if a.Record.CoreRank != b.Record.CoreRank {
			return a.Record.CoreRank < b.Record.CoreRank
		}
		if a.deadlineField() != b.deadlineField() {
			return a.deadlineField() < b.deadlineField()
		}
		return a.Record.Acronym < b.Record.Acronym
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MaxRank > rows[j].MaxRank
	})
}

// Columns returns the output header. With showExtra, every extra column
// seen across the rows is appended after the minimal set, in first-seen
// order.
func Columns(rows []Row, showExtra bool) []string {
	cols := append([]string(nil), baseColumns...)
	if !showExtra {
		return cols
	}
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		seen[c] = true
	}
	for _, row := range rows {
		for _, k := range row.Record.ExtraKeys {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}

// Render projects a row onto the given column order.
func Render(row Row, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		switch col {
		case "Acronym":
			out[i] = row.Record.Acronym
		case "Title":
			out[i] = row.Record.Title
		case "CORE rank":
			out[i] = row.Record.CoreRank
		case "GGS Class":
			out[i] = row.Record.GGSClass
		case "deadline":
			out[i] = row.deadlineField()
		case "when":
			if row.Deadline != nil {
				out[i] = row.Deadline.When
			}
		case "where":
			if row.Deadline != nil {
				out[i] = row.Deadline.Where
			}
		case "Event year":
			if row.Deadline != nil {
				out[i] = strconv.Itoa(row.Deadline.EventYear)
			}
		case "Max rank":
			out[i] = strconv.Itoa(row.MaxRank)
		case "Acceptance Rate":
			if row.AcceptanceRate != nil {
				out[i] = strconv.FormatFloat(*row.AcceptanceRate, 'f', 2, 64)
			}
		default:
			out[i] = row.Record.Extra(col)
		}
	}
	return out
}
