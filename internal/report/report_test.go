package report

import (
	"bytes"
	"strings"
	"testing"

	"call4papers/internal/conference"
	"call4papers/internal/deadline"
)

func TestScoreMapping(t *testing.T) {
	cases := []struct {
		label string
		want  int
	}{
		{"A*", 200}, {"1", 200},
		{"A", 150}, {"2", 150},
		{"B", 100}, {"3", 100},
		{"C", 30},
		{"", 0}, {"Australasian B", 0}, {"WIP", 0},
	}
	for _, tc := range cases {
		if got := Score(tc.label); got != tc.want {
			t.Fatalf("Score(%q) = %d, want %d", tc.label, got, tc.want)
		}
	}
	if got := MaxRank("B", "1"); got != 200 {
		t.Fatalf("MaxRank must take the better scheme, got %d", got)
	}
}

func TestAcceptanceRateLookup(t *testing.T) {
	if rate := AcceptanceRate(" aaai "); rate == nil || *rate != 0.20 {
		t.Fatalf("expected AAAI rate, got %v", rate)
	}
	if rate := AcceptanceRate("NOSUCH"); rate != nil {
		t.Fatalf("unknown acronym must yield nil, got %v", rate)
	}
}

func row(acronym, coreRank, ggsClass, dl string) Row {
	rec := conference.Record{Acronym: acronym, Title: acronym + " Conference", CoreRank: coreRank, GGSClass: ggsClass}
	var d *deadline.Resolved
	if dl != "" {
		d = &deadline.Resolved{EventYear: 2025, Deadline: dl}
	}
	return NewRow(rec, d)
}

func TestSortByRatingTwoPass(t *testing.T) {
	rows := []Row{
		row("ZZZ", "B", "", ""),
		row("BBB", "A*", "", ""),
		row("AAA", "", "1", ""),
		row("CCC", "A", "2", ""),
	}
	Sort(rows, true)

	// Max rank groups descending: {BBB, AAA} at 200, CCC at 150, ZZZ at
	// 100. Inside the 200 group the first pass ordered BBB (empty GGS
	// class) before AAA (class 1), and stability preserves that.
	gotOrder := []string{rows[0].Record.Acronym, rows[1].Record.Acronym, rows[2].Record.Acronym, rows[3].Record.Acronym}
	want := []string{"BBB", "AAA", "CCC", "ZZZ"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", gotOrder, want)
		}
	}
}

func TestSortDisabledKeepsOrder(t *testing.T) {
	rows := []Row{row("ZZZ", "C", "", ""), row("AAA", "A*", "", "")}
	Sort(rows, false)
	if rows[0].Record.Acronym != "ZZZ" {
		t.Fatalf("sort must be a no-op when not requested")
	}
}

func TestColumnsShowExtra(t *testing.T) {
	rec := conference.Record{
		Acronym:   "AAAI",
		Title:     "AAAI Conference",
		ExtraKeys: []string{"Primary FoR", "Comments"},
		Extras:    map[string]string{"Primary FoR": "4602", "Comments": "good"},
	}
	rows := []Row{NewRow(rec, nil)}

	minimal := Columns(rows, false)
	if len(minimal) != 10 {
		t.Fatalf("expected the 10 base columns, got %v", minimal)
	}
	extra := Columns(rows, true)
	if len(extra) != 12 {
		t.Fatalf("expected base + 2 extra columns, got %v", extra)
	}
	if extra[10] != "Primary FoR" || extra[11] != "Comments" {
		t.Fatalf("extras must keep first-seen order, got %v", extra[10:])
	}
}

func TestRenderAndWriteCSV(t *testing.T) {
	rec := conference.Record{
		Acronym:  "AAAI",
		Title:    "AAAI Conference on Artificial Intelligence",
		CoreRank: "A*",
		GGSClass: "1",
	}
	d := &deadline.Resolved{
		EventYear: 2025,
		When:      "Feb 25, 2025 - Mar 4, 2025",
		Where:     "Philadelphia, USA",
		Deadline:  "2024-08-15",
	}
	rows := []Row{NewRow(rec, d), NewRow(conference.Record{Acronym: "SRW", Title: "Some Regional Workshop", CoreRank: "C"}, nil)}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Acronym,Title,CORE rank,GGS Class,deadline,when,where,Event year,Max rank,Acceptance Rate" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "2024-08-15") || !strings.Contains(lines[1], ",200,") {
		t.Fatalf("resolved row incomplete: %s", lines[1])
	}
	if !strings.Contains(lines[1], "0.20") {
		t.Fatalf("acceptance rate missing: %s", lines[1])
	}
	if !strings.Contains(lines[2], "SRW") || strings.Contains(lines[2], "2025") {
		t.Fatalf("unresolved row must have empty deadline fields: %s", lines[2])
	}
}
