package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"call4papers/internal/deadline"
)

const defaultWikiCFPBaseURL = "http://www.wikicfp.com"

// Year-window codes understood by the index's search endpoint.
const (
	YearModeForward  = "f" // current year and later
	YearModeNextOnly = "n" // next year only
)

// WikiCFP queries the call-for-papers deadline index. Lookups are
// throttled through a shared limiter because the deadline resolver may run
// them concurrently against a service that expects polite, sequential
// clients.
type WikiCFP struct {
	Client   *Client
	BaseURL  string
	YearMode string
	Limiter  *rate.Limiter
}

func (w *WikiCFP) baseURL() string {
	if w.BaseURL != "" {
		return w.BaseURL
	}
	return defaultWikiCFPBaseURL
}

func (w *WikiCFP) yearMode() string {
	if w.YearMode != "" {
		return w.YearMode
	}
	return YearModeForward
}

// Lookup fetches the raw candidate table for an acronym. It satisfies
// deadline.LookupFunc; errors here are soft failures for the caller.
func (w *WikiCFP) Lookup(ctx context.Context, acronym string) ([]deadline.CandidateRow, error) {
	if w.Limiter != nil {
		if err := w.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	searchURL := fmt.Sprintf("%s/cfp/servlet/tool.search?q=%s&year=%s",
		w.baseURL(), url.QueryEscape(acronym), w.yearMode())
	doc, status, err := w.Client.GetDocument(ctx, searchURL)
	if err != nil {
		return nil, eris.Wrapf(err, "wikicfp: lookup %s", acronym)
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("wikicfp: lookup %s: status %d", acronym, status)
	}
	return parseCandidateTable(doc), nil
}

// expectedHeader is the label set that identifies an in-band header row.
var expectedHeader = map[string]bool{
	"deadline": true,
	"event":    true,
	"where":    true,
	"when":     true,
}

// parseCandidateTable extracts the first table whose rows have exactly four
// cells. The header row may or may not be present in-band; when it is, its
// order wins, otherwise the index's usual Event/When/Where/Deadline order
// is assumed.
func parseCandidateTable(doc *goquery.Document) []deadline.CandidateRow {
	var raw [][]string
	doc.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		var tableRows [][]string
		uniform := true
		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			// Nested tables repeat their parent's rows; only direct cells count.
			cells := tr.ChildrenFiltered("td, th").Map(func(k int, cell *goquery.Selection) string {
				return strings.TrimSpace(cell.Text())
			})
			if len(cells) == 0 {
				return
			}
			if len(cells) != 4 {
				uniform = false
				return
			}
			tableRows = append(tableRows, cells)
		})
		if uniform && len(tableRows) > 0 {
			raw = tableRows
			return false
		}
		return true
	})
	if raw == nil {
		return nil
	}

	order := []string{"event", "when", "where", "deadline"}
	if isHeaderRow(raw[0]) {
		order = make([]string, len(raw[0]))
		for i, cell := range raw[0] {
			order[i] = strings.ToLower(strings.TrimSpace(cell))
		}
		raw = raw[1:]
	}

	rows := make([]deadline.CandidateRow, 0, len(raw))
	for _, cells := range raw {
		var row deadline.CandidateRow
		for i, col := range order {
			switch col {
			case "event":
				row.Event = cells[i]
			case "when":
				row.When = cells[i]
			case "where":
				row.Where = cells[i]
			case "deadline":
				row.Deadline = cells[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isHeaderRow(cells []string) bool {
	if len(cells) != 4 {
		return false
	}
	seen := map[string]bool{}
	for _, cell := range cells {
		seen[strings.ToLower(strings.TrimSpace(cell))] = true
	}
	for label := range expectedHeader {
		if !seen[label] {
			return false
		}
	}
	return true
}
