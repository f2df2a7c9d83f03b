package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"call4papers/internal/cache"
	"call4papers/internal/conference"
)

const defaultCoreBaseURL = "http://portal.core.edu.au"

// CoreSource scrapes the CORE conference-ranking portal one result page at
// a time and caches the combined table per ranking year. The portal answers
// pages past the end of the listing with a server error, which is the only
// end-of-data signal it provides.
type CoreSource struct {
	Client   *Client
	Cache    cache.Store
	BaseURL  string
	MaxPages int
	MaxAge   time.Duration
	Now      func() time.Time
}

func (s *CoreSource) baseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return defaultCoreBaseURL
}

func (s *CoreSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Fetch returns the CORE table for the current ranking year, from cache
// unless force is set. A source that cannot be reached at all is a hard
// error for the run.
func (s *CoreSource) Fetch(ctx context.Context, force bool) ([]conference.RawRow, error) {
	year := s.now().Year()
	key := fmt.Sprintf("core%d", year)

	if !force && s.Cache != nil {
		if e, err := s.Cache.Get(ctx, "core", key, s.MaxAge); err == nil {
			var rows []conference.RawRow
			if err := json.Unmarshal(e.Payload, &rows); err == nil {
				log.Printf("core: loaded %d rows from cache (%s)", len(rows), key)
				return rows, nil
			}
			log.Printf("core: discarding corrupt cache entry %s", key)
		}
	}

	rows, err := s.scrape(ctx, year)
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		payload, err := json.Marshal(rows)
		if err == nil {
			err = s.Cache.Put(ctx, "core", key, payload)
		}
		if err != nil {
			log.Printf("core: cache write failed: %v", err)
		}
	}
	return rows, nil
}

func (s *CoreSource) scrape(ctx context.Context, year int) ([]conference.RawRow, error) {
	maxPages := s.MaxPages
	if maxPages <= 0 {
		maxPages = 100
	}
	log.Printf("core: downloading CORE%d rankings from %s", year, s.baseURL())

	var rows []conference.RawRow
	for page := 1; page < maxPages; page++ {
		url := fmt.Sprintf("%s/conf-ranks/?search=&by=acronym&source=CORE%d&sort=arank&page=%d",
			s.baseURL(), year, page)
		doc, status, err := s.Client.GetDocument(ctx, url)
		if err != nil {
			if page > 1 {
				log.Printf("core: page %d failed, stopping pagination: %v", page, err)
				break
			}
			return nil, eris.Wrap(err, "core: first page")
		}
		if status != http.StatusOK {
			if page > 1 {
				log.Printf("core: no more pages (page %d, status %d)", page, status)
				break
			}
			return nil, eris.Errorf("core: unexpected status %d on first page", status)
		}
		pageRows := parseCoreTable(doc)
		if len(pageRows) == 0 {
			break
		}
		rows = append(rows, pageRows...)
	}
	if len(rows) == 0 {
		return nil, eris.New("core: portal returned no conference rows")
	}
	log.Printf("core: scraped %d rows", len(rows))
	return rows, nil
}

// parseCoreTable flattens the portal's ranking table. The first row carries
// the column headers; Title, Acronym and Rank are lifted into the record
// fields, everything else is kept as ordered extras.
func parseCoreTable(doc *goquery.Document) []conference.RawRow {
	var rows []conference.RawRow
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil
	}

	var headers []string
	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := cellTexts(tr)
		if len(cells) == 0 {
			return
		}
		if headers == nil {
			headers = cells
			return
		}
		row := conference.RawRow{Extras: map[string]string{}}
		for j, value := range cells {
			if j >= len(headers) {
				break
			}
			switch strings.ToLower(headers[j]) {
			case "title":
				row.Title = value
			case "acronym":
				row.Acronym = value
			case "rank":
				row.Rank = value
			default:
				row.ExtraKeys = append(row.ExtraKeys, headers[j])
				row.Extras[headers[j]] = value
			}
		}
		if len(row.Extras) == 0 {
			row.Extras = nil
		}
		rows = append(rows, row)
	})
	return rows
}

func cellTexts(tr *goquery.Selection) []string {
	var cells []string
	tr.Find("th, td").Each(func(i int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}
