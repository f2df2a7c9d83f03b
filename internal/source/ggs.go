package source

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"call4papers/internal/cache"
	"call4papers/internal/conference"
)

// GGSSource ingests the GII-GRIN-SCIE rating spreadsheet, published as a
// semicolon-separated CSV export with a free-text preamble before the
// actual header row.
type GGSSource struct {
	Client *Client
	Cache  cache.Store
	URL    string
	MaxAge time.Duration
	Now    func() time.Time
}

func (s *GGSSource) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Fetch returns the GGS table, from cache unless force is set. Like the
// CORE source, an unreachable spreadsheet is a hard error.
func (s *GGSSource) Fetch(ctx context.Context, force bool) ([]conference.RawRow, error) {
	key := fmt.Sprintf("ggs%d", s.now().Year())

	if !force && s.Cache != nil {
		if e, err := s.Cache.Get(ctx, "ggs", key, s.MaxAge); err == nil {
			var rows []conference.RawRow
			if err := json.Unmarshal(e.Payload, &rows); err == nil {
				log.Printf("ggs: loaded %d rows from cache (%s)", len(rows), key)
				return rows, nil
			}
			log.Printf("ggs: discarding corrupt cache entry %s", key)
		}
	}

	log.Printf("ggs: downloading rating spreadsheet from %s", s.URL)
	body, status, err := s.Client.GetBody(ctx, s.URL)
	if err != nil {
		return nil, eris.Wrap(err, "ggs: download")
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("ggs: unexpected status %d", status)
	}
	rows, err := ParseGGSCSV(body)
	if err != nil {
		return nil, err
	}
	log.Printf("ggs: parsed %d rows", len(rows))

	if s.Cache != nil {
		payload, err := json.Marshal(rows)
		if err == nil {
			err = s.Cache.Put(ctx, "ggs", key, payload)
		}
		if err != nil {
			log.Printf("ggs: cache write failed: %v", err)
		}
	}
	return rows, nil
}

// ParseGGSCSV parses the semicolon-separated spreadsheet export. Rows
// before the header (the first row containing both Title and Acronym
// columns) are preamble and skipped; the GGS Class column becomes the
// record's rank and the remaining columns become ordered extras.
func ParseGGSCSV(body []byte) ([]conference.RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "ggs: read csv")
	}

	headerIdx := -1
	var header []string
	for i, row := range records {
		if hasColumns(row, "title", "acronym") {
			headerIdx = i
			header = trimAll(row)
			break
		}
	}
	if headerIdx < 0 {
		return nil, eris.New("ggs: header row not found")
	}

	var rows []conference.RawRow
	for _, rec := range records[headerIdx+1:] {
		row := conference.RawRow{Extras: map[string]string{}}
		for j, value := range rec {
			if j >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			switch strings.ToLower(header[j]) {
			case "title":
				row.Title = value
			case "acronym":
				row.Acronym = value
			case "ggs class", "class":
				row.Rank = value
			default:
				row.ExtraKeys = append(row.ExtraKeys, header[j])
				row.Extras[header[j]] = value
			}
		}
		if len(row.Extras) == 0 {
			row.Extras = nil
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func hasColumns(row []string, wanted ...string) bool {
	seen := make(map[string]bool, len(row))
	for _, cell := range row {
		seen[strings.ToLower(strings.TrimSpace(cell))] = true
	}
	for _, w := range wanted {
		if !seen[w] {
			return false
		}
	}
	return true
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
