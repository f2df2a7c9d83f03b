package report

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"
)

// WriteCSV serializes the rows with a header line. Column selection and
// ordering follow Columns.
func WriteCSV(w io.Writer, rows []Row, showExtra bool) error {
	columns := Columns(rows, showExtra)
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return eris.Wrap(err, "report: write header")
	}
	for _, row := range rows {
		if err := cw.Write(Render(row, columns)); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "report: flush")
}
