package sheet

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
)

// ImportCSV creates sheet from a CSV export of the spreadsheet. The first
// record becomes the header. It returns the number of data rows written.
func ImportCSV(ctx context.Context, s Store, sheet string, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return 0, errors.New("csv has no header row")
	}
	if err != nil {
		return 0, errors.Wrap(err, "read csv header")
	}
	if err := s.Create(ctx, sheet, header); err != nil {
		return 0, errors.Wrapf(err, "create sheet %q", sheet)
	}

	n := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, errors.Wrapf(err, "read csv record %d", n+2)
		}
		if err := s.Append(ctx, sheet, rec); err != nil {
			return n, errors.Wrapf(err, "append row %d", n+2)
		}
		n++
	}
}
