// Package sheet models the spreadsheet-like store the sale runs on: named
// sheets holding ordered rows of text cells, where the first row is the
// header. Stores only read whole sheets and append rows.
package sheet

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrSheetExists   = errors.New("sheet already exists")
)

// Store is the tabular collaborator shared by the catalog and the order log.
type Store interface {
	// Rows returns every row of the sheet including the header row.
	Rows(ctx context.Context, sheet string) ([][]string, error)
	// Append adds one row after the last row of the sheet.
	Append(ctx context.Context, sheet string, row []string) error
	// Create makes a new sheet whose first row is header.
	Create(ctx context.Context, sheet string, header []string) error
	Ping(ctx context.Context) error
}

// FindColumn returns the index of the header cell equal to name, ignoring
// case and surrounding spaces, or -1.
func FindColumn(header []string, name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

// Cell returns row[i], or "" when the index is out of range.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// EnsureSheet creates the sheet with header unless it already exists.
func EnsureSheet(ctx context.Context, s Store, sheet string, header []string) error {
	err := s.Create(ctx, sheet, header)
	if err != nil && !errors.Is(err, ErrSheetExists) {
		return err
	}
	return nil
}
