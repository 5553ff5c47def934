package domain

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrColumnMissing means a required catalog header could not be found.
var ErrColumnMissing = errors.New("required catalog column missing")

// CatalogRow is one sellable item type as authored in the catalog sheet.
type CatalogRow struct {
	Material         string
	Weight           *float64
	RawWeight        string
	OriginalQuantity int
	UnitPrice        decimal.Decimal
	// RowIndex is the 1-based sheet row; the header is row 1.
	RowIndex int
	// Position is the 1-based data row position, used for item ids.
	Position int
}

// WeightLabel renders the weight as shown to customers, e.g. "20kg", or ""
// when the row has no numeric weight.
func (r CatalogRow) WeightLabel() string {
	if r.Weight == nil {
		return ""
	}
	return formatNumber(*r.Weight) + "kg"
}

func (r CatalogRow) Name() string { return CleanName(r.Material) }

func (r CatalogRow) ID() string { return ItemID(r.Material, r.Weight, r.Position) }

func (r CatalogRow) Category() string { return Category(r.Material) }

// Stock is the derived availability of one catalog row.
type Stock struct {
	Row       CatalogRow
	Ordered   int
	Available int
}

// ParseWeight returns the numeric weight in a cell, or nil.
func ParseWeight(cell string) *float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return nil
	}
	return &w
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
