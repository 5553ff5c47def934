package store

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	"github.com/dmehra2102/clearance-sale/internal/sheet"
)

// Layout names the catalog sheet and the header of each column read from it.
type Layout struct {
	Sheet    string
	Material string
	Weight   string
	Price    string
	Original string
}

func DefaultLayout() Layout {
	return Layout{
		Sheet:    "Sheet1",
		Material: "Materiaal",
		Weight:   "Gewicht",
		Price:    "2de hands prijs",
		Original: "Origineel",
	}
}

// Column is the resolved position of one catalog header; Index is -1 when
// the header is absent.
type Column struct {
	Name     string `json:"name"`
	Index    int    `json:"index"`
	Required bool   `json:"required"`
}

type CatalogRepository struct {
	log    *slog.Logger
	store  sheet.Store
	layout Layout
}

func NewCatalogRepository(log *slog.Logger, store sheet.Store, layout Layout) *CatalogRepository {
	return &CatalogRepository{
		log:    log,
		store:  store,
		layout: layout,
	}
}

type columns struct {
	material, weight, price, original int
}

func (r *CatalogRepository) header(ctx context.Context) ([]string, [][]string, error) {
	rows, err := r.store.Rows(ctx, r.layout.Sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read catalog sheet %q", r.layout.Sheet)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	return rows[0], rows[1:], nil
}

// Columns reports where each configured header was found.
func (r *CatalogRepository) Columns(ctx context.Context) ([]Column, error) {
	header, _, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	return []Column{
		{Name: r.layout.Material, Index: sheet.FindColumn(header, r.layout.Material), Required: true},
		{Name: r.layout.Weight, Index: sheet.FindColumn(header, r.layout.Weight)},
		{Name: r.layout.Price, Index: sheet.FindColumn(header, r.layout.Price), Required: true},
		{Name: r.layout.Original, Index: sheet.FindColumn(header, r.layout.Original), Required: true},
	}, nil
}

func (r *CatalogRepository) resolve(header []string) (columns, error) {
	c := columns{
		material: sheet.FindColumn(header, r.layout.Material),
		weight:   sheet.FindColumn(header, r.layout.Weight),
		price:    sheet.FindColumn(header, r.layout.Price),
		original: sheet.FindColumn(header, r.layout.Original),
	}
	switch {
	case c.original < 0:
		return c, errors.Wrapf(domain.ErrColumnMissing, "column %q", r.layout.Original)
	case c.material < 0:
		return c, errors.Wrapf(domain.ErrColumnMissing, "column %q", r.layout.Material)
	case c.price < 0:
		return c, errors.Wrapf(domain.ErrColumnMissing, "column %q", r.layout.Price)
	}
	return c, nil
}

// ListCatalogRows returns the sellable rows of the catalog sheet in sheet
// order. Blank rows, total rows and rows without a usable original quantity
// or price are left out.
func (r *CatalogRepository) ListCatalogRows(ctx context.Context) ([]domain.CatalogRow, error) {
	header, data, err := r.header(ctx)
	if err != nil {
		return nil, err
	}
	cols, err := r.resolve(header)
	if err != nil {
		return nil, err
	}

	out := make([]domain.CatalogRow, 0, len(data))
	for i, row := range data {
		position := i + 1
		material := strings.TrimSpace(sheet.Cell(row, cols.material))
		rawWeight := strings.TrimSpace(sheet.Cell(row, cols.weight))

		if material == "" ||
			strings.Contains(strings.ToLower(material), "totaal") ||
			strings.EqualFold(rawWeight, "totaal") {
			continue
		}

		original, ok := parseQuantity(sheet.Cell(row, cols.original))
		if !ok {
			r.log.Debug("skipping catalog row without original quantity", "row", position+1, "material", material)
			continue
		}
		price, ok := parsePrice(sheet.Cell(row, cols.price))
		if !ok {
			r.log.Debug("skipping catalog row without price", "row", position+1, "material", material)
			continue
		}

		out = append(out, domain.CatalogRow{
			Material:         material,
			Weight:           domain.ParseWeight(rawWeight),
			RawWeight:        rawWeight,
			OriginalQuantity: original,
			UnitPrice:        price,
			RowIndex:         position + 1,
			Position:         position,
		})
	}
	return out, nil
}

// maxOriginalQuantity is the largest stock count a catalog cell may hold.
const maxOriginalQuantity = math.MaxInt32

// parseQuantity accepts a number between 0 and maxOriginalQuantity and
// truncates it.
func parseQuantity(cell string) (int, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", ".")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < 0 || f > maxOriginalQuantity {
		return 0, false
	}
	return int(f), true
}

func parsePrice(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), "€"))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
