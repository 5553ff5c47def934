package store

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	"github.com/dmehra2102/clearance-sale/internal/sheet"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedCatalog(t *testing.T, header []string, rows ...[]string) *sheet.Memory {
	t.Helper()
	ctx := context.Background()
	m := sheet.NewMemory()
	require.NoError(t, m.Create(ctx, "Sheet1", header))
	for _, r := range rows {
		require.NoError(t, m.Append(ctx, "Sheet1", r))
	}
	return m
}

var catalogHeader = []string{"Materiaal", "Gewicht", "Nieuw prijs", "2de hands prijs", "Origineel"}

func TestListCatalogRows(t *testing.T) {
	m := seedCatalog(t, catalogHeader,
		[]string{"Dumbbell", "20", "60", "25", "10"},
		[]string{"", "", "", "", ""},
		[]string{"Dumbbell (totaal)", "", "", "250", "10"},
		[]string{"Kettlebell", "totaal", "", "10", "4"},
		[]string{"Rower", "", "900", "450,50", "2.9"},
		[]string{"Bumper Plate", "10", "", "", "8"},
		[]string{"Air Bike", "", "", "300", "n.v.t."},
		[]string{"Bar", "", "", "-5", "3"},
		[]string{"Plates(set)", "2,5", "", "€ 12", "6"},
		[]string{"Ski Erg", "", "", "700", "1e30"},
	)
	repo := NewCatalogRepository(discardLogger(), m, DefaultLayout())

	rows, err := repo.ListCatalogRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.GreaterOrEqual(t, r.OriginalQuantity, 0)
	}

	dumbbell := rows[0]
	assert.Equal(t, "Dumbbell", dumbbell.Material)
	assert.Equal(t, 10, dumbbell.OriginalQuantity)
	assert.Equal(t, "25", dumbbell.UnitPrice.String())
	assert.Equal(t, 2, dumbbell.RowIndex)
	assert.Equal(t, 1, dumbbell.Position)
	assert.Equal(t, "20kg", dumbbell.WeightLabel())
	assert.Equal(t, "dumbbell-20-1", dumbbell.ID())

	rower := rows[1]
	assert.Equal(t, 2, rower.OriginalQuantity)
	assert.Equal(t, "450.5", rower.UnitPrice.String())
	assert.Equal(t, 6, rower.RowIndex)
	assert.Nil(t, rower.Weight)

	plates := rows[2]
	assert.Equal(t, "Plates (set)", plates.Name())
	assert.Equal(t, "2.5kg", plates.WeightLabel())
	assert.Equal(t, "2,5", plates.RawWeight)
	assert.Equal(t, "12", plates.UnitPrice.String())
	assert.Equal(t, 10, plates.RowIndex)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		cell string
		want int
		ok   bool
	}{
		{"10", 10, true},
		{"2,9", 2, true},
		{"0", 0, true},
		{"2147483647", math.MaxInt32, true},
		{"2147483648", 0, false},
		{"1e30", 0, false},
		{"Inf", 0, false},
		{"NaN", 0, false},
		{"-1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseQuantity(tt.cell)
		assert.Equal(t, tt.ok, ok, tt.cell)
		assert.Equal(t, tt.want, got, tt.cell)
	}
}

func TestListCatalogRowsMissingColumn(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		column string
	}{
		{"original", []string{"Materiaal", "Gewicht", "2de hands prijs"}, "Origineel"},
		{"material", []string{"Naam", "2de hands prijs", "Origineel"}, "Materiaal"},
		{"price", []string{"Materiaal", "Origineel"}, "2de hands prijs"},
		{"empty sheet", nil, "Origineel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sheet.NewMemory()
			require.NoError(t, m.Create(context.Background(), "Sheet1", tt.header))
			repo := NewCatalogRepository(discardLogger(), m, DefaultLayout())

			_, err := repo.ListCatalogRows(context.Background())
			require.ErrorIs(t, err, domain.ErrColumnMissing)
			assert.Contains(t, err.Error(), tt.column)
		})
	}
}

func TestListCatalogRowsWeightColumnOptional(t *testing.T) {
	m := seedCatalog(t, []string{"origineel", "MATERIAAL", "2de hands prijs"},
		[]string{"3", "Rower", "100"},
	)
	rows, err := NewCatalogRepository(discardLogger(), m, DefaultLayout()).ListCatalogRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Rower", rows[0].Material)
	assert.Equal(t, 3, rows[0].OriginalQuantity)
}

func TestListCatalogRowsCustomLayout(t *testing.T) {
	ctx := context.Background()
	m := sheet.NewMemory()
	require.NoError(t, m.Create(ctx, "Voorraad", []string{"Item", "Kg", "Prijs", "Aantal"}))
	require.NoError(t, m.Append(ctx, "Voorraad", []string{"Kettlebell", "16", "30", "4"}))

	layout := Layout{Sheet: "Voorraad", Material: "Item", Weight: "Kg", Price: "Prijs", Original: "Aantal"}
	rows, err := NewCatalogRepository(discardLogger(), m, layout).ListCatalogRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "16kg", rows[0].WeightLabel())
}

func TestListCatalogRowsMissingSheet(t *testing.T) {
	repo := NewCatalogRepository(discardLogger(), sheet.NewMemory(), DefaultLayout())
	_, err := repo.ListCatalogRows(context.Background())
	require.ErrorIs(t, err, sheet.ErrSheetNotFound)
}

func TestColumns(t *testing.T) {
	m := seedCatalog(t, []string{"Materiaal", "2de hands prijs"})
	cols, err := NewCatalogRepository(discardLogger(), m, DefaultLayout()).Columns(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Column{
		{Name: "Materiaal", Index: 0, Required: true},
		{Name: "Gewicht", Index: -1},
		{Name: "2de hands prijs", Index: 1, Required: true},
		{Name: "Origineel", Index: -1, Required: true},
	}, cols)
}
