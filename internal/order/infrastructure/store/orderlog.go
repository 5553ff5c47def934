package store

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
	"github.com/dmehra2102/clearance-sale/internal/sheet"
)

// Header is the first row of a freshly created order sheet.
var Header = []string{
	"OrderID", "Datum", "Tijd", "Naam", "Email", "Telefoon",
	"Ophaalmoment", "Transport", "Opmerkingen", "Items", "Totaal", "Status",
}

const (
	itemsHeader = "Items"
	// itemsFallback is the Items position in Header, used when an operator
	// renamed the column.
	itemsFallback = 9

	dateLayout = "02-01-2006"
	timeLayout = "15:04:05"
)

type OrderLog struct {
	log   *slog.Logger
	store sheet.Store
	sheet string
	loc   *time.Location
}

func NewOrderLog(log *slog.Logger, store sheet.Store, sheetName string, loc *time.Location) *OrderLog {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderLog{
		log:   log,
		store: store,
		sheet: sheetName,
		loc:   loc,
	}
}

// AppendOrder writes r as one new row, creating the order sheet first when
// it does not exist yet.
func (l *OrderLog) AppendOrder(ctx context.Context, r domain.Record) error {
	if err := sheet.EnsureSheet(ctx, l.store, l.sheet, Header); err != nil {
		return errors.Wrapf(err, "ensure order sheet %q", l.sheet)
	}
	if err := l.store.Append(ctx, l.sheet, l.row(r)); err != nil {
		return errors.Wrapf(err, "append order %s", r.ID)
	}
	return nil
}

func (l *OrderLog) row(r domain.Record) []string {
	at := r.PlacedAt.In(l.loc)
	return []string{
		r.ID,
		at.Format(dateLayout),
		at.Format(timeLayout),
		r.Customer.Name,
		r.Customer.Email,
		r.Customer.Phone,
		r.Customer.Pickup,
		r.Customer.Transport,
		r.Customer.Notes,
		r.ItemsText,
		FormatTotal(r.Total),
		r.Status,
	}
}

// ListOrders reads every order row back. A missing order sheet means no
// orders have been placed yet.
func (l *OrderLog) ListOrders(ctx context.Context) ([]domain.Record, error) {
	rows, err := l.store.Rows(ctx, l.sheet)
	if errors.Is(err, sheet.ErrSheetNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read order sheet %q", l.sheet)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := rows[0]
	col := func(name string, fallback int) int {
		if i := sheet.FindColumn(header, name); i >= 0 {
			return i
		}
		return fallback
	}
	var (
		idCol        = col("OrderID", 0)
		dateCol      = col("Datum", 1)
		timeCol      = col("Tijd", 2)
		nameCol      = col("Naam", 3)
		emailCol     = col("Email", 4)
		phoneCol     = col("Telefoon", 5)
		pickupCol    = col("Ophaalmoment", 6)
		transportCol = col("Transport", 7)
		notesCol     = col("Opmerkingen", 8)
		itemsCol     = col(itemsHeader, itemsFallback)
		totalCol     = col("Totaal", 10)
		statusCol    = col("Status", 11)
	)

	out := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := domain.Record{
			ID:        sheet.Cell(row, idCol),
			ItemsText: sheet.Cell(row, itemsCol),
			Status:    sheet.Cell(row, statusCol),
			Customer: domain.Customer{
				Name:      sheet.Cell(row, nameCol),
				Email:     sheet.Cell(row, emailCol),
				Phone:     sheet.Cell(row, phoneCol),
				Pickup:    sheet.Cell(row, pickupCol),
				Transport: sheet.Cell(row, transportCol),
				Notes:     sheet.Cell(row, notesCol),
			},
		}
		if t, err := time.ParseInLocation(dateLayout+" "+timeLayout,
			sheet.Cell(row, dateCol)+" "+sheet.Cell(row, timeCol), l.loc); err == nil {
			rec.PlacedAt = t
		}
		if total, ok := ParseTotal(sheet.Cell(row, totalCol)); ok {
			rec.Total = total
		} else {
			l.log.Debug("order row has no readable total", "order_id", rec.ID)
		}
		out = append(out, rec)
	}
	return out, nil
}

// FormatTotal renders a total the way the order sheet stores it, "€281.5".
func FormatTotal(d decimal.Decimal) string {
	return "€" + d.String()
}

func ParseTotal(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cell), "€"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
