package domain

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const StatusNew = "Nieuw"

type Customer struct {
	Name      string
	Email     string
	Phone     string
	Pickup    string
	Transport string
	Notes     string
}

type LineItem struct {
	Name string
	// Weight is the display weight, e.g. "20kg"; empty when the item has none.
	Weight    string
	Quantity  int
	UnitPrice decimal.Decimal
	// RowIndex is the catalog row the client picked the item from, if known.
	RowIndex int
}

func (i LineItem) Total() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Label is the item as written in the order sheet, without the quantity.
func (i LineItem) Label() string {
	if i.Weight == "" {
		return i.Name
	}
	return i.Name + " " + i.Weight
}

// Record is one customer's submitted purchase. Records read back from the
// order sheet carry their lines only in ItemsText.
type Record struct {
	ID        string
	PlacedAt  time.Time
	Customer  Customer
	Items     []LineItem
	ItemsText string
	Total     decimal.Decimal
	Status    string
}

// TextLines parses ItemsText, the stored form every reader relies on.
func (r Record) TextLines() []TextLine {
	return ParseItemsText(r.ItemsText)
}

// NewOrderID returns "ORD-" followed by the unix time in milliseconds.
func NewOrderID(t time.Time) string {
	return "ORD-" + strconv.FormatInt(t.UnixMilli(), 10)
}

// NewRecord builds the record to append for a request that passed Validate.
// Pickup and transport codes are stored as their labels.
func NewRecord(req PlaceOrder, now time.Time) Record {
	c := *req.Customer
	c.Pickup = PickupLabel(c.Pickup)
	c.Transport = TransportLabel(c.Transport)
	return Record{
		ID:        NewOrderID(now),
		PlacedAt:  now,
		Customer:  c,
		Items:     req.Items,
		ItemsText: FormatItemsText(req.Items),
		Total:     req.Total,
		Status:    StatusNew,
	}
}
