package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderPlaced is published once an order row has been appended.
type OrderPlaced struct {
	OrderID   string          `json:"orderId"`
	PlacedAt  time.Time       `json:"placedAt"`
	Customer  PlacedCustomer  `json:"customer"`
	Items     []PlacedItem    `json:"items"`
	ItemsText string          `json:"itemsText"`
	Total     decimal.Decimal `json:"total"`
}

type PlacedCustomer struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Pickup    string `json:"pickup"`
	Transport string `json:"transport"`
	Notes     string `json:"notes"`
}

type PlacedItem struct {
	Name      string          `json:"name"`
	Weight    string          `json:"weight,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
	RowIndex  int             `json:"rowIndex,omitempty"`
}

func NewOrderPlaced(r Record) OrderPlaced {
	items := make([]PlacedItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, PlacedItem{
			Name:      it.Name,
			Weight:    it.Weight,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: it.Total(),
			RowIndex:  it.RowIndex,
		})
	}
	return OrderPlaced{
		OrderID:  r.ID,
		PlacedAt: r.PlacedAt,
		Customer: PlacedCustomer{
			Name:      r.Customer.Name,
			Email:     r.Customer.Email,
			Phone:     r.Customer.Phone,
			Pickup:    r.Customer.Pickup,
			Transport: r.Customer.Transport,
			Notes:     r.Customer.Notes,
		},
		Items:     items,
		ItemsText: r.ItemsText,
		Total:     r.Total,
	}
}
