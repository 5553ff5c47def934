package domain

import (
	"math"

	orderdomain "github.com/dmehra2102/clearance-sale/internal/order/domain"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	// Stock holds one entry per catalog row, in catalog order.
	Stock []Stock
	// Unmatched lists order line labels no catalog row answered to.
	Unmatched []string
}

// OrderedQuantities sums the matched line quantities of every order per
// catalog RowIndex. Sums saturate at math.MaxInt.
func OrderedQuantities(orders []orderdomain.Record, m Matcher) (map[int]int, []string) {
	ordered := make(map[int]int)
	var unmatched []string
	for _, o := range orders {
		for _, line := range o.TextLines() {
			idx, ok := m.Match(line.Label)
			if !ok {
				unmatched = append(unmatched, line.Label)
				continue
			}
			ordered[idx] = addSaturated(ordered[idx], line.Quantity)
		}
	}
	return ordered, unmatched
}

// Reconcile derives available stock for every row from the full order
// history: available = max(0, original - ordered).
func Reconcile(rows []CatalogRow, orders []orderdomain.Record, m Matcher) Result {
	ordered, unmatched := OrderedQuantities(orders, m)

	stock := make([]Stock, 0, len(rows))
	for _, r := range rows {
		n := ordered[r.RowIndex]
		stock = append(stock, Stock{
			Row:       r,
			Ordered:   n,
			Available: max(0, r.OriginalQuantity-n),
		})
	}
	return Result{Stock: stock, Unmatched: unmatched}
}

func addSaturated(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
