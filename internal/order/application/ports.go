package application

import (
	"context"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

type OrderRepository interface {
	AppendOrder(ctx context.Context, r domain.Record) error
	ListOrders(ctx context.Context) ([]domain.Record, error)
}

// Notifier forwards a placed order to an external sink. Delivery is best
// effort: the order is already recorded when Notify runs.
type Notifier interface {
	Notify(ctx context.Context, ev domain.OrderPlaced) error
}
