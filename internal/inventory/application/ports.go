package application

import (
	"context"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	orderdomain "github.com/dmehra2102/clearance-sale/internal/order/domain"
)

type CatalogRepository interface {
	ListCatalogRows(ctx context.Context) ([]domain.CatalogRow, error)
}

type OrderSource interface {
	ListOrders(ctx context.Context) ([]orderdomain.Record, error)
}
