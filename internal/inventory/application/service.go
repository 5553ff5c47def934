package application

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	orderdomain "github.com/dmehra2102/clearance-sale/internal/order/domain"
)

// MatcherFunc builds the matcher used for one read from that read's rows.
type MatcherFunc func(rows []domain.CatalogRow) domain.Matcher

func DefaultMatcher(rows []domain.CatalogRow) domain.Matcher {
	return domain.NewNameWeightMatcher(rows)
}

type Service struct {
	log     *slog.Logger
	catalog CatalogRepository
	orders  OrderSource
	matcher MatcherFunc
}

func NewService(log *slog.Logger, catalog CatalogRepository, orders OrderSource) *Service {
	return &Service{
		log:     log,
		catalog: catalog,
		orders:  orders,
		matcher: DefaultMatcher,
	}
}

// WithMatcher swaps the matching strategy.
func (s *Service) WithMatcher(fn MatcherFunc) *Service {
	s.matcher = fn
	return s
}

// Inventory recomputes availability for every listed catalog row from the
// full order history.
func (s *Service) Inventory(ctx context.Context) ([]domain.Stock, error) {
	res, err := s.reconcile(ctx)
	if err != nil {
		return nil, err
	}
	return res.Stock, nil
}

// OrderedQuantities returns the matched ordered quantity per catalog row
// index, along with the labels that matched nothing.
func (s *Service) OrderedQuantities(ctx context.Context) (map[int]int, []string, error) {
	rows, orders, err := s.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	ordered, unmatched := domain.OrderedQuantities(orders, s.matcher(rows))
	return ordered, unmatched, nil
}

func (s *Service) reconcile(ctx context.Context) (domain.Result, error) {
	rows, orders, err := s.load(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	res := domain.Reconcile(rows, orders, s.matcher(rows))
	for _, label := range res.Unmatched {
		s.log.Debug("order line matched no catalog row", "label", label)
	}
	return res, nil
}

func (s *Service) load(ctx context.Context) ([]domain.CatalogRow, []orderdomain.Record, error) {
	rows, err := s.catalog.ListCatalogRows(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list catalog rows")
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "list orders")
	}
	return rows, orders, nil
}
