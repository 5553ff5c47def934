package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

const defaultNotifyTimeout = 10 * time.Second

type Service struct {
	log           *slog.Logger
	repo          OrderRepository
	notifiers     []namedNotifier
	notifyTimeout time.Duration
	now           func() time.Time
}

type namedNotifier struct {
	name string
	Notifier
}

type Option func(*Service)

// WithNotifier registers a sink under name, used in log lines. Sinks are
// notified in registration order.
func WithNotifier(name string, n Notifier) Option {
	return func(s *Service) { s.notifiers = append(s.notifiers, namedNotifier{name: name, Notifier: n}) }
}

func WithNotifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.notifyTimeout = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(log *slog.Logger, repo OrderRepository, opts ...Option) *Service {
	s := &Service{
		log:           log,
		repo:          repo,
		notifyTimeout: defaultNotifyTimeout,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PlaceOrder validates req, appends exactly one order row and then notifies
// every sink. Sink failures are logged and never fail the order.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrder) (domain.Record, error) {
	if err := req.Validate(); err != nil {
		return domain.Record{}, err
	}

	rec := domain.NewRecord(req, s.now())
	if err := s.repo.AppendOrder(ctx, rec); err != nil {
		return domain.Record{}, errors.Wrap(err, "append order")
	}
	s.log.Info("order placed", "order_id", rec.ID, "items", rec.ItemsText, "total", rec.Total.String())

	s.notify(ctx, domain.NewOrderPlaced(rec))
	return rec, nil
}

func (s *Service) notify(ctx context.Context, ev domain.OrderPlaced) {
	for _, n := range s.notifiers {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
		if err := n.Notify(nctx, ev); err != nil {
			s.log.Warn("order notification failed", "sink", n.name, "order_id", ev.OrderID, "err", err)
		}
		cancel()
	}
}

// Orders lists every recorded order.
func (s *Service) Orders(ctx context.Context) ([]domain.Record, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}
