package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
	"github.com/dmehra2102/clearance-sale/pkg/events"
)

const EventOrderPlaced = "OrderPlaced"

// NewWriter returns a producer for brokers. The topic is set per message.
func NewWriter(brokers []string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
	}
}

// Notifier publishes OrderPlaced events keyed by order id.
type Notifier struct {
	log      *slog.Logger
	dispatch *events.Dispatcher
}

func NewNotifier(log *slog.Logger, dispatch *events.Dispatcher) *Notifier {
	return &Notifier{log: log, dispatch: dispatch}
}

func (n *Notifier) Notify(ctx context.Context, ev domain.OrderPlaced) error {
	event, err := events.New(EventOrderPlaced, ev.OrderID, ev)
	if err != nil {
		return err
	}
	event.Headers["source"] = "sale-service"
	return n.dispatch.Dispatch(ctx, event)
}
