package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	orderdomain "github.com/dmehra2102/clearance-sale/internal/order/domain"
	"github.com/dmehra2102/clearance-sale/pkg/events"
	"github.com/dmehra2102/clearance-sale/pkg/tracing"
)

type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type StockReader interface {
	Inventory(ctx context.Context) ([]domain.Stock, error)
}

type Deduplicator interface {
	MessageKey(topic string, partition int, offset int64) string
	Seen(ctx context.Context, key string) (bool, error)
}

// StockWatcher follows OrderPlaced events and reports ordered catalog rows
// whose availability reached zero.
type StockWatcher struct {
	log     *slog.Logger
	reader  MessageReader
	stock   StockReader
	idem    Deduplicator
	tracer  trace.Tracer
	soldOut func(domain.Stock)
}

func NewReader(brokers []string, topic, group string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: group,
	})
}

func NewStockWatcher(log *slog.Logger, reader MessageReader, stock StockReader, idem Deduplicator) *StockWatcher {
	w := &StockWatcher{
		log:    log,
		reader: reader,
		stock:  stock,
		idem:   idem,
		tracer: otel.Tracer("inventory-consumer"),
	}
	w.soldOut = func(s domain.Stock) {
		log.Warn("item sold out", "row", s.Row.RowIndex, "name", s.Row.Name(), "weight", s.Row.WeightLabel(), "ordered", s.Ordered, "original", s.Row.OriginalQuantity)
	}
	return w
}

// OnSoldOut replaces the default log line for sold out rows.
func (w *StockWatcher) OnSoldOut(fn func(domain.Stock)) *StockWatcher {
	w.soldOut = fn
	return w
}

// Run consumes until ctx is done or the reader fails.
func (w *StockWatcher) Run(ctx context.Context) error {
	defer w.reader.Close()
	for {
		msg, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		w.handle(ctx, msg)
		if err := w.reader.CommitMessages(ctx, msg); err != nil {
			w.log.Error("commit failed", "offset", msg.Offset, "err", err)
		}
	}
}

func (w *StockWatcher) handle(ctx context.Context, msg kafka.Message) {
	if w.idem != nil {
		key := w.idem.MessageKey(msg.Topic, msg.Partition, msg.Offset)
		seen, err := w.idem.Seen(ctx, key)
		if err != nil {
			w.log.Error("idempotency check failed", "key", key, "err", err)
		} else if seen {
			w.log.Info("duplicate message skipped", "key", key)
			return
		}
	}

	if t := events.HeaderValue(msg.Headers, events.HeaderEventType); t != "" && t != "OrderPlaced" {
		return
	}

	msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
	msgCtx, span := w.tracer.Start(msgCtx, "ConsumeOrderPlaced")
	defer span.End()

	var ev orderdomain.OrderPlaced
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		w.log.Error("unmarshal failed", "offset", msg.Offset, "err", err)
		return
	}
	span.SetAttributes(attribute.String("order.id", ev.OrderID))

	stock, err := w.stock.Inventory(msgCtx)
	if err != nil {
		w.log.Error("inventory refresh failed", "order_id", ev.OrderID, "err", err)
		return
	}

	ordered := make(map[string]bool, len(ev.Items))
	for _, it := range ev.Items {
		ordered[label(it.Name, it.Weight)] = true
	}
	for _, s := range stock {
		if s.Available == 0 && ordered[label(s.Row.Name(), s.Row.WeightLabel())] {
			w.soldOut(s)
		}
	}
	w.log.Info("order event processed", "order_id", ev.OrderID)
}

func label(name, weight string) string {
	return strings.ToLower(strings.TrimSpace(name + " " + weight))
}
