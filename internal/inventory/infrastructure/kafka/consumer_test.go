package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
	orderdomain "github.com/dmehra2102/clearance-sale/internal/order/domain"
	"github.com/dmehra2102/clearance-sale/pkg/events"
)

type fakeReader struct {
	msgs      []kafka.Message
	committed []int64
	closed    bool
	done      func()
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.done()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

type fakeStock struct {
	stock []domain.Stock
	calls int
}

func (f *fakeStock) Inventory(context.Context) ([]domain.Stock, error) {
	f.calls++
	return f.stock, nil
}

type memoryDedup map[string]bool

func (m memoryDedup) MessageKey(topic string, partition int, offset int64) string {
	return fmt.Sprintf("%s:%d:%d", topic, partition, offset)
}

func (m memoryDedup) Seen(_ context.Context, key string) (bool, error) {
	if m[key] {
		return true, nil
	}
	m[key] = true
	return false, nil
}

func orderMessage(t *testing.T, offset int64, items ...orderdomain.LineItem) kafka.Message {
	t.Helper()
	ev := orderdomain.NewOrderPlaced(orderdomain.NewRecord(orderdomain.PlaceOrder{
		Customer: &orderdomain.Customer{Name: "Jan"},
		Items:    items,
	}, time.UnixMilli(offset)))
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{
		Topic:   "sale.orders",
		Offset:  offset,
		Value:   b,
		Headers: []kafka.Header{{Key: events.HeaderEventType, Value: []byte("OrderPlaced")}},
	}
}

func TestStockWatcher(t *testing.T) {
	w20 := 20.0
	stock := &fakeStock{stock: []domain.Stock{
		{Row: domain.CatalogRow{Material: "Dumbbell", Weight: &w20, OriginalQuantity: 2, RowIndex: 2}, Ordered: 2, Available: 0},
		{Row: domain.CatalogRow{Material: "Rower", OriginalQuantity: 1, RowIndex: 3}, Ordered: 1, Available: 0},
		{Row: domain.CatalogRow{Material: "Bike", OriginalQuantity: 3, RowIndex: 4}, Ordered: 1, Available: 2},
	}}

	dumbbells := orderMessage(t, 1, orderdomain.LineItem{Name: "Dumbbell", Weight: "20kg", Quantity: 2, UnitPrice: decimal.NewFromInt(10)})
	bike := orderMessage(t, 2, orderdomain.LineItem{Name: "Bike", Quantity: 1, UnitPrice: decimal.NewFromInt(100)})
	garbage := kafka.Message{Topic: "sale.orders", Offset: 3, Value: []byte("{")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := &fakeReader{msgs: []kafka.Message{dumbbells, bike, dumbbells, garbage}, done: cancel}

	var soldOut []int
	w := NewStockWatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), reader, stock, memoryDedup{}).
		OnSoldOut(func(s domain.Stock) { soldOut = append(soldOut, s.Row.RowIndex) })

	require.NoError(t, w.Run(ctx))

	assert.Equal(t, []int{2}, soldOut)
	assert.Equal(t, 2, stock.calls)
	assert.Equal(t, []int64{1, 2, 1, 3}, reader.committed)
	assert.True(t, reader.closed)
}

type brokenReader struct{ fakeReader }

func (b *brokenReader) FetchMessage(context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("broker gone")
}

func TestStockWatcherReaderError(t *testing.T) {
	r := &brokenReader{}
	w := NewStockWatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), r, &fakeStock{}, nil)
	require.EqualError(t, w.Run(context.Background()), "broker gone")
	assert.True(t, r.closed)
}
