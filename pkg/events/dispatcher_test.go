package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type fakeProducer struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeProducer) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	ev, err := New("OrderPlaced", "ORD-1", map[string]int{"qty": 2})
	require.NoError(t, err)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "ORD-1", ev.AggregateID)
	assert.JSONEq(t, `{"qty":2}`, string(ev.Payload))

	_, err = New("Broken", "x", make(chan int))
	require.Error(t, err)
}

func TestDispatch(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("test").Start(context.Background(), "place-order")
	defer span.End()

	p := &fakeProducer{}
	d := NewDispatcher(testLogger(), p, "sale.orders")

	ev, err := New("OrderPlaced", "ORD-7", map[string]string{"orderId": "ORD-7"})
	require.NoError(t, err)
	ev.Headers["source"] = "sale-service"
	require.NoError(t, d.Dispatch(ctx, ev))

	require.Len(t, p.msgs, 1)
	msg := p.msgs[0]
	assert.Equal(t, "sale.orders", msg.Topic)
	assert.Equal(t, "ORD-7", string(msg.Key))
	assert.Equal(t, ev.ID, HeaderValue(msg.Headers, HeaderEventID))
	assert.Equal(t, "OrderPlaced", HeaderValue(msg.Headers, HeaderEventType))
	assert.Equal(t, "sale-service", HeaderValue(msg.Headers, "source"))
	assert.Contains(t, HeaderValue(msg.Headers, "traceparent"), span.SpanContext().TraceID().String())
}

func TestDispatchProducerError(t *testing.T) {
	boom := errors.New("broker unavailable")
	d := NewDispatcher(testLogger(), &fakeProducer{err: boom}, "sale.orders")

	ev, err := New("OrderPlaced", "ORD-8", struct{}{})
	require.NoError(t, err)
	require.ErrorIs(t, d.Dispatch(context.Background(), ev), boom)
}

func TestHeaderValue(t *testing.T) {
	h := []kafka.Header{{Key: "a", Value: []byte("1")}, {Key: "a", Value: []byte("2")}}
	assert.Equal(t, "1", HeaderValue(h, "a"))
	assert.Equal(t, "", HeaderValue(h, "b"))
}
