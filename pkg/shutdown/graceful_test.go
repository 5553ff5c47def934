package shutdown

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGracefulRunsEveryStep(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	boom := errors.New("boom")

	var order []string
	err := Graceful(log, time.Second,
		Step{Name: "http", Stop: func(context.Context) error { order = append(order, "http"); return boom }},
		Step{Name: "grpc", Stop: func(ctx context.Context) error {
			order = append(order, "grpc")
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return nil
		}},
	)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"http", "grpc"}, order)
}

func TestGracefulNoSteps(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.NoError(t, Graceful(log, time.Second))
}

func TestWithSignalsCancel(t *testing.T) {
	ctx, cancel := WithSignals(context.Background())
	cancel()
	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
