package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func amsterdam(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)
	return loc
}

func placed() domain.OrderPlaced {
	return domain.NewOrderPlaced(domain.NewRecord(domain.PlaceOrder{
		Customer: &domain.Customer{
			Name:      "Jan Jansen",
			Email:     "jan@example.com",
			Phone:     "0612345678",
			Pickup:    "zo-28-14",
			Transport: "unknown",
		},
		Items: []domain.LineItem{
			{Name: "Dumbbell", Weight: "20kg", Quantity: 2, UnitPrice: decimal.RequireFromString("12.5")},
			{Name: "Rower", Quantity: 1, UnitPrice: decimal.NewFromInt(300)},
		},
		Total: decimal.NewFromInt(325),
	}, time.Date(2025, 12, 28, 13, 5, 9, 0, time.UTC)))
}

func TestWebhookNotify(t *testing.T) {
	var (
		got        map[string]any
		deliveryID string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		deliveryID = r.Header.Get(HeaderDeliveryID)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wh := NewWebhook(testLogger(), srv.Client(), srv.URL, amsterdam(t))
	require.NoError(t, wh.Notify(context.Background(), placed()))

	assert.NotEmpty(t, deliveryID)
	assert.Equal(t, placed().OrderID, got["orderId"])
	assert.Equal(t, "28-12-2025", got["datum"])
	assert.Equal(t, "14:05:09", got["tijd"])
	assert.Equal(t, 325.0, got["totaal"])
	assert.Equal(t, "2x Dumbbell 20kg, 1x Rower", got["itemsText"])

	klant := got["klant"].(map[string]any)
	assert.Equal(t, "Jan Jansen", klant["naam"])
	assert.Equal(t, "Zo 28 dec 14:00-15:00", klant["ophaalmoment"])
	assert.Equal(t, "Weet nog niet", klant["transport"])
	assert.Equal(t, "", klant["opmerkingen"])

	items := got["items"].([]any)
	require.Len(t, items, 2)
	first := items[0].(map[string]any)
	assert.Equal(t, "20kg", first["gewicht"])
	assert.Equal(t, 12.5, first["prijsPerStuk"])
	assert.Equal(t, 25.0, first["totaalPrijs"])
	assert.Nil(t, items[1].(map[string]any)["gewicht"])
}

func TestWebhookNotifyFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(testLogger(), srv.Client(), srv.URL, nil).Notify(context.Background(), placed())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestEmailBody(t *testing.T) {
	body := Body(placed(), amsterdam(t))

	assert.True(t, strings.HasPrefix(body, "Nieuwe bestelling ontvangen!\n"))
	assert.Contains(t, body, "Datum: 28-12-2025 14:05:09")
	assert.Contains(t, body, "- Ophaalmoment: Zo 28 dec 14:00-15:00")
	assert.Contains(t, body, "- Opmerkingen: -")
	assert.Contains(t, body, "- 2x Dumbbell 20kg (€25)")
	assert.Contains(t, body, "- 1x Rower (€300)")
	assert.Contains(t, body, "Totaal: €325")
}

func TestEmailNotify(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotMsg  string
		gotAuth smtp.Auth
	)
	cfg := EmailConfig{Host: "smtp.example.com", Port: 587, Username: "shop", Password: "secret", From: "shop@example.com", To: []string{"owner@example.com"}}
	e := NewEmail(testLogger(), cfg, amsterdam(t)).WithSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotAuth, gotTo, gotMsg = addr, a, to, string(msg)
		return nil
	})

	require.NoError(t, e.Notify(context.Background(), placed()))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.NotNil(t, gotAuth)
	assert.Equal(t, []string{"owner@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Nieuwe bestelling: "+placed().OrderID+"\r\n")
	assert.Contains(t, gotMsg, "Totaal: €325\r\n")
}

func TestEmailNotifyErrors(t *testing.T) {
	t.Run("no recipients", func(t *testing.T) {
		err := NewEmail(testLogger(), EmailConfig{Host: "localhost", Port: 25}, nil).Notify(context.Background(), placed())
		require.Error(t, err)
	})

	t.Run("send fails", func(t *testing.T) {
		refused := errors.New("554 refused")
		e := NewEmail(testLogger(), EmailConfig{Host: "localhost", Port: 25, To: []string{"a@b"}}, nil).
			WithSender(func(string, smtp.Auth, string, []string, []byte) error { return refused })
		require.ErrorIs(t, e.Notify(context.Background(), placed()), refused)
	})

	t.Run("context expires", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)
		e := NewEmail(testLogger(), EmailConfig{Host: "localhost", Port: 25, To: []string{"a@b"}}, nil).
			WithSender(func(string, smtp.Auth, string, []string, []byte) error { <-block; return nil })

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		require.ErrorIs(t, e.Notify(ctx, placed()), context.DeadlineExceeded)
	})
}
