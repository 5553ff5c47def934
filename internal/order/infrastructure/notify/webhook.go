package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

const (
	dateLayout = "02-01-2006"
	timeLayout = "15:04:05"

	HeaderDeliveryID = "X-Delivery-ID"
)

// Webhook posts every placed order as JSON to an automation hook.
type Webhook struct {
	log    *slog.Logger
	client *http.Client
	url    string
	loc    *time.Location
}

func NewWebhook(log *slog.Logger, client *http.Client, url string, loc *time.Location) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Webhook{log: log, client: client, url: url, loc: loc}
}

type webhookCustomer struct {
	Naam         string `json:"naam"`
	Email        string `json:"email"`
	Telefoon     string `json:"telefoon"`
	Ophaalmoment string `json:"ophaalmoment"`
	Transport    string `json:"transport"`
	Opmerkingen  string `json:"opmerkingen"`
}

type webhookItem struct {
	Naam         string  `json:"naam"`
	Gewicht      *string `json:"gewicht"`
	Aantal       int     `json:"aantal"`
	PrijsPerStuk float64 `json:"prijsPerStuk"`
	TotaalPrijs  float64 `json:"totaalPrijs"`
}

type webhookPayload struct {
	OrderID   string          `json:"orderId"`
	Datum     string          `json:"datum"`
	Tijd      string          `json:"tijd"`
	Klant     webhookCustomer `json:"klant"`
	Items     []webhookItem   `json:"items"`
	Totaal    float64         `json:"totaal"`
	ItemsText string          `json:"itemsText"`
}

func (w *Webhook) payload(ev domain.OrderPlaced) webhookPayload {
	at := ev.PlacedAt.In(w.loc)
	items := make([]webhookItem, 0, len(ev.Items))
	for _, it := range ev.Items {
		item := webhookItem{
			Naam:         it.Name,
			Aantal:       it.Quantity,
			PrijsPerStuk: it.UnitPrice.InexactFloat64(),
			TotaalPrijs:  it.LineTotal.InexactFloat64(),
		}
		if it.Weight != "" {
			weight := it.Weight
			item.Gewicht = &weight
		}
		items = append(items, item)
	}
	return webhookPayload{
		OrderID: ev.OrderID,
		Datum:   at.Format(dateLayout),
		Tijd:    at.Format(timeLayout),
		Klant: webhookCustomer{
			Naam:         ev.Customer.Name,
			Email:        ev.Customer.Email,
			Telefoon:     ev.Customer.Phone,
			Ophaalmoment: ev.Customer.Pickup,
			Transport:    ev.Customer.Transport,
			Opmerkingen:  ev.Customer.Notes,
		},
		Items:     items,
		Totaal:    ev.Total.InexactFloat64(),
		ItemsText: ev.ItemsText,
	}
}

func (w *Webhook) Notify(ctx context.Context, ev domain.OrderPlaced) error {
	body, err := json.Marshal(w.payload(ev))
	if err != nil {
		return errors.Wrap(err, "marshal webhook payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderDeliveryID, uuid.NewString())

	resp, err := w.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "post webhook")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))

	if resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("webhook responded %s", resp.Status)
	}
	w.log.Debug("webhook delivered", "order_id", ev.OrderID, "status", resp.StatusCode)
	return nil
}
