package notify

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Email sends the shop owner a plain text summary of every order.
type Email struct {
	log  *slog.Logger
	cfg  EmailConfig
	loc  *time.Location
	send SendFunc
}

func NewEmail(log *slog.Logger, cfg EmailConfig, loc *time.Location) *Email {
	if loc == nil {
		loc = time.UTC
	}
	return &Email{log: log, cfg: cfg, loc: loc, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport.
func (e *Email) WithSender(fn SendFunc) *Email {
	e.send = fn
	return e
}

func (e *Email) Notify(ctx context.Context, ev domain.OrderPlaced) error {
	if len(e.cfg.To) == 0 {
		return errors.New("email notifier has no recipients")
	}
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	msg := e.message(ev)
	done := make(chan error, 1)
	go func() { done <- e.send(addr, auth, e.cfg.From, e.cfg.To, msg) }()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrapf(err, "send order mail via %s", addr)
		}
		e.log.Debug("order mail sent", "order_id", ev.OrderID, "to", strings.Join(e.cfg.To, ","))
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "send order mail")
	}
}

func (e *Email) message(ev domain.OrderPlaced) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", e.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(e.cfg.To, ", "))
	fmt.Fprintf(&b, "Subject: Nieuwe bestelling: %s\r\n", ev.OrderID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(Body(ev, e.loc), "\n", "\r\n"))
	return b.Bytes()
}

// Body renders the order summary mailed to the shop.
func Body(ev domain.OrderPlaced, loc *time.Location) string {
	at := ev.PlacedAt.In(loc)
	notes := ev.Customer.Notes
	if notes == "" {
		notes = "-"
	}

	var b strings.Builder
	b.WriteString("Nieuwe bestelling ontvangen!\n\n")
	fmt.Fprintf(&b, "Order: %s\n", ev.OrderID)
	fmt.Fprintf(&b, "Datum: %s %s\n\n", at.Format(dateLayout), at.Format(timeLayout))
	b.WriteString("Klant:\n")
	fmt.Fprintf(&b, "- Naam: %s\n", ev.Customer.Name)
	fmt.Fprintf(&b, "- Email: %s\n", ev.Customer.Email)
	fmt.Fprintf(&b, "- Telefoon: %s\n", ev.Customer.Phone)
	fmt.Fprintf(&b, "- Ophaalmoment: %s\n", ev.Customer.Pickup)
	fmt.Fprintf(&b, "- Transport: %s\n", ev.Customer.Transport)
	fmt.Fprintf(&b, "- Opmerkingen: %s\n\n", notes)
	b.WriteString("Bestelling:\n")
	for _, it := range ev.Items {
		label := it.Name
		if it.Weight != "" {
			label += " " + it.Weight
		}
		fmt.Fprintf(&b, "- %dx %s (€%s)\n", it.Quantity, label, it.LineTotal.String())
	}
	fmt.Fprintf(&b, "\nTotaal: €%s\n", ev.Total.String())
	return b.String()
}
