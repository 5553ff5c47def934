package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/clearance-sale/internal/order/domain"
)

const maxBody = 1 << 20

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req domain.PlaceOrder) (domain.Record, error)
}

type Handler struct {
	log    *slog.Logger
	placer OrderPlacer
	tracer trace.Tracer
}

func NewHandler(log *slog.Logger, placer OrderPlacer) *Handler {
	return &Handler{
		log:    log,
		placer: placer,
		tracer: otel.Tracer("order-http"),
	}
}

type customerReq struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Pickup    string `json:"pickup"`
	Transport string `json:"transport"`
	Notes     string `json:"notes"`
}

type itemReq struct {
	Name     string          `json:"name"`
	Weight   looseText       `json:"weight"`
	Quantity looseInt        `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	RowIndex looseInt        `json:"rowIndex"`
}

// looseText accepts a JSON string or number, e.g. "20kg" or 20.
type looseText string

func (t *looseText) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = looseText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Errorf("expected string or number, got %s", b)
	}
	*t = looseText(n.String())
	return nil
}

// looseInt accepts a JSON integer or a string holding one, e.g. 2 or "2".
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = 0
		return nil
	}
	raw := string(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return errors.Errorf("expected integer, got %s", b)
	}
	*n = looseInt(v)
	return nil
}

type placeOrderReq struct {
	Customer *customerReq    `json:"customer"`
	Items    []itemReq       `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

func (p placeOrderReq) toDomain() domain.PlaceOrder {
	var req domain.PlaceOrder
	if p.Customer != nil {
		req.Customer = &domain.Customer{
			Name:      strings.TrimSpace(p.Customer.Name),
			Email:     strings.TrimSpace(p.Customer.Email),
			Phone:     strings.TrimSpace(p.Customer.Phone),
			Pickup:    p.Customer.Pickup,
			Transport: p.Customer.Transport,
			Notes:     p.Customer.Notes,
		}
	}
	for _, it := range p.Items {
		req.Items = append(req.Items, domain.LineItem{
			Name:      strings.TrimSpace(it.Name),
			Weight:    strings.TrimSpace(string(it.Weight)),
			Quantity:  int(it.Quantity),
			UnitPrice: it.Price,
			RowIndex:  int(it.RowIndex),
		})
	}
	req.Total = p.Total
	return req
}

type placeOrderResp struct {
	Success bool   `json:"success"`
	OrderID string `json:"orderId"`
}

type errorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// errBadPayload means the body could not be read as an order at all.
var errBadPayload = errors.New("invalid order payload")

// decode reads the order as a JSON body, whatever the declared content
// type, or from the form field "data".
func decode(r *http.Request) (placeOrderReq, error) {
	var req placeOrderReq
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBody); err != nil {
			return req, errors.Wrap(errBadPayload, err.Error())
		}
		if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
			return req, errors.Wrap(errBadPayload, err.Error())
		}
		return req, nil
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		return req, errors.Wrap(errBadPayload, err.Error())
	}
	if mt == "application/x-www-form-urlencoded" {
		if data, ok := formData(raw); ok {
			raw = []byte(data)
		}
	}

	if jsonErr := json.Unmarshal(raw, &req); jsonErr != nil {
		data, ok := formData(raw)
		if !ok {
			return req, errors.Wrap(errBadPayload, jsonErr.Error())
		}
		req = placeOrderReq{}
		if err := json.Unmarshal([]byte(data), &req); err != nil {
			return req, errors.Wrap(errBadPayload, err.Error())
		}
	}
	return req, nil
}

func formData(raw []byte) (string, bool) {
	values, err := url.ParseQuery(string(raw))
	if err != nil || !values.Has("data") {
		return "", false
	}
	return values.Get("data"), true
}

// Place records one order and answers with its id.
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlaceOrder")
	defer span.End()

	body, err := decode(r)
	if err != nil {
		span.SetStatus(codes.Error, "bad payload")
		h.log.Info("order payload rejected", "err", err)
		writeJSON(w, http.StatusBadRequest, errorResp{Error: errBadPayload.Error()})
		return
	}

	rec, err := h.placer.PlaceOrder(ctx, body.toDomain())
	switch {
	case err == nil:
	case domain.IsValidation(err):
		span.SetStatus(codes.Error, "validation")
		h.log.Info("order rejected", "err", err)
		writeJSON(w, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		h.log.Error("order append failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: "order could not be recorded"})
		return
	}

	span.SetAttributes(attribute.String("order.id", rec.ID), attribute.Int("order.lines", len(rec.Items)))
	writeJSON(w, http.StatusOK, placeOrderResp{Success: true, OrderID: rec.ID})
}

// Duplicate answers a request whose Idempotency-Key was already used.
func Duplicate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusConflict, errorResp{Error: "duplicate request"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
