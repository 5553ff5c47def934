package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/clearance-sale/internal/inventory/domain"
)

type InventoryReader interface {
	Inventory(ctx context.Context) ([]domain.Stock, error)
}

type Handler struct {
	log    *slog.Logger
	reader InventoryReader
	tracer trace.Tracer
	now    func() time.Time
}

func NewHandler(log *slog.Logger, reader InventoryReader) *Handler {
	return &Handler{
		log:    log,
		reader: reader,
		tracer: otel.Tracer("inventory-http"),
		now:    time.Now,
	}
}

type item struct {
	ID               string  `json:"id"`
	RowIndex         int     `json:"rowIndex"`
	Name             string  `json:"name"`
	Weight           *string `json:"weight"`
	Quantity         int     `json:"quantity"`
	OriginalQuantity int     `json:"originalQuantity"`
	OrderedQuantity  int     `json:"orderedQuantity"`
	Price            float64 `json:"price"`
	Category         string  `json:"category"`
}

type inventoryResp struct {
	Success   bool      `json:"success"`
	Inventory []item    `json:"inventory"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResp struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func toItem(s domain.Stock) item {
	it := item{
		ID:               s.Row.ID(),
		RowIndex:         s.Row.RowIndex,
		Name:             s.Row.Name(),
		Quantity:         s.Available,
		OriginalQuantity: s.Row.OriginalQuantity,
		OrderedQuantity:  s.Ordered,
		Price:            s.Row.UnitPrice.InexactFloat64(),
		Category:         s.Row.Category(),
	}
	if w := s.Row.WeightLabel(); w != "" {
		it.Weight = &w
	}
	return it
}

// List answers with the current availability of every listed catalog row.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "ListInventory")
	defer span.End()

	stock, err := h.reader.Inventory(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "inventory read failed")
		h.log.Error("inventory read failed", "err", err)

		msg := "inventory unavailable"
		if errors.Is(err, domain.ErrColumnMissing) {
			msg = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, errorResp{Error: msg})
		return
	}

	items := make([]item, 0, len(stock))
	for _, s := range stock {
		items = append(items, toItem(s))
	}
	span.SetAttributes(attribute.Int("inventory.items", len(items)))

	writeJSON(w, http.StatusOK, inventoryResp{
		Success:   true,
		Inventory: items,
		Timestamp: h.now().UTC(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
