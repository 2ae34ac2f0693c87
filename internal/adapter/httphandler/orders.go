package httphandler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/service"
)

// OrdersProvider is the order history and export contract served by
// the orders service.
type OrdersProvider interface {
	List(ctx context.Context, clientID string, q domain.OrdersQuery) (domain.OrderPage, error)
	Export(ctx context.Context, clientID string, o domain.Order, format service.ExportFormat) (service.ExportResult, error)
}

type OrdersHandler struct {
	orders OrdersProvider
}

func RegisterOrders(mux *http.ServeMux, orders OrdersProvider) {
	h := OrdersHandler{orders}
	mux.HandleFunc("GET /v1/orders", h.GetOrders)
	mux.HandleFunc("POST /v1/orders/export", h.PostExport)
}

func (h OrdersHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.GetOrders"

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))

	result, err := h.orders.List(r.Context(), clientID(r), domain.OrdersQuery{
		Page:       page,
		Status:     domain.OrderStatus(query.Get("status")),
		DateAfter:  query.Get("dateAfter"),
		DateBefore: query.Get("dateBefore"),
	})
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}
	writeJSON(w, op, ordersToResponse(result))
}

// PostExport formats the order record from the request body. The
// upstream only lists orders, so the already-fetched record is the
// document source. A fallback notice is surfaced in a response header
// next to the document itself.
func (h OrdersHandler) PostExport(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostExport"
	log := slog.With("op", op)

	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.FormatJSON
	}
	if format != service.FormatJSON && format != service.FormatInvoice {
		http.Error(w, "unknown export format", http.StatusBadRequest)
		return
	}

	var req Order
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}
	if req.ID == 0 {
		http.Error(w, "order id is required", http.StatusBadRequest)
		return
	}

	res, err := h.orders.Export(r.Context(), clientID(r), req.toDomain(), format)
	if err != nil {
		writeUnavailable(w, op, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set(
		"Content-Disposition", `attachment; filename="`+res.Filename+`"`,
	)
	if res.Notice != "" {
		w.Header().Set("X-Export-Notice", res.Notice)
	}
	if _, err := w.Write(res.Data); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
