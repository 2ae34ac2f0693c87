package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/kiogloss/storefront/pkg/invoice"
)

type ExportFormat string

const (
	FormatJSON    ExportFormat = "json"
	FormatInvoice ExportFormat = "invoice"
)

// ExportResult is one downloadable document. Notice carries the
// one-line user-facing message when a requested format degraded to the
// JSON fallback.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Notice      string
}

// OrdersService reads the order history and formats orders for
// download. Orders are read-only here: displayed and exported, never
// mutated.
type OrdersService struct {
	orders port.OrdersProvider
	store  port.ClientStore
	events port.EventsProducer
}

func NewOrdersService(
	orders port.OrdersProvider,
	store port.ClientStore,
	events port.EventsProducer,
) OrdersService {
	return OrdersService{orders, store, events}
}

// List fetches a page of the client's orders. Without a credential
// there is nothing to ask the upstream for: the result is empty.
func (s OrdersService) List(
	ctx context.Context, clientID string, q domain.OrdersQuery,
) (domain.OrderPage, error) {
	const op = "OrdersService.List"

	if err := ctx.Err(); err != nil {
		return domain.OrderPage{}, fmt.Errorf("%s: %w", op, err)
	}

	token, err := s.store.Token(ctx, clientID)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("%s: %w", op, err)
	}
	if token == "" {
		return domain.OrderPage{TotalPages: 1}, nil
	}

	page, err := s.orders.ListOrders(ctx, q, token)
	if err != nil {
		return domain.OrderPage{}, fmt.Errorf("%s: %w", op, err)
	}
	return page, nil
}

// Export formats an in-memory order record. The invoice format falls
// back to the JSON dump with a notice when rendering fails; there is
// no partial-document recovery.
func (s OrdersService) Export(
	ctx context.Context, clientID string, o domain.Order, format ExportFormat,
) (ExportResult, error) {
	const op = "OrdersService.Export"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return ExportResult{}, fmt.Errorf("%s: %w", op, err)
	}

	var res ExportResult
	switch format {
	case FormatInvoice:
		doc, err := invoice.Render(o)
		if err != nil {
			log.Warn("invoice rendering unavailable, serving JSON", "err", err)
			res, err = s.exportJSON(o)
			if err != nil {
				return ExportResult{}, fmt.Errorf("%s: %w", op, err)
			}
			res.Notice = "invoice export unavailable, JSON document attached instead"
		} else {
			res = ExportResult{
				Filename:    fmt.Sprintf("factura-kiogloss-%d.txt", o.ID),
				ContentType: "text/plain; charset=utf-8",
				Data:        doc,
			}
		}
	case FormatJSON:
		var err error
		res, err = s.exportJSON(o)
		if err != nil {
			return ExportResult{}, fmt.Errorf("%s: %w", op, err)
		}
	default:
		return ExportResult{}, fmt.Errorf("%s: unknown format %q", op, format)
	}

	s.emit(ctx, domain.ClientEvent{
		ClientID:   clientID,
		Kind:       domain.EventOrderExport,
		OccurredAt: time.Now(),
	})
	return res, nil
}

func (s OrdersService) exportJSON(o domain.Order) (ExportResult, error) {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{
		Filename:    fmt.Sprintf("order-%d.json", o.ID),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

func (s OrdersService) emit(ctx context.Context, evt domain.ClientEvent) {
	const op = "OrdersService.emit"

	if s.events == nil {
		return
	}
	if err := s.events.ProduceEvents(ctx, []domain.ClientEvent{evt}); err != nil {
		slog.With("op", op).Warn("failed to produce client event", "err", err)
	}
}
