package service

import (
	"context"
	"fmt"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
)

var _ port.EventsSaver = (*EventsService)(nil)

// EventsService hands consumed client events to durable storage.
type EventsService struct {
	storage port.EventsStorage
}

func NewEventsService(storage port.EventsStorage) EventsService {
	return EventsService{storage}
}

func (s EventsService) SaveEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	const op = "EventsService.SaveEvents"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.StoreEvents(ctx, evts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
