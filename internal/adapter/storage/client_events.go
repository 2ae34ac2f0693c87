package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
)

var _ port.EventsStorage = (*ClientEventsRepository)(nil)

// ClientEventsRepository appends consumed activity events. The table
// is insert-only; events are immutable facts.
type ClientEventsRepository struct {
	sqldb sqldb
}

func NewClientEventsRepository(sqldb sqldb) ClientEventsRepository {
	return ClientEventsRepository{sqldb}
}

func (r ClientEventsRepository) StoreEvents(
	ctx context.Context, vs []domain.ClientEvent,
) (storeErr error) {
	const op = "ClientEventsRepository.StoreEvents"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO client_events (
			client_id, kind, product_id, product_name, search, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, v := range vs {
		_, err := stmt.ExecContext(ctx,
			v.ClientID, string(v.Kind), v.ProductID,
			v.ProductName, v.Search, v.OccurredAt,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
