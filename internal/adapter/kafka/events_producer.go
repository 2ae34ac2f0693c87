package kafka

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.EventsProducer = (*ClientEventsProducer)(nil)

// ClientEventsProducer publishes storefront activity events. Records
// are keyed by client id so each client's activity stays ordered.
type ClientEventsProducer struct {
	cl      ProducerClient
	encoder Encoder
}

func NewClientEventsProducer(
	opts ...ProducerOpt,
) (ClientEventsProducer, error) {
	const op = "NewClientEventsProducer"

	if len(opts) != 2 {
		panic(fmt.Errorf("%s: %w", op, ErrTooFewOpts)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return ClientEventsProducer{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	return ClientEventsProducer{options.cl, options.encoder}, nil
}

func (p ClientEventsProducer) Close() {
	const op = "ClientEventsProducer.Close"
	log := slog.With("op", op)
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p ClientEventsProducer) ProduceEvents(
	ctx context.Context, evts []domain.ClientEvent,
) error {
	const op = "ClientEventsProducer.ProduceEvents"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rs, err := p.createRecords(evts)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.produce(ctx, rs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p ClientEventsProducer) createRecords(
	evts []domain.ClientEvent,
) (rs []*kgo.Record, err error) {
	const op = "ClientEventsProducer.createRecords"

	for _, evt := range evts {
		s := eventToSchemaV1(evt)
		v, err := p.encoder.Encode(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r := &kgo.Record{Key: []byte(s.ClientID), Value: v}
		rs = append(rs, r)
	}
	return rs, nil
}

func (p ClientEventsProducer) produce(
	ctx context.Context, rs []*kgo.Record,
) error {
	const op = "ClientEventsProducer.produce"

	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
