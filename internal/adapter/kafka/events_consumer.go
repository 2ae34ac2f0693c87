package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/kiogloss/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

// ClientEventsConsumer drains the activity events topic and hands
// batches to the saver. Offsets are committed only after a poll is
// handled.
type ClientEventsConsumer struct {
	cl       ConsumerClient
	saver    port.EventsSaver
	decoder  Decoder
	errTimer *time.Timer
}

func NewClientEventsConsumer(opts ...ConsumerOpt) ClientEventsConsumer {
	const op = "NewClientEventsConsumer"

	if len(opts) == 0 {
		panic(fmt.Errorf("%s: %w", op, ErrTooFewOpts)) // develop mistake
	}

	var options consumerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			panic(err) // develop mistake
		}
	}

	return ClientEventsConsumer{
		cl:       options.cl,
		saver:    options.saver,
		decoder:  options.decoder,
		errTimer: time.NewTimer(0),
	}
}

func (c ClientEventsConsumer) Close() {
	const op = "ClientEventsConsumer.Close"
	log := slog.With("op", op)

	log.Info("closing consumer...")
	c.errTimer.Stop()
	c.cl.Close()
	log.Info("consumer is closed")
}

func (c ClientEventsConsumer) Run(ctx context.Context) {
	const op = "ClientEventsConsumer.Run"
	log := slog.With("op", op)

	for {
		select {
		case <-ctx.Done():
			return
		default:
			err := c.consume(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					log.Info("context canceled")
					continue
				}
				err = fmt.Errorf("%s: %w", op, err)
				log.Error("failed to consume messages", "err", err)
				c.slowDown()
			}
			err = c.commit(ctx)
			if err != nil {
				log.Error("failed to commit offset", "err", err)
			}
		}
	}
}

func (c ClientEventsConsumer) consume(ctx context.Context) error {
	const op = "ClientEventsConsumer.consume"

	fetches, err := c.pollFetches(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if fetches.Empty() {
		return nil
	}

	evts := c.toEvents(fetches)
	if len(evts) == 0 {
		return nil
	}

	if err := c.saver.SaveEvents(ctx, evts); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c ClientEventsConsumer) commit(ctx context.Context) error {
	const op = "ClientEventsConsumer.commit"

	err := ctx.Err()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = c.cl.CommitUncommittedOffsets(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c ClientEventsConsumer) pollFetches(
	ctx context.Context,
) (kgo.Fetches, error) {
	const op = "ClientEventsConsumer.pollFetches"

	fetches := c.cl.PollFetches(ctx)
	if err := fetches.Err0(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := c.handleErrs(fetches); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return fetches, nil
}

func (c ClientEventsConsumer) handleErrs(fetches kgo.Fetches) error {
	var errsData []string
	fetches.EachError(func(t string, p int32, err error) {
		if err != nil {
			errData := fmt.Sprintf(
				"topic %q partition %d: %q", t, p, err,
			)
			errsData = append(errsData, errData)
		}
	})

	if len(errsData) != 0 {
		return errors.New(strings.Join(errsData, "; "))
	}
	return nil
}

func (c ClientEventsConsumer) toEvents(
	fetches kgo.Fetches,
) (evts []domain.ClientEvent) {
	const op = "ClientEventsConsumer.toEvents"
	log := slog.With("op", op)

	fetches.EachRecord(func(r *kgo.Record) {
		s, err := c.unmarshal(r.Value)
		if err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			log.Error("failed to unmarshal value", "err", err)
			return
		}
		evts = append(evts, eventFromSchemaV1(s))
	})
	return evts
}

func (c ClientEventsConsumer) unmarshal(
	v []byte,
) (s schema.ClientEventV1, err error) {
	const op = "ClientEventsConsumer.unmarshal"

	if err := c.decoder.Decode(v, &s); err != nil {
		return s, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (c ClientEventsConsumer) slowDown() {
	const timeout = 1 * time.Second
	c.errTimer.Reset(timeout)
	<-c.errTimer.C
}
