package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/kiogloss/storefront/pkg/schema"
	"github.com/lovoo/goka"
)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A clientEventCodec used for serde [schema.ClientEventV1]
type clientEventCodec struct {
	serde Serde
}

func newClientEventCodec(s Serde) clientEventCodec {
	return clientEventCodec{s}
}

func (c clientEventCodec) Encode(v any) ([]byte, error) {
	const op = "clientEventCodec.Encode"
	if _, ok := v.(schema.ClientEventV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c clientEventCodec) Decode(data []byte) (any, error) {
	const op = "clientEventCodec.Decode"
	var s schema.ClientEventV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A productActivity is the per-product counter kept in the group
// table, keyed by product name.
type productActivity struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Events      int64  `json:"events"`
}

// An activityCodec used for serde [productActivity]
type activityCodec struct{}

func (activityCodec) Encode(v any) ([]byte, error) {
	const op = "activityCodec.Encode"
	a, ok := v.(productActivity)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return json.Marshal(a)
}

func (activityCodec) Decode(data []byte) (any, error) {
	const op = "activityCodec.Decode"
	var a productActivity
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, opErr(err, op)
	}
	return a, nil
}

// A TrendingProcessor counts product-related activity events into the
// trending group table. The events stream is keyed by client id, so
// product events are re-keyed by product name through the loopback
// before counting.
type TrendingProcessor struct {
	opPrefix string
	proc     processor
}

func NewTrendingProc(
	seedBrokers []string,
	inputStream string,
	group string,
	eventSerde Serde,
) (*TrendingProcessor, error) {
	const op = "NewTrendingProc"

	var p TrendingProcessor

	eventCodec := newClientEventCodec(eventSerde)

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(goka.Stream(inputStream), eventCodec, p.processFn),
		goka.Loop(eventCodec, p.countFn),
		goka.Persist(activityCodec{}),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: "TrendingProcessor",
		gp:       gp,
	}
	return &p, nil
}

func (p *TrendingProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *TrendingProcessor) Close() {
	p.proc.close()
}

func (p *TrendingProcessor) processFn(ctx goka.Context, msg any) {
	event, _ := msg.(schema.ClientEventV1)
	if event.ProductName == "" {
		return
	}
	ctx.Loopback(event.ProductName, event)
}

func (p *TrendingProcessor) countFn(ctx goka.Context, msg any) {
	const op = "countFn"
	log := slog.With("op", makeOp(p.opPrefix, op))

	event, _ := msg.(schema.ClientEventV1)

	activity := productActivity{
		ProductID:   event.ProductID,
		ProductName: event.ProductName,
	}
	if v, ok := ctx.Value().(productActivity); ok {
		activity = v
	}
	activity.Events++
	ctx.SetValue(activity)

	log.Info(
		"counted product event",
		"productName", activity.ProductName,
		"events", activity.Events,
	)
}
