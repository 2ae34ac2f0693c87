package kafka

import (
	"context"
	"log/slog"
	"sort"

	"github.com/kiogloss/storefront/internal/core/domain"
	"github.com/kiogloss/storefront/internal/core/port"
	"github.com/lovoo/goka"
)

var _ port.TrendingProvider = (*TrendingView)(nil)

// A TrendingView reads the trending group table and serves the most
// active products.
type TrendingView struct {
	gv *goka.View
}

func NewTrendingView(
	seedBrokers []string, group string,
) (*TrendingView, error) {
	const op = "NewTrendingView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		activityCodec{},
	)
	if err != nil {
		return nil, opErr(err, op)
	}
	return &TrendingView{gv}, nil
}

func (v *TrendingView) Run(ctx context.Context) {
	const op = "TrendingView.Run"
	log := slog.With("op", op)

	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// TopProducts returns up to n products ordered by activity count,
// most active first.
func (v *TrendingView) TopProducts(
	_ context.Context, n int,
) ([]domain.ProductActivity, error) {
	const op = "TrendingView.TopProducts"

	it, err := v.gv.Iterator()
	if err != nil {
		return nil, opErr(err, op)
	}
	defer it.Release()

	var all []domain.ProductActivity
	for it.Next() {
		val, err := it.Value()
		if err != nil {
			return nil, opErr(err, op)
		}
		a, ok := val.(productActivity)
		if !ok {
			continue
		}
		all = append(all, domain.ProductActivity{
			ProductID:   a.ProductID,
			ProductName: a.ProductName,
			Events:      a.Events,
		})
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Events > all[j].Events
	})
	if n > 0 && len(all) > n {
		all = all[:n]
	}
	return all, nil
}
